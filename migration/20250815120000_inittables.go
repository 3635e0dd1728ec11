package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInitTables, downInitTables)
}

func upInitTables(ctx context.Context, tx *sql.Tx) error {
	// Create families table
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE families (
			id UUID PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return err
	}

	// Create vehicles table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE vehicles (
			id UUID PRIMARY KEY,
			family_id UUID NOT NULL,
			name VARCHAR(100) NOT NULL,
			make VARCHAR(100) NOT NULL,
			model VARCHAR(100) NOT NULL,
			year INTEGER NOT NULL,
			vin VARCHAR(100),
			license_plate VARCHAR(20),
			tracking_unit VARCHAR(10) NOT NULL,
			starting_reading NUMERIC(10,1),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_vehicles_family
				FOREIGN KEY(family_id)
				REFERENCES families(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_vehicles_family_id ON vehicles(family_id);`)
	if err != nil {
		return err
	}

	// Create maintenance_categories table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE maintenance_categories (
			id UUID PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return err
	}

	// Create locations table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE locations (
			id UUID PRIMARY KEY,
			family_id UUID NOT NULL,
			name VARCHAR(100) NOT NULL,
			address VARCHAR(200),
			latitude NUMERIC(9,6),
			longitude NUMERIC(9,6),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_locations_family
				FOREIGN KEY(family_id)
				REFERENCES families(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_locations_family_id ON locations(family_id);`)
	if err != nil {
		return err
	}

	// Create usage_events table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE usage_events (
			id UUID PRIMARY KEY,
			vehicle_id UUID NOT NULL,
			kind VARCHAR(15) NOT NULL,
			date DATE NOT NULL,
			notes TEXT,
			distance NUMERIC(10,1),
			hours NUMERIC(8,2),
			fuel_quantity NUMERIC(6,3),
			unit_price NUMERIC(5,3),
			total_cost NUMERIC(8,2),
			distance_efficiency NUMERIC(8,2),
			time_efficiency NUMERIC(8,2),
			category_id UUID,
			location_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_usage_events_vehicle
				FOREIGN KEY(vehicle_id)
				REFERENCES vehicles(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE,
			CONSTRAINT fk_usage_events_category
				FOREIGN KEY(category_id)
				REFERENCES maintenance_categories(id)
				ON UPDATE CASCADE
				ON DELETE SET NULL,
			CONSTRAINT fk_usage_events_location
				FOREIGN KEY(location_id)
				REFERENCES locations(id)
				ON UPDATE CASCADE
				ON DELETE SET NULL
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_usage_events_vehicle_date ON usage_events(vehicle_id, date);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_usage_events_kind ON usage_events(kind);`)
	if err != nil {
		return err
	}

	// Create maintenance_schedules table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE maintenance_schedules (
			id UUID PRIMARY KEY,
			vehicle_id UUID NOT NULL,
			category_id UUID NOT NULL,
			name VARCHAR(200) NOT NULL,
			description TEXT,
			interval_days INTEGER,
			interval_distance INTEGER,
			interval_hours INTEGER,
			last_performed DATE,
			last_distance NUMERIC(10,1),
			last_hours NUMERIC(8,2),
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_maintenance_schedules_vehicle
				FOREIGN KEY(vehicle_id)
				REFERENCES vehicles(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE,
			CONSTRAINT fk_maintenance_schedules_category
				FOREIGN KEY(category_id)
				REFERENCES maintenance_categories(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_maintenance_schedules_vehicle_id ON maintenance_schedules(vehicle_id);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_maintenance_schedules_category_id ON maintenance_schedules(category_id);`)
	if err != nil {
		return err
	}

	// Create todo_items table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE todo_items (
			id UUID PRIMARY KEY,
			family_id UUID NOT NULL,
			vehicle_id UUID,
			title VARCHAR(200) NOT NULL,
			description TEXT,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			priority INTEGER NOT NULL DEFAULT 0,
			due_date DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_todo_items_family
				FOREIGN KEY(family_id)
				REFERENCES families(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE,
			CONSTRAINT fk_todo_items_vehicle
				FOREIGN KEY(vehicle_id)
				REFERENCES vehicles(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_todo_items_family_id ON todo_items(family_id);`)
	return err
}

func downInitTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{
		"todo_items",
		"maintenance_schedules",
		"usage_events",
		"locations",
		"maintenance_categories",
		"vehicles",
		"families",
	} {
		if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+table+`;`); err != nil {
			return err
		}
	}
	return nil
}

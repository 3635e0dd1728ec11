package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upSeedCategories, downSeedCategories)
}

// The standard set of maintenance categories every deployment starts with.
var seedCategories = []struct {
	name        string
	description string
}{
	{"Oil Change", "Regular oil and filter change to maintain engine performance"},
	{"Brake Service", "Maintenance of brake pads, rotors, and fluid"},
	{"Tire Rotation", "Rotating tires to ensure even wear"},
	{"Tire Replacement", "Replacing tires when worn or damaged"},
	{"Air Filter Replacement", "Replacing engine air filter"},
	{"Cabin Filter Replacement", "Replacing cabin air filter"},
	{"Battery Replacement", "Replacing vehicle battery"},
	{"Transmission Service", "Fluid change and transmission maintenance"},
	{"Cooling System Service", "Coolant flush and radiator maintenance"},
	{"Spark Plug Replacement", "Replacing spark plugs"},
	{"Fuel System Service", "Cleaning or servicing fuel injectors and system"},
	{"Timing Belt Replacement", "Replacing timing belt/chain"},
	{"Suspension Service", "Maintenance of shocks, struts and suspension components"},
	{"Wheel Alignment", "Aligning wheels for proper handling"},
	{"Wiper Blade Replacement", "Replacing windshield wiper blades"},
	{"Light Bulb Replacement", "Replacing headlights, taillights or other bulbs"},
	{"Engine Tune-up", "General engine maintenance and tuning"},
	{"State Inspection", "Annual/biannual state safety or emissions inspection"},
	{"Registration Renewal", "Renewing vehicle registration"},
}

func upSeedCategories(ctx context.Context, tx *sql.Tx) error {
	for _, category := range seedCategories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO maintenance_categories (id, name, description)
			VALUES (gen_random_uuid(), $1, $2)
			ON CONFLICT (name) DO NOTHING;
		`, category.name, category.description)
		if err != nil {
			return err
		}
	}
	return nil
}

func downSeedCategories(ctx context.Context, tx *sql.Tx) error {
	for _, category := range seedCategories {
		if _, err := tx.ExecContext(ctx, `DELETE FROM maintenance_categories WHERE name = $1;`, category.name); err != nil {
			return err
		}
	}
	return nil
}

package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is wrapped by implementations whenever a referenced entity does
// not exist, so callers can distinguish bad references from storage failures.
var ErrNotFound = errors.New("not found")

// FleetDBWrapper is the storage interface of the tracker. Postgres (db/pg)
// backs the real deployment; an in-memory implementation (db/mem) backs tests
// and dev mode.
type FleetDBWrapper interface {
	// Family
	CreateFamily(family *Family) error
	GetFamily(id uuid.UUID) (*Family, error)

	// Vehicle
	CreateVehicle(vehicle *Vehicle) error
	GetVehicle(id uuid.UUID) (*Vehicle, error)
	ListFamilyVehicles(familyID uuid.UUID) ([]Vehicle, error)
	UpdateVehicle(vehicle *Vehicle) error
	DeleteVehicle(id uuid.UUID) error

	// Usage events
	CreateUsageEvent(event *UsageEvent) error
	GetUsageEvent(id uuid.UUID) (*UsageEvent, error)
	// ListVehicleEvents returns the vehicle's ledger ordered by (date, created_at).
	ListVehicleEvents(vehicleID uuid.UUID) ([]UsageEvent, error)
	DeleteUsageEvent(id uuid.UUID) error
	// LatestFuelFillBefore returns the most recent fuel event strictly before
	// date; same-date ties resolve to the most recently created. (nil, nil)
	// when the vehicle has no earlier fuel event.
	LatestFuelFillBefore(vehicleID uuid.UUID, date time.Time) (*UsageEvent, error)
	// LatestEvent returns the vehicle's most recent event of any kind by
	// (date, created_at), or (nil, nil) when the ledger is empty.
	LatestEvent(vehicleID uuid.UUID) (*UsageEvent, error)

	// Maintenance schedules
	CreateSchedule(schedule *MaintenanceSchedule) error
	GetSchedule(id uuid.UUID) (*MaintenanceSchedule, error)
	ListVehicleSchedules(vehicleID uuid.UUID) ([]MaintenanceSchedule, error)
	UpdateSchedule(schedule *MaintenanceSchedule) error
	DeleteSchedule(id uuid.UUID) error
	// ListActiveSchedules returns the active schedules of a vehicle for one
	// maintenance category; the checkpoint cascade's working set.
	ListActiveSchedules(vehicleID, categoryID uuid.UUID) ([]MaintenanceSchedule, error)
	// AdvanceScheduleCheckpoint persists only the checkpoint fields
	// (last_performed, last_distance, last_hours).
	AdvanceScheduleCheckpoint(schedule *MaintenanceSchedule) error

	// Maintenance categories
	CreateCategory(category *MaintenanceCategory) error
	GetCategory(id uuid.UUID) (*MaintenanceCategory, error)
	ListCategories() ([]MaintenanceCategory, error)

	// Locations
	CreateLocation(location *Location) error
	GetLocation(id uuid.UUID) (*Location, error)
	ListFamilyLocations(familyID uuid.UUID) ([]Location, error)

	// Todo items
	CreateTodo(todo *TodoItem) error
	GetTodo(id uuid.UUID) (*TodoItem, error)
	ListFamilyTodos(familyID uuid.UUID) ([]TodoItem, error)
	UpdateTodo(todo *TodoItem) error
	DeleteTodo(id uuid.UUID) error

	// Aggregates
	VehicleStats(vehicleID uuid.UUID) (*VehicleStats, error)

	// Data loader backends (batched per-request reads for the dashboard)
	DataLoaderGetVehicleSchedules(ctx context.Context, vehicleIDs []uuid.UUID) (map[uuid.UUID][]MaintenanceSchedule, error)
	DataLoaderGetLatestEvents(ctx context.Context, vehicleIDs []uuid.UUID) (map[uuid.UUID]*UsageEvent, error)
	DataLoaderGetCategories(ctx context.Context, categoryIDs []uuid.UUID) (map[uuid.UUID]*MaintenanceCategory, error)
}

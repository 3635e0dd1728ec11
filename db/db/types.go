package db

import (
	"time"

	"github.com/google/uuid"

	"vmt/engine"
)

// EventKind classifies a usage-ledger entry.
type EventKind string

const (
	KindFuel        EventKind = "fuel"
	KindMaintenance EventKind = "maintenance"
	KindOuting      EventKind = "outing"
)

// Valid reports whether the kind is one of the known event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case KindFuel, KindMaintenance, KindOuting:
		return true
	}
	return false
}

// Family is the household owning vehicles, locations and todo items.
// Membership and access checks live outside this layer.
type Family struct {
	ID   uuid.UUID
	Name string
}

type Vehicle struct {
	ID           uuid.UUID
	FamilyID     uuid.UUID
	Name         string
	Make         string
	Model        string
	Year         int
	VIN          string
	LicensePlate string
	// Unit is immutable policy: it decides which event fields and schedule
	// intervals are meaningful for this vehicle.
	Unit engine.TrackingUnit
	// StartingReading is the odometer value when the vehicle joined the
	// tracker; it anchors the first fill-up's efficiency on distance vehicles.
	StartingReading *float64
}

type MaintenanceCategory struct {
	ID          uuid.UUID
	Name        string
	Description string
}

type Location struct {
	ID        uuid.UUID
	FamilyID  uuid.UUID
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// UsageEvent is one dated entry in a vehicle's usage ledger. Events for a
// vehicle are totally ordered by (Date, CreatedAt). The efficiency fields are
// derived once at save time and read back verbatim afterwards.
type UsageEvent struct {
	ID        uuid.UUID
	VehicleID uuid.UUID
	Kind      EventKind
	Date      time.Time
	Notes     string

	Distance *float64
	Hours    *float64

	FuelQuantity *float64
	UnitPrice    *float64
	TotalCost    *float64

	DistanceEfficiency *float64
	TimeEfficiency     *float64

	CategoryID *uuid.UUID
	LocationID *uuid.UUID

	CreatedAt time.Time
}

// MaintenanceSchedule is a recurring maintenance policy attached to a vehicle.
// Its checkpoint fields are advanced by the maintenance-performed cascade and
// never edited directly by handlers.
type MaintenanceSchedule struct {
	ID          uuid.UUID
	VehicleID   uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Description string

	IntervalDays     *int
	IntervalDistance *int
	IntervalHours    *int

	LastPerformed *time.Time
	LastDistance  *float64
	LastHours     *float64

	Active bool
}

// Engine converts the persisted schedule into the pure evaluation form.
func (s *MaintenanceSchedule) Engine() engine.Schedule {
	return engine.Schedule{
		IntervalDays:     s.IntervalDays,
		IntervalDistance: s.IntervalDistance,
		IntervalHours:    s.IntervalHours,
		LastPerformed:    s.LastPerformed,
		LastDistance:     s.LastDistance,
		LastHours:        s.LastHours,
	}
}

type TodoItem struct {
	ID          uuid.UUID
	FamilyID    uuid.UUID
	VehicleID   *uuid.UUID
	Title       string
	Description string
	Completed   bool
	Priority    int
	DueDate     *time.Time
	CreatedAt   time.Time
}

// VehicleStats is the aggregate block backing the vehicle stats endpoint.
type VehicleStats struct {
	EventCount       int64
	MaintenanceCount int64
	FuelCount        int64
	MaintenanceCost  float64
	FuelCost         float64
}

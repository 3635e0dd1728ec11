package pg

import (
	"time"

	"github.com/google/uuid"
)

type FamilyModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:100;not null"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FamilyModel) TableName() string {
	return "families"
}

type VehicleModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	FamilyID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"size:100;not null"`
	Make            string    `gorm:"size:100;not null"`
	Model           string    `gorm:"size:100;not null"`
	Year            int       `gorm:"not null"`
	VIN             string    `gorm:"size:100"`
	LicensePlate    string    `gorm:"size:20"`
	TrackingUnit    string    `gorm:"size:10;not null"` // "miles" or "hours"
	StartingReading *float64  `gorm:"type:numeric(10,1)"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VehicleModel) TableName() string {
	return "vehicles"
}

type MaintenanceCategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MaintenanceCategoryModel) TableName() string {
	return "maintenance_categories"
}

type LocationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FamilyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:100;not null"`
	Address   string    `gorm:"size:200"`
	Latitude  *float64  `gorm:"type:numeric(9,6)"`
	Longitude *float64  `gorm:"type:numeric(9,6)"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LocationModel) TableName() string {
	return "locations"
}

type UsageEventModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null;index:idx_usage_events_vehicle_date"`
	Kind      string    `gorm:"size:15;not null;index"`
	Date      time.Time `gorm:"type:date;not null;index:idx_usage_events_vehicle_date"`
	Notes     string    `gorm:"type:text"`

	Distance *float64 `gorm:"type:numeric(10,1)"`
	Hours    *float64 `gorm:"type:numeric(8,2)"`

	FuelQuantity *float64 `gorm:"type:numeric(6,3)"`
	UnitPrice    *float64 `gorm:"type:numeric(5,3)"`
	TotalCost    *float64 `gorm:"type:numeric(8,2)"`

	DistanceEfficiency *float64 `gorm:"type:numeric(8,2)"`
	TimeEfficiency     *float64 `gorm:"type:numeric(8,2)"`

	CategoryID *uuid.UUID `gorm:"type:uuid"`
	LocationID *uuid.UUID `gorm:"type:uuid"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UsageEventModel) TableName() string {
	return "usage_events"
}

type MaintenanceScheduleModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	VehicleID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`

	IntervalDays     *int
	IntervalDistance *int
	IntervalHours    *int

	LastPerformed *time.Time `gorm:"type:date"`
	LastDistance  *float64   `gorm:"type:numeric(10,1)"`
	LastHours     *float64   `gorm:"type:numeric(8,2)"`

	Active bool `gorm:"not null;default:true"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MaintenanceScheduleModel) TableName() string {
	return "maintenance_schedules"
}

type TodoItemModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FamilyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	VehicleID   *uuid.UUID `gorm:"type:uuid"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"type:text"`
	Completed   bool       `gorm:"not null;default:false"`
	Priority    int        `gorm:"not null;default:0"`
	DueDate     *time.Time `gorm:"type:date"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TodoItemModel) TableName() string {
	return "todo_items"
}

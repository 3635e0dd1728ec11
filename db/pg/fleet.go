package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbt "vmt/db/db"
	"vmt/engine"
)

// GORMFleetDBWrapper is a GORM-based PostgreSQL implementation of dbt.FleetDBWrapper.
type GORMFleetDBWrapper struct {
	db *gorm.DB
}

// NewGORMFleetDBWrapper creates and returns a new instance of GORMFleetDBWrapper.
func NewGORMFleetDBWrapper(db *gorm.DB) dbt.FleetDBWrapper {
	return &GORMFleetDBWrapper{
		db: db,
	}
}

func isDuplicateErr(err error) bool {
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func isForeignKeyErr(err error) bool {
	return strings.Contains(err.Error(), "violates foreign key constraint")
}

// ---- model conversions ----

func vehicleToModel(v *dbt.Vehicle) VehicleModel {
	return VehicleModel{
		ID:              v.ID,
		FamilyID:        v.FamilyID,
		Name:            v.Name,
		Make:            v.Make,
		Model:           v.Model,
		Year:            v.Year,
		VIN:             v.VIN,
		LicensePlate:    v.LicensePlate,
		TrackingUnit:    v.Unit.String(),
		StartingReading: v.StartingReading,
	}
}

func vehicleFromModel(m *VehicleModel) (*dbt.Vehicle, error) {
	unit, err := engine.ParseTrackingUnit(m.TrackingUnit)
	if err != nil {
		return nil, fmt.Errorf("vehicle %s: %w", m.ID, err)
	}
	return &dbt.Vehicle{
		ID:              m.ID,
		FamilyID:        m.FamilyID,
		Name:            m.Name,
		Make:            m.Make,
		Model:           m.Model,
		Year:            m.Year,
		VIN:             m.VIN,
		LicensePlate:    m.LicensePlate,
		Unit:            unit,
		StartingReading: m.StartingReading,
	}, nil
}

func eventToModel(e *dbt.UsageEvent) UsageEventModel {
	return UsageEventModel{
		ID:                 e.ID,
		VehicleID:          e.VehicleID,
		Kind:               string(e.Kind),
		Date:               e.Date,
		Notes:              e.Notes,
		Distance:           e.Distance,
		Hours:              e.Hours,
		FuelQuantity:       e.FuelQuantity,
		UnitPrice:          e.UnitPrice,
		TotalCost:          e.TotalCost,
		DistanceEfficiency: e.DistanceEfficiency,
		TimeEfficiency:     e.TimeEfficiency,
		CategoryID:         e.CategoryID,
		LocationID:         e.LocationID,
		CreatedAt:          e.CreatedAt,
	}
}

func eventFromModel(m *UsageEventModel) *dbt.UsageEvent {
	return &dbt.UsageEvent{
		ID:                 m.ID,
		VehicleID:          m.VehicleID,
		Kind:               dbt.EventKind(m.Kind),
		Date:               m.Date,
		Notes:              m.Notes,
		Distance:           m.Distance,
		Hours:              m.Hours,
		FuelQuantity:       m.FuelQuantity,
		UnitPrice:          m.UnitPrice,
		TotalCost:          m.TotalCost,
		DistanceEfficiency: m.DistanceEfficiency,
		TimeEfficiency:     m.TimeEfficiency,
		CategoryID:         m.CategoryID,
		LocationID:         m.LocationID,
		CreatedAt:          m.CreatedAt,
	}
}

func scheduleToModel(s *dbt.MaintenanceSchedule) MaintenanceScheduleModel {
	return MaintenanceScheduleModel{
		ID:               s.ID,
		VehicleID:        s.VehicleID,
		CategoryID:       s.CategoryID,
		Name:             s.Name,
		Description:      s.Description,
		IntervalDays:     s.IntervalDays,
		IntervalDistance: s.IntervalDistance,
		IntervalHours:    s.IntervalHours,
		LastPerformed:    s.LastPerformed,
		LastDistance:     s.LastDistance,
		LastHours:        s.LastHours,
		Active:           s.Active,
	}
}

func scheduleFromModel(m *MaintenanceScheduleModel) *dbt.MaintenanceSchedule {
	return &dbt.MaintenanceSchedule{
		ID:               m.ID,
		VehicleID:        m.VehicleID,
		CategoryID:       m.CategoryID,
		Name:             m.Name,
		Description:      m.Description,
		IntervalDays:     m.IntervalDays,
		IntervalDistance: m.IntervalDistance,
		IntervalHours:    m.IntervalHours,
		LastPerformed:    m.LastPerformed,
		LastDistance:     m.LastDistance,
		LastHours:        m.LastHours,
		Active:           m.Active,
	}
}

// ---- family ----

func (pgdb *GORMFleetDBWrapper) CreateFamily(family *dbt.Family) error {
	model := FamilyModel{ID: family.ID, Name: family.Name}
	result := pgdb.db.Create(&model)
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return fmt.Errorf("family with ID %s already exists: %w", family.ID, result.Error)
		}
		return fmt.Errorf("failed to create family: %w", result.Error)
	}
	return nil
}

func (pgdb *GORMFleetDBWrapper) GetFamily(id uuid.UUID) (*dbt.Family, error) {
	var model FamilyModel
	result := pgdb.db.First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("family %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get family %s: %w", id, result.Error)
	}
	return &dbt.Family{ID: model.ID, Name: model.Name}, nil
}

// ---- vehicle ----

func (pgdb *GORMFleetDBWrapper) CreateVehicle(vehicle *dbt.Vehicle) error {
	model := vehicleToModel(vehicle)
	result := pgdb.db.Create(&model)
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return fmt.Errorf("vehicle with ID %s already exists: %w", vehicle.ID, result.Error)
		}
		if isForeignKeyErr(result.Error) {
			return fmt.Errorf("family %s not found for vehicle: %w", vehicle.FamilyID, result.Error)
		}
		return fmt.Errorf("failed to create vehicle: %w", result.Error)
	}
	return nil
}

func (pgdb *GORMFleetDBWrapper) GetVehicle(id uuid.UUID) (*dbt.Vehicle, error) {
	var model VehicleModel
	result := pgdb.db.First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vehicle %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle %s: %w", id, result.Error)
	}
	return vehicleFromModel(&model)
}

func (pgdb *GORMFleetDBWrapper) ListFamilyVehicles(familyID uuid.UUID) ([]dbt.Vehicle, error) {
	var models []VehicleModel
	result := pgdb.db.Where("family_id = ?", familyID).Order("name").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list vehicles for family %s: %w", familyID, result.Error)
	}

	vehicles := make([]dbt.Vehicle, 0, len(models))
	for i := range models {
		v, err := vehicleFromModel(&models[i])
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, nil
}

func (pgdb *GORMFleetDBWrapper) UpdateVehicle(vehicle *dbt.Vehicle) error {
	model := vehicleToModel(vehicle)
	result := pgdb.db.Model(&model).
		Select("name", "make", "model", "year", "vin", "license_plate", "starting_reading").
		Where("id = ?", vehicle.ID).Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle %s: %w", vehicle.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("vehicle %s: %w", vehicle.ID, dbt.ErrNotFound)
	}
	return nil
}

func (pgdb *GORMFleetDBWrapper) DeleteVehicle(id uuid.UUID) error {
	result := pgdb.db.Delete(&VehicleModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete vehicle %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("vehicle %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}

// ---- usage events ----

func (pgdb *GORMFleetDBWrapper) CreateUsageEvent(event *dbt.UsageEvent) error {
	model := eventToModel(event)
	result := pgdb.db.Create(&model)
	if result.Error != nil {
		if isForeignKeyErr(result.Error) {
			return fmt.Errorf("vehicle %s not found for event: %w", event.VehicleID, result.Error)
		}
		return fmt.Errorf("failed to create usage event: %w", result.Error)
	}
	event.CreatedAt = model.CreatedAt
	return nil
}

func (pgdb *GORMFleetDBWrapper) GetUsageEvent(id uuid.UUID) (*dbt.UsageEvent, error) {
	var model UsageEventModel
	result := pgdb.db.First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("usage event %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get usage event %s: %w", id, result.Error)
	}
	return eventFromModel(&model), nil
}

func (pgdb *GORMFleetDBWrapper) ListVehicleEvents(vehicleID uuid.UUID) ([]dbt.UsageEvent, error) {
	var models []UsageEventModel
	result := pgdb.db.Where("vehicle_id = ?", vehicleID).
		Order("date, created_at").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list events for vehicle %s: %w", vehicleID, result.Error)
	}

	events := make([]dbt.UsageEvent, 0, len(models))
	for i := range models {
		events = append(events, *eventFromModel(&models[i]))
	}
	return events, nil
}

func (pgdb *GORMFleetDBWrapper) DeleteUsageEvent(id uuid.UUID) error {
	result := pgdb.db.Delete(&UsageEventModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete usage event %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("usage event %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}

func (pgdb *GORMFleetDBWrapper) LatestFuelFillBefore(vehicleID uuid.UUID, date time.Time) (*dbt.UsageEvent, error) {
	var model UsageEventModel
	result := pgdb.db.Where("vehicle_id = ? AND kind = ? AND date < ?", vehicleID, string(dbt.KindFuel), date).
		Order("date DESC, created_at DESC").First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find prior fuel event for vehicle %s: %w", vehicleID, result.Error)
	}
	return eventFromModel(&model), nil
}

func (pgdb *GORMFleetDBWrapper) LatestEvent(vehicleID uuid.UUID) (*dbt.UsageEvent, error) {
	var model UsageEventModel
	result := pgdb.db.Where("vehicle_id = ?", vehicleID).
		Order("date DESC, created_at DESC").First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest event for vehicle %s: %w", vehicleID, result.Error)
	}
	return eventFromModel(&model), nil
}

// ---- maintenance schedules ----

func (pgdb *GORMFleetDBWrapper) CreateSchedule(schedule *dbt.MaintenanceSchedule) error {
	model := scheduleToModel(schedule)
	result := pgdb.db.Create(&model)
	if result.Error != nil {
		if isForeignKeyErr(result.Error) {
			return fmt.Errorf("vehicle %s or category %s not found for schedule: %w",
				schedule.VehicleID, schedule.CategoryID, result.Error)
		}
		return fmt.Errorf("failed to create schedule: %w", result.Error)
	}
	return nil
}

func (pgdb *GORMFleetDBWrapper) GetSchedule(id uuid.UUID) (*dbt.MaintenanceSchedule, error) {
	var model MaintenanceScheduleModel
	result := pgdb.db.First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("schedule %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get schedule %s: %w", id, result.Error)
	}
	return scheduleFromModel(&model), nil
}

func (pgdb *GORMFleetDBWrapper) ListVehicleSchedules(vehicleID uuid.UUID) ([]dbt.MaintenanceSchedule, error) {
	var models []MaintenanceScheduleModel
	result := pgdb.db.Where("vehicle_id = ?", vehicleID).Order("name").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list schedules for vehicle %s: %w", vehicleID, result.Error)
	}

	schedules := make([]dbt.MaintenanceSchedule, 0, len(models))
	for i := range models {
		schedules = append(schedules, *scheduleFromModel(&models[i]))
	}
	return schedules, nil
}

func (pgdb *GORMFleetDBWrapper) UpdateSchedule(schedule *dbt.MaintenanceSchedule) error {
	model := scheduleToModel(schedule)
	result := pgdb.db.Model(&model).
		Select("name", "description", "interval_days", "interval_distance", "interval_hours", "active").
		Where("id = ?", schedule.ID).Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update schedule %s: %w", schedule.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("schedule %s: %w", schedule.ID, dbt.ErrNotFound)
	}
	return nil
}

func (pgdb *GORMFleetDBWrapper) DeleteSchedule(id uuid.UUID) error {
	result := pgdb.db.Delete(&MaintenanceScheduleModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete schedule %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("schedule %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}

func (pgdb *GORMFleetDBWrapper) ListActiveSchedules(vehicleID, categoryID uuid.UUID) ([]dbt.MaintenanceSchedule, error) {
	var models []MaintenanceScheduleModel
	result := pgdb.db.Where("vehicle_id = ? AND category_id = ? AND active = true", vehicleID, categoryID).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active schedules for vehicle %s: %w", vehicleID, result.Error)
	}

	schedules := make([]dbt.MaintenanceSchedule, 0, len(models))
	for i := range models {
		schedules = append(schedules, *scheduleFromModel(&models[i]))
	}
	return schedules, nil
}

func (pgdb *GORMFleetDBWrapper) AdvanceScheduleCheckpoint(schedule *dbt.MaintenanceSchedule) error {
	model := scheduleToModel(schedule)
	result := pgdb.db.Model(&model).
		Select("last_performed", "last_distance", "last_hours").
		Where("id = ?", schedule.ID).Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to advance checkpoint for schedule %s: %w", schedule.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("schedule %s: %w", schedule.ID, dbt.ErrNotFound)
	}
	return nil
}

// ---- maintenance categories ----

func (pgdb *GORMFleetDBWrapper) CreateCategory(category *dbt.MaintenanceCategory) error {
	model := MaintenanceCategoryModel{ID: category.ID, Name: category.Name, Description: category.Description}
	result := pgdb.db.Create(&model)
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return fmt.Errorf("category %q already exists: %w", category.Name, result.Error)
		}
		return fmt.Errorf("failed to create category: %w", result.Error)
	}
	return nil
}

func (pgdb *GORMFleetDBWrapper) GetCategory(id uuid.UUID) (*dbt.MaintenanceCategory, error) {
	var model MaintenanceCategoryModel
	result := pgdb.db.First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category %s: %w", id, result.Error)
	}
	return &dbt.MaintenanceCategory{ID: model.ID, Name: model.Name, Description: model.Description}, nil
}

func (pgdb *GORMFleetDBWrapper) ListCategories() ([]dbt.MaintenanceCategory, error) {
	var models []MaintenanceCategoryModel
	result := pgdb.db.Order("name").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list categories: %w", result.Error)
	}

	categories := make([]dbt.MaintenanceCategory, 0, len(models))
	for _, m := range models {
		categories = append(categories, dbt.MaintenanceCategory{ID: m.ID, Name: m.Name, Description: m.Description})
	}
	return categories, nil
}

// ---- locations ----

func (pgdb *GORMFleetDBWrapper) CreateLocation(location *dbt.Location) error {
	model := LocationModel{
		ID:        location.ID,
		FamilyID:  location.FamilyID,
		Name:      location.Name,
		Address:   location.Address,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
	}
	result := pgdb.db.Create(&model)
	if result.Error != nil {
		if isForeignKeyErr(result.Error) {
			return fmt.Errorf("family %s not found for location: %w", location.FamilyID, result.Error)
		}
		return fmt.Errorf("failed to create location: %w", result.Error)
	}
	return nil
}

func (pgdb *GORMFleetDBWrapper) GetLocation(id uuid.UUID) (*dbt.Location, error) {
	var model LocationModel
	result := pgdb.db.First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("location %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get location %s: %w", id, result.Error)
	}
	return &dbt.Location{
		ID:        model.ID,
		FamilyID:  model.FamilyID,
		Name:      model.Name,
		Address:   model.Address,
		Latitude:  model.Latitude,
		Longitude: model.Longitude,
	}, nil
}

func (pgdb *GORMFleetDBWrapper) ListFamilyLocations(familyID uuid.UUID) ([]dbt.Location, error) {
	var models []LocationModel
	result := pgdb.db.Where("family_id = ?", familyID).Order("name").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list locations for family %s: %w", familyID, result.Error)
	}

	locations := make([]dbt.Location, 0, len(models))
	for _, m := range models {
		locations = append(locations, dbt.Location{
			ID:        m.ID,
			FamilyID:  m.FamilyID,
			Name:      m.Name,
			Address:   m.Address,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		})
	}
	return locations, nil
}

// ---- todo items ----

func (pgdb *GORMFleetDBWrapper) CreateTodo(todo *dbt.TodoItem) error {
	model := TodoItemModel{
		ID:          todo.ID,
		FamilyID:    todo.FamilyID,
		VehicleID:   todo.VehicleID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		Priority:    todo.Priority,
		DueDate:     todo.DueDate,
	}
	result := pgdb.db.Create(&model)
	if result.Error != nil {
		if isForeignKeyErr(result.Error) {
			return fmt.Errorf("family %s not found for todo: %w", todo.FamilyID, result.Error)
		}
		return fmt.Errorf("failed to create todo: %w", result.Error)
	}
	todo.CreatedAt = model.CreatedAt
	return nil
}

func todoFromModel(m *TodoItemModel) *dbt.TodoItem {
	return &dbt.TodoItem{
		ID:          m.ID,
		FamilyID:    m.FamilyID,
		VehicleID:   m.VehicleID,
		Title:       m.Title,
		Description: m.Description,
		Completed:   m.Completed,
		Priority:    m.Priority,
		DueDate:     m.DueDate,
		CreatedAt:   m.CreatedAt,
	}
}

func (pgdb *GORMFleetDBWrapper) GetTodo(id uuid.UUID) (*dbt.TodoItem, error) {
	var model TodoItemModel
	result := pgdb.db.First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get todo %s: %w", id, result.Error)
	}
	return todoFromModel(&model), nil
}

func (pgdb *GORMFleetDBWrapper) ListFamilyTodos(familyID uuid.UUID) ([]dbt.TodoItem, error) {
	var models []TodoItemModel
	// Open items first, then by priority, due date, age.
	result := pgdb.db.Where("family_id = ?", familyID).
		Order("completed, priority DESC, due_date, created_at").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list todos for family %s: %w", familyID, result.Error)
	}

	todos := make([]dbt.TodoItem, 0, len(models))
	for i := range models {
		todos = append(todos, *todoFromModel(&models[i]))
	}
	return todos, nil
}

func (pgdb *GORMFleetDBWrapper) UpdateTodo(todo *dbt.TodoItem) error {
	model := TodoItemModel{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		Priority:    todo.Priority,
		DueDate:     todo.DueDate,
		VehicleID:   todo.VehicleID,
	}
	result := pgdb.db.Model(&model).
		Select("title", "description", "completed", "priority", "due_date", "vehicle_id").
		Where("id = ?", todo.ID).Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update todo %s: %w", todo.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("todo %s: %w", todo.ID, dbt.ErrNotFound)
	}
	return nil
}

func (pgdb *GORMFleetDBWrapper) DeleteTodo(id uuid.UUID) error {
	result := pgdb.db.Delete(&TodoItemModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete todo %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("todo %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}

// ---- aggregates ----

func (pgdb *GORMFleetDBWrapper) VehicleStats(vehicleID uuid.UUID) (*dbt.VehicleStats, error) {
	stats := &dbt.VehicleStats{}

	type kindAgg struct {
		Kind  string
		Count int64
		Cost  float64
	}
	var rows []kindAgg
	result := pgdb.db.Model(&UsageEventModel{}).
		Select("kind, COUNT(*) AS count, COALESCE(SUM(total_cost), 0) AS cost").
		Where("vehicle_id = ?", vehicleID).
		Group("kind").Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to aggregate stats for vehicle %s: %w", vehicleID, result.Error)
	}

	for _, row := range rows {
		stats.EventCount += row.Count
		switch dbt.EventKind(row.Kind) {
		case dbt.KindMaintenance:
			stats.MaintenanceCount = row.Count
			stats.MaintenanceCost = row.Cost
		case dbt.KindFuel:
			stats.FuelCount = row.Count
			stats.FuelCost = row.Cost
		}
	}
	return stats, nil
}

// ---- data loader backends ----

func (pgdb *GORMFleetDBWrapper) DataLoaderGetVehicleSchedules(ctx context.Context, vehicleIDs []uuid.UUID) (map[uuid.UUID][]dbt.MaintenanceSchedule, error) {
	var models []MaintenanceScheduleModel
	result := pgdb.db.WithContext(ctx).Where("vehicle_id IN ?", vehicleIDs).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch-load schedules: %w", result.Error)
	}

	out := make(map[uuid.UUID][]dbt.MaintenanceSchedule, len(vehicleIDs))
	for i := range models {
		out[models[i].VehicleID] = append(out[models[i].VehicleID], *scheduleFromModel(&models[i]))
	}
	return out, nil
}

func (pgdb *GORMFleetDBWrapper) DataLoaderGetLatestEvents(ctx context.Context, vehicleIDs []uuid.UUID) (map[uuid.UUID]*dbt.UsageEvent, error) {
	var models []UsageEventModel
	result := pgdb.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (vehicle_id) *
		     FROM usage_events
		     WHERE vehicle_id IN ?
		     ORDER BY vehicle_id, date DESC, created_at DESC`, vehicleIDs).
		Scan(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch-load latest events: %w", result.Error)
	}

	out := make(map[uuid.UUID]*dbt.UsageEvent, len(vehicleIDs))
	for i := range models {
		out[models[i].VehicleID] = eventFromModel(&models[i])
	}
	return out, nil
}

func (pgdb *GORMFleetDBWrapper) DataLoaderGetCategories(ctx context.Context, categoryIDs []uuid.UUID) (map[uuid.UUID]*dbt.MaintenanceCategory, error) {
	var models []MaintenanceCategoryModel
	result := pgdb.db.WithContext(ctx).Where("id IN ?", categoryIDs).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch-load categories: %w", result.Error)
	}

	out := make(map[uuid.UUID]*dbt.MaintenanceCategory, len(categoryIDs))
	for _, m := range models {
		out[m.ID] = &dbt.MaintenanceCategory{ID: m.ID, Name: m.Name, Description: m.Description}
	}
	return out, nil
}

package mem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	dbt "vmt/db/db"
)

// inMemoryFleetDBWrapper is an in-memory implementation of dbt.FleetDBWrapper.
// It backs unit tests and dev mode; ordering semantics match the Postgres
// implementation (events ordered by date with insertion order breaking ties).
type inMemoryFleetDBWrapper struct {
	families   map[uuid.UUID]*dbt.Family
	vehicles   map[uuid.UUID]*dbt.Vehicle
	events     map[uuid.UUID]*memEvent
	schedules  map[uuid.UUID]*dbt.MaintenanceSchedule
	categories map[uuid.UUID]*dbt.MaintenanceCategory
	locations  map[uuid.UUID]*dbt.Location
	todos      map[uuid.UUID]*dbt.TodoItem

	seq uint64

	mu sync.RWMutex
}

// memEvent tags each stored event with an insertion sequence so same-date
// ordering is deterministic even when CreatedAt timestamps collide.
type memEvent struct {
	dbt.UsageEvent
	seq uint64
}

// NewInMemoryFleetDBWrapper creates and returns a new instance of inMemoryFleetDBWrapper.
func NewInMemoryFleetDBWrapper() dbt.FleetDBWrapper {
	return &inMemoryFleetDBWrapper{
		families:   make(map[uuid.UUID]*dbt.Family),
		vehicles:   make(map[uuid.UUID]*dbt.Vehicle),
		events:     make(map[uuid.UUID]*memEvent),
		schedules:  make(map[uuid.UUID]*dbt.MaintenanceSchedule),
		categories: make(map[uuid.UUID]*dbt.MaintenanceCategory),
		locations:  make(map[uuid.UUID]*dbt.Location),
		todos:      make(map[uuid.UUID]*dbt.TodoItem),
	}
}

// ---- family ----

func (m *inMemoryFleetDBWrapper) CreateFamily(family *dbt.Family) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.families[family.ID]; exists {
		return fmt.Errorf("family with ID %s already exists", family.ID)
	}
	cp := *family
	m.families[family.ID] = &cp
	return nil
}

func (m *inMemoryFleetDBWrapper) GetFamily(id uuid.UUID) (*dbt.Family, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	family, exists := m.families[id]
	if !exists {
		return nil, fmt.Errorf("family %s: %w", id, dbt.ErrNotFound)
	}
	cp := *family
	return &cp, nil
}

// ---- vehicle ----

func (m *inMemoryFleetDBWrapper) CreateVehicle(vehicle *dbt.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.vehicles[vehicle.ID]; exists {
		return fmt.Errorf("vehicle with ID %s already exists", vehicle.ID)
	}
	cp := *vehicle
	m.vehicles[vehicle.ID] = &cp
	return nil
}

func (m *inMemoryFleetDBWrapper) GetVehicle(id uuid.UUID) (*dbt.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vehicle, exists := m.vehicles[id]
	if !exists {
		return nil, fmt.Errorf("vehicle %s: %w", id, dbt.ErrNotFound)
	}
	cp := *vehicle
	return &cp, nil
}

func (m *inMemoryFleetDBWrapper) ListFamilyVehicles(familyID uuid.UUID) ([]dbt.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var vehicles []dbt.Vehicle
	for _, v := range m.vehicles {
		if v.FamilyID == familyID {
			vehicles = append(vehicles, *v)
		}
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].Name < vehicles[j].Name })
	return vehicles, nil
}

func (m *inMemoryFleetDBWrapper) UpdateVehicle(vehicle *dbt.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.vehicles[vehicle.ID]
	if !exists {
		return fmt.Errorf("vehicle %s: %w", vehicle.ID, dbt.ErrNotFound)
	}
	cp := *vehicle
	// Tracking unit and family are immutable.
	cp.Unit = existing.Unit
	cp.FamilyID = existing.FamilyID
	m.vehicles[vehicle.ID] = &cp
	return nil
}

func (m *inMemoryFleetDBWrapper) DeleteVehicle(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.vehicles[id]; !exists {
		return fmt.Errorf("vehicle %s: %w", id, dbt.ErrNotFound)
	}
	delete(m.vehicles, id)
	for eid, ev := range m.events {
		if ev.VehicleID == id {
			delete(m.events, eid)
		}
	}
	for sid, s := range m.schedules {
		if s.VehicleID == id {
			delete(m.schedules, sid)
		}
	}
	return nil
}

// ---- usage events ----

func (m *inMemoryFleetDBWrapper) CreateUsageEvent(event *dbt.UsageEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.vehicles[event.VehicleID]; !exists {
		return fmt.Errorf("vehicle %s: %w", event.VehicleID, dbt.ErrNotFound)
	}
	if _, exists := m.events[event.ID]; exists {
		return fmt.Errorf("usage event with ID %s already exists", event.ID)
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	m.seq++
	cp := memEvent{UsageEvent: *event, seq: m.seq}
	m.events[event.ID] = &cp
	return nil
}

func (m *inMemoryFleetDBWrapper) GetUsageEvent(id uuid.UUID) (*dbt.UsageEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ev, exists := m.events[id]
	if !exists {
		return nil, fmt.Errorf("usage event %s: %w", id, dbt.ErrNotFound)
	}
	cp := ev.UsageEvent
	return &cp, nil
}

// vehicleEventsLocked returns the vehicle's events ordered by (date, seq).
// Callers must hold at least the read lock.
func (m *inMemoryFleetDBWrapper) vehicleEventsLocked(vehicleID uuid.UUID) []*memEvent {
	var events []*memEvent
	for _, ev := range m.events {
		if ev.VehicleID == vehicleID {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].seq < events[j].seq
	})
	return events
}

func (m *inMemoryFleetDBWrapper) ListVehicleEvents(vehicleID uuid.UUID) ([]dbt.UsageEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ordered := m.vehicleEventsLocked(vehicleID)
	events := make([]dbt.UsageEvent, 0, len(ordered))
	for _, ev := range ordered {
		events = append(events, ev.UsageEvent)
	}
	return events, nil
}

func (m *inMemoryFleetDBWrapper) DeleteUsageEvent(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.events[id]; !exists {
		return fmt.Errorf("usage event %s: %w", id, dbt.ErrNotFound)
	}
	delete(m.events, id)
	return nil
}

func (m *inMemoryFleetDBWrapper) LatestFuelFillBefore(vehicleID uuid.UUID, date time.Time) (*dbt.UsageEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *memEvent
	for _, ev := range m.events {
		if ev.VehicleID != vehicleID || ev.Kind != dbt.KindFuel || !ev.Date.Before(date) {
			continue
		}
		if best == nil || ev.Date.After(best.Date) || (ev.Date.Equal(best.Date) && ev.seq > best.seq) {
			best = ev
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := best.UsageEvent
	return &cp, nil
}

func (m *inMemoryFleetDBWrapper) LatestEvent(vehicleID uuid.UUID) (*dbt.UsageEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ordered := m.vehicleEventsLocked(vehicleID)
	if len(ordered) == 0 {
		return nil, nil
	}
	cp := ordered[len(ordered)-1].UsageEvent
	return &cp, nil
}

// ---- maintenance schedules ----

func (m *inMemoryFleetDBWrapper) CreateSchedule(schedule *dbt.MaintenanceSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.vehicles[schedule.VehicleID]; !exists {
		return fmt.Errorf("vehicle %s: %w", schedule.VehicleID, dbt.ErrNotFound)
	}
	if _, exists := m.categories[schedule.CategoryID]; !exists {
		return fmt.Errorf("category %s: %w", schedule.CategoryID, dbt.ErrNotFound)
	}
	if _, exists := m.schedules[schedule.ID]; exists {
		return fmt.Errorf("schedule with ID %s already exists", schedule.ID)
	}
	cp := *schedule
	m.schedules[schedule.ID] = &cp
	return nil
}

func (m *inMemoryFleetDBWrapper) GetSchedule(id uuid.UUID) (*dbt.MaintenanceSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	schedule, exists := m.schedules[id]
	if !exists {
		return nil, fmt.Errorf("schedule %s: %w", id, dbt.ErrNotFound)
	}
	cp := *schedule
	return &cp, nil
}

func (m *inMemoryFleetDBWrapper) ListVehicleSchedules(vehicleID uuid.UUID) ([]dbt.MaintenanceSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var schedules []dbt.MaintenanceSchedule
	for _, s := range m.schedules {
		if s.VehicleID == vehicleID {
			schedules = append(schedules, *s)
		}
	}
	sort.Slice(schedules, func(i, j int) bool { return schedules[i].Name < schedules[j].Name })
	return schedules, nil
}

func (m *inMemoryFleetDBWrapper) UpdateSchedule(schedule *dbt.MaintenanceSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.schedules[schedule.ID]
	if !exists {
		return fmt.Errorf("schedule %s: %w", schedule.ID, dbt.ErrNotFound)
	}
	cp := *schedule
	// Checkpoint fields only move through AdvanceScheduleCheckpoint.
	cp.LastPerformed = existing.LastPerformed
	cp.LastDistance = existing.LastDistance
	cp.LastHours = existing.LastHours
	cp.VehicleID = existing.VehicleID
	cp.CategoryID = existing.CategoryID
	m.schedules[schedule.ID] = &cp
	return nil
}

func (m *inMemoryFleetDBWrapper) DeleteSchedule(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.schedules[id]; !exists {
		return fmt.Errorf("schedule %s: %w", id, dbt.ErrNotFound)
	}
	delete(m.schedules, id)
	return nil
}

func (m *inMemoryFleetDBWrapper) ListActiveSchedules(vehicleID, categoryID uuid.UUID) ([]dbt.MaintenanceSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var schedules []dbt.MaintenanceSchedule
	for _, s := range m.schedules {
		if s.VehicleID == vehicleID && s.CategoryID == categoryID && s.Active {
			schedules = append(schedules, *s)
		}
	}
	sort.Slice(schedules, func(i, j int) bool { return schedules[i].Name < schedules[j].Name })
	return schedules, nil
}

func (m *inMemoryFleetDBWrapper) AdvanceScheduleCheckpoint(schedule *dbt.MaintenanceSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.schedules[schedule.ID]
	if !exists {
		return fmt.Errorf("schedule %s: %w", schedule.ID, dbt.ErrNotFound)
	}
	existing.LastPerformed = schedule.LastPerformed
	existing.LastDistance = schedule.LastDistance
	existing.LastHours = schedule.LastHours
	return nil
}

// ---- maintenance categories ----

func (m *inMemoryFleetDBWrapper) CreateCategory(category *dbt.MaintenanceCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.categories[category.ID]; exists {
		return fmt.Errorf("category with ID %s already exists", category.ID)
	}
	for _, c := range m.categories {
		if c.Name == category.Name {
			return fmt.Errorf("category %q already exists", category.Name)
		}
	}
	cp := *category
	m.categories[category.ID] = &cp
	return nil
}

func (m *inMemoryFleetDBWrapper) GetCategory(id uuid.UUID) (*dbt.MaintenanceCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	category, exists := m.categories[id]
	if !exists {
		return nil, fmt.Errorf("category %s: %w", id, dbt.ErrNotFound)
	}
	cp := *category
	return &cp, nil
}

func (m *inMemoryFleetDBWrapper) ListCategories() ([]dbt.MaintenanceCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var categories []dbt.MaintenanceCategory
	for _, c := range m.categories {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// ---- locations ----

func (m *inMemoryFleetDBWrapper) CreateLocation(location *dbt.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.families[location.FamilyID]; !exists {
		return fmt.Errorf("family %s: %w", location.FamilyID, dbt.ErrNotFound)
	}
	if _, exists := m.locations[location.ID]; exists {
		return fmt.Errorf("location with ID %s already exists", location.ID)
	}
	cp := *location
	m.locations[location.ID] = &cp
	return nil
}

func (m *inMemoryFleetDBWrapper) GetLocation(id uuid.UUID) (*dbt.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	location, exists := m.locations[id]
	if !exists {
		return nil, fmt.Errorf("location %s: %w", id, dbt.ErrNotFound)
	}
	cp := *location
	return &cp, nil
}

func (m *inMemoryFleetDBWrapper) ListFamilyLocations(familyID uuid.UUID) ([]dbt.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var locations []dbt.Location
	for _, l := range m.locations {
		if l.FamilyID == familyID {
			locations = append(locations, *l)
		}
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].Name < locations[j].Name })
	return locations, nil
}

// ---- todo items ----

func (m *inMemoryFleetDBWrapper) CreateTodo(todo *dbt.TodoItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.families[todo.FamilyID]; !exists {
		return fmt.Errorf("family %s: %w", todo.FamilyID, dbt.ErrNotFound)
	}
	if _, exists := m.todos[todo.ID]; exists {
		return fmt.Errorf("todo with ID %s already exists", todo.ID)
	}
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now()
	}
	cp := *todo
	m.todos[todo.ID] = &cp
	return nil
}

func (m *inMemoryFleetDBWrapper) GetTodo(id uuid.UUID) (*dbt.TodoItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todo, exists := m.todos[id]
	if !exists {
		return nil, fmt.Errorf("todo %s: %w", id, dbt.ErrNotFound)
	}
	cp := *todo
	return &cp, nil
}

func (m *inMemoryFleetDBWrapper) ListFamilyTodos(familyID uuid.UUID) ([]dbt.TodoItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var todos []dbt.TodoItem
	for _, t := range m.todos {
		if t.FamilyID == familyID {
			todos = append(todos, *t)
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return todos, nil
}

func (m *inMemoryFleetDBWrapper) UpdateTodo(todo *dbt.TodoItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.todos[todo.ID]
	if !exists {
		return fmt.Errorf("todo %s: %w", todo.ID, dbt.ErrNotFound)
	}
	cp := *todo
	cp.FamilyID = existing.FamilyID
	cp.CreatedAt = existing.CreatedAt
	m.todos[todo.ID] = &cp
	return nil
}

func (m *inMemoryFleetDBWrapper) DeleteTodo(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.todos[id]; !exists {
		return fmt.Errorf("todo %s: %w", id, dbt.ErrNotFound)
	}
	delete(m.todos, id)
	return nil
}

// ---- aggregates ----

func (m *inMemoryFleetDBWrapper) VehicleStats(vehicleID uuid.UUID) (*dbt.VehicleStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &dbt.VehicleStats{}
	for _, ev := range m.events {
		if ev.VehicleID != vehicleID {
			continue
		}
		stats.EventCount++
		var cost float64
		if ev.TotalCost != nil {
			cost = *ev.TotalCost
		}
		switch ev.Kind {
		case dbt.KindMaintenance:
			stats.MaintenanceCount++
			stats.MaintenanceCost += cost
		case dbt.KindFuel:
			stats.FuelCount++
			stats.FuelCost += cost
		}
	}
	return stats, nil
}

// ---- data loader backends ----

func (m *inMemoryFleetDBWrapper) DataLoaderGetVehicleSchedules(_ context.Context, vehicleIDs []uuid.UUID) (map[uuid.UUID][]dbt.MaintenanceSchedule, error) {
	out := make(map[uuid.UUID][]dbt.MaintenanceSchedule, len(vehicleIDs))
	for _, id := range vehicleIDs {
		schedules, err := m.ListVehicleSchedules(id)
		if err != nil {
			return nil, err
		}
		out[id] = schedules
	}
	return out, nil
}

func (m *inMemoryFleetDBWrapper) DataLoaderGetLatestEvents(_ context.Context, vehicleIDs []uuid.UUID) (map[uuid.UUID]*dbt.UsageEvent, error) {
	out := make(map[uuid.UUID]*dbt.UsageEvent, len(vehicleIDs))
	for _, id := range vehicleIDs {
		ev, err := m.LatestEvent(id)
		if err != nil {
			return nil, err
		}
		out[id] = ev
	}
	return out, nil
}

func (m *inMemoryFleetDBWrapper) DataLoaderGetCategories(_ context.Context, categoryIDs []uuid.UUID) (map[uuid.UUID]*dbt.MaintenanceCategory, error) {
	out := make(map[uuid.UUID]*dbt.MaintenanceCategory, len(categoryIDs))
	for _, id := range categoryIDs {
		category, err := m.GetCategory(id)
		if err != nil {
			out[id] = nil
			continue
		}
		out[id] = category
	}
	return out, nil
}

package mem_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbt "vmt/db/db"
	"vmt/db/mem"
	"vmt/engine"
)

func setupTest(t *testing.T) (dbt.FleetDBWrapper, *dbt.Vehicle) {
	t.Helper()
	db := mem.NewInMemoryFleetDBWrapper()

	family := &dbt.Family{ID: uuid.New(), Name: "Smiths"}
	require.NoError(t, db.CreateFamily(family))

	vehicle := &dbt.Vehicle{
		ID:       uuid.New(),
		FamilyID: family.ID,
		Name:     "Daily Driver",
		Make:     "Honda",
		Model:    "Civic",
		Year:     2019,
		Unit:     engine.UnitDistance,
	}
	require.NoError(t, db.CreateVehicle(vehicle))
	return db, vehicle
}

func fptr(v float64) *float64 { return &v }

func day(offset int) time.Time {
	return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func fuelEvent(vehicleID uuid.UUID, date time.Time, distance *float64) *dbt.UsageEvent {
	return &dbt.UsageEvent{
		ID:           uuid.New(),
		VehicleID:    vehicleID,
		Kind:         dbt.KindFuel,
		Date:         date,
		Distance:     distance,
		FuelQuantity: fptr(10),
	}
}

func TestCreateVehicle(t *testing.T) {
	db, vehicle := setupTest(t)

	got, err := db.GetVehicle(vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, vehicle.ID, got.ID)
	assert.Equal(t, engine.UnitDistance, got.Unit)

	// Duplicate ID should fail.
	err = db.CreateVehicle(vehicle)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Unknown vehicle should report not found.
	_, err = db.GetVehicle(uuid.New())
	assert.ErrorIs(t, err, dbt.ErrNotFound)
}

func TestListVehicleEventsOrdering(t *testing.T) {
	db, vehicle := setupTest(t)

	// Insert out of chronological order.
	e3 := fuelEvent(vehicle.ID, day(20), fptr(300))
	e1 := fuelEvent(vehicle.ID, day(0), fptr(100))
	e2 := fuelEvent(vehicle.ID, day(10), fptr(200))
	require.NoError(t, db.CreateUsageEvent(e3))
	require.NoError(t, db.CreateUsageEvent(e1))
	require.NoError(t, db.CreateUsageEvent(e2))

	events, err := db.ListVehicleEvents(vehicle.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, e1.ID, events[0].ID)
	assert.Equal(t, e2.ID, events[1].ID)
	assert.Equal(t, e3.ID, events[2].ID)
}

func TestLatestFuelFillBefore(t *testing.T) {
	db, vehicle := setupTest(t)

	require.NoError(t, db.CreateUsageEvent(fuelEvent(vehicle.ID, day(0), fptr(100))))
	mid := fuelEvent(vehicle.ID, day(10), fptr(200))
	require.NoError(t, db.CreateUsageEvent(mid))

	// An outing on a later date must not be picked up.
	require.NoError(t, db.CreateUsageEvent(&dbt.UsageEvent{
		ID: uuid.New(), VehicleID: vehicle.ID, Kind: dbt.KindOuting, Date: day(15),
	}))

	got, err := db.LatestFuelFillBefore(vehicle.ID, day(20))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, mid.ID, got.ID)

	// Strictly-before: a fill on the same date is not "prior".
	got, err = db.LatestFuelFillBefore(vehicle.ID, day(10))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, day(0), got.Date)

	// No earlier fill at all.
	got, err = db.LatestFuelFillBefore(vehicle.ID, day(0))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLatestFuelFillBeforeTieBreak(t *testing.T) {
	db, vehicle := setupTest(t)

	first := fuelEvent(vehicle.ID, day(5), fptr(100))
	second := fuelEvent(vehicle.ID, day(5), fptr(150))
	require.NoError(t, db.CreateUsageEvent(first))
	require.NoError(t, db.CreateUsageEvent(second))

	// Same-date ties resolve to the most recently created.
	got, err := db.LatestFuelFillBefore(vehicle.ID, day(6))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)
}

func TestLatestEvent(t *testing.T) {
	db, vehicle := setupTest(t)

	got, err := db.LatestEvent(vehicle.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "empty ledger has no latest event")

	require.NoError(t, db.CreateUsageEvent(fuelEvent(vehicle.ID, day(0), fptr(100))))
	outing := &dbt.UsageEvent{
		ID: uuid.New(), VehicleID: vehicle.ID, Kind: dbt.KindOuting, Date: day(30), Distance: fptr(400),
	}
	require.NoError(t, db.CreateUsageEvent(outing))

	got, err = db.LatestEvent(vehicle.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, outing.ID, got.ID, "latest is by date regardless of kind")
}

func TestScheduleCheckpointIsolation(t *testing.T) {
	db, vehicle := setupTest(t)

	category := &dbt.MaintenanceCategory{ID: uuid.New(), Name: "Oil Change"}
	require.NoError(t, db.CreateCategory(category))

	interval := 90
	schedule := &dbt.MaintenanceSchedule{
		ID:           uuid.New(),
		VehicleID:    vehicle.ID,
		CategoryID:   category.ID,
		Name:         "Oil every 90 days",
		IntervalDays: &interval,
		Active:       true,
	}
	require.NoError(t, db.CreateSchedule(schedule))

	// UpdateSchedule must not touch checkpoint fields.
	when := day(10)
	schedule.LastPerformed = &when
	schedule.Name = "Oil change"
	require.NoError(t, db.UpdateSchedule(schedule))

	got, err := db.GetSchedule(schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oil change", got.Name)
	assert.Nil(t, got.LastPerformed)

	// AdvanceScheduleCheckpoint moves only the checkpoint.
	got.LastPerformed = &when
	got.LastDistance = fptr(12000)
	require.NoError(t, db.AdvanceScheduleCheckpoint(got))

	got, err = db.GetSchedule(schedule.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastPerformed)
	assert.True(t, when.Equal(*got.LastPerformed))
	require.NotNil(t, got.LastDistance)
	assert.Equal(t, 12000.0, *got.LastDistance)
}

func TestListActiveSchedules(t *testing.T) {
	db, vehicle := setupTest(t)

	oil := &dbt.MaintenanceCategory{ID: uuid.New(), Name: "Oil Change"}
	tires := &dbt.MaintenanceCategory{ID: uuid.New(), Name: "Tire Rotation"}
	require.NoError(t, db.CreateCategory(oil))
	require.NoError(t, db.CreateCategory(tires))

	interval := 90
	active := &dbt.MaintenanceSchedule{
		ID: uuid.New(), VehicleID: vehicle.ID, CategoryID: oil.ID,
		Name: "active oil", IntervalDays: &interval, Active: true,
	}
	inactive := &dbt.MaintenanceSchedule{
		ID: uuid.New(), VehicleID: vehicle.ID, CategoryID: oil.ID,
		Name: "inactive oil", IntervalDays: &interval, Active: false,
	}
	otherCategory := &dbt.MaintenanceSchedule{
		ID: uuid.New(), VehicleID: vehicle.ID, CategoryID: tires.ID,
		Name: "tires", IntervalDays: &interval, Active: true,
	}
	require.NoError(t, db.CreateSchedule(active))
	require.NoError(t, db.CreateSchedule(inactive))
	require.NoError(t, db.CreateSchedule(otherCategory))

	schedules, err := db.ListActiveSchedules(vehicle.ID, oil.ID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, active.ID, schedules[0].ID)
}

func TestVehicleStats(t *testing.T) {
	db, vehicle := setupTest(t)

	category := &dbt.MaintenanceCategory{ID: uuid.New(), Name: "Brake Service"}
	require.NoError(t, db.CreateCategory(category))

	fuel := fuelEvent(vehicle.ID, day(0), fptr(100))
	fuel.TotalCost = fptr(40)
	require.NoError(t, db.CreateUsageEvent(fuel))

	require.NoError(t, db.CreateUsageEvent(&dbt.UsageEvent{
		ID: uuid.New(), VehicleID: vehicle.ID, Kind: dbt.KindMaintenance,
		Date: day(5), CategoryID: &category.ID, TotalCost: fptr(120),
	}))
	require.NoError(t, db.CreateUsageEvent(&dbt.UsageEvent{
		ID: uuid.New(), VehicleID: vehicle.ID, Kind: dbt.KindOuting, Date: day(6),
	}))

	stats, err := db.VehicleStats(vehicle.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.EventCount)
	assert.EqualValues(t, 1, stats.MaintenanceCount)
	assert.EqualValues(t, 1, stats.FuelCount)
	assert.InDelta(t, 120, stats.MaintenanceCost, 1e-9)
	assert.InDelta(t, 40, stats.FuelCost, 1e-9)
}

func TestDataLoaderBackends(t *testing.T) {
	db, vehicle := setupTest(t)
	ctx := context.Background()

	category := &dbt.MaintenanceCategory{ID: uuid.New(), Name: "Oil Change"}
	require.NoError(t, db.CreateCategory(category))

	interval := 3000
	require.NoError(t, db.CreateSchedule(&dbt.MaintenanceSchedule{
		ID: uuid.New(), VehicleID: vehicle.ID, CategoryID: category.ID,
		Name: "oil", IntervalDistance: &interval, Active: true,
	}))
	latest := fuelEvent(vehicle.ID, day(3), fptr(500))
	require.NoError(t, db.CreateUsageEvent(latest))

	schedules, err := db.DataLoaderGetVehicleSchedules(ctx, []uuid.UUID{vehicle.ID})
	require.NoError(t, err)
	assert.Len(t, schedules[vehicle.ID], 1)

	events, err := db.DataLoaderGetLatestEvents(ctx, []uuid.UUID{vehicle.ID})
	require.NoError(t, err)
	require.NotNil(t, events[vehicle.ID])
	assert.Equal(t, latest.ID, events[vehicle.ID].ID)

	categories, err := db.DataLoaderGetCategories(ctx, []uuid.UUID{category.ID, uuid.New()})
	require.NoError(t, err)
	require.NotNil(t, categories[category.ID])
	assert.Equal(t, "Oil Change", categories[category.ID].Name)
}

func TestTodoLifecycle(t *testing.T) {
	db, vehicle := setupTest(t)

	v, err := db.GetVehicle(vehicle.ID)
	require.NoError(t, err)

	todo := &dbt.TodoItem{
		ID:       uuid.New(),
		FamilyID: v.FamilyID,
		Title:    "Renew registration",
		Priority: 2,
	}
	require.NoError(t, db.CreateTodo(todo))

	todo.Completed = true
	require.NoError(t, db.UpdateTodo(todo))

	todos, err := db.ListFamilyTodos(v.FamilyID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Completed)

	require.NoError(t, db.DeleteTodo(todo.ID))
	assert.ErrorIs(t, db.DeleteTodo(todo.ID), dbt.ErrNotFound)
}

package export_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vmt/db/db"
	"vmt/engine"
	"vmt/export"
)

func fptr(v float64) *float64 { return &v }

func TestWriteVehicleEvents(t *testing.T) {
	vehicle := &db.Vehicle{ID: uuid.New(), Name: "truck", Unit: engine.UnitDistance}
	categoryID := uuid.New()

	events := []db.UsageEvent{
		{
			VehicleID:          vehicle.ID,
			Kind:               db.KindFuel,
			Date:               time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Distance:           fptr(10300),
			FuelQuantity:       fptr(15),
			UnitPrice:          fptr(3.5),
			TotalCost:          fptr(52.5),
			DistanceEfficiency: fptr(20),
		},
		{
			VehicleID:  vehicle.ID,
			Kind:       db.KindMaintenance,
			Date:       time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			CategoryID: &categoryID,
			TotalCost:  fptr(80),
			Notes:      "oil and filter",
		},
	}

	var sb strings.Builder
	err := export.WriteVehicleEvents(&sb, vehicle, events, func(id uuid.UUID) string {
		if id == categoryID {
			return "Oil Change"
		}
		return ""
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"date", "kind", "miles", "fuel_quantity", "unit_price", "total_cost", "MPG", "category", "notes",
	}, rows[0])
	assert.Equal(t, []string{
		"2025-03-01", "fuel", "10300", "15", "3.5", "52.5", "20", "", "",
	}, rows[1])
	assert.Equal(t, []string{
		"2025-03-15", "maintenance", "", "", "", "80", "", "Oil Change", "oil and filter",
	}, rows[2])
}

func TestWriteVehicleEventsHourUnit(t *testing.T) {
	vehicle := &db.Vehicle{ID: uuid.New(), Name: "boat", Unit: engine.UnitHours}
	events := []db.UsageEvent{
		{
			VehicleID:      vehicle.ID,
			Kind:           db.KindFuel,
			Date:           time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
			Hours:          fptr(120),
			FuelQuantity:   fptr(30),
			TimeEfficiency: fptr(1.5),
		},
	}

	var sb strings.Builder
	require.NoError(t, export.WriteVehicleEvents(&sb, vehicle, events, nil))

	rows, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "hours", rows[0][2])
	assert.Equal(t, "GPH", rows[0][6])
	assert.Equal(t, "120", rows[1][2])
	assert.Equal(t, "1.5", rows[1][6])
}

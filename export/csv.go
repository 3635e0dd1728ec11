// Package export renders a vehicle's usage ledger as CSV, shared by the web
// endpoint and the export command.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"vmt/db/db"
	"vmt/engine"
)

// CategoryNamer resolves a maintenance category ID to its display name.
// Unknown IDs should return an empty string.
type CategoryNamer func(id uuid.UUID) string

const dateLayout = "2006-01-02"

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WriteVehicleEvents writes the ledger in chronological order with a header
// row matched to the vehicle's tracking unit.
func WriteVehicleEvents(w io.Writer, vehicle *db.Vehicle, events []db.UsageEvent, categoryName CategoryNamer) error {
	cw := csv.NewWriter(w)

	header := []string{
		"date", "kind", vehicle.Unit.Label(), "fuel_quantity", "unit_price",
		"total_cost", vehicle.Unit.EfficiencyLabel(), "category", "notes",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range events {
		event := &events[i]

		reading := event.Distance
		efficiency := event.DistanceEfficiency
		if vehicle.Unit == engine.UnitHours {
			reading = event.Hours
			efficiency = event.TimeEfficiency
		}

		var category string
		if event.CategoryID != nil && categoryName != nil {
			category = categoryName(*event.CategoryID)
		}

		row := []string{
			event.Date.Format(dateLayout),
			string(event.Kind),
			formatFloat(reading),
			formatFloat(event.FuelQuantity),
			formatFloat(event.UnitPrice),
			formatFloat(event.TotalCost),
			formatFloat(efficiency),
			category,
			event.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

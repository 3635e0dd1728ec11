package ledger

import (
	"fmt"

	"vmt/db/db"
)

// ValidationError reports a rejected write with the offending field, so
// handlers can map it to a 400 with a useful body.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func nonNegative(field string, v *float64) *ValidationError {
	if v != nil && *v < 0 {
		return invalid(field, "must not be negative")
	}
	return nil
}

// ValidateEvent checks an event's internal consistency before it touches
// storage. Reference checks (vehicle, category, location) happen separately.
func ValidateEvent(event *db.UsageEvent) error {
	if !event.Kind.Valid() {
		return invalid("kind", fmt.Sprintf("unknown event kind %q", event.Kind))
	}
	if event.Date.IsZero() {
		return invalid("date", "is required")
	}
	for field, v := range map[string]*float64{
		"distance":      event.Distance,
		"hours":         event.Hours,
		"fuel_quantity": event.FuelQuantity,
		"unit_price":    event.UnitPrice,
		"total_cost":    event.TotalCost,
	} {
		if err := nonNegative(field, v); err != nil {
			return err
		}
	}
	if event.Kind == db.KindFuel {
		if event.FuelQuantity == nil {
			return invalid("fuel_quantity", "is required for fuel events")
		}
		if *event.FuelQuantity == 0 {
			return invalid("fuel_quantity", "must be greater than zero")
		}
	}
	if event.Kind == db.KindMaintenance && event.CategoryID == nil {
		return invalid("category_id", "is required for maintenance events")
	}
	return nil
}

// ValidateSchedule rejects schedules with no interval at all or with a
// non-positive one.
func ValidateSchedule(schedule *db.MaintenanceSchedule) error {
	if !schedule.Engine().Configured() {
		return invalid("interval", "at least one interval is required")
	}
	for field, v := range map[string]*int{
		"interval_days":     schedule.IntervalDays,
		"interval_distance": schedule.IntervalDistance,
		"interval_hours":    schedule.IntervalHours,
	} {
		if v != nil && *v <= 0 {
			return invalid(field, "must be greater than zero")
		}
	}
	return nil
}

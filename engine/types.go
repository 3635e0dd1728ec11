package engine

import (
	"fmt"
	"time"
)

// TrackingUnit is the measurement basis of a vehicle: road vehicles accumulate
// distance, boats and equipment accumulate operating hours. The unit decides
// which interval checks and which efficiency metric apply; it never changes
// over a vehicle's lifetime.
type TrackingUnit int

const (
	UnitDistance TrackingUnit = iota
	UnitHours
)

// Label returns the reading unit shown next to odometer/meter values.
func (u TrackingUnit) Label() string {
	if u == UnitDistance {
		return "miles"
	}
	return "hours"
}

// EfficiencyLabel returns the display unit for the derived fuel metric:
// distance per fuel unit for distance vehicles, fuel per hour otherwise.
func (u TrackingUnit) EfficiencyLabel() string {
	if u == UnitDistance {
		return "MPG"
	}
	return "GPH"
}

func (u TrackingUnit) String() string {
	return u.Label()
}

// ParseTrackingUnit converts the persisted representation back to a TrackingUnit.
func ParseTrackingUnit(s string) (TrackingUnit, error) {
	switch s {
	case "miles":
		return UnitDistance, nil
	case "hours":
		return UnitHours, nil
	}
	return UnitDistance, fmt.Errorf("unknown tracking unit %q", s)
}

// FuelFill is the slice of a fuel event the efficiency derivation needs:
// the quantity pumped and whatever readings were captured at the pump.
type FuelFill struct {
	Quantity float64
	Distance *float64
	Hours    *float64
}

// IntervalKind identifies one of the three recurrence policies a schedule may carry.
type IntervalKind int

const (
	IntervalDays IntervalKind = iota
	IntervalDistance
	IntervalHours
)

func (k IntervalKind) String() string {
	switch k {
	case IntervalDays:
		return "days"
	case IntervalDistance:
		return "miles"
	case IntervalHours:
		return "hours"
	}
	return "unknown"
}

// Schedule carries the recurrence configuration and the last-serviced
// checkpoint of a maintenance schedule. A nil interval is not configured;
// a nil checkpoint field has never been recorded.
type Schedule struct {
	IntervalDays     *int
	IntervalDistance *int
	IntervalHours    *int

	LastPerformed *time.Time
	LastDistance  *float64
	LastHours     *float64
}

// Configured reports whether at least one recurrence interval is set.
// A schedule without any interval can never signal due and is rejected
// at creation time.
func (s Schedule) Configured() bool {
	return s.IntervalDays != nil || s.IntervalDistance != nil || s.IntervalHours != nil
}

// IntervalStatus is the per-interval verdict returned by StatusDetail.
// Remaining is expressed in the interval's own unit and goes negative once
// the interval has elapsed.
type IntervalStatus struct {
	Kind      IntervalKind
	Remaining float64
	Overdue   bool
}

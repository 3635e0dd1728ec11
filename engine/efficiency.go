package engine

import "math"

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TotalCost derives the total price of a fill-up from quantity and unit price.
func TotalCost(quantity, unitPrice float64) float64 {
	return round2(quantity * unitPrice)
}

// DeriveEfficiency computes the fuel metric for a fill-up relative to the
// previous fill-up of the same vehicle. It returns nil when the metric cannot
// be derived, which is normal for first fill-ups and out-of-order backfills.
//
// Distance vehicles: the distance covered since the prior fuel event is divided
// by the quantity pumped (distance per fuel unit). When no prior fuel event
// with a reading exists the vehicle's starting baseline stands in; without a
// baseline the raw reading is used as-is.
//
// Hour vehicles: the quantity is divided by the hours run since the prior fuel
// event (fuel per hour). There is no baseline concept for hour meters, so the
// first fill-up never yields a rate.
//
// A non-positive delta leaves the metric unset rather than producing a
// negative rate. Results are rounded to two decimals at save time and are not
// re-derived when history is edited afterwards.
func DeriveEfficiency(unit TrackingUnit, baseline *float64, prior *FuelFill, cur FuelFill) *float64 {
	if cur.Quantity <= 0 {
		return nil
	}

	switch unit {
	case UnitDistance:
		if cur.Distance == nil {
			return nil
		}
		var delta float64
		switch {
		case prior != nil && prior.Distance != nil:
			delta = *cur.Distance - *prior.Distance
		case baseline != nil:
			delta = *cur.Distance - *baseline
		default:
			delta = *cur.Distance
		}
		if delta > 0 {
			v := round2(delta / cur.Quantity)
			return &v
		}

	case UnitHours:
		if cur.Hours == nil || prior == nil || prior.Hours == nil {
			return nil
		}
		if delta := *cur.Hours - *prior.Hours; delta > 0 {
			v := round2(cur.Quantity / delta)
			return &v
		}
	}

	return nil
}

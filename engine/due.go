package engine

import "time"

// daysSince counts whole calendar days from one date to another, ignoring the
// time-of-day component of either value.
func daysSince(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// IsDue reports whether the schedule is currently due.
//
// A schedule that has never been serviced is always due. Otherwise the
// configured intervals are evaluated independently and the schedule is due as
// soon as any one of them has elapsed. Distance and hour intervals only apply
// when the vehicle tracks that unit AND the matching checkpoint reading was
// ever recorded; an interval whose checkpoint field is missing is skipped
// entirely so it neither signals due nor masks a day interval that already did.
//
// latest is the vehicle's most recent usage reading in the vehicle's unit.
// Once due, a schedule stays due until its checkpoint is advanced.
func (s Schedule) IsDue(unit TrackingUnit, latest float64, today time.Time) bool {
	if s.LastPerformed == nil {
		return true
	}

	if s.IntervalDays != nil {
		if daysSince(*s.LastPerformed, today) >= *s.IntervalDays {
			return true
		}
	}

	if unit == UnitDistance && s.IntervalDistance != nil && s.LastDistance != nil {
		if latest-*s.LastDistance >= float64(*s.IntervalDistance) {
			return true
		}
	}

	if unit == UnitHours && s.IntervalHours != nil && s.LastHours != nil {
		if latest-*s.LastHours >= float64(*s.IntervalHours) {
			return true
		}
	}

	return false
}

// StatusDetail reports, per configured interval, how much margin remains
// before the schedule comes due (negative once overdue). Intervals that do not
// apply to the vehicle's tracking unit are omitted, as are intervals whose
// checkpoint reading was never recorded. A never-serviced schedule reports
// every applicable interval as due now.
func (s Schedule) StatusDetail(unit TrackingUnit, latest float64, today time.Time) []IntervalStatus {
	var out []IntervalStatus

	if s.IntervalDays != nil {
		st := IntervalStatus{Kind: IntervalDays, Overdue: true}
		if s.LastPerformed != nil {
			st.Remaining = float64(*s.IntervalDays - daysSince(*s.LastPerformed, today))
			st.Overdue = st.Remaining <= 0
		}
		out = append(out, st)
	}

	if unit == UnitDistance && s.IntervalDistance != nil {
		if s.LastPerformed == nil {
			out = append(out, IntervalStatus{Kind: IntervalDistance, Overdue: true})
		} else if s.LastDistance != nil {
			rem := float64(*s.IntervalDistance) - (latest - *s.LastDistance)
			out = append(out, IntervalStatus{Kind: IntervalDistance, Remaining: rem, Overdue: rem <= 0})
		}
	}

	if unit == UnitHours && s.IntervalHours != nil {
		if s.LastPerformed == nil {
			out = append(out, IntervalStatus{Kind: IntervalHours, Overdue: true})
		} else if s.LastHours != nil {
			rem := float64(*s.IntervalHours) - (latest - *s.LastHours)
			out = append(out, IntervalStatus{Kind: IntervalHours, Remaining: rem, Overdue: rem <= 0})
		}
	}

	return out
}

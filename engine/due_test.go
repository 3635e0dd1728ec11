package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iptr(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysAgo(today time.Time, n int) *time.Time {
	d := today.AddDate(0, 0, -n)
	return &d
}

func TestIsDue_NeverServiced(t *testing.T) {
	today := date(2025, time.June, 1)

	s := Schedule{IntervalDays: iptr(90)}
	assert.True(t, s.IsDue(UnitDistance, 0, today), "no last-performed date means always due")

	// Regardless of unit or readings.
	s = Schedule{IntervalHours: iptr(50)}
	assert.True(t, s.IsDue(UnitHours, 9999, today))
}

func TestIsDue_DayInterval(t *testing.T) {
	today := date(2025, time.June, 1)

	tests := []struct {
		name    string
		daysAgo int
		due     bool
	}{
		{"well within interval", 10, false},
		{"one day short", 89, false},
		{"exactly on interval", 90, true},
		{"past interval", 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Schedule{IntervalDays: iptr(90), LastPerformed: daysAgo(today, tt.daysAgo)}
			assert.Equal(t, tt.due, s.IsDue(UnitDistance, 0, today))
		})
	}
}

func TestIsDue_DistanceInterval(t *testing.T) {
	today := date(2025, time.June, 1)

	s := Schedule{
		IntervalDistance: iptr(3000),
		LastPerformed:    daysAgo(today, 10),
		LastDistance:     fptr(50000),
	}

	assert.False(t, s.IsDue(UnitDistance, 52000, today))
	assert.True(t, s.IsDue(UnitDistance, 53000, today), "exactly on interval is due")
	assert.True(t, s.IsDue(UnitDistance, 60000, today))

	// Distance interval never applies to hour-tracked vehicles.
	assert.False(t, s.IsDue(UnitHours, 60000, today))

	// Missing checkpoint reading: interval is skipped, not treated as due.
	s.LastDistance = nil
	assert.False(t, s.IsDue(UnitDistance, 60000, today))
}

func TestIsDue_HourInterval(t *testing.T) {
	today := date(2025, time.June, 1)

	s := Schedule{
		IntervalHours: iptr(50),
		LastPerformed: daysAgo(today, 10),
		LastHours:     fptr(200),
	}

	assert.False(t, s.IsDue(UnitHours, 240, today))
	assert.True(t, s.IsDue(UnitHours, 250, today))
	assert.False(t, s.IsDue(UnitDistance, 250, today), "hour interval does not apply to distance vehicles")
}

func TestIsDue_AnyIntervalWins(t *testing.T) {
	today := date(2025, time.June, 1)

	// Day interval elapsed, distance interval not: still due (OR, not AND).
	s := Schedule{
		IntervalDays:     iptr(30),
		IntervalDistance: iptr(3000),
		LastPerformed:    daysAgo(today, 45),
		LastDistance:     fptr(50000),
	}
	assert.True(t, s.IsDue(UnitDistance, 50100, today))

	// A skipped distance interval must not mask the day verdict either way.
	s.LastDistance = nil
	assert.True(t, s.IsDue(UnitDistance, 50100, today))
}

func TestIsDue_Monotonic(t *testing.T) {
	today := date(2025, time.June, 1)
	s := Schedule{IntervalDays: iptr(90), LastPerformed: daysAgo(today, 90)}

	require.True(t, s.IsDue(UnitDistance, 0, today))
	for i := 1; i <= 30; i++ {
		assert.True(t, s.IsDue(UnitDistance, 0, today.AddDate(0, 0, i)), "once due, stays due")
	}
}

func TestStatusDetail_Overdue(t *testing.T) {
	// interval 90 days, last performed 100 days ago: overdue by 10 days.
	today := date(2025, time.June, 1)
	s := Schedule{IntervalDays: iptr(90), LastPerformed: daysAgo(today, 100)}

	detail := s.StatusDetail(UnitDistance, 0, today)
	require.Len(t, detail, 1)
	assert.Equal(t, IntervalDays, detail[0].Kind)
	assert.InDelta(t, -10, detail[0].Remaining, 1e-9)
	assert.True(t, detail[0].Overdue)
}

func TestStatusDetail_DueIn(t *testing.T) {
	// hour vehicle, interval 50 hours, last at 200, latest reading 240: due in 10.
	today := date(2025, time.June, 1)
	s := Schedule{
		IntervalHours: iptr(50),
		LastPerformed: daysAgo(today, 5),
		LastHours:     fptr(200),
	}

	assert.False(t, s.IsDue(UnitHours, 240, today))

	detail := s.StatusDetail(UnitHours, 240, today)
	require.Len(t, detail, 1)
	assert.Equal(t, IntervalHours, detail[0].Kind)
	assert.InDelta(t, 10, detail[0].Remaining, 1e-9)
	assert.False(t, detail[0].Overdue)
}

func TestStatusDetail_OmitsInapplicableIntervals(t *testing.T) {
	today := date(2025, time.June, 1)
	s := Schedule{
		IntervalDays:     iptr(90),
		IntervalDistance: iptr(3000),
		IntervalHours:    iptr(50),
		LastPerformed:    daysAgo(today, 10),
		LastDistance:     fptr(50000),
		LastHours:        fptr(200),
	}

	detail := s.StatusDetail(UnitDistance, 51000, today)
	require.Len(t, detail, 2)
	assert.Equal(t, IntervalDays, detail[0].Kind)
	assert.Equal(t, IntervalDistance, detail[1].Kind)

	detail = s.StatusDetail(UnitHours, 210, today)
	require.Len(t, detail, 2)
	assert.Equal(t, IntervalDays, detail[0].Kind)
	assert.Equal(t, IntervalHours, detail[1].Kind)
}

func TestStatusDetail_NeverServiced(t *testing.T) {
	today := date(2025, time.June, 1)
	s := Schedule{IntervalDays: iptr(90), IntervalDistance: iptr(3000)}

	detail := s.StatusDetail(UnitDistance, 12000, today)
	require.Len(t, detail, 2)
	for _, st := range detail {
		assert.True(t, st.Overdue, "never-serviced schedules report every applicable interval due now")
		assert.Zero(t, st.Remaining)
	}
}

func TestStatusDetail_SkipsMissingCheckpointReading(t *testing.T) {
	today := date(2025, time.June, 1)
	s := Schedule{
		IntervalDays:     iptr(90),
		IntervalDistance: iptr(3000),
		LastPerformed:    daysAgo(today, 10),
		// distance checkpoint never recorded
	}

	detail := s.StatusDetail(UnitDistance, 51000, today)
	require.Len(t, detail, 1)
	assert.Equal(t, IntervalDays, detail[0].Kind)
}

func TestScheduleConfigured(t *testing.T) {
	assert.False(t, Schedule{}.Configured())
	assert.True(t, Schedule{IntervalDays: iptr(30)}.Configured())
	assert.True(t, Schedule{IntervalDistance: iptr(3000)}.Configured())
	assert.True(t, Schedule{IntervalHours: iptr(50)}.Configured())
}

func TestDaysSinceIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2025, time.May, 1, 23, 50, 0, 0, time.UTC)
	to := time.Date(2025, time.May, 2, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, 1, daysSince(from, to))
}

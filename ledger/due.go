package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"vmt/db/db"
	"vmt/engine"
)

// DueEngine answers the read-side questions: is a schedule due, by how much,
// and what efficiency did an event achieve.
type DueEngine struct {
	db    db.FleetDBWrapper
	clock clockwork.Clock
}

func NewDueEngine(dbWrapper db.FleetDBWrapper, clock clockwork.Clock) *DueEngine {
	return &DueEngine{db: dbWrapper, clock: clock}
}

// ScheduleStatus is the evaluated state of one schedule.
type ScheduleStatus struct {
	Schedule  db.MaintenanceSchedule
	Due       bool
	Intervals []engine.IntervalStatus
}

// IsDue evaluates a single schedule against the vehicle's latest reading and
// today's date.
func (e *DueEngine) IsDue(scheduleID uuid.UUID) (bool, error) {
	status, err := e.StatusOf(scheduleID)
	if err != nil {
		return false, err
	}
	return status.Due, nil
}

// StatusOf returns both the due flag and the per-interval breakdown.
func (e *DueEngine) StatusOf(scheduleID uuid.UUID) (*ScheduleStatus, error) {
	schedule, err := e.db.GetSchedule(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule %s: %w", scheduleID, err)
	}
	vehicle, err := e.db.GetVehicle(schedule.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle %s: %w", schedule.VehicleID, err)
	}
	latest, err := e.latestReading(vehicle)
	if err != nil {
		return nil, err
	}

	es := schedule.Engine()
	today := e.clock.Now()
	return &ScheduleStatus{
		Schedule:  *schedule,
		Due:       es.IsDue(vehicle.Unit, latest, today),
		Intervals: es.StatusDetail(vehicle.Unit, latest, today),
	}, nil
}

// VehicleStatus evaluates every schedule of a vehicle in one pass, sharing
// the latest-reading lookup.
func (e *DueEngine) VehicleStatus(vehicleID uuid.UUID) ([]ScheduleStatus, error) {
	vehicle, err := e.db.GetVehicle(vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle %s: %w", vehicleID, err)
	}
	schedules, err := e.db.ListVehicleSchedules(vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules for vehicle %s: %w", vehicleID, err)
	}
	latest, err := e.latestReading(vehicle)
	if err != nil {
		return nil, err
	}

	today := e.clock.Now()
	out := make([]ScheduleStatus, 0, len(schedules))
	for _, schedule := range schedules {
		es := schedule.Engine()
		out = append(out, ScheduleStatus{
			Schedule:  schedule,
			Due:       es.IsDue(vehicle.Unit, latest, today),
			Intervals: es.StatusDetail(vehicle.Unit, latest, today),
		})
	}
	return out, nil
}

// EfficiencyOf reads back the efficiency stored on an event in the vehicle's
// unit. ok is false when the event has no efficiency, either because it is
// not a fuel event or because none could be derived at record time.
func (e *DueEngine) EfficiencyOf(eventID uuid.UUID) (value float64, label string, ok bool, err error) {
	event, err := e.db.GetUsageEvent(eventID)
	if err != nil {
		return 0, "", false, fmt.Errorf("failed to load event %s: %w", eventID, err)
	}
	vehicle, err := e.db.GetVehicle(event.VehicleID)
	if err != nil {
		return 0, "", false, fmt.Errorf("failed to load vehicle %s: %w", event.VehicleID, err)
	}

	label = vehicle.Unit.EfficiencyLabel()
	switch vehicle.Unit {
	case engine.UnitDistance:
		if event.DistanceEfficiency != nil {
			return *event.DistanceEfficiency, label, true, nil
		}
	case engine.UnitHours:
		if event.TimeEfficiency != nil {
			return *event.TimeEfficiency, label, true, nil
		}
	}
	return 0, label, false, nil
}

// EvaluateSchedule evaluates one schedule against an already-fetched latest
// reading. Batch callers (the dashboard) use this to avoid re-reading per
// schedule.
func (e *DueEngine) EvaluateSchedule(vehicle *db.Vehicle, schedule db.MaintenanceSchedule, latest float64) ScheduleStatus {
	es := schedule.Engine()
	today := e.clock.Now()
	return ScheduleStatus{
		Schedule:  schedule,
		Due:       es.IsDue(vehicle.Unit, latest, today),
		Intervals: es.StatusDetail(vehicle.Unit, latest, today),
	}
}

// LatestReadingOf extracts the vehicle's current usage reading from its most
// recent event: the distance or hours field depending on the tracking unit.
// A nil event or a missing field reads as zero rather than falling back to an
// older event.
func LatestReadingOf(vehicle *db.Vehicle, event *db.UsageEvent) float64 {
	if event == nil {
		return 0
	}
	switch vehicle.Unit {
	case engine.UnitHours:
		if event.Hours != nil {
			return *event.Hours
		}
	default:
		if event.Distance != nil {
			return *event.Distance
		}
	}
	return 0
}

// latestReading is LatestReadingOf backed by a storage lookup.
func (e *DueEngine) latestReading(vehicle *db.Vehicle) (float64, error) {
	event, err := e.db.LatestEvent(vehicle.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load latest event for vehicle %s: %w", vehicle.ID, err)
	}
	return LatestReadingOf(vehicle, event), nil
}

package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"vmt/db/db"
	"vmt/engine"
	"vmt/mq/mq"
)

// Recorder owns the write path of the usage ledger: validation, derived-field
// computation and the post-commit event fan-out.
type Recorder struct {
	db    db.FleetDBWrapper
	mq    mq.FleetMessageQueueWrapper
	log   logrus.FieldLogger
	clock clockwork.Clock
}

func NewRecorder(dbWrapper db.FleetDBWrapper, mqWrapper mq.FleetMessageQueueWrapper, log logrus.FieldLogger, clock clockwork.Clock) *Recorder {
	return &Recorder{
		db:    dbWrapper,
		mq:    mqWrapper,
		log:   log,
		clock: clock,
	}
}

// RecordUsageEvent validates the event, fills in what can be derived, writes
// it to the ledger and publishes the after-save messages.
//
// Derivations happen exactly once, here. Fuel efficiency is computed against
// the previous fill (falling back to the vehicle's starting reading on
// distance vehicles) and stored on the event; total cost is filled in from
// quantity and unit price when absent. Publish failures are logged but never
// fail the write, the ledger entry is already durable at that point.
func (r *Recorder) RecordUsageEvent(event *db.UsageEvent) error {
	if err := ValidateEvent(event); err != nil {
		return err
	}

	vehicle, err := r.db.GetVehicle(event.VehicleID)
	if err != nil {
		return fmt.Errorf("failed to resolve vehicle %s: %w", event.VehicleID, err)
	}
	if event.CategoryID != nil {
		if _, err := r.db.GetCategory(*event.CategoryID); err != nil {
			return fmt.Errorf("failed to resolve category %s: %w", *event.CategoryID, err)
		}
	}
	if event.LocationID != nil {
		if _, err := r.db.GetLocation(*event.LocationID); err != nil {
			return fmt.Errorf("failed to resolve location %s: %w", *event.LocationID, err)
		}
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.clock.Now()
	}

	if event.TotalCost == nil && event.FuelQuantity != nil && event.UnitPrice != nil {
		cost := engine.TotalCost(*event.FuelQuantity, *event.UnitPrice)
		event.TotalCost = &cost
	}

	if event.Kind == db.KindFuel {
		if err := r.deriveEfficiency(vehicle, event); err != nil {
			return err
		}
	}

	if err := r.db.CreateUsageEvent(event); err != nil {
		return fmt.Errorf("failed to record usage event: %w", err)
	}

	r.publishAfterSave(event)
	return nil
}

func (r *Recorder) deriveEfficiency(vehicle *db.Vehicle, event *db.UsageEvent) error {
	prior, err := r.db.LatestFuelFillBefore(event.VehicleID, event.Date)
	if err != nil {
		return fmt.Errorf("failed to look up previous fuel fill: %w", err)
	}

	var priorFill *engine.FuelFill
	if prior != nil && prior.FuelQuantity != nil {
		priorFill = &engine.FuelFill{
			Quantity: *prior.FuelQuantity,
			Distance: prior.Distance,
			Hours:    prior.Hours,
		}
	}
	cur := engine.FuelFill{
		Quantity: *event.FuelQuantity,
		Distance: event.Distance,
		Hours:    event.Hours,
	}

	eff := engine.DeriveEfficiency(vehicle.Unit, vehicle.StartingReading, priorFill, cur)
	switch vehicle.Unit {
	case engine.UnitDistance:
		event.DistanceEfficiency = eff
	case engine.UnitHours:
		event.TimeEfficiency = eff
	}
	return nil
}

// publishAfterSave emits the activity-stream message for every event and the
// cascade trigger for maintenance events.
func (r *Recorder) publishAfterSave(event *db.UsageEvent) {
	err := r.mq.GetEventRecordedMessageQueue().Publish(mq.EventRecordedMessage{
		VehicleID: event.VehicleID,
		EventID:   event.ID,
		Kind:      event.Kind,
		Date:      event.Date,
	})
	if err != nil {
		r.log.WithError(err).WithField("event_id", event.ID).
			Warn("failed to publish event-recorded message")
	}

	if event.Kind != db.KindMaintenance || event.CategoryID == nil {
		return
	}
	err = r.mq.GetMaintenancePerformedMessageQueue().Publish(mq.MaintenancePerformedMessage{
		VehicleID:  event.VehicleID,
		CategoryID: *event.CategoryID,
		Date:       event.Date,
		Distance:   event.Distance,
		Hours:      event.Hours,
	})
	if err != nil {
		r.log.WithError(err).WithField("event_id", event.ID).
			Warn("failed to publish maintenance-performed message")
	}
}

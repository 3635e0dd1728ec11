package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vmt/db/db"
	"vmt/libs/diff"
	"vmt/mq/mq"
)

// CheckpointUpdater consumes maintenance-performed messages and advances the
// checkpoints of every matching active schedule. It is deliberately decoupled
// from the write path: a failed or slow cascade never affects the ledger
// entry that triggered it.
type CheckpointUpdater struct {
	db  db.FleetDBWrapper
	log logrus.FieldLogger
}

func NewCheckpointUpdater(dbWrapper db.FleetDBWrapper, log logrus.FieldLogger) *CheckpointUpdater {
	return &CheckpointUpdater{db: dbWrapper, log: log}
}

// Start subscribes to every vehicle's maintenance messages and applies them
// until ctx is cancelled.
func (u *CheckpointUpdater) Start(ctx context.Context, queue mq.MaintenancePerformedMessageQueue) error {
	id, ch, err := queue.Subscribe(uuid.Nil)
	if err != nil {
		return err
	}

	go func() {
		defer func() {
			if err := queue.DeSubscribe(id); err != nil {
				u.log.WithError(err).Warn("failed to de-subscribe checkpoint updater")
			}
		}()

		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				u.Apply(msg)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Apply advances the checkpoint of every active schedule matching the
// message's vehicle and category. Each schedule is handled independently: one
// failure is logged and the rest still advance.
func (u *CheckpointUpdater) Apply(msg mq.MaintenancePerformedMessage) {
	log := u.log.WithFields(logrus.Fields{
		"vehicle_id":  msg.VehicleID,
		"category_id": msg.CategoryID,
	})

	schedules, err := u.db.ListActiveSchedules(msg.VehicleID, msg.CategoryID)
	if err != nil {
		log.WithError(err).Error("failed to list schedules for checkpoint cascade")
		return
	}

	differ := diff.GetCustomDiffer()
	for i := range schedules {
		before := schedules[i]
		after := before
		performed := msg.Date
		after.LastPerformed = &performed
		if msg.Distance != nil {
			after.LastDistance = msg.Distance
		}
		if msg.Hours != nil {
			after.LastHours = msg.Hours
		}

		if err := u.db.AdvanceScheduleCheckpoint(&after); err != nil {
			log.WithError(err).WithField("schedule_id", before.ID).
				Error("failed to advance schedule checkpoint")
			continue
		}

		if changelog, err := differ.Diff(before, after); err == nil && len(changelog) > 0 {
			log.WithField("schedule_id", before.ID).
				Infof("advanced checkpoint: %s", diff.DescribeChangelog(changelog))
		}
	}
}

package mq

import (
	"time"

	"github.com/google/uuid"

	"vmt/db/db"
)

type Mode string

const (
	ModeGoChan    Mode = "go_chan"
	ModeRabbitMQ  Mode = "rabbitmq"
	ModeGCPPubSub Mode = "gcp_pub_sub"
)

// MaintenancePerformedMessage is published whenever a maintenance event is
// recorded for a vehicle. Consumers use it to advance schedule checkpoints.
type MaintenancePerformedMessage struct {
	VehicleID  uuid.UUID
	CategoryID uuid.UUID
	Date       time.Time
	Distance   *float64
	Hours      *float64
}

func (m MaintenancePerformedMessage) GetTopic() uuid.UUID {
	return m.VehicleID
}

// EventRecordedMessage is published for every ledger write, regardless of kind.
// It feeds the live activity stream.
type EventRecordedMessage struct {
	VehicleID uuid.UUID
	EventID   uuid.UUID
	Kind      db.EventKind
	Date      time.Time
}

func (m EventRecordedMessage) GetTopic() uuid.UUID {
	return m.VehicleID
}

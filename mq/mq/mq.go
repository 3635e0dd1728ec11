package mq

import "github.com/google/uuid"

// TopicProvider is implemented by every message that can be routed by topic.
type TopicProvider interface {
	GetTopic() uuid.UUID
}

// FleetMessageQueueWrapper bundles the queues the service publishes to and
// consumes from. Implementations exist for in-process channels, RabbitMQ and
// GCP Pub/Sub.
type FleetMessageQueueWrapper interface {
	GetMaintenancePerformedMessageQueue() MaintenancePerformedMessageQueue
	GetEventRecordedMessageQueue() EventRecordedMessageQueue
}

// MaintenancePerformedMessageQueue carries MaintenancePerformedMessages.
// Subscribe with a vehicle ID to receive only that vehicle's messages, or
// with uuid.Nil to receive every vehicle's.
type MaintenancePerformedMessageQueue interface {
	Publish(msg MaintenancePerformedMessage) error
	Subscribe(vehicleID uuid.UUID) (uuid.UUID, <-chan MaintenancePerformedMessage, error)
	DeSubscribe(id uuid.UUID) error
}

// EventRecordedMessageQueue carries EventRecordedMessages. Topic semantics
// match MaintenancePerformedMessageQueue.
type EventRecordedMessageQueue interface {
	Publish(msg EventRecordedMessage) error
	Subscribe(vehicleID uuid.UUID) (uuid.UUID, <-chan EventRecordedMessage, error)
	DeSubscribe(id uuid.UUID) error
}

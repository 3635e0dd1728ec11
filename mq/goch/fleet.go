package goch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"vmt/mq/mq"
)

type QueueError string

func (e QueueError) Error() string {
	return string(e)
}

const (
	ErrSubscriberFull QueueError = "subscriber channel is full"
)

// subscriber is one registered consumer of a fan-out queue. A topic of
// uuid.Nil means the consumer receives every message.
type subscriber[M mq.TopicProvider] struct {
	topic   uuid.UUID
	channel chan M
}

// fanOutQueue is an in-process queue that copies every published message to
// each matching subscriber. Slow subscribers drop messages instead of
// blocking the publisher.
type fanOutQueue[M mq.TopicProvider] struct {
	mu          sync.RWMutex
	bufferSize  int
	subscribers map[uuid.UUID]*subscriber[M]
}

func newFanOutQueue[M mq.TopicProvider](bufferSize int) *fanOutQueue[M] {
	return &fanOutQueue[M]{
		bufferSize:  bufferSize,
		subscribers: make(map[uuid.UUID]*subscriber[M]),
	}
}

// Publish delivers msg to every subscriber whose topic matches the message
// topic, plus all wildcard subscribers.
func (q *fanOutQueue[M]) Publish(msg M) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	topic := msg.GetTopic()
	var dropped int
	for _, sub := range q.subscribers {
		if sub.topic != uuid.Nil && sub.topic != topic {
			continue
		}
		select {
		case sub.channel <- msg:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		return fmt.Errorf("%w: dropped for %d subscriber(s)", ErrSubscriberFull, dropped)
	}
	return nil
}

// Subscribe registers a consumer for the given topic. uuid.Nil subscribes to
// all topics.
func (q *fanOutQueue[M]) Subscribe(topic uuid.UUID) (uuid.UUID, <-chan M, error) {
	id := uuid.New()
	ch := make(chan M, q.bufferSize)

	q.mu.Lock()
	q.subscribers[id] = &subscriber[M]{topic: topic, channel: ch}
	q.mu.Unlock()

	return id, ch, nil
}

// DeSubscribe removes a consumer and closes its channel.
func (q *fanOutQueue[M]) DeSubscribe(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, ok := q.subscribers[id]
	if !ok {
		return fmt.Errorf("subscriber %s not found", id)
	}
	delete(q.subscribers, id)
	close(sub.channel)
	return nil
}

// GoChanFleetMessageQueueWrapper implements FleetMessageQueueWrapper with
// in-process channels. Suitable for tests and single-node deployments.
type GoChanFleetMessageQueueWrapper struct {
	maintenanceMQ *fanOutQueue[mq.MaintenancePerformedMessage]
	eventMQ       *fanOutQueue[mq.EventRecordedMessage]
}

const defaultBufferSize = 16

// NewGoChanFleetMessageQueueWrapper creates a wrapper with buffered queues so
// publishers never block on slow consumers.
func NewGoChanFleetMessageQueueWrapper() mq.FleetMessageQueueWrapper {
	return &GoChanFleetMessageQueueWrapper{
		maintenanceMQ: newFanOutQueue[mq.MaintenancePerformedMessage](defaultBufferSize),
		eventMQ:       newFanOutQueue[mq.EventRecordedMessage](defaultBufferSize),
	}
}

func (w *GoChanFleetMessageQueueWrapper) GetMaintenancePerformedMessageQueue() mq.MaintenancePerformedMessageQueue {
	return w.maintenanceMQ
}

func (w *GoChanFleetMessageQueueWrapper) GetEventRecordedMessageQueue() mq.EventRecordedMessageQueue {
	return w.eventMQ
}

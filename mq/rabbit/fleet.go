package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"vmt/mq/mq"
)

const (
	exchangeName = "fleet_events_exchange"
)

const (
	maintenancePerformedRoutingKey = "maintenance.performed"
	eventRecordedRoutingKey        = "event.recorded"
)

// rabbitConsumer is one local subscriber of a rabbitFleetMessageQueue. The
// per-vehicle filter is applied locally; uuid.Nil passes everything through.
type rabbitConsumer[M mq.TopicProvider] struct {
	topic   uuid.UUID
	channel chan M
}

// rabbitFleetMessageQueue delivers one message type over a shared topic
// exchange. Each Subscribe call gets its own AMQP consumer.
type rabbitFleetMessageQueue[M mq.TopicProvider] struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	queueName  string
	routingKey string
	mu         sync.RWMutex // protects the consumers map
	consumers  map[uuid.UUID]*rabbitConsumer[M]
}

func newRabbitFleetMessageQueue[M mq.TopicProvider](conn *amqp091.Connection, queueName, routingKey string) (*rabbitFleetMessageQueue[M], error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := DeclareQueueAndExchange(ch, queueName, exchangeName, routingKey); err != nil {
		ch.Close()
		return nil, err
	}

	return &rabbitFleetMessageQueue[M]{
		conn:       conn,
		channel:    ch,
		queueName:  queueName,
		routingKey: routingKey,
		consumers:  make(map[uuid.UUID]*rabbitConsumer[M]),
	}, nil
}

// Publish sends a message to the exchange with the queue's routing key.
func (q *rabbitFleetMessageQueue[M]) Publish(msg M) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = q.channel.PublishWithContext(ctx,
		exchangeName, // exchange
		q.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Subscribe registers a local consumer for the given vehicle. uuid.Nil
// subscribes to every vehicle.
func (q *rabbitFleetMessageQueue[M]) Subscribe(vehicleID uuid.UUID) (uuid.UUID, <-chan M, error) {
	msgs, err := q.channel.Consume(
		q.queueName, // queue
		"",          // consumer
		true,        // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	subscriberID := uuid.New()
	outputChan := make(chan M)

	q.mu.Lock()
	q.consumers[subscriberID] = &rabbitConsumer[M]{topic: vehicleID, channel: outputChan}
	q.mu.Unlock()

	go func() {
		defer func() {
			q.mu.Lock()
			if c, ok := q.consumers[subscriberID]; ok {
				close(c.channel)
				delete(q.consumers, subscriberID)
			}
			q.mu.Unlock()
		}()

		for d := range msgs {
			var msg M
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Failed to unmarshal message on %s: %v", q.queueName, err)
				continue
			}

			q.mu.RLock()
			c, ok := q.consumers[subscriberID]
			q.mu.RUnlock()
			if !ok {
				// Consumer was unsubscribed while the message was in flight.
				return
			}
			if c.topic != uuid.Nil && c.topic != msg.GetTopic() {
				continue
			}

			select {
			case c.channel <- msg:
			case <-time.After(1 * time.Second): // Prevent blocking indefinitely
				log.Printf("Timeout sending message to consumer %s on %s. Skipping.", subscriberID, q.queueName)
			}
		}
	}()

	return subscriberID, outputChan, nil
}

// DeSubscribe removes a subscriber by its ID.
func (q *rabbitFleetMessageQueue[M]) DeSubscribe(subscriberID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if c, ok := q.consumers[subscriberID]; ok {
		delete(q.consumers, subscriberID)
		close(c.channel)
		return nil
	}
	return fmt.Errorf("consumer with ID %s not found for queue %s", subscriberID, q.queueName)
}

// RabbitFleetMessageQueueWrapper implements FleetMessageQueueWrapper on top
// of a shared RabbitMQ connection.
type RabbitFleetMessageQueueWrapper struct {
	maintenanceMQ mq.MaintenancePerformedMessageQueue
	eventMQ       mq.EventRecordedMessageQueue
}

// NewRabbitFleetMessageQueueWrapper declares the exchange and both queues.
func NewRabbitFleetMessageQueueWrapper(conn *amqp091.Connection) (mq.FleetMessageQueueWrapper, error) {
	maintenanceMQ, err := newRabbitFleetMessageQueue[mq.MaintenancePerformedMessage](
		conn, "fleet_maintenance_performed_queue", maintenancePerformedRoutingKey)
	if err != nil {
		return nil, err
	}
	eventMQ, err := newRabbitFleetMessageQueue[mq.EventRecordedMessage](
		conn, "fleet_event_recorded_queue", eventRecordedRoutingKey)
	if err != nil {
		return nil, err
	}

	return &RabbitFleetMessageQueueWrapper{
		maintenanceMQ: maintenanceMQ,
		eventMQ:       eventMQ,
	}, nil
}

func (w *RabbitFleetMessageQueueWrapper) GetMaintenancePerformedMessageQueue() mq.MaintenancePerformedMessageQueue {
	return w.maintenanceMQ
}

func (w *RabbitFleetMessageQueueWrapper) GetEventRecordedMessageQueue() mq.EventRecordedMessageQueue {
	return w.eventMQ
}

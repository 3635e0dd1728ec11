package goch

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vmt/mq/mq"
)

func receiveWithTimeout[M any](t *testing.T, ch <-chan M, timeout time.Duration) (M, bool) {
	t.Helper()
	select {
	case msg, ok := <-ch:
		return msg, ok
	case <-time.After(timeout):
		var zero M
		return zero, false
	}
}

func TestFanOutTopicFiltering(t *testing.T) {
	wrapper := NewGoChanFleetMessageQueueWrapper()
	queue := wrapper.GetMaintenancePerformedMessageQueue()

	vehicleA := uuid.New()
	vehicleB := uuid.New()

	idA, chA, err := queue.Subscribe(vehicleA)
	require.NoError(t, err)
	idAll, chAll, err := queue.Subscribe(uuid.Nil)
	require.NoError(t, err)

	msg := mq.MaintenancePerformedMessage{
		VehicleID:  vehicleB,
		CategoryID: uuid.New(),
		Date:       time.Now(),
	}
	require.NoError(t, queue.Publish(msg))

	// The wildcard subscriber hears about every vehicle.
	got, ok := receiveWithTimeout(t, chAll, time.Second)
	require.True(t, ok)
	assert.Equal(t, vehicleB, got.VehicleID)

	// The vehicle-A subscriber must not see vehicle-B traffic.
	select {
	case unexpected := <-chA:
		t.Fatalf("unexpected message for vehicle A: %+v", unexpected)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, queue.DeSubscribe(idA))
	require.NoError(t, queue.DeSubscribe(idAll))
}

func TestDeSubscribeClosesChannel(t *testing.T) {
	wrapper := NewGoChanFleetMessageQueueWrapper()
	queue := wrapper.GetEventRecordedMessageQueue()

	id, ch, err := queue.Subscribe(uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, queue.DeSubscribe(id))

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after DeSubscribe")

	assert.Error(t, queue.DeSubscribe(id), "double de-subscribe should fail")
}

func TestPublishDropsWhenSubscriberFull(t *testing.T) {
	queue := newFanOutQueue[mq.EventRecordedMessage](1)

	_, ch, err := queue.Subscribe(uuid.Nil)
	require.NoError(t, err)

	msg := mq.EventRecordedMessage{VehicleID: uuid.New(), EventID: uuid.New(), Kind: "fuel"}
	require.NoError(t, queue.Publish(msg))

	// Buffer is full now; the next publish reports the drop instead of blocking.
	err = queue.Publish(msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubscriberFull)

	got, ok := receiveWithTimeout(t, ch, time.Second)
	require.True(t, ok)
	assert.Equal(t, msg.EventID, got.EventID)
}

func TestSubscribeProcessorTransforms(t *testing.T) {
	wrapper := NewGoChanFleetMessageQueueWrapper()
	queue := wrapper.GetEventRecordedMessageQueue()

	ctx := t.Context()
	out := make(chan uuid.UUID, 4)
	vehicleID := uuid.New()

	mq.SubscribeProcessor(vehicleID, ctx, queue, func(msg mq.EventRecordedMessage) (uuid.UUID, bool, error) {
		if msg.Kind != "maintenance" {
			return uuid.Nil, true, nil
		}
		return msg.EventID, false, nil
	}, out)

	// Give the processor goroutine time to register its subscription.
	require.Eventually(t, func() bool {
		err := queue.Publish(mq.EventRecordedMessage{VehicleID: vehicleID, EventID: uuid.New(), Kind: "maintenance"})
		return err == nil && len(out) > 0
	}, time.Second, 10*time.Millisecond)

	got, ok := receiveWithTimeout(t, out, time.Second)
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, got)
}

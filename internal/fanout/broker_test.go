package fanout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

func TestBroker_DeliversToAllSubscribers(t *testing.T) {
	b := NewBroker()

	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	r := models.CounterReading{InCount: 3, OutCount: 1, Aforo: 2, DeviceID: "esp32-door"}
	require.NoError(t, b.Publish(context.Background(), r))

	assert.Equal(t, r, <-ch1)
	assert.Equal(t, r, <-ch2)
}

func TestBroker_UnsubscribedConnectionStopsReceiving(t *testing.T) {
	b := NewBroker()

	ch, cancel := b.Subscribe()
	cancel()

	require.NoError(t, b.Publish(context.Background(), models.CounterReading{InCount: 1}))

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, b.Len())
}

func TestBroker_CancelIsIdempotent(t *testing.T) {
	b := NewBroker()

	_, cancel := b.Subscribe()
	cancel()
	cancel()

	assert.Zero(t, b.Len())
}

// A lagging subscriber loses updates instead of blocking the publisher; the
// poll backstop is responsible for catching it up.
func TestBroker_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBroker()

	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, b.Publish(context.Background(), models.CounterReading{InCount: i}))
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestBroker_PublishWithNoSubscribers(t *testing.T) {
	b := NewBroker()
	assert.NoError(t, b.Publish(context.Background(), models.CounterReading{}))
}

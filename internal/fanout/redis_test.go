package fanout

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

func TestNewRedisRelay_RejectsBadURL(t *testing.T) {
	_, err := NewRedisRelay("not-a-url")
	assert.Error(t, err)
}

func TestNewRedisRelay_FailsFastWhenUnreachable(t *testing.T) {
	_, err := NewRedisRelay("redis://127.0.0.1:1")
	assert.Error(t, err)
}

func TestRedisRelay_PublishesReadingAsJSON(t *testing.T) {
	mr := miniredis.RunT(t)

	relay, err := NewRedisRelay("redis://" + mr.Addr())
	require.NoError(t, err)
	defer relay.Close()

	sub := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pubsub := sub.Subscribe(ctx, Channel)
	defer pubsub.Close()
	_, err = pubsub.Receive(ctx) // wait for the subscription ack
	require.NoError(t, err)

	sent := models.CounterReading{
		InCount:   4,
		OutCount:  1,
		Aforo:     3,
		Timestamp: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		DeviceID:  "esp32-door",
	}
	require.NoError(t, relay.Publish(ctx, sent))

	msg, err := pubsub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, Channel, msg.Channel)

	var got models.CounterReading
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, sent, got)
}

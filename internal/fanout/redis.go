package fanout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

// Channel is the pub/sub channel readings are relayed on. Subscribers see
// whatever the relay delivers; this side is fire-and-forget.
const Channel = "counter-channel"

// RedisRelay is the hosted-relay fan-out path: readings are published as JSON
// on a named channel and delivery is entirely the relay's problem.
type RedisRelay struct {
	client *redis.Client
}

// NewRedisRelay connects to the relay and fails fast if it is unreachable.
func NewRedisRelay(redisURL string) (*RedisRelay, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisRelay{client: client}, nil
}

// Publish sends the reading on the counter channel.
func (r *RedisRelay) Publish(ctx context.Context, reading models.CounterReading) error {
	payload, err := json.Marshal(reading)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, Channel, payload).Err()
}

// Close releases the relay connection.
func (r *RedisRelay) Close() error {
	return r.client.Close()
}

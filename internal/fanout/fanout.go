// Package fanout delivers accepted counter readings to live subscribers.
//
// Two interchangeable paths exist: an in-process Broker feeding the SSE
// endpoint, and a RedisRelay publishing to a named channel for external
// subscribers. Both are best-effort: delivery is at-most-once per subscriber
// with no ordering or replay guarantee, and publish failures never fail the
// ingestion that triggered them.
package fanout

import (
	"context"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

// Publisher pushes one accepted reading to whoever is listening.
type Publisher interface {
	Publish(ctx context.Context, r models.CounterReading) error
}

// Multi fans a publish out to several publishers, returning the last error.
// Callers log and swallow; one failing path must not starve the others.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, r models.CounterReading) error {
	var last error
	for _, p := range m {
		if err := p.Publish(ctx, r); err != nil {
			last = err
		}
	}
	return last
}

package fanout

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

// subscriberBuffer bounds how far a slow connection may lag before updates
// are dropped; the client's polling backstop covers anything dropped here.
const subscriberBuffer = 16

// Broker is the connection registry for the direct server-push stream. Each
// subscriber gets a buffered channel keyed by a connection id; Broadcast
// never blocks on a lagging subscriber.
type Broker struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]chan models.CounterReading
}

// NewBroker returns an empty registry.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[uuid.UUID]chan models.CounterReading),
	}
}

// Subscribe registers a connection and returns its update channel along with
// a cancel func. Cancel is idempotent and closes the channel.
func (b *Broker) Subscribe() (<-chan models.CounterReading, func()) {
	ch := make(chan models.CounterReading, subscriberBuffer)
	id := uuid.New()

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish hands the reading to every registered subscriber. A subscriber with
// a full buffer misses this reading; the next one (or a poll) catches it up.
func (b *Broker) Publish(_ context.Context, r models.CounterReading) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- r:
		default:
		}
	}
	return nil
}

// Len reports how many connections are currently registered.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

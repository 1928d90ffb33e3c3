package state

import (
	"sync"
	"time"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

// Cache holds the most recently accepted counter reading for the lifetime of
// the process. Writes are whole-record replacements; readers always observe a
// reading whose fields came from a single write.
type Cache struct {
	mu   sync.RWMutex
	last models.CounterReading
}

// New returns a cache initialized to all-zero counts and the startup time,
// which is what the dashboard shows until the first ingestion (or until a
// query re-derives the state from the database).
func New() *Cache {
	return &Cache{
		last: models.CounterReading{
			Timestamp: time.Now().UTC(),
			DeviceID:  "unknown",
		},
	}
}

// Snapshot returns a copy of the last accepted reading.
func (c *Cache) Snapshot() models.CounterReading {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// Replace overwrites the cached reading wholesale.
func (c *Cache) Replace(r models.CounterReading) {
	c.mu.Lock()
	c.last = r
	c.mu.Unlock()
}

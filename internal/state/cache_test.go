package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

func TestNew_StartsZeroedWithStartupTimestamp(t *testing.T) {
	before := time.Now().UTC()
	c := New()
	snap := c.Snapshot()

	assert.Zero(t, snap.InCount)
	assert.Zero(t, snap.OutCount)
	assert.Zero(t, snap.Aforo)
	assert.Equal(t, "unknown", snap.DeviceID)
	assert.False(t, snap.Timestamp.Before(before))
}

func TestReplace_OverwritesWholeRecord(t *testing.T) {
	c := New()
	r := models.CounterReading{
		InCount:   12,
		OutCount:  7,
		Aforo:     5,
		Timestamp: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		DeviceID:  "esp32-door",
	}
	c.Replace(r)

	assert.Equal(t, r, c.Snapshot())
}

// Readers must never observe fields from two different writes.
func TestCache_ConcurrentReplaceKeepsRecordsIntact(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Replace(models.CounterReading{InCount: n, OutCount: n, Aforo: n, DeviceID: "d"})
		}(i)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			snap := c.Snapshot()
			assert.Equal(t, snap.InCount, snap.OutCount)
			assert.Equal(t, snap.InCount, snap.Aforo)
		}
	}()

	wg.Wait()
	<-done
}

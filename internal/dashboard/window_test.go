package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

func TestWindow_PrependCapsLength(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 5; i++ {
		w.Prepend(reading(i, 0, i, time.Duration(i)*time.Second))
	}

	items := w.Items()
	require.Len(t, items, 3)
	// Newest first; the two oldest fell off.
	assert.Equal(t, 4, items[0].InCount)
	assert.Equal(t, 2, items[2].InCount)
}

func TestWindow_ReplaceTruncatesToCap(t *testing.T) {
	w := NewWindow(2)
	w.Replace([]models.CounterReading{
		reading(3, 0, 3, 3*time.Second),
		reading(2, 0, 2, 2*time.Second),
		reading(1, 0, 1, time.Second),
	})

	items := w.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].InCount)
}

// A reconnect redelivers readings the window already saw; the cap is the
// only dedup mechanism, so the list must never exceed it.
func TestWindow_ResubscribeNeverExceedsCap(t *testing.T) {
	w := NewWindow(RecentWindowCap)
	for round := 0; round < 3; round++ {
		for i := 0; i < RecentWindowCap; i++ {
			w.Prepend(reading(i, 0, i, time.Duration(i)*time.Second))
		}
	}
	assert.Equal(t, RecentWindowCap, w.Len())
}

func TestWindow_ItemsReturnsCopy(t *testing.T) {
	w := NewWindow(2)
	w.Prepend(reading(1, 0, 1, time.Second))

	items := w.Items()
	items[0].InCount = 99

	assert.Equal(t, 1, w.Items()[0].InCount)
}

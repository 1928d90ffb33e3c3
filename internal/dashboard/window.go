package dashboard

import (
	"sync"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

// Standard window sizes: a short list for the live summary and a long one for
// the detailed filterable view.
const (
	RecentWindowCap  = 50
	AllLogsWindowCap = 1000
)

// Window is a capped newest-first list of readings fed from two sides: the
// live channel prepends one reading at a time, and the polling backstop
// replaces the whole list. The cap bounds growth across reconnects, so a
// client that re-subscribes never accumulates duplicates beyond it.
type Window struct {
	mu    sync.Mutex
	cap   int
	items []models.CounterReading
}

// NewWindow returns an empty window holding at most size readings.
func NewWindow(size int) *Window {
	return &Window{cap: size}
}

// Prepend pushes a live reading to the front, dropping the oldest beyond cap.
func (w *Window) Prepend(r models.CounterReading) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append([]models.CounterReading{r}, w.items...)
	if len(w.items) > w.cap {
		w.items = w.items[:w.cap]
	}
}

// Replace swaps the whole list for a freshly polled one, truncated to cap.
func (w *Window) Replace(readings []models.CounterReading) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(readings) > w.cap {
		readings = readings[:w.cap]
	}
	w.items = append([]models.CounterReading(nil), readings...)
}

// Items returns a copy of the current list, newest first.
func (w *Window) Items() []models.CounterReading {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.CounterReading(nil), w.items...)
}

// Len reports how many readings the window currently holds.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

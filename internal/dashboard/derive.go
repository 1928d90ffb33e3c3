// Package dashboard holds the view logic shared by the terminal client and
// anything else presenting counter history: deriving entry/exit events from
// consecutive readings, filtering, pagination, CSV export, and the capped
// list windows fed by the live stream.
package dashboard

import "github.com/aforolabs/counter-dashboard/internal/models"

// EventType classifies the change between a reading and its chronological
// predecessor.
type EventType string

const (
	EventEntry EventType = "entry"
	EventExit  EventType = "exit"
	EventNone  EventType = "none"
)

// DerivedEvent is the classification of one reading relative to the reading
// after it in a newest-first list. It is computed per view, never persisted.
type DerivedEvent struct {
	Type      EventType
	Magnitude int
}

// DeriveEvents classifies every reading in a newest-first list against its
// successor element (its chronological predecessor). A rise in inCount wins
// over a simultaneous rise in outCount; the oldest reading has no predecessor
// and derives to none.
//
// This runs over whatever list the caller is displaying, after filtering.
// Filtering changes each record's predecessor and therefore can change its
// derived event; that view-dependent behavior is intentional.
func DeriveEvents(readings []models.CounterReading) []DerivedEvent {
	events := make([]DerivedEvent, len(readings))
	for i, r := range readings {
		if i+1 >= len(readings) {
			events[i] = DerivedEvent{Type: EventNone}
			continue
		}
		prev := readings[i+1]
		switch {
		case r.InCount > prev.InCount:
			events[i] = DerivedEvent{Type: EventEntry, Magnitude: r.InCount - prev.InCount}
		case r.OutCount > prev.OutCount:
			events[i] = DerivedEvent{Type: EventExit, Magnitude: r.OutCount - prev.OutCount}
		default:
			events[i] = DerivedEvent{Type: EventNone}
		}
	}
	return events
}

// DisplayAforo clamps occupancy for rendering. The device can legitimately
// report negative values; they are only hidden, never rewritten.
func DisplayAforo(aforo int) int {
	if aforo < 0 {
		return 0
	}
	return aforo
}

package dashboard

import (
	"time"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

// Kind selects which derived movements a view shows.
type Kind string

const (
	KindAll     Kind = "all"
	KindEntries Kind = "entries"
	KindExits   Kind = "exits"
)

// FilterKind keeps readings whose delta against their canonical predecessor
// (the next element of the same input list) matches kind. Readings without a
// predecessor are dropped. Note the asymmetry with DeriveEvents: the kind
// filter looks at each counter independently, so a reading where both
// counters rose matches both the entries and the exits filter.
func FilterKind(readings []models.CounterReading, kind Kind) []models.CounterReading {
	if kind == KindAll || kind == "" {
		return readings
	}
	out := []models.CounterReading{}
	for i, r := range readings {
		if i+1 >= len(readings) {
			continue
		}
		prev := readings[i+1]
		switch kind {
		case KindEntries:
			if r.InCount > prev.InCount {
				out = append(out, r)
			}
		case KindExits:
			if r.OutCount > prev.OutCount {
				out = append(out, r)
			}
		}
	}
	return out
}

// FilterDay keeps readings that fall on the same calendar day as day, in
// day's location.
func FilterDay(readings []models.CounterReading, day time.Time) []models.CounterReading {
	y, m, d := day.Date()
	out := []models.CounterReading{}
	for _, r := range readings {
		ry, rm, rd := r.Timestamp.In(day.Location()).Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out
}

// PageSize is the fixed page length of the detailed view.
const PageSize = 100

// Page slices one page out of a filtered view. Pages are 1-based; an
// out-of-range page is empty.
func Page(readings []models.CounterReading, page int) []models.CounterReading {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(readings) {
		return []models.CounterReading{}
	}
	end := start + PageSize
	if end > len(readings) {
		end = len(readings)
	}
	return readings[start:end]
}

// TotalPages reports how many pages a view spans.
func TotalPages(n int) int {
	if n == 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

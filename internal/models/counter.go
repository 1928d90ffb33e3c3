package models

import "time"

// CounterReading is a single observation from the people-counter device.
// InCount/OutCount are cumulative since device start; Aforo is the device's
// current occupancy figure (signed; clamped to >=0 only at display time).
type CounterReading struct {
	ID        int64     `json:"id,omitempty"`
	InCount   int       `json:"inCount"`
	OutCount  int       `json:"outCount"`
	Aforo     int       `json:"aforo"`
	Timestamp time.Time `json:"timestamp"`
	DeviceID  string    `json:"deviceId"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// MicroEvent is a sub-observation the device may batch alongside a reading:
// one person crossing, with the occupancy the device saw at that moment.
type MicroEvent struct {
	IsEntry     bool      `json:"isEntry"`
	AforoAtTime int       `json:"aforoAtTime"`
	Timestamp   time.Time `json:"timestamp"`
}

// IngestRequest is the POST /api/counter payload. The three counters are
// pointers so that absent and wrongly-typed fields are both rejected rather
// than silently defaulting to zero.
type IngestRequest struct {
	InCount      *int         `json:"inCount"`
	OutCount     *int         `json:"outCount"`
	Aforo        *int         `json:"aforo"`
	Timestamp    string       `json:"timestamp,omitempty"`
	DeviceID     string       `json:"deviceId,omitempty"`
	RecentEvents []MicroEvent `json:"recentEvents,omitempty"`
}

// IngestData echoes the normalized counters back to the device.
type IngestData struct {
	InCount   int       `json:"inCount"`
	OutCount  int       `json:"outCount"`
	Aforo     int       `json:"aforo"`
	Timestamp time.Time `json:"timestamp"`
}

// IngestResponse is returned by POST /api/counter once the in-memory state
// has been replaced; persistence and fan-out are best-effort and their
// outcome is not observable here.
type IngestResponse struct {
	Success bool       `json:"success"`
	Data    IngestData `json:"data"`
}

// Stats are aggregates over the entire counter_logs table, never over a
// filtered subset.
type Stats struct {
	TotalRecords int64     `json:"total_records"`
	MaxEntries   int       `json:"max_entries"`
	MaxExits     int       `json:"max_exits"`
	MaxAforo     int       `json:"max_aforo"`
	FirstRecord  time.Time `json:"first_record,omitempty"`
	LastRecord   time.Time `json:"last_record,omitempty"`
}

// Pagination echoes the window the history query was served with.
type Pagination struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// HistoryResponse is the GET /api/history envelope. Message is set only when
// the durable log is not configured, so clients can tell "empty" from "off".
type HistoryResponse struct {
	History    []CounterReading `json:"history"`
	Stats      Stats            `json:"stats"`
	Pagination Pagination       `json:"pagination"`
	Message    string           `json:"message,omitempty"`
}

// CurrentResponse is the GET /api/counter envelope. Source reports whether
// the current reading was re-derived from the database or served from the
// in-process cache.
type CurrentResponse struct {
	Current CounterReading   `json:"current"`
	History []CounterReading `json:"history"`
	Source  string           `json:"source"`
}

package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aforolabs/counter-dashboard/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// ErrNoReadings is returned by LatestReading on an empty counter_logs table.
var ErrNoReadings = errors.New("no readings stored")

// HistoryFilter narrows a history query. Zero values mean "no filter";
// StartDate/EndDate are inclusive bounds on the reading timestamp.
type HistoryFilter struct {
	DeviceID  string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}

// PostgresStore is the append-only durable log of counter readings.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// InsertReading appends one reading to counter_logs.
func (p *PostgresStore) InsertReading(ctx context.Context, r models.CounterReading) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO counter_logs (in_count, out_count, aforo, device_id, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`, r.InCount, r.OutCount, r.Aforo, r.DeviceID, r.Timestamp)
	return err
}

// InsertMicroEvents appends the batch row by row, preserving order. A failure
// stops the batch; rows already written stay written. Returns how many rows
// made it in.
func (p *PostgresStore) InsertMicroEvents(ctx context.Context, deviceID string, events []models.MicroEvent) (int, error) {
	for i, ev := range events {
		_, err := p.pool.Exec(ctx, `
			INSERT INTO counter_events (device_id, is_entry, aforo_at_time, event_timestamp)
			VALUES ($1, $2, $3, $4)
		`, deviceID, ev.IsEntry, ev.AforoAtTime, ev.Timestamp)
		if err != nil {
			return i, fmt.Errorf("event %d of %d: %w", i+1, len(events), err)
		}
	}
	return len(events), nil
}

// LatestReading returns the newest reading by the same ordering History
// uses, so `current` always agrees with the first history row even when a
// device supplies out-of-order timestamps. The log is more authoritative
// than the in-process cache: the cache resets to zero on every process start
// while the log persists.
func (p *PostgresStore) LatestReading(ctx context.Context) (models.CounterReading, error) {
	var r models.CounterReading
	err := p.pool.QueryRow(ctx, `
		SELECT id, in_count, out_count, aforo, COALESCE(device_id, 'unknown'), timestamp, created_at
		FROM counter_logs
		ORDER BY timestamp DESC, created_at DESC
		LIMIT 1
	`).Scan(&r.ID, &r.InCount, &r.OutCount, &r.Aforo, &r.DeviceID, &r.Timestamp, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.CounterReading{}, ErrNoReadings
	}
	if err != nil {
		return models.CounterReading{}, err
	}
	return r, nil
}

// History returns readings matching the filter, newest first.
func (p *PostgresStore) History(ctx context.Context, f HistoryFilter) ([]models.CounterReading, error) {
	var (
		conds []string
		args  []any
	)

	if f.DeviceID != "" {
		args = append(args, f.DeviceID)
		conds = append(conds, fmt.Sprintf("device_id = $%d", len(args)))
	}
	if !f.StartDate.IsZero() {
		args = append(args, f.StartDate)
		conds = append(conds, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if !f.EndDate.IsZero() {
		args = append(args, f.EndDate)
		conds = append(conds, fmt.Sprintf("timestamp <= $%d", len(args)))
	}

	query := `
		SELECT id, in_count, out_count, aforo, COALESCE(device_id, 'unknown'), timestamp, created_at
		FROM counter_logs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY timestamp DESC, created_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := []models.CounterReading{}
	for rows.Next() {
		var r models.CounterReading
		if err := rows.Scan(&r.ID, &r.InCount, &r.OutCount, &r.Aforo, &r.DeviceID, &r.Timestamp, &r.CreatedAt); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// Stats aggregates over the entire table, never a filtered subset; history
// responses pair filtered rows with whole-table stats on purpose.
func (p *PostgresStore) Stats(ctx context.Context) (models.Stats, error) {
	var (
		s           models.Stats
		maxIn       *int
		maxOut      *int
		maxAforo    *int
		first, last *time.Time
	)
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*), MAX(in_count), MAX(out_count), MAX(aforo), MIN(timestamp), MAX(timestamp)
		FROM counter_logs
	`).Scan(&s.TotalRecords, &maxIn, &maxOut, &maxAforo, &first, &last)
	if err != nil {
		return models.Stats{}, err
	}

	// Aggregates are NULL on an empty table.
	if maxIn != nil {
		s.MaxEntries = *maxIn
	}
	if maxOut != nil {
		s.MaxExits = *maxOut
	}
	if maxAforo != nil {
		s.MaxAforo = *maxAforo
	}
	if first != nil {
		s.FirstRecord = *first
	}
	if last != nil {
		s.LastRecord = *last
	}
	return s, nil
}

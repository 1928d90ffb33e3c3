package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aforolabs/counter-dashboard/internal/fanout"
	"github.com/aforolabs/counter-dashboard/internal/models"
	"github.com/aforolabs/counter-dashboard/internal/state"
	"github.com/aforolabs/counter-dashboard/internal/store"
)

// Store is the durable-log surface the handlers depend on. A nil Store means
// the service runs memory-only.
type Store interface {
	InsertReading(ctx context.Context, r models.CounterReading) error
	InsertMicroEvents(ctx context.Context, deviceID string, events []models.MicroEvent) (int, error)
	LatestReading(ctx context.Context) (models.CounterReading, error)
	History(ctx context.Context, f store.HistoryFilter) ([]models.CounterReading, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// currentHistoryLimit bounds the recent-history window returned alongside the
// current reading.
const currentHistoryLimit = 100

// RegisterCounterRoutes registers the ingestion and current-state endpoints.
//
// POST /api/counter
//   - Validates the three counters are present and numeric; rejects otherwise
//     with nothing written anywhere.
//   - Synchronously replaces the in-memory state, then best-effort appends to
//     the durable log and publishes to the fan-out channel. Those two may fail
//     without failing the request.
//
// GET /api/counter
//   - Returns the current state plus recent history. When the database is
//     reachable the latest row wins over the in-process cache, which
//     reconciles cache drift after a process restart.
func RegisterCounterRoutes(r gin.IRoutes, cache *state.Cache, st Store, pub fanout.Publisher, log *zap.Logger) {
	r.POST("/api/counter", func(c *gin.Context) {
		var req models.IngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if req.InCount == nil || req.OutCount == nil || req.Aforo == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "inCount, outCount and aforo are required numbers"})
			return
		}

		now := time.Now().UTC()
		ts := now
		if req.Timestamp != "" {
			parsed, err := time.Parse(time.RFC3339, req.Timestamp)
			if err == nil {
				ts = parsed.UTC()
			} else {
				log.Warn("unparseable device timestamp, using server time",
					zap.String("timestamp", req.Timestamp))
			}
		}

		deviceID := req.DeviceID
		if deviceID == "" {
			deviceID = "unknown"
		}

		reading := models.CounterReading{
			InCount:   *req.InCount,
			OutCount:  *req.OutCount,
			Aforo:     *req.Aforo,
			Timestamp: ts,
			DeviceID:  deviceID,
		}

		// The cache update is the only synchronous guarantee; everything
		// after it is advisory.
		cache.Replace(reading)

		if st != nil {
			if err := st.InsertReading(c.Request.Context(), reading); err != nil {
				log.Error("failed to persist reading", zap.Error(err),
					zap.String("device_id", deviceID))
			} else if len(req.RecentEvents) > 0 {
				n, err := st.InsertMicroEvents(c.Request.Context(), deviceID, req.RecentEvents)
				if err != nil {
					log.Error("failed to persist micro-events", zap.Error(err),
						zap.Int("inserted", n), zap.Int("batch", len(req.RecentEvents)))
				}
			}
		}

		if err := pub.Publish(c.Request.Context(), reading); err != nil {
			log.Error("failed to publish reading", zap.Error(err))
		}

		c.JSON(http.StatusOK, models.IngestResponse{
			Success: true,
			Data: models.IngestData{
				InCount:   reading.InCount,
				OutCount:  reading.OutCount,
				Aforo:     reading.Aforo,
				Timestamp: reading.Timestamp,
			},
		})
	})

	r.GET("/api/counter", func(c *gin.Context) {
		if st != nil {
			history, err := st.History(c.Request.Context(), store.HistoryFilter{
				Limit: currentHistoryLimit,
			})
			if err == nil {
				// The log outlives the process; its newest row is more
				// authoritative than the cache. An empty table is normal
				// and keeps the cache as-is.
				latest, lerr := st.LatestReading(c.Request.Context())
				switch {
				case lerr == nil:
					cache.Replace(latest)
				case !errors.Is(lerr, store.ErrNoReadings):
					log.Error("latest reading query failed, serving cached state", zap.Error(lerr))
				}
				c.JSON(http.StatusOK, models.CurrentResponse{
					Current: cache.Snapshot(),
					History: history,
					Source:  "database",
				})
				return
			}
			log.Error("history query failed, serving cache only", zap.Error(err))
		}

		c.JSON(http.StatusOK, models.CurrentResponse{
			Current: cache.Snapshot(),
			History: []models.CounterReading{},
			Source:  "memory",
		})
	})
}

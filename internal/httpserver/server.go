package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aforolabs/counter-dashboard/internal/fanout"
	"github.com/aforolabs/counter-dashboard/internal/handlers"
	"github.com/aforolabs/counter-dashboard/internal/state"
	"github.com/aforolabs/counter-dashboard/internal/store"
)

// requestLogger logs each request with latency and status. The event stream
// endpoint is skipped because its requests are minutes long by design.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/api/events" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// NewRouter wires public endpoints and the counter APIs.
// Public: /health, /ready
// APIs: /api/counter, /api/history, /api/events
//
// st may be nil (memory-only mode) and pub may wrap zero or more fan-out
// paths; the broker always backs the SSE stream.
func NewRouter(cache *state.Cache, st *store.PostgresStore, broker *fanout.Broker, pub fanout.Publisher, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: reports the durable-log dependency. A missing database is
	// still "ready" because the service degrades to memory-only on purpose.
	r.GET("/ready", func(c *gin.Context) {
		if st == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready", "storage": "memory"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "storage": "database"})
	})

	// A nil *PostgresStore must stay a nil interface inside the handlers'
	// memory-only checks.
	var logStore handlers.Store
	if st != nil {
		logStore = st
	}

	handlers.RegisterCounterRoutes(r, cache, logStore, pub, log)
	handlers.RegisterHistoryRoutes(r, logStore, log)
	handlers.RegisterEventRoutes(r, broker)

	return r
}

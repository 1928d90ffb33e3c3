package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/aforolabs/counter-dashboard/internal/config"
	"github.com/aforolabs/counter-dashboard/internal/fanout"
	"github.com/aforolabs/counter-dashboard/internal/httpserver"
	"github.com/aforolabs/counter-dashboard/internal/logging"
	"github.com/aforolabs/counter-dashboard/internal/state"
	"github.com/aforolabs/counter-dashboard/internal/store"
)

// main boots the service: config → logger → storage → fan-out → HTTP server.
// Storage and the hosted relay are optional; with neither configured the
// service still serves the cache and the SSE stream.
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "counter-api")
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Durable log is a feature toggle: without DB_URL the service runs
	// memory-only and history queries return empty results.
	var st *store.PostgresStore
	if cfg.HasDatabase() {
		st, err = store.NewPostgresStore(cfg.DBURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer st.Close()

		if err := st.EnsureSchema(); err != nil {
			logger.Fatal("schema bootstrap failed", zap.Error(err))
		}
		logger.Info("durable log enabled")
	} else {
		logger.Warn("DB_URL not set, running memory-only")
	}

	// The broker always backs the SSE stream; the Redis relay joins the
	// fan-out only when configured.
	broker := fanout.NewBroker()
	pub := fanout.Multi{broker}
	if cfg.HasRelay() {
		relay, err := fanout.NewRedisRelay(cfg.RedisURL)
		if err != nil {
			logger.Fatal("relay connection failed", zap.Error(err))
		}
		defer relay.Close()
		pub = append(pub, relay)
		logger.Info("hosted relay enabled", zap.String("channel", fanout.Channel))
	}

	cache := state.New()
	router := httpserver.NewRouter(cache, st, broker, pub, logger)

	logger.Info("server started", zap.String("addr", cfg.Addr))
	if err := router.Run(cfg.Addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

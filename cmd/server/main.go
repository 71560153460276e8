package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/winecraft-dev/connect4/internal/analytics"
	"github.com/winecraft-dev/connect4/internal/config"
	"github.com/winecraft-dev/connect4/internal/database"
	"github.com/winecraft-dev/connect4/internal/logger"
	"github.com/winecraft-dev/connect4/internal/middleware"
	"github.com/winecraft-dev/connect4/internal/session"
	"github.com/winecraft-dev/connect4/internal/utils"
	"github.com/winecraft-dev/connect4/internal/ws"
)

func main() {
	if err := godotenv.Load(".env.local"); err != nil {
		logger.Debug(".env.local not found, using system environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	logger.Info("starting connect4 game server")

	rm := utils.NewResourceManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rm.HandleGracefulShutdown(ctx)

	// Optional analytics database.
	var db *database.DB
	if cfg.Database.Enabled() {
		db, err = database.NewDB(cfg.Database)
		if err != nil {
			logger.Error("database connection failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		rm.AddCleanupFunc(db.Close)
	} else {
		logger.Info("no database configured, running without analytics storage")
	}

	// Optional Kafka analytics pipeline.
	var producer *analytics.Producer
	if cfg.Kafka.Enabled() {
		producer, err = analytics.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Warn("kafka producer init failed", map[string]any{"error": err.Error()})
			producer = nil
		} else {
			logger.Info("kafka producer initialized")
			rm.AddCleanupFunc(producer.Close)
		}
	}

	if db != nil && cfg.Kafka.Enabled() {
		consumer, err := analytics.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, db.DB)
		if err != nil {
			logger.Warn("kafka consumer init failed", map[string]any{"error": err.Error()})
		} else {
			if _, err := db.Exec(analytics.CreateAnalyticsTableSQL); err != nil {
				logger.Warn("failed to create analytics tables", map[string]any{"error": err.Error()})
			}
			go func() {
				if err := consumer.Start(ctx, []string{cfg.Kafka.Topic}); err != nil && ctx.Err() == nil {
					logger.Error("analytics consumer stopped", map[string]any{"error": err.Error()})
				}
			}()
			rm.AddCleanupFunc(consumer.Close)
			logger.Info("kafka consumer initialized")
		}
	}

	// One admission stream, one session, one game per process run.
	events := make(chan session.Event, 16)
	gateway := ws.NewGateway(events, cfg.Security.AllowedOrigins)

	sess := session.New(events)
	if producer != nil {
		sess.SetEventSink(producer)
	}

	router := mux.NewRouter()
	router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.Security.RequestsPerSec, cfg.Security.Burst)))
	router.Use(middleware.CORS(cfg.Security.AllowedOrigins))
	router.HandleFunc("/play/{username}", gateway.HandlePlay)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s\n", sess.State())
	}).Methods(http.MethodGet)
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("server listening", map[string]any{"addr": addr})
		if err := http.ListenAndServe(addr, router); err != nil {
			logger.Error("http server failed", map[string]any{"error": err.Error()})
			rm.Cleanup()
			os.Exit(1)
		}
	}()

	// The session blocks until the game ends or something unrecoverable
	// happens; either way this process has served its purpose.
	if err := sess.Run(ctx); err != nil {
		logger.Error("session failed", map[string]any{"session": sess.ID(), "error": err.Error()})
		rm.Cleanup()
		os.Exit(1)
	}

	logger.Info("session retired", map[string]any{"session": sess.ID()})
	rm.Cleanup()
}

package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/api"
	"github.com/guttosm/stockpulse/internal/janitor"
	"github.com/guttosm/stockpulse/internal/llm"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/metrics"
	"github.com/guttosm/stockpulse/internal/service"
	"github.com/guttosm/stockpulse/internal/storage"
)

const redisPingTimeout = 2 * time.Second

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Opens the upload store selected by STORAGE_DRIVER (filesystem or PostgreSQL + migrations).
//   - Builds the explainer, wrapped by the Redis cache when REDIS_ADDR is set.
//   - Creates the service, handler and router layers.
//   - Registers health and readiness probes for the store and cache.
//   - Starts the upload janitor when a retention is configured.
//   - Provides a cleanup function to stop the janitor and close connections.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig
	m := metrics.New()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Upload store
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	// Explainer (+ optional cache)
	explainer, rdb := buildExplainer(cfg)
	if rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
	}

	// Service → handler → router
	svc := service.NewReportService(store, explainer, cfg.Analysis.DefaultWindow, m)
	handler := api.NewHandler(svc, cfg.Upload.MaxBytes, cfg.Analysis.DefaultWindow)
	router := api.NewRouter(handler, m)

	// Health and readiness probes
	checks := []api.Check{{Name: "storage", Ping: store.Ping}}
	if rdb != nil {
		checks = append(checks, api.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }})
	}
	api.NewHealthHandler(checks...).Register(router)

	// Retention janitor
	if cfg.Upload.Retention > 0 {
		j, err := janitor.New(store, cfg.Janitor.Schedule, cfg.Upload.Retention, m)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to initialize janitor: %w", err)
		}
		j.Start()
		closers = append(closers, j.Stop)
	}

	return router, cleanup, nil
}

// OpenStore opens the upload store selected by cfg for callers outside the HTTP server.
func OpenStore(cfg config.Config) (storage.UploadStore, func(), error) {
	return openStore(cfg)
}

func openStore(cfg config.Config) (storage.UploadStore, func(), error) {
	switch cfg.Upload.Driver {
	case "postgres":
		conn, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		if err := migrator(conn); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		logger.L().Info().Str("driver", "postgres").Msg("upload store ready")
		return storage.NewUploadsRepository(conn), closeDB(conn), nil
	case "fs", "":
		store, err := storage.NewFSStore(cfg.Upload.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize upload dir: %w", err)
		}
		logger.L().Info().Str("driver", "fs").Str("dir", cfg.Upload.Dir).Msg("upload store ready")
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Upload.Driver)
	}
}

func closeDB(conn *sql.DB) func() {
	return func() { _ = conn.Close() }
}

// buildExplainer returns the OpenAI explainer, cached through Redis when configured.
// An unreachable Redis at startup is logged; the cache bypasses it per call.
func buildExplainer(cfg config.Config) (llm.Explainer, *redis.Client) {
	oa := llm.NewOpenAIExplainer(llm.OpenAIConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	if cfg.LLM.APIKey == "" {
		logger.L().Warn().Msg("OPENAI_API_KEY not set; explanations will fail")
	}
	if cfg.Redis.Addr == "" {
		return oa, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.L().Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable; cache will be bypassed until it recovers")
	}
	return llm.NewCachedExplainer(oa, rdb, cfg.Redis.TTL, oa.Model()), rdb
}

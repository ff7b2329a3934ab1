package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/team-lineup/internal/config"
	"github.com/iliyamo/team-lineup/internal/database"
	"github.com/iliyamo/team-lineup/internal/handler"
	"github.com/iliyamo/team-lineup/internal/queue"
	"github.com/iliyamo/team-lineup/internal/repository"
	"github.com/iliyamo/team-lineup/internal/roster"
	"github.com/iliyamo/team-lineup/internal/router"
	"github.com/iliyamo/team-lineup/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	var err error
	logger, err = newLogger(cfg.IsProd())
	if err != nil {
		return err
	}
	log := logger.With(zap.String("env", cfg.Env))

	slots, rdb, closeStore, err := openSlots(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	store := roster.NewStore(repository.NewRosterRepo(slots, cfg.SlotPrefix, log), roster.WithLogger(log))
	if err := store.Load(ctx); err != nil {
		if errors.Is(err, roster.ErrLoadFailed) {
			// Serving an empty roster would let the next edit overwrite the saved one.
			return err
		}
		// The sample roster is in memory; only the write-back failed.
		log.Warn("persist seeded roster failed", zap.Error(err))
	}

	var events handler.EventPublisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		events = service.NewAMQPPublisher(cfg.AMQPURL, log)
		go func() {
			if err := queue.StartLineupConsumer(ctx, cfg.AMQPURL, queue.DefaultLogDir, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("lineup consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, router.Deps{
		Cfg:       cfg,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
		Log:       log,
		Auth:      handler.NewAuthHandler(cfg),
		Lineup:    handler.NewLineupHandler(store, events, log),
	})
	if cfg.CoachPasswordHash == "" {
		log.Warn("COACH_PASSWORD_HASH is empty; login is disabled")
	}

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("storage", cfg.StorageDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

// openSlots connects the configured storage driver.  The returned Redis
// client, if any, also serves the rate limiter and the response cache.
func openSlots(ctx context.Context, cfg config.Config, log *zap.Logger) (repository.SlotStore, *redis.Client, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverRedis:
		rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewRedisSlots(rdb), rdb, func() { _ = rdb.Close() }, nil
	case config.DriverMySQL:
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		rdb := optionalRedis(ctx, log)
		return repository.NewSQLSlots(db), rdb, func() {
			_ = db.Close()
			if rdb != nil {
				_ = rdb.Close()
			}
		}, nil
	case config.DriverMemory:
		rdb := optionalRedis(ctx, log)
		return repository.NewMemorySlots(), rdb, func() {
			if rdb != nil {
				_ = rdb.Close()
			}
		}, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

// optionalRedis connects Redis for the middlewares only; without it they
// pass requests through.
func optionalRedis(ctx context.Context, log *zap.Logger) *redis.Client {
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		log.Warn("redis unavailable; rate limit and cache disabled", zap.Error(err))
		return nil
	}
	return rdb
}

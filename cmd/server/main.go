// Package main is the entry point for the SyncUp backend: the project and
// mentorship API, the skill signal ledger, and the analytics read side.
//
// The layout follows Clean Architecture and DDD:
//   - Domain: state machines, the emission guard, pure business rules
//   - Application: command and query handlers
//   - Infrastructure: postgres, redis, the event bus, notification dispatch
//   - Interface: the REST API
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bonny2long/syncup-backend/config"
	"github.com/bonny2long/syncup-backend/internal/application/command"
	"github.com/bonny2long/syncup-backend/internal/application/query"
	"github.com/bonny2long/syncup-backend/internal/infrastructure/messaging"
	"github.com/bonny2long/syncup-backend/internal/infrastructure/persistence/postgres"
	"github.com/bonny2long/syncup-backend/internal/infrastructure/persistence/redis"
	"github.com/bonny2long/syncup-backend/internal/infrastructure/service"
	httpserver "github.com/bonny2long/syncup-backend/internal/interface/http"
	"github.com/bonny2long/syncup-backend/internal/interface/http/handlers"
	"github.com/bonny2long/syncup-backend/pkg/circuitbreaker"
	"github.com/bonny2long/syncup-backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("fatal: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Observability.LogLevel))
	log.Info("starting syncup backend",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─────────────────────────────────────────────────────────────────────────
	// PostgreSQL
	// ─────────────────────────────────────────────────────────────────────────
	conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.Database.AutoMigrate {
		migrator := postgres.NewMigrator(conn)
		if err := migrator.Migrate(ctx); err != nil {
			return err
		}
		log.Info("database migrations applied")
	}

	projectRepo := postgres.NewProjectRepository(conn)
	sessionRepo := postgres.NewSessionRepository(conn)
	skillRepo := postgres.NewSkillRepository(conn)
	userRepo := postgres.NewUserRepository(conn)
	signalRepo := postgres.NewSignalRepository(conn, cfg.Database.LedgerHasDeletedColumn)
	notificationRepo := postgres.NewNotificationRepository(conn)

	// ─────────────────────────────────────────────────────────────────────────
	// Redis (notification outbox, optional)
	// ─────────────────────────────────────────────────────────────────────────
	var outbox *redis.Outbox
	var redisClient *redis.Client
	if !cfg.Redis.Disabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisClient, err = redis.NewClient(redisCfg)
		if err != nil {
			log.Warn("redis unavailable, notifications will not be announced", logger.Err(err))
		} else {
			defer redisClient.Close()
			breaker := circuitbreaker.New(circuitbreaker.Config{
				Name:             "redis-outbox",
				FailureThreshold: cfg.Notifications.BreakerThreshold,
				Timeout:          cfg.Notifications.BreakerTimeout,
			})
			outbox = redis.NewOutbox(redisClient, breaker)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Event bus and notification dispatch
	// ─────────────────────────────────────────────────────────────────────────
	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	bus := messaging.NewInMemoryEventBus(busCfg)
	defer bus.Close()

	if !cfg.Notifications.Disabled {
		notifier := service.NewNotifier(notificationRepo, outbox, log)
		subscriber := service.NewNotificationSubscriber(notifier, log)
		if err := subscriber.Register(bus); err != nil {
			return err
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Application layer
	// ─────────────────────────────────────────────────────────────────────────
	deps := httpserver.Dependencies{
		CreateProjectHandler:     command.NewCreateProjectHandler(projectRepo, skillRepo, signalRepo, conn, log),
		JoinProjectHandler:       command.NewJoinProjectHandler(projectRepo, skillRepo, signalRepo, conn, bus, log),
		TransitionProjectHandler: command.NewTransitionProjectHandler(projectRepo, userRepo, conn, bus, log),
		PostUpdateHandler:        command.NewPostUpdateHandler(projectRepo, skillRepo, signalRepo, conn, bus, log),
		RequestSessionHandler:    command.NewRequestSessionHandler(sessionRepo, userRepo, conn, bus, log),
		TransitionSessionHandler: command.NewTransitionSessionHandler(sessionRepo, signalRepo, conn, bus, log),
		RescheduleSessionHandler: command.NewRescheduleSessionHandler(sessionRepo, conn, bus, log),

		GetDistributionHandler: query.NewGetDistributionHandler(signalRepo, log),
		GetMomentumHandler:     query.NewGetMomentumHandler(signalRepo, log),
		GetActivityMixHandler:  query.NewGetActivityMixHandler(signalRepo, log),
		GetSkillSummaryHandler: query.NewGetSkillSummaryHandler(signalRepo, log),

		Notifications: notificationRepo,
		Logger:        log,
		HealthChecker: buildHealthChecker(cfg, conn, redisClient),
	}

	// ─────────────────────────────────────────────────────────────────────────
	// HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpserver.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(httpCfg, deps)
	errCh := server.StartAsync()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", logger.Err(err))
	}
	if err := bus.WaitIdle(shutdownCtx); err != nil {
		log.Warn("event handlers still running at shutdown", logger.Err(err))
	}

	log.Info("shutdown complete")
	return nil
}

func buildHealthChecker(cfg *config.Config, conn *postgres.Connection, redisClient *redis.Client) handlers.HealthChecker {
	checker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	checker.AddCheck("postgres", handlers.NewPingCheck(conn))
	if redisClient != nil {
		checker.AddCheck("redis", handlers.NewPingCheck(redisClient))
	}
	return checker
}

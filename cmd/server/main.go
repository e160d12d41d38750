package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hackathon_hub/internal/api"
	"hackathon_hub/internal/api/web"
	"hackathon_hub/internal/app/realtime"
	"hackathon_hub/internal/app/service"
	"hackathon_hub/internal/app/worker"
	"hackathon_hub/internal/common/security"
	"hackathon_hub/internal/domain/repository"
	"hackathon_hub/internal/platform/config"
	"hackathon_hub/internal/platform/database"
	"hackathon_hub/internal/platform/logging"
	"hackathon_hub/internal/platform/metrics"
	"hackathon_hub/internal/platform/queue"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration and logging
	cfg, err := config.Load(envOr("CONFIG_FILE", "config.yaml"))
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, !cfg.IsProduction())
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "env", cfg.AppEnv, "port", cfg.APIPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database
	db, err := database.Connect(ctx, cfg.DBConnStr)
	if err != nil {
		return err
	}
	defer database.Close()

	// 3. Redis
	rdb, err := queue.ConnectRedis(ctx, queue.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer queue.CloseRedis()

	m := metrics.New()
	sessions := security.NewSessionAuth(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	// 4. Repositories
	userRepo := repository.NewPgUserRepository(db)
	mentorRepo := repository.NewPgMentorRepository(db)
	eventRepo := repository.NewPgEventRepository(db)
	teamRepo := repository.NewPgTeamRepository(db)
	judgingRepo := repository.NewPgJudgingRepository(db)
	statsRepo := repository.NewPgStatsRepository(db)

	// 5. Realtime
	broker := realtime.NewRedisBroker(rdb, cfg.RealtimeChannel, logger)
	hub := realtime.NewHub(broker, m, logger)

	// 6. Services
	services := api.Services{
		Auth:      service.NewAuthService(userRepo, sessions, logger),
		Users:     service.NewUserService(userRepo, mentorRepo, logger),
		Events:    service.NewEventService(eventRepo),
		Teams:     service.NewTeamService(teamRepo, userRepo),
		Judging:   service.NewJudgingService(judgingRepo, teamRepo),
		Dashboard: service.NewDashboardService(statsRepo),
		Webhook:   service.NewWebhookService(broker, logger),
	}

	// 7. Background workers
	relay := worker.NewChangeRelay(
		worker.NewRedisLocker(queue.NewLocker(rdb, cfg.RelayLockKey, cfg.RelayLockTTL())),
		func(ctx context.Context) (worker.Listener, error) {
			return database.ConnectListener(ctx, cfg.DBConnStr)
		},
		broker, m, logger,
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("realtime hub stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		relay.Start(ctx)
	}()

	// 8. Router and HTTP server
	pages, err := web.NewPages(logger)
	if err != nil {
		return err
	}
	var routerMetrics *metrics.Metrics
	if cfg.MetricsEnabled {
		routerMetrics = m
	}
	router := api.NewRouter(services, api.Options{
		Sessions:           sessions,
		Hub:                hub,
		Metrics:            routerMetrics,
		Pages:              pages,
		Logger:             logger,
		WebhookSecret:      cfg.RealtimeWebhookSecret,
		AuthRatePerMinute:  cfg.AuthRateLimitPerMinute,
		AuthRateBurst:      cfg.AuthRateLimitBurst,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SSEHeartbeat:       realtime.DefaultHeartbeat,
	})

	// WriteTimeout stays unset so event streams are not cut; the router
	// applies a per-request timeout to everything else.
	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 9. Graceful shutdown
	select {
	case err := <-serverErr:
		if err != nil {
			stop()
			wg.Wait()
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	wg.Wait()
	logger.Info("server and workers stopped gracefully")
	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/kveer007/tracker-reminders/internal/config"
	"github.com/kveer007/tracker-reminders/internal/handler"
	"github.com/kveer007/tracker-reminders/internal/health"
	"github.com/kveer007/tracker-reminders/internal/infra/dispatchrecorder"
	"github.com/kveer007/tracker-reminders/internal/infra/notify"
	"github.com/kveer007/tracker-reminders/internal/infra/relay"
	"github.com/kveer007/tracker-reminders/internal/infra/store"
	"github.com/kveer007/tracker-reminders/internal/observability"
	"github.com/kveer007/tracker-reminders/internal/observability/logging"
	"github.com/kveer007/tracker-reminders/internal/observability/metrics"
	"github.com/kveer007/tracker-reminders/internal/observability/middleware"
	"github.com/kveer007/tracker-reminders/internal/service/dispatch"
	"github.com/kveer007/tracker-reminders/internal/service/probe"
	"github.com/kveer007/tracker-reminders/internal/service/schedule"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env := logging.EnvProd
	if os.Getenv("ENV") == "dev" {
		env = logging.EnvDev
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceName:  "tracker-reminders",
		Version:      Version,
		Environment:  env,
		LogLevel:     slog.LevelInfo,
		SamplingRate: 1.0,
	})
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if cfg.LogLevel != slog.LevelInfo {
		slog.SetDefault(logging.NewLogger(env, cfg.LogLevel))
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	schedulerMetrics, err := metrics.NewSchedulerMetrics()
	if err != nil {
		slog.Error("failed to initialize scheduler metrics", slog.String("error", err.Error()))
		return 1
	}

	dispatchMetrics, err := metrics.NewDispatchMetrics()
	if err != nil {
		slog.Error("failed to initialize dispatch metrics", slog.String("error", err.Error()))
		return 1
	}

	recorderCfg := dispatchrecorder.LoadConfig()
	recorder, err := dispatchrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize dispatch recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close dispatch recorder", slog.String("error", err.Error()))
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	reminderStore := store.NewReminderStore(redisClient)

	var relayRepo relay.Repository
	if cfg.RelayURL != "" {
		relayRepo = relay.NewClient(cfg.RelayURL, cfg.RelayTimeout)
		slog.Info("relay configured",
			slog.String("url", cfg.RelayURL),
			slog.Duration("timeout", cfg.RelayTimeout),
		)
	} else {
		slog.Info("no relay configured, running local-only")
	}

	prober := probe.NewProber(relayRepo, reminderStore)
	if relayRepo != nil {
		prober.Check(ctx)
	}

	notifier := notify.NewConsoleNotifier()

	dispatcher := dispatch.NewDispatcher(
		relayRepo,
		prober,
		notifier,
		dispatch.StaticDeviceClass(cfg.MobileDevice),
		reminderStore,
		recorder,
		dispatchMetrics,
	)

	scheduler := schedule.NewScheduler(
		reminderStore,
		reminderStore,
		dispatcher,
		schedule.NewSystemTimers(),
		schedule.WithLocation(cfg.Timezone),
		schedule.WithMetrics(schedulerMetrics),
	)
	if err := scheduler.ScheduleAll(ctx); err != nil {
		slog.Error("failed to schedule reminders", slog.String("error", err.Error()))
		return 1
	}
	defer scheduler.ClearAll(context.Background())

	// Periodic relay probe keeps dispatch routing current and
	// resubscribes after a relay recovery.
	if relayRepo != nil {
		probeCron := cron.New()
		spec := fmt.Sprintf("@every %s", cfg.ProbeInterval)
		if _, err := probeCron.AddFunc(spec, func() {
			prober.Check(context.Background())
		}); err != nil {
			slog.Error("failed to schedule relay probe", slog.String("error", err.Error()))
			return 1
		}
		probeCron.Start()
		defer probeCron.Stop()
	}

	reminderHandler := handler.NewReminderHandler(reminderStore, scheduler)
	notificationHandler := handler.NewNotificationHandler(reminderStore, dispatcher, notifier)
	trackingHandler := handler.NewTrackingHandler(reminderStore)
	relayHandler := handler.NewRelayHandler(relayRepo, reminderStore, prober)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, relayRepo, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/reminders/config", reminderHandler.HandleGetConfig)
		v1.PUT("/reminders/enabled", reminderHandler.HandleGlobalToggle)
		v1.PUT("/reminders/system/:kind", reminderHandler.HandleSystemUpdate)
		v1.POST("/reminders/custom", reminderHandler.HandleCustomCreate)
		v1.PUT("/reminders/custom/:id", reminderHandler.HandleCustomUpdate)
		v1.DELETE("/reminders/custom/:id", reminderHandler.HandleCustomDelete)

		v1.POST("/notifications/test", notificationHandler.HandleTestNotification)
		v1.GET("/notifications/logs", notificationHandler.HandleLogs)
		v1.POST("/notifications/permission", notificationHandler.HandlePermissionRequest)

		v1.POST("/intake/:metric", trackingHandler.HandleAddIntake)
		v1.PUT("/goals/:metric", trackingHandler.HandleSetGoal)

		v1.GET("/relay/status", relayHandler.HandleStatus)
		v1.GET("/relay/stats", relayHandler.HandleStats)
		v1.GET("/relay/vapid-public-key", relayHandler.HandleVAPIDKey)
		v1.POST("/relay/subscribe", relayHandler.HandleSubscribe)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Bool("relay_enabled", relayRepo != nil),
			slog.Bool("mobile_device", cfg.MobileDevice),
			slog.String("timezone", cfg.Timezone.String()),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

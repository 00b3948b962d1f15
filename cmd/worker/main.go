package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	temporalworker "go.temporal.io/sdk/worker"

	"github.com/ghuser/signalbridge/pkg/app"
	"github.com/ghuser/signalbridge/pkg/cache"
	"github.com/ghuser/signalbridge/pkg/config"
	"github.com/ghuser/signalbridge/pkg/database"
	"github.com/ghuser/signalbridge/pkg/events"
	"github.com/ghuser/signalbridge/pkg/logger"
	"github.com/ghuser/signalbridge/pkg/telemetry"
	pkgworkflows "github.com/ghuser/signalbridge/pkg/workflows"
	trackingworkflows "github.com/ghuser/signalbridge/services/tracking/application/workflows"
	trackingEvents "github.com/ghuser/signalbridge/services/tracking/domain/events"
	"github.com/ghuser/signalbridge/services/tracking/infrastructure/persistence/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	// Credential expiry sweep runs only when a Temporal server is configured.
	if cfg.TemporalHostPort != "" {
		temporalClient, err := pkgworkflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()

		sweepWorker, err := startCredentialExpirySweep(ctx, temporalClient, appConfig)
		if err != nil {
			log.Error("failed to start credential expiry sweep", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer sweepWorker.Stop()
	} else {
		log.Info("temporal not configured, credential expiry sweep disabled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	errCh, err := a.EventBus.Subscribe(ctx, trackingEvents.TopicConversionSubmitted, handleConversionSubmitted(a))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", trackingEvents.TopicConversionSubmitted,
				"error", err,
			)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{trackingEvents.TopicConversionSubmitted})
	return nil
}

// handleConversionSubmitted returns a handler for conversion.submitted events.
// Handlers must be idempotent — EventBus retries up to 3× on failure.
// Updates the per-shop delivery counters that back the merchant dashboard.
func handleConversionSubmitted(a *app.Application) func(context.Context, *message.Message) error {
	stats := cache.NewDeliveryStats(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt trackingEvents.ConversionSubmittedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := stats.RecordDelivered(ctx, evt.Shop, evt.EventName, evt.TraceID, evt.EventsReceived); err != nil {
			// Counters are best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "delivery stats update failed",
				"shop", evt.Shop, "error", err)
		} else {
			a.Logger.InfoContext(ctx, "delivery recorded",
				"shop", evt.Shop, "event_name", evt.EventName, "dedup_key", evt.DedupKey)
		}

		return nil
	}
}

// startCredentialExpirySweep registers the sweep workflow on the tracking
// task queue and kicks off its hourly cron run. A sweep already started by
// another worker instance is fine; the duplicate start is ignored.
func startCredentialExpirySweep(ctx context.Context, tc *pkgworkflows.TemporalClient, a *app.Application) (temporalworker.Worker, error) {
	repo := postgres.NewConnectionRepository(a.Db)
	acts := trackingworkflows.NewCredentialExpiryActivities(repo, a.Logger)

	w := temporalworker.New(tc.Client, trackingworkflows.TaskQueueTracking, temporalworker.Options{})
	w.RegisterWorkflow(trackingworkflows.CredentialExpirySweep)
	w.RegisterActivity(acts.ListExpiredShops)
	w.RegisterActivity(acts.DeactivateConnection)

	if err := w.Start(); err != nil {
		return nil, err
	}

	_, err := tc.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:           "credential-expiry-sweep",
		TaskQueue:    trackingworkflows.TaskQueueTracking,
		CronSchedule: "0 * * * *",
	}, trackingworkflows.CredentialExpirySweep)
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &already) {
			w.Stop()
			return nil, err
		}
	}

	a.Logger.Info("credential expiry sweep scheduled", "cron", "0 * * * *")
	return w, nil
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skulkarni-ml/supportdesk/internal/bootstrap"
	"github.com/skulkarni-ml/supportdesk/internal/config"
	"github.com/skulkarni-ml/supportdesk/internal/observability/logging"
	"github.com/skulkarni-ml/supportdesk/internal/observability/metrics"
)

const serviceName = "supportdesk-worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	app.PurgeTransientStorage()
	if err := app.SeedKnowledgeBase(ctx); err != nil {
		logger.Error("knowledge base seeding failed", slog.String("error", err.Error()))
	}

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker metrics listening", slog.String("port", cfg.WorkerMetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker subscribed", slog.String("subject", cfg.NATSSubject))
	err = app.Queue.SubscribeCallReceived(ctx, func(handlerCtx context.Context, reviewID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		workerMetrics.StartCall()
		start := time.Now()

		if review, getErr := app.Reviews.GetByID(processCtx, reviewID); getErr == nil {
			workerMetrics.ObserveQueueLag(serviceName, start.Sub(review.SubmittedAt))
		}

		runErr := app.PipelineUC.RunByID(processCtx, reviewID)
		workerMetrics.FinishCall(serviceName, time.Since(start), runErr)
		return runErr
	})
	if err != nil {
		logger.Error("worker subscribe failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

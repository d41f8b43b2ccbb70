package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/pick-my-fit/internal/bootstrap"
	"github.com/kirillkom/pick-my-fit/internal/config"
	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/observability/logging"
	"github.com/kirillkom/pick-my-fit/internal/observability/metrics"
)

func main() {
	envLoaded, envErr := config.LoadDotEnv(".env")
	cfg := config.Load()
	logger := logging.NewJSONLogger("pickmyfit-worker", cfg.LogLevel)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Warn("dotenv_load_failed", "error", envErr)
	} else if envLoaded {
		logger.Info("dotenv_loaded", "path", ".env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("pickmyfit-worker")
	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           metricsMux(workerMetrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeOutfitGenerated(ctx, func(handlerCtx context.Context, event domain.OutfitGeneratedEvent) error {
		trimCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		start := time.Now()
		workerMetrics.StartEvent(event.CreatedAt)
		removed, err := app.TrimHistoryUC.HandleOutfitGenerated(trimCtx, event)
		workerMetrics.FinishEvent(time.Since(start), removed, err)
		return err
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

func metricsMux(workerMetrics *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", workerMetrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
	})
	return mux
}

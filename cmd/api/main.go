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

	httpadapter "github.com/kirillkom/pick-my-fit/internal/adapters/http"
	"github.com/kirillkom/pick-my-fit/internal/bootstrap"
	"github.com/kirillkom/pick-my-fit/internal/config"
	"github.com/kirillkom/pick-my-fit/internal/observability/logging"
)

func main() {
	envLoaded, envErr := config.LoadDotEnv(".env")
	cfg := config.Load()
	logger := logging.NewJSONLogger("pickmyfit-api", cfg.LogLevel)
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

	router := httpadapter.NewRouter(cfg, app.Wardrobe, app.GenerateUC, app.HTTPMetrics).Handler()
	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_failed", "error", err)
	}
}

package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/pick-my-fit/internal/config"
	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/core/outfit"
	"github.com/kirillkom/pick-my-fit/internal/core/ports"
	"github.com/kirillkom/pick-my-fit/internal/core/usecase"
	"github.com/kirillkom/pick-my-fit/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/pick-my-fit/internal/infrastructure/queue/nats"
	"github.com/kirillkom/pick-my-fit/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/pick-my-fit/internal/infrastructure/resilience"
	"github.com/kirillkom/pick-my-fit/internal/infrastructure/schema/yamlfile"
	"github.com/kirillkom/pick-my-fit/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger
	Schema *domain.Schema

	Queue         *nats.Queue
	Wardrobe      ports.Wardrobe
	GenerateUC    ports.OutfitGenerator
	TrimHistoryUC *usecase.TrimHistoryUseCase

	HTTPMetrics *metrics.HTTPServerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	schema, err := yamlfile.Load(cfg.CategorySchemaPath)
	if err != nil {
		return nil, fmt.Errorf("load category schema: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	itemRepo := postgres.NewItemRepository(db)
	outfitRepo := postgres.NewOutfitRepository(db)
	prefRepo := postgres.NewPreferenceRepository(db)

	httpMetrics := metrics.NewHTTPServerMetrics("pickmyfit-api")
	breakerObserver := resilience.WithStateObserver(httpMetrics.ObserveBreakerState)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(
			resilience.DefaultConfig(),
			resilience.WithLogger(logger),
			breakerObserver,
		),
		Logger: logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	tuning := cfg.OutfitTuning()
	generator := outfit.NewGenerator(schema, outfit.Options{
		Tuning:  tuning,
		Advisor: newAdvisor(cfg, tuning, logger, breakerObserver),
		Logger:  logger,
	})

	wardrobeUC := usecase.NewWardrobeUseCase(schema, itemRepo, outfitRepo, prefRepo, cfg.OutfitHistoryCap)
	generateUC := usecase.NewGenerateOutfitUseCase(
		itemRepo,
		outfitRepo,
		prefRepo,
		queue,
		httpMetrics,
		generator,
		cfg.OutfitHistoryCap,
		logger,
	)
	trimUC := usecase.NewTrimHistoryUseCase(outfitRepo, cfg.OutfitHistoryCap, logger)

	logger.Info("bootstrap_ready",
		"slots", len(schema.Slots()),
		"advisor_enabled", cfg.AdvisorEnabled,
		"history_cap", cfg.OutfitHistoryCap,
	)

	return &App{
		Config: cfg,
		Logger: logger,
		Schema: schema,

		Queue:         queue,
		Wardrobe:      wardrobeUC,
		GenerateUC:    generateUC,
		TrimHistoryUC: trimUC,

		HTTPMetrics: httpMetrics,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// newAdvisor returns nil when the stylist model is switched off so the engine
// records advisor_disabled instead of failing each call.
func newAdvisor(cfg config.Config, tuning outfit.Tuning, logger *slog.Logger, observer resilience.Option) ports.StylingAdvisor {
	if !cfg.AdvisorEnabled {
		return nil
	}
	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    cfg.AdvisorRetryMaxAttempts,
		RetryInitialBackoff: 200 * time.Millisecond,
		BreakerEnabled:      cfg.AdvisorBreakerEnabled,
	}, resilience.WithLogger(logger), observer)
	client := ollama.New(cfg.OllamaURL, cfg.OllamaStylistModel, tuning.AdvisoryTimeout, executor)
	return ollama.NewStylist(client)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

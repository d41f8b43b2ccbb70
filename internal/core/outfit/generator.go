// Package outfit selects one item per clothing slot from a wardrobe while
// keeping every placement category-valid and steering away from outfits
// worn recently.
package outfit

import (
	"context"
	"log/slog"
	"time"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/core/ports"
)

type Options struct {
	Tuning  Tuning
	Advisor ports.StylingAdvisor
	Rand    Rand
	Logger  *slog.Logger
}

// Generator is the single entry point for outfit generation. It holds no
// per-call state and is safe for concurrent use.
type Generator struct {
	schema   *domain.Schema
	tuning   Tuning
	logger   *slog.Logger
	random   *RandomSelector
	advisory *AdvisorySelector
}

func NewGenerator(schema *domain.Schema, opts Options) *Generator {
	rng := opts.Rand
	if rng == nil {
		rng = newTimeSeededRand()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tuning := opts.Tuning.normalize()
	random := NewRandomSelector(schema, tuning, rng, logger)
	return &Generator{
		schema:   schema,
		tuning:   tuning,
		logger:   logger,
		random:   random,
		advisory: NewAdvisorySelector(schema, tuning, opts.Advisor, random, rng, logger),
	}
}

func (g *Generator) Schema() *domain.Schema {
	return g.schema
}

func (g *Generator) Tuning() Tuning {
	return g.tuning
}

// Generate always tries the advisory selector first; it decides on its own
// when to defer to the random selector. Valid pins are placed before either
// selector runs and are never overridden.
func (g *Generator) Generate(ctx context.Context, in Input) domain.GenerationResult {
	start := time.Now()
	p := newPool(g.schema, in, g.tuning.RecencyLookback, g.logger)
	g.logger.Debug("wardrobe_distribution",
		"available_items", len(p.available),
		"by_category", p.distribution(),
		"pinned_slots", len(p.pinned),
	)

	result := g.advisory.selectFromPool(ctx, p, in.Theme)

	g.logger.Info("outfit_generated",
		"source", string(result.Source),
		"fallback_reason", string(result.FallbackReason),
		"advisory_attempts", result.AdvisoryAttempts,
		"random_attempts", result.RandomAttempts,
		"filled_slots", result.Items.Filled(),
		"integrity_violations", result.IntegrityViolations,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return result
}

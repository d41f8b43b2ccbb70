package outfit

import (
	"context"
	"log/slog"
	"time"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

// RandomSelector fills slots at random, biased away from recently worn items.
type RandomSelector struct {
	schema *domain.Schema
	tuning Tuning
	rng    Rand
	logger *slog.Logger
}

func NewRandomSelector(schema *domain.Schema, tuning Tuning, rng Rand, logger *slog.Logger) *RandomSelector {
	if rng == nil {
		rng = newTimeSeededRand()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RandomSelector{
		schema: schema,
		tuning: tuning.normalize(),
		rng:    rng,
		logger: logger,
	}
}

func (s *RandomSelector) Select(ctx context.Context, in Input) Selection {
	return s.selectFromPool(ctx, newPool(s.schema, in, s.tuning.RecencyLookback, s.logger))
}

func (s *RandomSelector) selectFromPool(ctx context.Context, p *pool) Selection {
	var (
		items      domain.OutfitItems
		violations int
	)
	for attempt := 1; attempt <= s.tuning.RandomMaxAttempts; attempt++ {
		var dropped int
		items, dropped = EnforceIntegrity(s.schema, s.buildCandidate(p), s.logger)
		violations += dropped

		if !IsTooSimilar(s.schema, items, p.history, s.tuning.RandomSimilarityThreshold, s.tuning.SimilarityWindow) {
			s.think(ctx)
			return Selection{Items: items, Attempts: attempt, Violations: violations, Fresh: true}
		}
		s.logger.Debug("random_outfit_too_similar", "attempt", attempt, "max_attempts", s.tuning.RandomMaxAttempts)
	}

	s.logger.Info("random_outfit_variety_exhausted",
		"attempts", s.tuning.RandomMaxAttempts,
		"available_items", len(p.available),
	)
	s.think(ctx)
	return Selection{Items: items, Attempts: s.tuning.RandomMaxAttempts, Violations: violations, Fresh: false}
}

func (s *RandomSelector) buildCandidate(p *pool) domain.OutfitItems {
	items := s.schema.EmptyOutfit()
	for _, category := range s.schema.Slots() {
		if !p.isEnabled(category.ID) {
			continue
		}
		if pinned, ok := p.pinned[category.ID]; ok {
			items[category.ID] = pinned
			continue
		}
		candidates := p.byCategory[category.ID]
		if len(candidates) == 0 {
			continue
		}
		if !category.Required && s.rng.Float64() >= s.tuning.OptionalPickProbability {
			continue
		}
		items[category.ID] = s.pick(candidates, p.recentlyUsed)
	}
	return items
}

func (s *RandomSelector) pick(candidates []*domain.ClothingItem, recentlyUsed map[string]struct{}) *domain.ClothingItem {
	fresh := make([]*domain.ClothingItem, 0, len(candidates))
	used := make([]*domain.ClothingItem, 0, len(candidates))
	for _, item := range candidates {
		if _, seen := recentlyUsed[item.ID]; seen {
			used = append(used, item)
		} else {
			fresh = append(fresh, item)
		}
	}

	switch {
	case len(fresh) == 0:
		return candidates[s.rng.IntN(len(candidates))]
	case len(used) == 0 || s.rng.Float64() < s.tuning.FreshPickProbability:
		return fresh[s.rng.IntN(len(fresh))]
	default:
		return used[s.rng.IntN(len(used))]
	}
}

func (s *RandomSelector) think(ctx context.Context) {
	if s.tuning.ThinkDelay <= 0 {
		return
	}
	timer := time.NewTimer(s.tuning.ThinkDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

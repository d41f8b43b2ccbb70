package outfit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/core/ports"
)

// AdvisorySelector asks the styling advisor for an outfit, validates every
// suggestion against the catalog and hands off to the random selector
// whenever the advisor fails or cannot produce a fresh combination.
type AdvisorySelector struct {
	schema  *domain.Schema
	tuning  Tuning
	advisor ports.StylingAdvisor
	rng     Rand
	logger  *slog.Logger
	random  *RandomSelector
}

func NewAdvisorySelector(
	schema *domain.Schema,
	tuning Tuning,
	advisor ports.StylingAdvisor,
	random *RandomSelector,
	rng Rand,
	logger *slog.Logger,
) *AdvisorySelector {
	if rng == nil {
		rng = newTimeSeededRand()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if random == nil {
		random = NewRandomSelector(schema, tuning, rng, logger)
	}
	return &AdvisorySelector{
		schema:  schema,
		tuning:  tuning.normalize(),
		advisor: advisor,
		rng:     rng,
		logger:  logger,
		random:  random,
	}
}

func (s *AdvisorySelector) Select(ctx context.Context, in Input) domain.GenerationResult {
	p := newPool(s.schema, in, s.tuning.RecencyLookback, s.logger)
	return s.selectFromPool(ctx, p, in.Theme)
}

func (s *AdvisorySelector) selectFromPool(ctx context.Context, p *pool, theme string) domain.GenerationResult {
	if s.advisor == nil {
		return s.fallback(ctx, p, domain.FallbackAdvisorDisabled, 0, 0)
	}
	if len(p.available) < s.tuning.AdvisoryMinItems {
		return s.fallback(ctx, p, domain.FallbackInsufficientItems, 0, 0)
	}

	req := s.buildRequest(p, theme)
	violations := 0
	for attempt := 1; attempt <= s.tuning.AdvisoryMaxAttempts; attempt++ {
		req.Attempt = attempt
		proposal, err := s.propose(ctx, req)
		if err != nil {
			reason := domain.FallbackAdvisorError
			if domain.IsKind(err, domain.ErrMalformedAdvice) {
				reason = domain.FallbackMalformedAdvice
			}
			s.logger.Warn("advisory_fallback", "reason", string(reason), "attempt", attempt, "error", err)
			return s.fallback(ctx, p, reason, attempt, violations)
		}

		placed, rejected := s.place(p, proposal)
		s.backfill(p, placed)
		items, dropped := EnforceIntegrity(s.schema, placed, s.logger)
		violations += rejected + dropped

		if !IsTooSimilar(s.schema, items, p.history, s.tuning.AdvisorySimilarityThreshold, s.tuning.SimilarityWindow) {
			s.logger.Info("advisory_outfit_accepted",
				"attempt", attempt,
				"filled_slots", items.Filled(),
				"reasoning", proposal.Reasoning,
			)
			return domain.GenerationResult{
				Items:               items,
				Source:              domain.OutfitSourceAdvisory,
				AdvisoryAttempts:    attempt,
				Reasoning:           strings.TrimSpace(proposal.Reasoning),
				IntegrityViolations: violations,
			}
		}
		s.logger.Info("advisory_outfit_too_similar", "attempt", attempt, "max_attempts", s.tuning.AdvisoryMaxAttempts)
	}

	return s.fallback(ctx, p, domain.FallbackTooSimilar, s.tuning.AdvisoryMaxAttempts, violations)
}

// propose calls the advisor under the advisory timeout. A panicking adapter
// is reported as an error so generation still completes.
func (s *AdvisorySelector) propose(ctx context.Context, req domain.AdvisoryRequest) (proposal domain.AdvisoryProposal, err error) {
	callCtx := ctx
	if s.tuning.AdvisoryTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.tuning.AdvisoryTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("styling advisor panic: %v", r)
		}
	}()
	return s.advisor.ProposeOutfit(callCtx, req)
}

// place maps each suggested item ID onto its slot. Suggestions for unknown
// items or for the wrong category are discarded, never substituted.
func (s *AdvisorySelector) place(p *pool, proposal domain.AdvisoryProposal) (domain.OutfitItems, int) {
	items := p.seed(s.schema)
	rejected := 0
	for _, category := range s.schema.Slots() {
		if !p.isEnabled(category.ID) {
			continue
		}
		if _, pinned := p.pinned[category.ID]; pinned {
			continue
		}
		itemID := suggestedID(proposal.Outfit[category.ID])
		if itemID == "" {
			continue
		}
		item, ok := p.byID[itemID]
		if !ok {
			rejected++
			s.logger.Warn("advisory_suggestion_rejected", "slot", category.ID, "item_id", itemID, "reason", "unknown_item")
			continue
		}
		if item.CategoryID != category.ID {
			rejected++
			s.logger.Warn("advisory_suggestion_rejected",
				"slot", category.ID,
				"item_id", itemID,
				"item_name", item.Name,
				"item_category", item.CategoryID,
				"reason", "category_mismatch",
			)
			continue
		}
		items[category.ID] = item
	}
	return items, rejected
}

// backfill fills required slots the advisor left empty.
func (s *AdvisorySelector) backfill(p *pool, items domain.OutfitItems) {
	for _, category := range s.schema.RequiredSlots() {
		if !p.isEnabled(category.ID) || items[category.ID] != nil {
			continue
		}
		candidates := p.byCategory[category.ID]
		if len(candidates) == 0 {
			continue
		}
		items[category.ID] = candidates[s.rng.IntN(len(candidates))]
		s.logger.Debug("advisory_slot_backfilled", "slot", category.ID, "item_id", items[category.ID].ID)
	}
}

func (s *AdvisorySelector) buildRequest(p *pool, theme string) domain.AdvisoryRequest {
	req := domain.AdvisoryRequest{
		Items:         make([]domain.AdvisoryItem, 0, len(p.available)),
		RecentOutfits: make([]string, 0, s.tuning.SimilarityWindow),
		Theme:         strings.TrimSpace(theme),
	}
	for _, item := range p.available {
		_, used := p.recentlyUsed[item.ID]
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}
		req.Items = append(req.Items, domain.AdvisoryItem{
			ID:           item.ID,
			Name:         item.Name,
			Category:     item.CategoryID,
			Tags:         tags,
			RecentlyUsed: used,
		})
	}
	for idx, past := range recent(p.history, s.tuning.SimilarityWindow) {
		names := make([]string, 0, len(past.Items))
		for _, category := range s.schema.Slots() {
			if item := past.Items[category.ID]; item != nil {
				names = append(names, item.Name)
			}
		}
		req.RecentOutfits = append(req.RecentOutfits, fmt.Sprintf("Recent outfit %d: %s", idx+1, strings.Join(names, ", ")))
	}
	for _, category := range s.schema.Slots() {
		if !p.isEnabled(category.ID) {
			continue
		}
		slot := domain.AdvisorySlot{CategoryID: category.ID, Required: category.Required}
		if pinned, ok := p.pinned[category.ID]; ok {
			slot.PinnedItem = pinned.ID
		}
		req.Slots = append(req.Slots, slot)
	}
	return req
}

func (s *AdvisorySelector) fallback(ctx context.Context, p *pool, reason domain.FallbackReason, advisoryAttempts, violations int) domain.GenerationResult {
	sel := s.random.selectFromPool(ctx, p)
	return domain.GenerationResult{
		Items:               sel.Items,
		Source:              domain.OutfitSourceRandom,
		FallbackReason:      reason,
		AdvisoryAttempts:    advisoryAttempts,
		RandomAttempts:      sel.Attempts,
		IntegrityViolations: violations + sel.Violations,
	}
}

func suggestedID(raw *string) string {
	if raw == nil {
		return ""
	}
	id := strings.TrimSpace(*raw)
	if strings.EqualFold(id, "null") {
		return ""
	}
	return id
}

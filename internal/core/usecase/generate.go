package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/core/outfit"
	"github.com/kirillkom/pick-my-fit/internal/core/ports"
)

const (
	DefaultHistoryCap = 50
	maxThemeLength    = 200
)

// GenerateOutfitUseCase loads everything generation needs for one user, runs
// the engine and records the result in history.
type GenerateOutfitUseCase struct {
	items      ports.ItemRepository
	outfits    ports.OutfitRepository
	prefs      ports.PreferenceRepository
	publisher  ports.EventPublisher
	observer   ports.GenerationObserver
	generator  *outfit.Generator
	historyCap int
	logger     *slog.Logger
	now        func() time.Time
}

func NewGenerateOutfitUseCase(
	items ports.ItemRepository,
	outfits ports.OutfitRepository,
	prefs ports.PreferenceRepository,
	publisher ports.EventPublisher,
	observer ports.GenerationObserver,
	generator *outfit.Generator,
	historyCap int,
	logger *slog.Logger,
) *GenerateOutfitUseCase {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateOutfitUseCase{
		items:      items,
		outfits:    outfits,
		prefs:      prefs,
		publisher:  publisher,
		observer:   observer,
		generator:  generator,
		historyCap: historyCap,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (uc *GenerateOutfitUseCase) Generate(ctx context.Context, userID, theme string) (*domain.GeneratedOutfit, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	theme = strings.TrimSpace(theme)
	if utf8.RuneCountInString(theme) > maxThemeLength {
		return nil, domain.WrapError(domain.ErrInvalidInput, "generate outfit", fmt.Errorf("theme longer than %d characters", maxThemeLength))
	}

	input, err := uc.loadInput(ctx, userID, theme)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := uc.generator.Generate(ctx, input)
	if uc.observer != nil {
		uc.observer.ObserveGeneration(result, time.Since(start))
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generate outfit: %w", err)
	}

	generated := domain.Outfit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     result.Items,
		Theme:     theme,
		Source:    result.Source,
		CreatedAt: uc.now(),
	}
	if err := uc.outfits.AppendHistory(ctx, &generated); err != nil {
		return nil, fmt.Errorf("append outfit history: %w", err)
	}
	uc.publish(ctx, generated)

	return &domain.GeneratedOutfit{Outfit: generated, Result: result}, nil
}

func (uc *GenerateOutfitUseCase) loadInput(ctx context.Context, userID, theme string) (outfit.Input, error) {
	items, err := uc.items.ListItems(ctx, userID, domain.ItemFilter{})
	if err != nil {
		return outfit.Input{}, fmt.Errorf("load wardrobe: %w", err)
	}
	prefs, err := uc.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return outfit.Input{}, fmt.Errorf("load preferences: %w", err)
	}
	history, err := uc.outfits.ListHistory(ctx, userID, uc.historyCap)
	if err != nil {
		return outfit.Input{}, fmt.Errorf("load outfit history: %w", err)
	}
	return outfit.Input{
		Items:   items,
		Enabled: prefs.EnabledCategories,
		History: history,
		Theme:   theme,
		Pinned:  prefs.PinnedItems,
	}, nil
}

// publish is best-effort: the outfit is already stored and history trimming
// catches up on the next event.
func (uc *GenerateOutfitUseCase) publish(ctx context.Context, generated domain.Outfit) {
	if uc.publisher == nil {
		return
	}
	err := uc.publisher.PublishOutfitGenerated(ctx, domain.OutfitGeneratedEvent{
		UserID:    generated.UserID,
		OutfitID:  generated.ID,
		Source:    generated.Source,
		CreatedAt: generated.CreatedAt,
	})
	if err != nil {
		uc.logger.Warn("outfit_event_publish_failed",
			"user_id", generated.UserID,
			"outfit_id", generated.ID,
			"temporary", errors.Is(err, domain.ErrTemporary),
			"error", err,
		)
	}
}

func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", domain.WrapError(domain.ErrUnauthorized, "resolve user", errors.New("user id is required"))
	}
	return userID, nil
}

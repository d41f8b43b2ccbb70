package ports

import (
	"context"
	"time"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

// ItemRepository persists the clothing catalog.
type ItemRepository interface {
	CreateItem(ctx context.Context, userID string, item *domain.ClothingItem) error
	ListItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.ClothingItem, error)
	GetItem(ctx context.Context, userID, itemID string) (*domain.ClothingItem, error)
	DeleteItem(ctx context.Context, userID, itemID string) error
}

// OutfitRepository persists generated history and saved favorites.
type OutfitRepository interface {
	AppendHistory(ctx context.Context, outfit *domain.Outfit) error
	ListHistory(ctx context.Context, userID string, limit int) ([]domain.Outfit, error)
	TrimHistory(ctx context.Context, userID string, keep int) (int64, error)
	SaveFavorite(ctx context.Context, outfit *domain.Outfit) error
	ListFavorites(ctx context.Context, userID string) ([]domain.Outfit, error)
	DeleteFavorite(ctx context.Context, userID, outfitID string) error
}

// PreferenceRepository persists category toggles and pinned items.
type PreferenceRepository interface {
	GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error)
	SavePreferences(ctx context.Context, prefs *domain.Preferences) error
}

// EventPublisher announces generated outfits.
type EventPublisher interface {
	PublishOutfitGenerated(ctx context.Context, event domain.OutfitGeneratedEvent) error
}

// EventSubscriber consumes generated-outfit events.
type EventSubscriber interface {
	SubscribeOutfitGenerated(ctx context.Context, handler func(context.Context, domain.OutfitGeneratedEvent) error) error
}

// StylingAdvisor proposes an outfit. Implementations are best-effort and may
// fail or answer with selections that violate category rules.
type StylingAdvisor interface {
	ProposeOutfit(ctx context.Context, req domain.AdvisoryRequest) (domain.AdvisoryProposal, error)
}

// GenerationObserver records how each outfit was produced.
type GenerationObserver interface {
	ObserveGeneration(result domain.GenerationResult, duration time.Duration)
}

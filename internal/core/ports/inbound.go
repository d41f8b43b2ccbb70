package ports

import (
	"context"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

// OutfitGenerator is the inbound contract for generating a new outfit.
type OutfitGenerator interface {
	Generate(ctx context.Context, userID, theme string) (*domain.GeneratedOutfit, error)
}

// Wardrobe is the inbound contract for catalog, settings and favorites.
type Wardrobe interface {
	Categories() []domain.Category

	AddItem(ctx context.Context, userID string, item domain.ClothingItem) (*domain.ClothingItem, error)
	ListItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.ClothingItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error

	Preferences(ctx context.Context, userID string) (*domain.Preferences, error)
	SetCategoriesEnabled(ctx context.Context, userID string, toggles domain.EnabledCategories) (*domain.Preferences, error)
	ResetCategories(ctx context.Context, userID string) (*domain.Preferences, error)
	PinItem(ctx context.Context, userID, categoryID, itemID string) (*domain.Preferences, error)
	UnpinItem(ctx context.Context, userID, categoryID string) (*domain.Preferences, error)

	History(ctx context.Context, userID string) ([]domain.Outfit, error)
	SaveFavorite(ctx context.Context, userID string, outfit domain.Outfit) (*domain.Outfit, error)
	Favorites(ctx context.Context, userID string) ([]domain.Outfit, error)
	RemoveFavorite(ctx context.Context, userID, outfitID string) error
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/core/ports"
)

const maxItemNameLength = 120

// WardrobeUseCase manages the catalog, per-user generation settings and
// saved outfits.
type WardrobeUseCase struct {
	schema     *domain.Schema
	items      ports.ItemRepository
	outfits    ports.OutfitRepository
	prefs      ports.PreferenceRepository
	historyCap int
	now        func() time.Time
}

func NewWardrobeUseCase(
	schema *domain.Schema,
	items ports.ItemRepository,
	outfits ports.OutfitRepository,
	prefs ports.PreferenceRepository,
	historyCap int,
) *WardrobeUseCase {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &WardrobeUseCase{
		schema:     schema,
		items:      items,
		outfits:    outfits,
		prefs:      prefs,
		historyCap: historyCap,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (uc *WardrobeUseCase) Categories() []domain.Category {
	return uc.schema.Categories()
}

func (uc *WardrobeUseCase) AddItem(ctx context.Context, userID string, item domain.ClothingItem) (*domain.ClothingItem, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	item.Name = strings.TrimSpace(item.Name)
	item.CategoryID = strings.TrimSpace(item.CategoryID)
	item.ImageURI = strings.TrimSpace(item.ImageURI)
	switch {
	case item.Name == "":
		return nil, invalid("add item", "name is required")
	case len([]rune(item.Name)) > maxItemNameLength:
		return nil, invalid("add item", fmt.Sprintf("name longer than %d characters", maxItemNameLength))
	case !uc.schema.IsSlot(item.CategoryID):
		return nil, invalid("add item", fmt.Sprintf("unknown category %q", item.CategoryID))
	}

	item.ID = uuid.NewString()
	item.Tags = normalizeTags(item.Tags)
	item.CreatedAt = uc.now()
	if err := uc.items.CreateItem(ctx, userID, &item); err != nil {
		return nil, fmt.Errorf("create clothing item: %w", err)
	}
	return &item, nil
}

func (uc *WardrobeUseCase) ListItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.ClothingItem, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	filter.CategoryID = strings.TrimSpace(filter.CategoryID)
	if filter.CategoryID != "" {
		if _, ok := uc.schema.Lookup(filter.CategoryID); !ok {
			return nil, invalid("list items", fmt.Sprintf("unknown category %q", filter.CategoryID))
		}
	}
	return uc.items.ListItems(ctx, userID, filter)
}

// RemoveItem deletes the item and drops any pin that referenced it.
func (uc *WardrobeUseCase) RemoveItem(ctx context.Context, userID, itemID string) error {
	userID, err := requireUser(userID)
	if err != nil {
		return err
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return invalid("remove item", "item id is required")
	}
	if err := uc.items.DeleteItem(ctx, userID, itemID); err != nil {
		return err
	}

	prefs, err := uc.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	changed := false
	for slot, pinned := range prefs.PinnedItems {
		if pinned == itemID {
			delete(prefs.PinnedItems, slot)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return uc.savePreferences(ctx, prefs)
}

// Preferences lists a toggle for every slot, filling unset ones as enabled.
func (uc *WardrobeUseCase) Preferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	prefs, err := uc.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return uc.view(prefs), nil
}

func (uc *WardrobeUseCase) SetCategoriesEnabled(ctx context.Context, userID string, toggles domain.EnabledCategories) (*domain.Preferences, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	if len(toggles) == 0 {
		return nil, invalid("set categories", "at least one category toggle is required")
	}
	for categoryID := range toggles {
		if !uc.schema.IsSlot(categoryID) {
			return nil, invalid("set categories", fmt.Sprintf("unknown category %q", categoryID))
		}
	}

	prefs, err := uc.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if prefs.EnabledCategories == nil {
		prefs.EnabledCategories = domain.EnabledCategories{}
	}
	for categoryID, enabled := range toggles {
		prefs.EnabledCategories[categoryID] = enabled
	}
	if err := uc.savePreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return uc.view(prefs), nil
}

func (uc *WardrobeUseCase) ResetCategories(ctx context.Context, userID string) (*domain.Preferences, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	prefs, err := uc.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	prefs.EnabledCategories = domain.EnabledCategories{}
	if err := uc.savePreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return uc.view(prefs), nil
}

func (uc *WardrobeUseCase) PinItem(ctx context.Context, userID, categoryID, itemID string) (*domain.Preferences, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	categoryID = strings.TrimSpace(categoryID)
	itemID = strings.TrimSpace(itemID)
	if !uc.schema.IsSlot(categoryID) {
		return nil, invalid("pin item", fmt.Sprintf("unknown category %q", categoryID))
	}
	if itemID == "" {
		return nil, invalid("pin item", "item id is required")
	}

	item, err := uc.items.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.CategoryID != categoryID {
		return nil, invalid("pin item", fmt.Sprintf("item %s belongs to %s, not %s", itemID, item.CategoryID, categoryID))
	}

	prefs, err := uc.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if prefs.PinnedItems == nil {
		prefs.PinnedItems = domain.PinnedItems{}
	}
	prefs.PinnedItems[categoryID] = itemID
	if err := uc.savePreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return uc.view(prefs), nil
}

func (uc *WardrobeUseCase) UnpinItem(ctx context.Context, userID, categoryID string) (*domain.Preferences, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	categoryID = strings.TrimSpace(categoryID)
	if !uc.schema.IsSlot(categoryID) {
		return nil, invalid("unpin item", fmt.Sprintf("unknown category %q", categoryID))
	}
	prefs, err := uc.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if _, ok := prefs.PinnedItems[categoryID]; ok {
		delete(prefs.PinnedItems, categoryID)
		if err := uc.savePreferences(ctx, prefs); err != nil {
			return nil, err
		}
	}
	return uc.view(prefs), nil
}

func (uc *WardrobeUseCase) History(ctx context.Context, userID string) ([]domain.Outfit, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	return uc.outfits.ListHistory(ctx, userID, uc.historyCap)
}

// SaveFavorite stores a copy of the outfit. Every placement must match its
// slot; favorites are never silently repaired.
func (uc *WardrobeUseCase) SaveFavorite(ctx context.Context, userID string, outfit domain.Outfit) (*domain.Outfit, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	items := uc.schema.EmptyOutfit()
	for slot, item := range outfit.Items {
		if item == nil {
			continue
		}
		if !uc.schema.IsSlot(slot) {
			return nil, invalid("save favorite", fmt.Sprintf("unknown slot %q", slot))
		}
		if item.CategoryID != slot {
			return nil, invalid("save favorite", fmt.Sprintf("item %s of category %s cannot fill %s", item.ID, item.CategoryID, slot))
		}
		items[slot] = item
	}
	if items.Filled() == 0 {
		return nil, invalid("save favorite", "outfit has no items")
	}

	source := outfit.Source
	if source == "" {
		source = domain.OutfitSourceManual
	}
	favorite := domain.Outfit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(outfit.Name),
		Items:     items,
		Theme:     strings.TrimSpace(outfit.Theme),
		Source:    source,
		CreatedAt: uc.now(),
	}
	if err := uc.outfits.SaveFavorite(ctx, &favorite); err != nil {
		return nil, fmt.Errorf("save favorite outfit: %w", err)
	}
	return &favorite, nil
}

func (uc *WardrobeUseCase) Favorites(ctx context.Context, userID string) ([]domain.Outfit, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	return uc.outfits.ListFavorites(ctx, userID)
}

func (uc *WardrobeUseCase) RemoveFavorite(ctx context.Context, userID, outfitID string) error {
	userID, err := requireUser(userID)
	if err != nil {
		return err
	}
	outfitID = strings.TrimSpace(outfitID)
	if outfitID == "" {
		return invalid("remove favorite", "outfit id is required")
	}
	return uc.outfits.DeleteFavorite(ctx, userID, outfitID)
}

func (uc *WardrobeUseCase) savePreferences(ctx context.Context, prefs *domain.Preferences) error {
	prefs.UpdatedAt = uc.now()
	if err := uc.prefs.SavePreferences(ctx, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (uc *WardrobeUseCase) view(prefs *domain.Preferences) *domain.Preferences {
	out := &domain.Preferences{
		UserID:            prefs.UserID,
		EnabledCategories: make(domain.EnabledCategories, len(uc.schema.Slots())),
		PinnedItems:       make(domain.PinnedItems, len(prefs.PinnedItems)),
		UpdatedAt:         prefs.UpdatedAt,
	}
	for _, category := range uc.schema.Slots() {
		out.EnabledCategories[category.ID] = prefs.EnabledCategories.IsEnabled(category.ID)
	}
	for slot, itemID := range prefs.PinnedItems {
		out.PinnedItems[slot] = itemID
	}
	return out
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func invalid(operation, reason string) error {
	return domain.WrapError(domain.ErrInvalidInput, operation, errors.New(reason))
}

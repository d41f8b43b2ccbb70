package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type itemRepoFake struct {
	mu    sync.Mutex
	items map[string]domain.ClothingItem
	order []string
	err   error
}

func newItemRepoFake(items ...domain.ClothingItem) *itemRepoFake {
	f := &itemRepoFake{items: map[string]domain.ClothingItem{}}
	for _, item := range items {
		f.items[item.ID] = item
		f.order = append(f.order, item.ID)
	}
	return f
}

func (f *itemRepoFake) CreateItem(_ context.Context, _ string, item *domain.ClothingItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items[item.ID] = *item
	f.order = append(f.order, item.ID)
	return nil
}

func (f *itemRepoFake) ListItems(_ context.Context, _ string, filter domain.ItemFilter) ([]domain.ClothingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.ClothingItem, 0, len(f.order))
	for _, id := range f.order {
		item, ok := f.items[id]
		if !ok {
			continue
		}
		if filter.CategoryID != "" && filter.CategoryID != domain.AllCategoryID && item.CategoryID != filter.CategoryID {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *itemRepoFake) GetItem(_ context.Context, _ string, itemID string) (*domain.ClothingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return nil, domain.WrapError(domain.ErrItemNotFound, "get clothing item", fmt.Errorf("id=%s", itemID))
	}
	return &item, nil
}

func (f *itemRepoFake) DeleteItem(_ context.Context, _ string, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[itemID]; !ok {
		return domain.WrapError(domain.ErrItemNotFound, "delete clothing item", fmt.Errorf("id=%s", itemID))
	}
	delete(f.items, itemID)
	return nil
}

type outfitRepoFake struct {
	mu        sync.Mutex
	history   []domain.Outfit
	favorites []domain.Outfit
	appendErr error
	listLimit int
	trimmed   int64
}

func (f *outfitRepoFake) AppendHistory(_ context.Context, outfit *domain.Outfit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.history = append([]domain.Outfit{*outfit}, f.history...)
	return nil
}

func (f *outfitRepoFake) ListHistory(_ context.Context, _ string, limit int) ([]domain.Outfit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listLimit = limit
	if limit > len(f.history) {
		limit = len(f.history)
	}
	return append([]domain.Outfit(nil), f.history[:limit]...), nil
}

func (f *outfitRepoFake) TrimHistory(_ context.Context, _ string, keep int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.history) <= keep {
		return 0, nil
	}
	removed := int64(len(f.history) - keep)
	f.history = f.history[:keep]
	f.trimmed += removed
	return removed, nil
}

func (f *outfitRepoFake) SaveFavorite(_ context.Context, outfit *domain.Outfit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites = append(f.favorites, *outfit)
	return nil
}

func (f *outfitRepoFake) ListFavorites(context.Context, string) ([]domain.Outfit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Outfit(nil), f.favorites...), nil
}

func (f *outfitRepoFake) DeleteFavorite(_ context.Context, _ string, outfitID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, fav := range f.favorites {
		if fav.ID == outfitID {
			f.favorites = append(f.favorites[:i], f.favorites[i+1:]...)
			return nil
		}
	}
	return domain.WrapError(domain.ErrOutfitNotFound, "delete favorite outfit", fmt.Errorf("id=%s", outfitID))
}

type prefRepoFake struct {
	mu    sync.Mutex
	prefs map[string]domain.Preferences
	saves int
}

func newPrefRepoFake() *prefRepoFake {
	return &prefRepoFake{prefs: map[string]domain.Preferences{}}
}

func (f *prefRepoFake) GetPreferences(_ context.Context, userID string) (*domain.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.prefs[userID]
	out := &domain.Preferences{
		UserID:            userID,
		EnabledCategories: domain.EnabledCategories{},
		PinnedItems:       domain.PinnedItems{},
	}
	if !ok {
		return out, nil
	}
	for k, v := range stored.EnabledCategories {
		out.EnabledCategories[k] = v
	}
	for k, v := range stored.PinnedItems {
		out.PinnedItems[k] = v
	}
	out.UpdatedAt = stored.UpdatedAt
	return out, nil
}

func (f *prefRepoFake) SavePreferences(_ context.Context, prefs *domain.Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.prefs[prefs.UserID] = *prefs
	return nil
}

type publisherFake struct {
	mu     sync.Mutex
	events []domain.OutfitGeneratedEvent
	err    error
}

func (f *publisherFake) PublishOutfitGenerated(_ context.Context, event domain.OutfitGeneratedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type observerFake struct {
	results []domain.GenerationResult
}

func (f *observerFake) ObserveGeneration(result domain.GenerationResult, _ time.Duration) {
	f.results = append(f.results, result)
}

var errStorageDown = errors.New("storage down")

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

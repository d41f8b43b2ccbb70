package usecase

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

type wardrobeFixture struct {
	items   *itemRepoFake
	outfits *outfitRepoFake
	prefs   *prefRepoFake
	uc      *WardrobeUseCase
}

func newWardrobeFixture(items ...domain.ClothingItem) *wardrobeFixture {
	f := &wardrobeFixture{
		items:   newItemRepoFake(items...),
		outfits: &outfitRepoFake{},
		prefs:   newPrefRepoFake(),
	}
	f.uc = NewWardrobeUseCase(domain.DefaultSchema(), f.items, f.outfits, f.prefs, 50)
	f.uc.now = func() time.Time { return time.Date(2026, 10, 6, 0, 0, 0, 0, time.UTC) }
	return f
}

func TestAddItemAssignsIDAndNormalizesTags(t *testing.T) {
	f := newWardrobeFixture()

	item, err := f.uc.AddItem(context.Background(), "u1", domain.ClothingItem{
		CategoryID: " shirts ",
		Name:       "  Linen shirt ",
		Tags:       []string{"Summer", " summer", "", "white"},
	})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if item.ID == "" || item.Name != "Linen shirt" || item.CategoryID != "shirts" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if !reflect.DeepEqual(item.Tags, []string{"summer", "white"}) {
		t.Fatalf("unexpected tags: %v", item.Tags)
	}
	if _, ok := f.items.items[item.ID]; !ok {
		t.Fatalf("expected item to be stored")
	}
}

func TestAddItemRejectsInvalidItems(t *testing.T) {
	f := newWardrobeFixture()
	cases := map[string]domain.ClothingItem{
		"missing name":    {CategoryID: "shirts"},
		"pseudo category": {CategoryID: domain.AllCategoryID, Name: "x"},
		"unknown":         {CategoryID: "capes", Name: "x"},
	}
	for name, item := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := f.uc.AddItem(context.Background(), "u1", item); !domain.IsKind(err, domain.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
	if _, err := f.uc.AddItem(context.Background(), "", domain.ClothingItem{CategoryID: "shirts", Name: "x"}); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestListItemsByCategory(t *testing.T) {
	f := newWardrobeFixture(sampleWardrobe()...)

	shirts, err := f.uc.ListItems(context.Background(), "u1", domain.ItemFilter{CategoryID: "shirts"})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(shirts) != 2 {
		t.Fatalf("expected 2 shirts, got %d", len(shirts))
	}
	all, err := f.uc.ListItems(context.Background(), "u1", domain.ItemFilter{CategoryID: domain.AllCategoryID})
	if err != nil || len(all) != len(sampleWardrobe()) {
		t.Fatalf("expected all items for pseudo category, got %d (%v)", len(all), err)
	}
	if _, err := f.uc.ListItems(context.Background(), "u1", domain.ItemFilter{CategoryID: "capes"}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown category, got %v", err)
	}
}

func TestRemoveItemDropsPin(t *testing.T) {
	f := newWardrobeFixture(sampleWardrobe()...)
	f.prefs.prefs["u1"] = domain.Preferences{UserID: "u1", PinnedItems: domain.PinnedItems{"shirts": "s1", "pants": "p1"}}

	if err := f.uc.RemoveItem(context.Background(), "u1", "s1"); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	stored := f.prefs.prefs["u1"]
	if _, ok := stored.PinnedItems["shirts"]; ok {
		t.Fatalf("expected pin on removed item to be dropped")
	}
	if stored.PinnedItems["pants"] != "p1" {
		t.Fatalf("expected other pins to survive")
	}

	if err := f.uc.RemoveItem(context.Background(), "u1", "s1"); !domain.IsKind(err, domain.ErrItemNotFound) {
		t.Fatalf("expected not found on second removal, got %v", err)
	}
}

func TestPreferencesListEverySlot(t *testing.T) {
	f := newWardrobeFixture()
	f.prefs.prefs["u1"] = domain.Preferences{UserID: "u1", EnabledCategories: domain.EnabledCategories{"hats": false}}

	prefs, err := f.uc.Preferences(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Preferences() error = %v", err)
	}
	if len(prefs.EnabledCategories) != len(domain.DefaultSchema().Slots()) {
		t.Fatalf("expected a toggle per slot, got %v", prefs.EnabledCategories)
	}
	if prefs.EnabledCategories["hats"] || !prefs.EnabledCategories["shoes"] {
		t.Fatalf("unexpected toggles: %v", prefs.EnabledCategories)
	}
	if _, ok := prefs.EnabledCategories[domain.AllCategoryID]; ok {
		t.Fatalf("pseudo category must not have a toggle")
	}
}

func TestSetAndResetCategories(t *testing.T) {
	f := newWardrobeFixture()

	prefs, err := f.uc.SetCategoriesEnabled(context.Background(), "u1", domain.EnabledCategories{"hats": false, "jackets": false})
	if err != nil {
		t.Fatalf("SetCategoriesEnabled() error = %v", err)
	}
	if prefs.EnabledCategories["hats"] || prefs.EnabledCategories["jackets"] || !prefs.EnabledCategories["accessories"] {
		t.Fatalf("unexpected toggles: %v", prefs.EnabledCategories)
	}

	if _, err := f.uc.SetCategoriesEnabled(context.Background(), "u1", domain.EnabledCategories{"all": false}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected pseudo category toggle to be rejected, got %v", err)
	}

	prefs, err = f.uc.ResetCategories(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ResetCategories() error = %v", err)
	}
	for _, id := range sortedKeys(prefs.EnabledCategories) {
		if !prefs.EnabledCategories[id] {
			t.Fatalf("expected %s enabled after reset", id)
		}
	}
	if f.prefs.saves != 2 {
		t.Fatalf("expected 2 saves, got %d", f.prefs.saves)
	}
}

func TestPinItemValidatesCategory(t *testing.T) {
	f := newWardrobeFixture(sampleWardrobe()...)

	prefs, err := f.uc.PinItem(context.Background(), "u1", "shirts", "s2")
	if err != nil {
		t.Fatalf("PinItem() error = %v", err)
	}
	if prefs.PinnedItems["shirts"] != "s2" {
		t.Fatalf("expected s2 pinned, got %v", prefs.PinnedItems)
	}

	if _, err := f.uc.PinItem(context.Background(), "u1", "belts", "p1"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected mismatched pin rejected, got %v", err)
	}
	if _, err := f.uc.PinItem(context.Background(), "u1", "shirts", "ghost"); !domain.IsKind(err, domain.ErrItemNotFound) {
		t.Fatalf("expected missing item rejected, got %v", err)
	}

	prefs, err = f.uc.UnpinItem(context.Background(), "u1", "shirts")
	if err != nil {
		t.Fatalf("UnpinItem() error = %v", err)
	}
	if len(prefs.PinnedItems) != 0 {
		t.Fatalf("expected no pins, got %v", prefs.PinnedItems)
	}
}

func TestSaveFavoriteValidatesPlacements(t *testing.T) {
	f := newWardrobeFixture()
	shirt := domain.ClothingItem{ID: "s1", CategoryID: "shirts", Name: "Oxford"}
	jeans := domain.ClothingItem{ID: "p1", CategoryID: "pants", Name: "Jeans"}

	saved, err := f.uc.SaveFavorite(context.Background(), "u1", domain.Outfit{
		Name:  " Friday ",
		Items: domain.OutfitItems{"shirts": &shirt, "pants": &jeans, "hats": nil},
	})
	if err != nil {
		t.Fatalf("SaveFavorite() error = %v", err)
	}
	if saved.ID == "" || saved.Name != "Friday" || saved.Source != domain.OutfitSourceManual {
		t.Fatalf("unexpected favorite: %+v", saved)
	}
	if len(saved.Items) != len(domain.DefaultSchema().Slots()) {
		t.Fatalf("expected every slot present in favorite")
	}

	_, err = f.uc.SaveFavorite(context.Background(), "u1", domain.Outfit{Items: domain.OutfitItems{"belts": &jeans}})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected misplaced favorite rejected, got %v", err)
	}
	_, err = f.uc.SaveFavorite(context.Background(), "u1", domain.Outfit{})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected empty favorite rejected, got %v", err)
	}

	favorites, err := f.uc.Favorites(context.Background(), "u1")
	if err != nil || len(favorites) != 1 {
		t.Fatalf("expected one favorite, got %d (%v)", len(favorites), err)
	}
	if err := f.uc.RemoveFavorite(context.Background(), "u1", saved.ID); err != nil {
		t.Fatalf("RemoveFavorite() error = %v", err)
	}
	if err := f.uc.RemoveFavorite(context.Background(), "u1", saved.ID); !domain.IsKind(err, domain.ErrOutfitNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

package outfit

import (
	"log/slog"
	"strings"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

// Input is everything a single generation depends on. History is
// newest-first.
type Input struct {
	Items   []domain.ClothingItem
	Enabled domain.EnabledCategories
	History []domain.Outfit
	Theme   string
	Pinned  domain.PinnedItems
}

// Selection is the outcome of one selector run.
type Selection struct {
	Items      domain.OutfitItems
	Attempts   int
	Violations int
	// Fresh is false when the random selector ran out of attempts and
	// returned an outfit that repeats recent history.
	Fresh bool
}

// pool is the per-call view of the catalog shared by both selectors.
type pool struct {
	available    []domain.ClothingItem
	byID         map[string]*domain.ClothingItem
	byCategory   map[string][]*domain.ClothingItem
	recentlyUsed map[string]struct{}
	pinned       map[string]*domain.ClothingItem
	enabled      domain.EnabledCategories
	history      []domain.Outfit
}

func newPool(schema *domain.Schema, in Input, lookBack int, logger *slog.Logger) *pool {
	p := &pool{
		available:    make([]domain.ClothingItem, 0, len(in.Items)),
		byID:         make(map[string]*domain.ClothingItem, len(in.Items)),
		byCategory:   make(map[string][]*domain.ClothingItem),
		recentlyUsed: RecentlyUsedItemIDs(in.History, lookBack),
		pinned:       make(map[string]*domain.ClothingItem),
		enabled:      in.Enabled,
		history:      in.History,
	}
	outsideSchema := 0
	for _, item := range in.Items {
		switch {
		case !schema.IsSlot(item.CategoryID):
			outsideSchema++
		case p.enabled.IsEnabled(item.CategoryID):
			p.available = append(p.available, item)
		}
	}
	if outsideSchema > 0 {
		logger.Debug("items_outside_schema", "count", outsideSchema)
	}
	for i := range p.available {
		item := &p.available[i]
		p.byID[item.ID] = item
		p.byCategory[item.CategoryID] = append(p.byCategory[item.CategoryID], item)
	}

	for slot, itemID := range in.Pinned {
		itemID = strings.TrimSpace(itemID)
		if itemID == "" {
			continue
		}
		item, ok := p.byID[itemID]
		switch {
		case !schema.IsSlot(slot):
			logger.Warn("pin_ignored", "slot", slot, "item_id", itemID, "reason", "unknown_slot")
		case !p.enabled.IsEnabled(slot):
			logger.Debug("pin_ignored", "slot", slot, "item_id", itemID, "reason", "slot_disabled")
		case !ok:
			logger.Warn("pin_ignored", "slot", slot, "item_id", itemID, "reason", "item_missing")
		case item.CategoryID != slot:
			logger.Warn("pin_ignored", "slot", slot, "item_id", itemID, "reason", "category_mismatch", "item_category", item.CategoryID)
		default:
			p.pinned[slot] = item
		}
	}
	return p
}

func (p *pool) isEnabled(slot string) bool {
	return p.enabled.IsEnabled(slot)
}

// seed returns an outfit with only the pinned slots filled.
func (p *pool) seed(schema *domain.Schema) domain.OutfitItems {
	items := schema.EmptyOutfit()
	for slot, item := range p.pinned {
		items[slot] = item
	}
	return items
}

func (p *pool) distribution() map[string]int {
	counts := make(map[string]int, len(p.byCategory))
	for category, items := range p.byCategory {
		counts[category] = len(items)
	}
	return counts
}

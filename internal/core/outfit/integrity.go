package outfit

import (
	"log/slog"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

// EnforceIntegrity returns a copy of items holding an entry for every slot in
// the schema, keeping an item only when its category equals the slot. The
// second value counts the placements that were dropped.
func EnforceIntegrity(schema *domain.Schema, items domain.OutfitItems, logger *slog.Logger) (domain.OutfitItems, int) {
	if logger == nil {
		logger = slog.Default()
	}
	out := schema.EmptyOutfit()
	violations := 0
	for slot, item := range items {
		if item == nil {
			continue
		}
		if !schema.IsSlot(slot) || item.CategoryID != slot {
			violations++
			logger.Warn("outfit_integrity_violation",
				"slot", slot,
				"item_id", item.ID,
				"item_name", item.Name,
				"item_category", item.CategoryID,
			)
			continue
		}
		out[slot] = item
	}
	return out, violations
}

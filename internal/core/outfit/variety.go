package outfit

import "github.com/kirillkom/pick-my-fit/internal/core/domain"

// Similarity is the share of slots in which both outfits hold the same item.
// Items moved to a different slot do not count as a match.
func Similarity(schema *domain.Schema, a, b domain.OutfitItems) float64 {
	matches := 0
	totalSlots := 0
	for _, category := range schema.Slots() {
		totalSlots++
		left := a[category.ID]
		right := b[category.ID]
		if left != nil && right != nil && left.ID == right.ID {
			matches++
		}
	}
	if totalSlots == 0 {
		return 0
	}
	return float64(matches) / float64(totalSlots)
}

// RecentlyUsedItemIDs collects item IDs worn in the first lookBack outfits of
// a newest-first history.
func RecentlyUsedItemIDs(history []domain.Outfit, lookBack int) map[string]struct{} {
	used := make(map[string]struct{})
	for _, past := range recent(history, lookBack) {
		for _, item := range past.Items {
			if item != nil {
				used[item.ID] = struct{}{}
			}
		}
	}
	return used
}

// IsTooSimilar reports whether candidate scores at or above threshold against
// any of the window most recent outfits.
func IsTooSimilar(schema *domain.Schema, candidate domain.OutfitItems, history []domain.Outfit, threshold float64, window int) bool {
	for _, past := range recent(history, window) {
		if Similarity(schema, candidate, past.Items) >= threshold {
			return true
		}
	}
	return false
}

func recent(history []domain.Outfit, n int) []domain.Outfit {
	if n <= 0 {
		return nil
	}
	if len(history) < n {
		return history
	}
	return history[:n]
}

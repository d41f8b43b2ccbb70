package ollama

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

const stylistSystemPrompt = `You are a professional fashion stylist with expertise in color theory, style coordination and current trends.
Always respond with valid JSON. Focus on variety and avoid repeating recent outfit combinations.`

func buildStylistPrompt(req domain.AdvisoryRequest) (string, error) {
	items, err := json.MarshalIndent(req.Items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal wardrobe for prompt: %w", err)
	}

	var b strings.Builder
	b.WriteString("Create one well-coordinated outfit from the wardrobe below.\n\nAvailable clothing items:\n")
	b.Write(items)
	b.WriteString("\n\n")

	if len(req.RecentOutfits) > 0 {
		b.WriteString("Recent outfit history (AVOID creating similar combinations):\n")
		b.WriteString(strings.Join(req.RecentOutfits, "\n"))
		b.WriteString("\n\n")
	}
	if req.Theme != "" {
		fmt.Fprintf(&b, "Theme or occasion requested by the user: %s\n\n", req.Theme)
	}

	b.WriteString("Category slots:\n")
	for _, slot := range req.Slots {
		need := "OPTIONAL (add only if it improves the look)"
		if slot.Required {
			need = "REQUIRED"
		}
		fmt.Fprintf(&b, "- %s: %s - ONLY select items with category %q", slot.CategoryID, need, slot.CategoryID)
		if slot.PinnedItem != "" {
			fmt.Fprintf(&b, " - FIXED to item %q, build the rest of the outfit around it", slot.PinnedItem)
		}
		b.WriteString("\n")
	}

	b.WriteString(`
CRITICAL RULE: an item may only fill the slot whose name equals the item's "category" field.
Never put pants in the belts slot, shoes in the jackets slot or shirts in the pants slot.
If no item of the right category fits, use null for that slot.

Guidelines:
1. Combine colors that work together and keep formality consistent.
2. Prefer items NOT marked "recentlyUsed": true.
3. The outfit must feel different from the recent history above.
`)
	if req.Attempt > 1 {
		fmt.Fprintf(&b, "\nThis is attempt %d: the previous suggestion was too close to a recent outfit. Choose different items.\n", req.Attempt)
	}

	b.WriteString("\nReturn a JSON object with exactly this structure:\n{\n  \"outfit\": {\n")
	for idx, slot := range req.Slots {
		sep := ","
		if idx == len(req.Slots)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %q: \"item_id_or_null\"%s\n", slot.CategoryID, sep)
	}
	b.WriteString("  },\n  \"reasoning\": \"why these pieces work together and differ from recent outfits\"\n}\n")
	b.WriteString("Only use item IDs from the list above.")
	return b.String(), nil
}

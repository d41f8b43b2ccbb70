package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

var (
	slotLabel   = color.New(color.Bold)
	itemLabel   = color.New(color.FgGreen)
	emptyLabel  = color.New(color.FgHiBlack)
	pinLabel    = color.New(color.FgHiMagenta)
	warnLabel   = color.New(color.FgYellow)
	sourceLabel = color.New(color.FgCyan)
)

func renderOutfit(
	w io.Writer,
	schema *domain.Schema,
	generated domain.Outfit,
	result domain.GenerationResult,
	enabled domain.EnabledCategories,
	pinned domain.PinnedItems,
) {
	header := fmt.Sprintf("Outfit %s", generated.ID)
	if generated.Theme != "" {
		header += fmt.Sprintf(" - %q", generated.Theme)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w)

	for _, slot := range schema.SlotsByGrid() {
		name := fmt.Sprintf("%-12s", slot.DisplayName)
		item := generated.Items[slot.ID]
		switch {
		case item != nil:
			line := fmt.Sprintf("  %s %s", slotLabel.Sprint(name), itemLabel.Sprint(itemName(item)))
			if pinned[slot.ID] == item.ID {
				line += pinLabel.Sprint(" [pinned]")
			}
			fmt.Fprintln(w, line)
		case !enabled.IsEnabled(slot.ID):
			fmt.Fprintf(w, "  %s %s\n", slotLabel.Sprint(name), emptyLabel.Sprint("(disabled)"))
		default:
			fmt.Fprintf(w, "  %s %s\n", slotLabel.Sprint(name), emptyLabel.Sprint("-"))
		}
	}

	fmt.Fprintln(w)
	source := sourceLabel.Sprint(string(result.Source))
	if result.FallbackReason != domain.FallbackNone {
		source += warnLabel.Sprintf(" (fallback: %s)", result.FallbackReason)
	}
	fmt.Fprintf(w, "Source: %s\n", source)
	if result.Reasoning != "" {
		fmt.Fprintf(w, "Stylist: %s\n", strings.TrimSpace(result.Reasoning))
	}
	if result.IntegrityViolations > 0 {
		fmt.Fprintln(w, warnLabel.Sprintf("Discarded %d misplaced suggestion(s)", result.IntegrityViolations))
	}
}

func itemName(item *domain.ClothingItem) string {
	if strings.TrimSpace(item.Name) == "" {
		return item.ID
	}
	return fmt.Sprintf("%s (%s)", item.Name, item.ID)
}

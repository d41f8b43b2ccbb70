package outfit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTuning() Tuning {
	tuning := DefaultTuning()
	tuning.ThinkDelay = 0
	return tuning
}

func item(id, category string) domain.ClothingItem {
	return domain.ClothingItem{ID: id, CategoryID: category, Name: "name-" + id}
}

// wardrobe builds n items per category named <category>_<i>.
func wardrobe(perCategory map[string]int) []domain.ClothingItem {
	out := make([]domain.ClothingItem, 0)
	for _, category := range domain.DefaultSchema().Slots() {
		for i := 1; i <= perCategory[category.ID]; i++ {
			out = append(out, item(fmt.Sprintf("%s_%d", category.ID, i), category.ID))
		}
	}
	return out
}

func outfitOf(schema *domain.Schema, items ...domain.ClothingItem) domain.Outfit {
	o := domain.Outfit{Items: schema.EmptyOutfit()}
	for i := range items {
		it := items[i]
		o.Items[it.CategoryID] = &it
	}
	return o
}

func assertIntegrity(t *testing.T, schema *domain.Schema, items domain.OutfitItems) {
	t.Helper()
	for _, category := range schema.Slots() {
		if _, ok := items[category.ID]; !ok {
			t.Fatalf("expected slot %s to be present in outfit", category.ID)
		}
	}
	for slot, it := range items {
		if it != nil && it.CategoryID != slot {
			t.Fatalf("slot %s holds item %s of category %s", slot, it.ID, it.CategoryID)
		}
	}
}

func itemID(items domain.OutfitItems, slot string) string {
	if items[slot] == nil {
		return ""
	}
	return items[slot].ID
}

func strPtr(s string) *string { return &s }

type fakeAdvisor struct {
	mu        sync.Mutex
	proposals []domain.AdvisoryProposal
	errs      []error
	block     bool
	panicMsg  string
	requests  []domain.AdvisoryRequest
}

func (f *fakeAdvisor) ProposeOutfit(ctx context.Context, req domain.AdvisoryRequest) (domain.AdvisoryProposal, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	idx := len(f.requests) - 1
	f.mu.Unlock()

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.block {
		<-ctx.Done()
		return domain.AdvisoryProposal{}, ctx.Err()
	}
	if idx < len(f.errs) && f.errs[idx] != nil {
		return domain.AdvisoryProposal{}, f.errs[idx]
	}
	if len(f.proposals) == 0 {
		return domain.AdvisoryProposal{}, nil
	}
	if idx >= len(f.proposals) {
		idx = len(f.proposals) - 1
	}
	return f.proposals[idx], nil
}

func (f *fakeAdvisor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

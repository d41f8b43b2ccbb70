package domain

import "time"

// AdvisoryItem is the compact description of a catalog item sent to the
// styling advisor.
type AdvisoryItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	RecentlyUsed bool     `json:"recentlyUsed"`
}

type AdvisorySlot struct {
	CategoryID string `json:"category"`
	Required   bool   `json:"required"`
	PinnedItem string `json:"pinned_item,omitempty"`
}

type AdvisoryRequest struct {
	Items         []AdvisoryItem `json:"items"`
	RecentOutfits []string       `json:"recent_outfits"`
	Theme         string         `json:"theme,omitempty"`
	Slots         []AdvisorySlot `json:"slots"`
	Attempt       int            `json:"attempt"`
}

// AdvisoryProposal is the advisor's answer. A nil or empty selection means
// the advisor chose nothing for that slot.
type AdvisoryProposal struct {
	Outfit    map[string]*string `json:"outfit"`
	Reasoning string             `json:"reasoning"`
}

type FallbackReason string

const (
	FallbackNone              FallbackReason = ""
	FallbackInsufficientItems FallbackReason = "insufficient_items"
	FallbackAdvisorDisabled   FallbackReason = "advisor_disabled"
	FallbackAdvisorError      FallbackReason = "advisor_error"
	FallbackMalformedAdvice   FallbackReason = "malformed_advice"
	FallbackTooSimilar        FallbackReason = "too_similar"
)

type GenerationResult struct {
	Items               OutfitItems    `json:"items"`
	Source              OutfitSource   `json:"source"`
	FallbackReason      FallbackReason `json:"fallback_reason,omitempty"`
	AdvisoryAttempts    int            `json:"advisory_attempts"`
	RandomAttempts      int            `json:"random_attempts"`
	Reasoning           string         `json:"reasoning,omitempty"`
	IntegrityViolations int            `json:"integrity_violations"`
}

// GeneratedOutfit is the stored outfit plus how it was produced.
type GeneratedOutfit struct {
	Outfit Outfit           `json:"outfit"`
	Result GenerationResult `json:"generation"`
}

type OutfitGeneratedEvent struct {
	UserID    string       `json:"user_id"`
	OutfitID  string       `json:"outfit_id"`
	Source    OutfitSource `json:"source"`
	CreatedAt time.Time    `json:"created_at"`
}

package domain

import "time"

type ClothingItem struct {
	ID         string    `json:"id" yaml:"id"`
	CategoryID string    `json:"category_id" yaml:"category"`
	ImageURI   string    `json:"image_uri,omitempty" yaml:"image_uri,omitempty"`
	Name       string    `json:"name" yaml:"name"`
	Tags       []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at,omitempty"`
}

// OutfitItems maps a slot category ID to the item placed there. A nil value
// means the slot is empty.
type OutfitItems map[string]*ClothingItem

// Clone copies the map; item pointers are shared since items are immutable.
func (o OutfitItems) Clone() OutfitItems {
	out := make(OutfitItems, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Filled counts the non-empty slots.
func (o OutfitItems) Filled() int {
	n := 0
	for _, item := range o {
		if item != nil {
			n++
		}
	}
	return n
}

type OutfitSource string

const (
	OutfitSourceAdvisory OutfitSource = "advisory"
	OutfitSourceRandom   OutfitSource = "random"
	OutfitSourceManual   OutfitSource = "manual"
)

type Outfit struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id,omitempty"`
	Name      string       `json:"name,omitempty"`
	Items     OutfitItems  `json:"items"`
	Theme     string       `json:"theme,omitempty"`
	Source    OutfitSource `json:"source,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// PinnedItems maps a slot category ID to the item ID the user pinned there.
type PinnedItems map[string]string

// EnabledCategories maps a category ID to its generation toggle.
type EnabledCategories map[string]bool

// IsEnabled treats categories without an explicit toggle as enabled.
func (e EnabledCategories) IsEnabled(categoryID string) bool {
	enabled, ok := e[categoryID]
	return !ok || enabled
}

// Preferences is the per-user settings snapshot read by generation.
type Preferences struct {
	UserID            string            `json:"user_id"`
	EnabledCategories EnabledCategories `json:"enabled_categories"`
	PinnedItems       PinnedItems       `json:"pinned_items"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type ItemFilter struct {
	CategoryID string
}

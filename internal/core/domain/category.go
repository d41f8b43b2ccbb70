package domain

import (
	"fmt"
	"sort"
	"strings"
)

// AllCategoryID is the browsing pseudo-category. It never holds an outfit item.
const AllCategoryID = "all"

type Category struct {
	ID           string `json:"id" yaml:"id"`
	DisplayName  string `json:"display_name" yaml:"display_name"`
	GridPosition int    `json:"grid_position" yaml:"grid_position"`
	Required     bool   `json:"required" yaml:"required"`
	ClosetGroup  string `json:"closet_group,omitempty" yaml:"closet_group,omitempty"`
	Pseudo       bool   `json:"pseudo,omitempty" yaml:"pseudo,omitempty"`
}

// Schema is the static, ordered set of clothing categories. It is built once
// at startup and treated as read-only afterwards.
type Schema struct {
	categories []Category
	byID       map[string]Category
}

func NewSchema(categories []Category) (*Schema, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("category schema is empty")
	}
	s := &Schema{
		categories: make([]Category, 0, len(categories)),
		byID:       make(map[string]Category, len(categories)),
	}
	slots := 0
	for _, c := range categories {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return nil, fmt.Errorf("category id is required")
		}
		if _, dup := s.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}
		if c.ID == AllCategoryID {
			c.Pseudo = true
		}
		if !c.Pseudo {
			slots++
		}
		s.categories = append(s.categories, c)
		s.byID[c.ID] = c
	}
	if slots == 0 {
		return nil, fmt.Errorf("category schema has no outfit slots")
	}
	return s, nil
}

func MustSchema(categories []Category) *Schema {
	s, err := NewSchema(categories)
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultCategories mirrors the closet layout of the mobile app.
func DefaultCategories() []Category {
	return []Category{
		{ID: AllCategoryID, DisplayName: "ALL", GridPosition: -1, Pseudo: true},
		{ID: "hats", DisplayName: "HATS", GridPosition: 1},
		{ID: "shirts", DisplayName: "SHIRTS", GridPosition: 4, Required: true},
		{ID: "jackets", DisplayName: "COATS", GridPosition: 5},
		{ID: "accessories", DisplayName: "ACCESSORIES", GridPosition: 3, ClosetGroup: "accessories"},
		{ID: "pants", DisplayName: "PANTS", GridPosition: 7, Required: true},
		{ID: "belts", DisplayName: "BELTS", GridPosition: 8, Required: true},
		{ID: "shoes", DisplayName: "SHOES", GridPosition: 10, Required: true},
	}
}

func DefaultSchema() *Schema {
	return MustSchema(DefaultCategories())
}

// Categories returns every category, pseudo ones included, in declaration order.
func (s *Schema) Categories() []Category {
	return append([]Category(nil), s.categories...)
}

// Slots returns the categories that can hold an outfit item.
func (s *Schema) Slots() []Category {
	out := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		if !c.Pseudo {
			out = append(out, c)
		}
	}
	return out
}

// SlotsByGrid returns slots ordered by grid position, for display.
func (s *Schema) SlotsByGrid() []Category {
	out := s.Slots()
	sort.SliceStable(out, func(i, j int) bool { return out[i].GridPosition < out[j].GridPosition })
	return out
}

func (s *Schema) Lookup(id string) (Category, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// IsSlot reports whether id names a non-pseudo category.
func (s *Schema) IsSlot(id string) bool {
	c, ok := s.byID[id]
	return ok && !c.Pseudo
}

func (s *Schema) RequiredSlots() []Category {
	out := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		if !c.Pseudo && c.Required {
			out = append(out, c)
		}
	}
	return out
}

// EmptyOutfit returns an items map with a nil entry for every slot.
func (s *Schema) EmptyOutfit() OutfitItems {
	items := make(OutfitItems, len(s.categories))
	for _, c := range s.categories {
		if !c.Pseudo {
			items[c.ID] = nil
		}
	}
	return items
}

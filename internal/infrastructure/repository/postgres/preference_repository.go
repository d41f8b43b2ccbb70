package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetPreferences returns empty toggles and pins for users who never saved
// settings, which generation reads as "everything enabled, nothing pinned".
func (r *PreferenceRepository) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	prefs := &domain.Preferences{
		UserID:            userID,
		EnabledCategories: domain.EnabledCategories{},
		PinnedItems:       domain.PinnedItems{},
	}

	var enabledRaw, pinnedRaw []byte
	err := r.db.QueryRowContext(ctx, `
SELECT enabled_categories, pinned_items, updated_at
FROM user_preferences
WHERE user_id = $1
`, userID).Scan(&enabledRaw, &pinnedRaw, &prefs.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prefs, nil
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	if err := json.Unmarshal(enabledRaw, &prefs.EnabledCategories); err != nil {
		return nil, fmt.Errorf("unmarshal enabled categories: %w", err)
	}
	if err := json.Unmarshal(pinnedRaw, &prefs.PinnedItems); err != nil {
		return nil, fmt.Errorf("unmarshal pinned items: %w", err)
	}
	if prefs.EnabledCategories == nil {
		prefs.EnabledCategories = domain.EnabledCategories{}
	}
	if prefs.PinnedItems == nil {
		prefs.PinnedItems = domain.PinnedItems{}
	}
	return prefs, nil
}

func (r *PreferenceRepository) SavePreferences(ctx context.Context, prefs *domain.Preferences) error {
	enabled := prefs.EnabledCategories
	if enabled == nil {
		enabled = domain.EnabledCategories{}
	}
	pinned := prefs.PinnedItems
	if pinned == nil {
		pinned = domain.PinnedItems{}
	}
	enabledJSON, err := json.Marshal(enabled)
	if err != nil {
		return fmt.Errorf("marshal enabled categories: %w", err)
	}
	pinnedJSON, err := json.Marshal(pinned)
	if err != nil {
		return fmt.Errorf("marshal pinned items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO user_preferences (user_id, enabled_categories, pinned_items, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id) DO UPDATE
SET enabled_categories = EXCLUDED.enabled_categories,
	pinned_items = EXCLUDED.pinned_items,
	updated_at = EXCLUDED.updated_at
`, prefs.UserID, enabledJSON, pinnedJSON, prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

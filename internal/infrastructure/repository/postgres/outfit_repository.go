package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

const (
	kindHistory  = "history"
	kindFavorite = "favorite"

	defaultHistoryLimit = 50
)

// OutfitRepository keeps generated history and saved favorites in one table,
// told apart by kind. Items are stored as a JSONB snapshot so deleting a
// catalog item never rewrites past outfits.
type OutfitRepository struct {
	db *sql.DB
}

func NewOutfitRepository(db *sql.DB) *OutfitRepository {
	return &OutfitRepository{db: db}
}

func (r *OutfitRepository) AppendHistory(ctx context.Context, outfit *domain.Outfit) error {
	return r.insert(ctx, kindHistory, outfit)
}

func (r *OutfitRepository) SaveFavorite(ctx context.Context, outfit *domain.Outfit) error {
	return r.insert(ctx, kindFavorite, outfit)
}

func (r *OutfitRepository) insert(ctx context.Context, kind string, outfit *domain.Outfit) error {
	itemsJSON, err := json.Marshal(outfit.Items)
	if err != nil {
		return fmt.Errorf("marshal outfit items: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO outfits (id, user_id, kind, name, items, theme, source, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, outfit.ID, outfit.UserID, kind, outfit.Name, itemsJSON, outfit.Theme, string(outfit.Source), outfit.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert %s outfit: %w", kind, err)
	}
	return nil
}

// ListHistory returns the newest outfits first.
func (r *OutfitRepository) ListHistory(ctx context.Context, userID string, limit int) ([]domain.Outfit, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return r.list(ctx, `
SELECT id, user_id, name, items, theme, source, created_at
FROM outfits
WHERE user_id = $1 AND kind = $2
ORDER BY created_at DESC, id DESC
LIMIT $3
`, userID, kindHistory, limit)
}

func (r *OutfitRepository) ListFavorites(ctx context.Context, userID string) ([]domain.Outfit, error) {
	return r.list(ctx, `
SELECT id, user_id, name, items, theme, source, created_at
FROM outfits
WHERE user_id = $1 AND kind = $2
ORDER BY created_at DESC, id DESC
`, userID, kindFavorite)
}

// TrimHistory deletes everything but the newest keep history entries.
func (r *OutfitRepository) TrimHistory(ctx context.Context, userID string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.ExecContext(ctx, `
DELETE FROM outfits
WHERE user_id = $1 AND kind = $2 AND id NOT IN (
	SELECT id FROM outfits
	WHERE user_id = $1 AND kind = $2
	ORDER BY created_at DESC, id DESC
	LIMIT $3
)
`, userID, kindHistory, keep)
	if err != nil {
		return 0, fmt.Errorf("trim outfit history: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("trim outfit history rows affected: %w", err)
	}
	return affected, nil
}

func (r *OutfitRepository) DeleteFavorite(ctx context.Context, userID, outfitID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM outfits WHERE user_id = $1 AND kind = $2 AND id = $3`, userID, kindFavorite, outfitID)
	if err != nil {
		return fmt.Errorf("delete favorite outfit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete favorite rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrOutfitNotFound, "delete favorite outfit", fmt.Errorf("id=%s", outfitID))
	}
	return nil
}

func (r *OutfitRepository) list(ctx context.Context, query string, args ...any) ([]domain.Outfit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Outfit, 0)
	for rows.Next() {
		var (
			outfit   domain.Outfit
			itemsRaw []byte
			source   string
		)
		if err := rows.Scan(&outfit.ID, &outfit.UserID, &outfit.Name, &itemsRaw, &outfit.Theme, &source, &outfit.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outfit: %w", err)
		}
		if err := json.Unmarshal(itemsRaw, &outfit.Items); err != nil {
			return nil, fmt.Errorf("unmarshal outfit items: %w", err)
		}
		outfit.Source = domain.OutfitSource(source)
		out = append(out, outfit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outfits: %w", err)
	}
	return out, nil
}

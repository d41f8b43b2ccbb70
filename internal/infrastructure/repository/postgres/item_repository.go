package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) CreateItem(ctx context.Context, userID string, item *domain.ClothingItem) error {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO clothing_items (id, user_id, category_id, name, image_uri, tags, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, item.ID, userID, item.CategoryID, item.Name, item.ImageURI, tagsJSON, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert clothing item: %w", err)
	}
	return nil
}

func (r *ItemRepository) ListItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.ClothingItem, error) {
	query := `
SELECT id, category_id, name, image_uri, tags, created_at
FROM clothing_items
WHERE user_id = $1
`
	args := []any{userID}
	if filter.CategoryID != "" && filter.CategoryID != domain.AllCategoryID {
		query += "AND category_id = $2\n"
		args = append(args, filter.CategoryID)
	}
	query += "ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clothing items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ClothingItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clothing items: %w", err)
	}
	return out, nil
}

func (r *ItemRepository) GetItem(ctx context.Context, userID, itemID string) (*domain.ClothingItem, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, category_id, name, image_uri, tags, created_at
FROM clothing_items
WHERE user_id = $1 AND id = $2
`, userID, itemID)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrItemNotFound, "get clothing item", fmt.Errorf("id=%s", itemID))
		}
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) DeleteItem(ctx context.Context, userID, itemID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clothing_items WHERE user_id = $1 AND id = $2`, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete clothing item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete clothing item rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrItemNotFound, "delete clothing item", fmt.Errorf("id=%s", itemID))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.ClothingItem, error) {
	var (
		item    domain.ClothingItem
		tagsRaw []byte
	)
	if err := row.Scan(&item.ID, &item.CategoryID, &item.Name, &item.ImageURI, &tagsRaw, &item.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ClothingItem{}, err
		}
		return domain.ClothingItem{}, fmt.Errorf("scan clothing item: %w", err)
	}
	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &item.Tags); err != nil {
			return domain.ClothingItem{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	return item, nil
}

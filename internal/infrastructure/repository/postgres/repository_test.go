package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
		_ = db.Close()
	})
	return db, mock
}

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WithArgs(schemaLockKey).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS clothing_items`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
}

func TestCreateItemStoresEmptyTagsAsArray(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepository(db)
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO clothing_items`).
		WithArgs("i1", "u1", "shirts", "Oxford", "", []byte("[]"), created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateItem(context.Background(), "u1", &domain.ClothingItem{
		ID: "i1", CategoryID: "shirts", Name: "Oxford", CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
}

func TestListItemsFiltersByCategory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepository(db)
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "category_id", "name", "image_uri", "tags", "created_at"}).
		AddRow("i1", "pants", "Chinos", "file:///chinos.png", []byte(`["beige"]`), created)
	mock.ExpectQuery(`SELECT id, category_id, name, image_uri, tags, created_at`).
		WithArgs("u1", "pants").
		WillReturnRows(rows)

	items, err := repo.ListItems(context.Background(), "u1", domain.ItemFilter{CategoryID: "pants"})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != "i1" || len(items[0].Tags) != 1 || items[0].Tags[0] != "beige" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestListItemsAllCategoryDoesNotFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepository(db)

	mock.ExpectQuery(`SELECT id, category_id`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category_id", "name", "image_uri", "tags", "created_at"}))

	items, err := repo.ListItems(context.Background(), "u1", domain.ItemFilter{CategoryID: domain.AllCategoryID})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestGetItemReturnsDomainNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepository(db)

	mock.ExpectQuery(`SELECT id, category_id`).
		WithArgs("u1", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetItem(context.Background(), "u1", "missing")
	if !domain.IsKind(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDeleteItemReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepository(db)

	mock.ExpectExec(`DELETE FROM clothing_items`).
		WithArgs("u1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteItem(context.Background(), "u1", "missing")
	if !domain.IsKind(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestListHistoryDecodesItemSnapshot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutfitRepository(db)
	created := time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "items", "theme", "source", "created_at"}).
		AddRow("o1", "u1", "", []byte(`{"shirts":{"id":"s1","category_id":"shirts","name":"Oxford"},"hats":null}`), "office", "advisory", created)
	mock.ExpectQuery(`SELECT id, user_id, name, items, theme, source, created_at`).
		WithArgs("u1", kindHistory, defaultHistoryLimit).
		WillReturnRows(rows)

	history, err := repo.ListHistory(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("ListHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one outfit, got %d", len(history))
	}
	got := history[0]
	if got.Source != domain.OutfitSourceAdvisory || got.Theme != "office" {
		t.Fatalf("unexpected outfit: %+v", got)
	}
	if got.Items["shirts"] == nil || got.Items["shirts"].ID != "s1" {
		t.Fatalf("expected shirts snapshot, got %+v", got.Items)
	}
	if v, ok := got.Items["hats"]; !ok || v != nil {
		t.Fatalf("expected empty hats slot to survive round trip")
	}
}

func TestTrimHistoryKeepsNewest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutfitRepository(db)

	mock.ExpectExec(`DELETE FROM outfits`).
		WithArgs("u1", kindHistory, 50).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := repo.TrimHistory(context.Background(), "u1", 50)
	if err != nil {
		t.Fatalf("TrimHistory() error = %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
}

func TestDeleteFavoriteReturnsDomainNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutfitRepository(db)

	mock.ExpectExec(`DELETE FROM outfits`).
		WithArgs("u1", kindFavorite, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteFavorite(context.Background(), "u1", "missing")
	if !domain.IsKind(err, domain.ErrOutfitNotFound) {
		t.Fatalf("expected ErrOutfitNotFound, got %v", err)
	}
}

func TestGetPreferencesDefaultsForNewUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPreferenceRepository(db)

	mock.ExpectQuery(`SELECT enabled_categories, pinned_items, updated_at`).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	prefs, err := repo.GetPreferences(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if prefs.UserID != "u1" || prefs.EnabledCategories == nil || prefs.PinnedItems == nil {
		t.Fatalf("unexpected defaults: %+v", prefs)
	}
	if !prefs.EnabledCategories.IsEnabled("hats") {
		t.Fatalf("expected categories enabled by default")
	}
}

func TestGetPreferencesDecodesStoredSettings(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPreferenceRepository(db)
	updated := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT enabled_categories`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"enabled_categories", "pinned_items", "updated_at"}).
			AddRow([]byte(`{"hats":false}`), []byte(`{"shirts":"s1"}`), updated))

	prefs, err := repo.GetPreferences(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if prefs.EnabledCategories.IsEnabled("hats") || prefs.PinnedItems["shirts"] != "s1" || !prefs.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected preferences: %+v", prefs)
	}
}

func TestSavePreferencesUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPreferenceRepository(db)
	updated := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO user_preferences`).
		WithArgs("u1", []byte(`{"hats":false}`), []byte(`{}`), updated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SavePreferences(context.Background(), &domain.Preferences{
		UserID:            "u1",
		EnabledCategories: domain.EnabledCategories{"hats": false},
		UpdatedAt:         updated,
	})
	if err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}
}

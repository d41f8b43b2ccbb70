package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

type wardrobeFile struct {
	Items []domain.ClothingItem `yaml:"items"`
}

func loadWardrobe(path string) ([]domain.ClothingItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wardrobe %s: %w", path, err)
	}
	var doc wardrobeFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode wardrobe %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(doc.Items))
	for i, item := range doc.Items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("wardrobe item %d has no id", i+1)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("wardrobe item id %q is duplicated", id)
		}
		seen[id] = struct{}{}
		doc.Items[i].ID = id
		doc.Items[i].CategoryID = strings.TrimSpace(item.CategoryID)
	}
	return doc.Items, nil
}

// loadHistory reads a newest-first JSON array of outfits. A missing file is
// an empty history so the first --save-history run can create it.
func loadHistory(path string) ([]domain.Outfit, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var history []domain.Outfit
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", path, err)
	}
	return history, nil
}

func saveHistory(path string, history []domain.Outfit) error {
	payload, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".history-*.json")
	if err != nil {
		return fmt.Errorf("write history %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write history %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write history %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write history %s: %w", path, err)
	}
	return nil
}

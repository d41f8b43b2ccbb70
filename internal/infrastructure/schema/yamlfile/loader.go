// Package yamlfile loads a category schema override from disk.
package yamlfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

type document struct {
	Categories []domain.Category `yaml:"categories"`
}

// Load returns the default schema when path is empty.
func Load(path string) (*domain.Schema, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.DefaultSchema(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category schema %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*domain.Schema, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode category schema", err)
	}
	schema, err := domain.NewSchema(doc.Categories)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "build category schema", err)
	}
	return schema, nil
}

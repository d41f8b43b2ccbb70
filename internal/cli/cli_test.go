package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
)

const testWardrobe = `items:
  - id: hat-1
    category: hats
    name: Beanie
  - id: shirt-1
    category: shirts
    name: Oxford
    tags: [office]
  - id: shirt-2
    category: shirts
    name: Linen
  - id: pants-1
    category: pants
    name: Chinos
  - id: pants-2
    category: pants
    name: Jeans
  - id: belt-1
    category: belts
    name: Leather belt
  - id: shoes-1
    category: shoes
    name: Loafers
  - id: shoes-2
    category: shoes
    name: Boots
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out, errOut bytes.Buffer
	cmd := RootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateJSON(t *testing.T) {
	dir := t.TempDir()
	wardrobe := writeFile(t, dir, "wardrobe.yaml", testWardrobe)

	out, err := execute(t, "generate", "-w", wardrobe, "--seed", "7", "--json")
	require.NoError(t, err)

	var generated domain.GeneratedOutfit
	require.NoError(t, json.Unmarshal([]byte(out), &generated))

	assert.Equal(t, domain.OutfitSourceRandom, generated.Result.Source)
	assert.Equal(t, domain.FallbackAdvisorDisabled, generated.Result.FallbackReason)
	assert.NotEmpty(t, generated.Outfit.ID)
	for slot, item := range generated.Outfit.Items {
		if item != nil {
			assert.Equal(t, slot, item.CategoryID, "item %s placed in %s", item.ID, slot)
		}
	}
	for _, slot := range []string{"shirts", "pants", "belts", "shoes"} {
		assert.NotNil(t, generated.Outfit.Items[slot], "required slot %s is empty", slot)
	}
}

func TestGenerateHonorsPinsAndDisabled(t *testing.T) {
	dir := t.TempDir()
	wardrobe := writeFile(t, dir, "wardrobe.yaml", testWardrobe)

	for i := 0; i < 10; i++ {
		out, err := execute(t, "generate", "-w", wardrobe, "--pin", "shoes=shoes-2", "--disable", "hats", "--json")
		require.NoError(t, err)

		var generated domain.GeneratedOutfit
		require.NoError(t, json.Unmarshal([]byte(out), &generated))
		require.NotNil(t, generated.Outfit.Items["shoes"])
		assert.Equal(t, "shoes-2", generated.Outfit.Items["shoes"].ID)
		assert.Nil(t, generated.Outfit.Items["hats"])
	}
}

func TestGenerateRendersText(t *testing.T) {
	dir := t.TempDir()
	wardrobe := writeFile(t, dir, "wardrobe.yaml", testWardrobe)

	out, err := execute(t, "generate", "-w", wardrobe, "--pin", "belts=belt-1", "--disable", "hats", "--theme", "office")
	require.NoError(t, err)

	assert.Contains(t, out, `"office"`)
	assert.Contains(t, out, "Leather belt (belt-1) [pinned]")
	assert.Contains(t, out, "(disabled)")
	assert.Contains(t, out, "Source: random (fallback: advisor_disabled)")
}

func TestGenerateSavesHistory(t *testing.T) {
	dir := t.TempDir()
	wardrobe := writeFile(t, dir, "wardrobe.yaml", testWardrobe)
	historyPath := filepath.Join(dir, "history.json")

	for i := 0; i < 3; i++ {
		_, err := execute(t, "generate", "-w", wardrobe, "--history", historyPath, "--save-history")
		require.NoError(t, err)
	}

	history, err := loadHistory(historyPath)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, !history[0].CreatedAt.Before(history[2].CreatedAt), "history must be newest first")
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	wardrobe := writeFile(t, dir, "wardrobe.yaml", testWardrobe)

	t.Run("missing wardrobe flag", func(t *testing.T) {
		_, err := execute(t, "generate")
		assert.Error(t, err)
	})

	t.Run("malformed pin", func(t *testing.T) {
		_, err := execute(t, "generate", "-w", wardrobe, "--pin", "shoes")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "slot=item_id")
	})

	t.Run("unknown disabled category", func(t *testing.T) {
		_, err := execute(t, "generate", "-w", wardrobe, "--disable", "capes")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "capes")
	})

	t.Run("save history without path", func(t *testing.T) {
		_, err := execute(t, "generate", "-w", wardrobe, "--save-history")
		assert.Error(t, err)
	})

	t.Run("duplicate item ids", func(t *testing.T) {
		dup := writeFile(t, dir, "dup.yaml", "items:\n  - id: a\n    category: shirts\n  - id: a\n    category: pants\n")
		_, err := execute(t, "generate", "-w", dup)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicated")
	})
}

func TestCategories(t *testing.T) {
	out, err := execute(t, "categories")
	require.NoError(t, err)

	assert.Contains(t, out, "shirts")
	assert.Contains(t, out, "[required]")
	assert.NotContains(t, out, "ALL")
}

func TestCategoriesWithSchemaOverride(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", `categories:
  - id: tops
    display_name: TOPS
    grid_position: 1
    required: true
  - id: bottoms
    display_name: BOTTOMS
    grid_position: 2
`)

	out, err := execute(t, "--schema", schema, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "tops")
	assert.Contains(t, out, "bottoms")
	assert.NotContains(t, out, "shirts")
}

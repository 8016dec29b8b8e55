package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "captioner.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := writeConfig(t, `
export_name = "out.png"

[style]
row_height = 40
font_family = "Go Mono"
font_weight = "bold"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out.png", cfg.ExportName)
	assert.Equal(t, 40.0, cfg.Style.RowHeight)
	assert.Equal(t, "Go Mono", cfg.Style.FontFamily)
	assert.Equal(t, "bold", cfg.Style.FontWeight)
	// untouched keys keep defaults
	assert.Equal(t, 28.0, cfg.Style.FontSize)
	assert.Equal(t, "#ffffff", cfg.Style.FillColor)
	assert.Equal(t, "#000000", cfg.Style.StrokeColor)
}

func TestLoadInvalidToml(t *testing.T) {
	path := writeConfig(t, "[style\nrow_height = ")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestToCaption(t *testing.T) {
	style := Default().Style.ToCaption()
	assert.Equal(t, 48.0, style.RowHeight)
	assert.Equal(t, 28.0, style.FontSize)
	assert.Equal(t, "sans-serif", style.FontFamily)
}

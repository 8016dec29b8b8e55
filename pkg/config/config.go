package config

import (
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/visionex-project/captioner/pkg/caption"
)

const DefaultExportName = "字幕图.png"

type Config struct {
	// File name offered for the exported PNG.
	ExportName string `koanf:"export_name"`

	// Style used until the user changes it.
	Style StyleConfig `koanf:"style"`
}

// StyleConfig mirrors caption.StyleConfig with file keys.
type StyleConfig struct {
	RowHeight   float64 `koanf:"row_height"`   // bar height in px
	FontSize    float64 `koanf:"font_size"`    // desired font size in px
	FontStyle   string  `koanf:"font_style"`   // "normal", "italic" or "oblique"
	FontWeight  string  `koanf:"font_weight"`  // "normal", "bold" or 1-1000
	FontFamily  string  `koanf:"font_family"`  // e.g. "Go Mono"
	FillColor   string  `koanf:"fill_color"`   // e.g. "#ffffff"
	StrokeColor string  `koanf:"stroke_color"` // e.g. "#000000"
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ExportName: DefaultExportName,
		Style: StyleConfig{
			RowHeight:   48,
			FontSize:    28,
			FontStyle:   caption.DefaultFontStyle,
			FontWeight:  caption.DefaultFontWeight,
			FontFamily:  caption.DefaultFontFamily,
			FillColor:   "#ffffff",
			StrokeColor: "#000000",
		},
	}
}

// Load reads the TOML file at path over the built-in defaults. A missing file is not an
// error; keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.ExportName == "" {
		cfg.ExportName = DefaultExportName
	}
	return cfg, nil
}

// ToCaption converts the file section to the pipeline type.
func (s StyleConfig) ToCaption() caption.StyleConfig {
	return caption.StyleConfig{
		RowHeight:   s.RowHeight,
		FontSize:    s.FontSize,
		FontStyle:   s.FontStyle,
		FontWeight:  s.FontWeight,
		FontFamily:  s.FontFamily,
		FillColor:   s.FillColor,
		StrokeColor: s.StrokeColor,
	}
}

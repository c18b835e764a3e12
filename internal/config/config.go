// Package config holds the application configuration for the badge
// composer: template definitions, fitting and styling parameters, and
// output settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/badgeforge/badge-composer/pkg/geometry"
	"github.com/badgeforge/badge-composer/pkg/template"
)

// Config holds the application configuration.
type Config struct {
	Templates  []TemplateConfig `json:"templates"`
	Compositor CompositorConfig `json:"compositor"`
	Text       TextConfig       `json:"text"`
	Output     OutputConfig     `json:"output"`
}

// TemplateConfig defines one badge template. Window coordinates are in
// the 0–980 baseline space.
type TemplateConfig struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Asset       string          `json:"asset"`
	PhotoWindow geometry.Region `json:"photo_window"`
	NameWindow  geometry.Region `json:"name_window"`
}

// CompositorConfig holds photo-window styling in baseline units.
type CompositorConfig struct {
	CornerRadius float64 `json:"corner_radius"`
	BorderWidth  float64 `json:"border_width"`
}

// TextConfig holds the name-fitting parameters.
type TextConfig struct {
	FontPath      string  `json:"font_path"`
	HeightRatio   float64 `json:"height_ratio"`
	MaxWidthRatio float64 `json:"max_width_ratio"`
	SizeStep      float64 `json:"size_step"`
	MinSize       float64 `json:"min_size"`
	LineSpacing   float64 `json:"line_spacing"`
	MaxNameLength int     `json:"max_name_length"`
}

// OutputConfig holds export settings for the CLI.
type OutputConfig struct {
	Dir      string `json:"dir"`
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
}

// Default returns a configuration with the two stock templates and the
// stock styling.
func Default() *Config {
	var templates []TemplateConfig
	for _, t := range template.Builtin() {
		templates = append(templates, TemplateConfig{
			ID:          t.ID,
			Title:       t.Title,
			Asset:       t.Asset,
			PhotoWindow: t.PhotoWindow,
			NameWindow:  t.NameWindow,
		})
	}
	return &Config{
		Templates: templates,
		Compositor: CompositorConfig{
			CornerRadius: 15,
			BorderWidth:  2,
		},
		Text: TextConfig{
			HeightRatio:   0.35,
			MaxWidthRatio: 0.9,
			SizeStep:      2,
			MinSize:       12,
			LineSpacing:   1.2,
			MaxNameLength: 60,
		},
		Output: OutputConfig{
			Dir:     ".",
			Format:  "png",
			Quality: 90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file.
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// TemplateList converts the configured templates to the domain type.
func (c *Config) TemplateList() []template.Template {
	out := make([]template.Template, 0, len(c.Templates))
	for _, t := range c.Templates {
		out = append(out, template.Template{
			ID:          t.ID,
			Title:       t.Title,
			Asset:       t.Asset,
			PhotoWindow: t.PhotoWindow,
			NameWindow:  t.NameWindow,
		})
	}
	return out
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Templates) == 0 {
		return fmt.Errorf("at least one template must be configured")
	}
	for _, t := range c.TemplateList() {
		if err := t.Validate(); err != nil {
			return err
		}
	}

	if c.Compositor.CornerRadius < 0 {
		return fmt.Errorf("compositor.corner_radius must not be negative")
	}
	if c.Compositor.BorderWidth < 0 {
		return fmt.Errorf("compositor.border_width must not be negative")
	}

	if c.Text.HeightRatio <= 0 || c.Text.HeightRatio > 1 {
		return fmt.Errorf("text.height_ratio must be between 0 and 1")
	}
	if c.Text.MaxWidthRatio <= 0 || c.Text.MaxWidthRatio > 1 {
		return fmt.Errorf("text.max_width_ratio must be between 0 and 1")
	}
	if c.Text.SizeStep <= 0 {
		return fmt.Errorf("text.size_step must be positive")
	}
	if c.Text.MinSize <= 0 {
		return fmt.Errorf("text.min_size must be positive")
	}
	if c.Text.LineSpacing <= 0 {
		return fmt.Errorf("text.line_spacing must be positive")
	}
	if c.Text.MaxNameLength < 0 {
		return fmt.Errorf("text.max_name_length must not be negative")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "badge-composer", "config.json")
}

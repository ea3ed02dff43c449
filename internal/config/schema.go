package config

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/mediadesk/internal/media"
)

// Config is the top-level mediadesk configuration.
type Config struct {
	Archive ArchiveConfig `mapstructure:"archive" yaml:"archive"`
	Article ArticleConfig `mapstructure:"article" yaml:"article"`
	Images  ImagesConfig  `mapstructure:"images" yaml:"images"`
	Upload  UploadConfig  `mapstructure:"upload" yaml:"upload"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ArchiveConfig holds the content API connection settings.
type ArchiveConfig struct {
	APIBase      string `mapstructure:"api_base" yaml:"api_base"`
	TokenEnv     string `mapstructure:"token_env" yaml:"token_env"`
	ItemsPerPage int    `mapstructure:"items_per_page" yaml:"items_per_page"`
	MaxPages     int    `mapstructure:"max_pages" yaml:"max_pages"`
	Token        string `mapstructure:"-" yaml:"-"` // resolved at runtime, never written
}

// ArticleConfig names the article being edited.
type ArticleConfig struct {
	Number   int    `mapstructure:"number" yaml:"number"`
	Language string `mapstructure:"language" yaml:"language"`
}

// ImagesConfig controls how embedded images are displayed.
type ImagesConfig struct {
	DefaultSize string            `mapstructure:"default_size" yaml:"default_size"`
	Widths      map[string]string `mapstructure:"widths" yaml:"widths"`
}

// UploadConfig holds defaults for new uploads.
type UploadConfig struct {
	Photographer string `mapstructure:"photographer" yaml:"photographer,omitempty"`
}

// LogConfig sets the diagnostic log level (debug, info, warn, error).
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// EffectiveSize returns the configured default size, or large when it is
// unset or unknown.
func (c ImagesConfig) EffectiveSize() media.Size {
	if s, err := media.ParseSize(c.DefaultSize); err == nil {
		return s
	}
	return media.DefaultSize
}

// EffectiveWidths returns the width table keyed by size. Unknown size
// names are ignored.
func (c ImagesConfig) EffectiveWidths() map[media.Size]string {
	out := make(map[media.Size]string, len(media.DefaultWidths))
	for k, v := range media.DefaultWidths {
		out[k] = v
	}
	for k, v := range c.Widths {
		if s, err := media.ParseSize(strings.ToLower(k)); err == nil && v != "" {
			out[s] = v
		}
	}
	return out
}

// Validate reports the first setting that prevents talking to the archive.
func (c *Config) Validate() error {
	if c.Archive.APIBase == "" {
		return fmt.Errorf("archive.api_base is not set (run 'mediadesk init')")
	}
	if c.Article.Number <= 0 {
		return fmt.Errorf("no article selected (set article.number or pass --article)")
	}
	if c.Article.Language == "" {
		return fmt.Errorf("article.language is empty")
	}
	if c.Images.DefaultSize != "" {
		if _, err := media.ParseSize(c.Images.DefaultSize); err != nil {
			return fmt.Errorf("images.default_size: %w", err)
		}
	}
	return nil
}

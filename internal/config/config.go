package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := homedir.Dir()
	return filepath.Join(home, ".config", "mediadesk", "config.yml")
}

// Path returns the config file in use: MEDIADESK_CONFIG or DefaultPath.
func Path() string {
	if p := os.Getenv("MEDIADESK_CONFIG"); p != "" {
		return ExpandHome(p)
	}
	return DefaultPath()
}

// Load reads the config from disk (or env). Returns the defaults if no
// file exists yet; the init command creates it.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("archive.api_base", "")
	v.SetDefault("archive.token_env", "MEDIADESK_TOKEN")
	v.SetDefault("archive.items_per_page", 500)
	v.SetDefault("archive.max_pages", 100)
	v.SetDefault("article.number", 0)
	v.SetDefault("article.language", "en")
	v.SetDefault("images.default_size", "large")
	v.SetDefault("images.widths", map[string]string{
		"small":  "30%",
		"medium": "50%",
		"large":  "100%",
	})
	v.SetDefault("upload.photographer", "")
	v.SetDefault("log.level", "warn")

	v.SetEnvPrefix("MEDIADESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(Path())
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// The token only ever comes from the environment.
	tokenEnv := cfg.Archive.TokenEnv
	if tokenEnv == "" {
		tokenEnv = "MEDIADESK_TOKEN"
	}
	cfg.Archive.Token = os.Getenv(tokenEnv)

	cfg.Archive.APIBase = strings.TrimRight(cfg.Archive.APIBase, "/")
	return &cfg, nil
}

// Save writes the config to Path.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

// ExpandHome expands a leading ~ in a path. Paths it cannot expand are
// returned unchanged.
func ExpandHome(path string) string {
	p, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return p
}

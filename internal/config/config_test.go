package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/mediadesk/internal/config"
	"github.com/blackwell-systems/mediadesk/internal/media"
)

func useConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if body != "" {
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("MEDIADESK_CONFIG", path)
	return path
}

func TestLoad_Defaults(t *testing.T) {
	useConfigFile(t, "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Archive.ItemsPerPage != 500 {
		t.Errorf("ItemsPerPage = %d, want 500", cfg.Archive.ItemsPerPage)
	}
	if cfg.Archive.MaxPages != 100 {
		t.Errorf("MaxPages = %d, want 100", cfg.Archive.MaxPages)
	}
	if cfg.Article.Language != "en" {
		t.Errorf("Language = %q, want %q", cfg.Article.Language, "en")
	}
	if cfg.Images.Widths["small"] != "30%" {
		t.Errorf("widths = %v", cfg.Images.Widths)
	}
}

func TestLoad_FileEnvAndToken(t *testing.T) {
	useConfigFile(t, `archive:
  api_base: https://cms.example.org/content-api/
  token_env: NEWSROOM_TOKEN
article:
  number: 64
  language: de
`)
	t.Setenv("NEWSROOM_TOKEN", "s3cret")
	t.Setenv("MEDIADESK_UPLOAD_PHOTOGRAPHER", "Ana")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Archive.APIBase != "https://cms.example.org/content-api" {
		t.Errorf("APIBase = %q", cfg.Archive.APIBase)
	}
	if cfg.Article.Number != 64 || cfg.Article.Language != "de" {
		t.Errorf("Article = %+v", cfg.Article)
	}
	if cfg.Archive.Token != "s3cret" {
		t.Errorf("Token = %q, want %q", cfg.Archive.Token, "s3cret")
	}
	if cfg.Upload.Photographer != "Ana" {
		t.Errorf("Photographer = %q, want %q", cfg.Upload.Photographer, "Ana")
	}
}

func TestSave_NeverWritesToken(t *testing.T) {
	path := useConfigFile(t, "")
	cfg := &config.Config{
		Archive: config.ArchiveConfig{APIBase: "https://cms.example.org", TokenEnv: "X", Token: "s3cret"},
		Article: config.ArticleConfig{Number: 3, Language: "en"},
	}
	if err := config.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "s3cret") {
		t.Error("token written to config file")
	}
	if !strings.Contains(string(data), "api_base: https://cms.example.org") {
		t.Errorf("saved config:\n%s", data)
	}

	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Article.Number != 3 {
		t.Errorf("reloaded article = %d, want 3", loaded.Article.Number)
	}
}

func TestEffectiveSize(t *testing.T) {
	cases := []struct {
		in   string
		want media.Size
	}{
		{"small", media.SizeSmall},
		{"medium", media.SizeMedium},
		{"", media.SizeLarge},
		{"huge", media.SizeLarge},
	}
	for _, c := range cases {
		got := config.ImagesConfig{DefaultSize: c.in}.EffectiveSize()
		if got != c.want {
			t.Errorf("EffectiveSize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEffectiveWidths(t *testing.T) {
	w := config.ImagesConfig{Widths: map[string]string{"Small": "25%", "tiny": "5%"}}.EffectiveWidths()
	if w[media.SizeSmall] != "25%" {
		t.Errorf("small = %q, want 25%%", w[media.SizeSmall])
	}
	if w[media.SizeLarge] != "100%" {
		t.Errorf("large = %q, want 100%%", w[media.SizeLarge])
	}
	if len(w) != 3 {
		t.Errorf("widths = %v, want three sizes", w)
	}
}

func TestValidate(t *testing.T) {
	good := config.Config{
		Archive: config.ArchiveConfig{APIBase: "https://x"},
		Article: config.ArticleConfig{Number: 1, Language: "en"},
	}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate(good) = %v", err)
	}

	cases := []struct {
		name string
		edit func(*config.Config)
	}{
		{"no api base", func(c *config.Config) { c.Archive.APIBase = "" }},
		{"no article", func(c *config.Config) { c.Article.Number = 0 }},
		{"no language", func(c *config.Config) { c.Article.Language = "" }},
		{"bad size", func(c *config.Config) { c.Images.DefaultSize = "huge" }},
	}
	for _, c := range cases {
		cfg := good
		c.edit(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", c.name)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	p := config.DefaultPath()
	if !strings.HasSuffix(p, filepath.Join("mediadesk", "config.yml")) {
		t.Errorf("DefaultPath = %q, should end with mediadesk/config.yml", p)
	}
}

func TestExpandHome(t *testing.T) {
	if got := config.ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome(/abs/path) = %q", got)
	}
	if got := config.ExpandHome("~/pics"); strings.HasPrefix(got, "~") {
		t.Errorf("ExpandHome(~/pics) = %q, not expanded", got)
	}
}

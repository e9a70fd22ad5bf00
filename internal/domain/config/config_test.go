package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	domainerr "d2c/internal/domain/errors"

	"github.com/google/go-cmp/cmp"
)

func validConfig() Config {
	cfg := Default()
	cfg.Site.SiteURL = "https://blog.example.com/"
	return cfg
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		fields []string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing site url", mutate: func(c *Config) { c.Site.SiteURL = "" }, fields: []string{"site.site_url"}},
		{name: "relative site url", mutate: func(c *Config) { c.Site.SiteURL = "/blog" }, fields: []string{"site.site_url"}},
		{name: "bad locale", mutate: func(c *Config) { c.Site.Locales = []string{"en", "not a tag"} }, fields: []string{"site.locales"}},
		{name: "default not listed", mutate: func(c *Config) { c.Site.DefaultLocale = "de" }, fields: []string{"site.default_locale"}},
		{
			name: "paging",
			mutate: func(c *Config) {
				c.Site.PostsPerPage = 0
				c.Site.HomeLatest = -1
			},
			fields: []string{"site.posts_per_page", "site.home_latest"},
		},
		{name: "no title", mutate: func(c *Config) { c.Site.Title = " " }, fields: []string{"site.title"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if len(tc.fields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, domainerr.ErrInvalid) {
				t.Fatalf("Validate() error = %v, want ErrInvalid", err)
			}
			var ve domainerr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error %T is not a ValidationError", err)
			}
			var got []string
			for _, it := range ve.Items {
				got = append(got, it.Field)
			}
			if diff := cmp.Diff(tc.fields, got); diff != "" {
				t.Fatalf("invalid fields (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	data := "site:\n  title: My blog\n  site_url: https://me.example.com\n  locales: [fr, en]\n  default_locale: fr\nbuild:\n  public_dir: out\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Site.Title != "My blog" || cfg.Site.DefaultLocale != "fr" || cfg.Build.PublicDir != "out" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Site.PostsPerPage != 5 || cfg.Build.PostsDir != "posts" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Site.Title != Default().Site.Title {
		t.Fatalf("Title = %q", cfg.Site.Title)
	}
}

func TestURLHelpers(t *testing.T) {
	s := validConfig().Site
	if got := s.BaseURL(); got != "https://blog.example.com" {
		t.Errorf("BaseURL() = %q", got)
	}
	if got := s.LocalePrefix("en"); got != "" {
		t.Errorf("LocalePrefix(en) = %q", got)
	}
	if got := s.LocalePrefix("fr"); got != "/fr" {
		t.Errorf("LocalePrefix(fr) = %q", got)
	}
}

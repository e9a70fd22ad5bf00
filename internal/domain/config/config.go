package config

import (
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	domainerr "d2c/internal/domain/errors"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Build BuildConfig `yaml:"build"`
}

type SiteConfig struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Author        string   `yaml:"author"`
	SiteURL       string   `yaml:"site_url"`
	Image         string   `yaml:"image"`
	Favicon       string   `yaml:"favicon"`
	Twitter       string   `yaml:"twitter"`
	Locales       []string `yaml:"locales"`
	DefaultLocale string   `yaml:"default_locale"`
	PostsPerPage  int      `yaml:"posts_per_page"`
	HomeLatest    int      `yaml:"home_latest"`
}

type BuildConfig struct {
	PostsDir     string    `yaml:"posts_dir"`
	PagesDir     string    `yaml:"pages_dir"`
	PublicDir    string    `yaml:"public_dir"`
	ThemeDir     string    `yaml:"theme_dir"`
	ManifestPath string    `yaml:"manifest_path"`
	Now          time.Time `yaml:"-"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:         "Dévoreur 2 Code",
			Description:   "Another blog from a developer",
			Author:        "Fabien Schlegel",
			Image:         "/assets/media/D2C-fond-blanc.png",
			Favicon:       "/assets/media/Logo-D2C-fond-blc.png",
			Locales:       []string{"en", "fr"},
			DefaultLocale: "en",
			PostsPerPage:  5,
			HomeLatest:    3,
		},
		Build: BuildConfig{
			PostsDir:     "posts",
			PagesDir:     "pages",
			PublicDir:    "public",
			ManifestPath: ".d2c/manifest.db",
			Now:          time.Now(),
		},
	}
}

// BaseURL is the site URL without a trailing slash, ready for path joins.
func (s SiteConfig) BaseURL() string {
	return strings.TrimRight(strings.TrimSpace(s.SiteURL), "/")
}

// LocalePrefix is the URL prefix for a locale: empty for the default one.
func (s SiteConfig) LocalePrefix(locale string) string {
	if locale == "" || locale == s.DefaultLocale {
		return ""
	}
	return "/" + locale
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}

	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}

	if len(c.Site.Locales) == 0 {
		ve.Add("site.locales", "must not be empty")
	}
	for _, l := range c.Site.Locales {
		if _, err := language.Parse(l); err != nil {
			ve.Add("site.locales", "invalid locale '"+l+"'")
		}
	}
	if !slices.Contains(c.Site.Locales, c.Site.DefaultLocale) {
		ve.Add("site.default_locale", "must be one of site.locales")
	}

	if c.Site.PostsPerPage <= 0 {
		ve.Add("site.posts_per_page", "must be positive")
	}
	if c.Site.HomeLatest < 0 {
		ve.Add("site.home_latest", "must not be negative")
	}

	if strings.TrimSpace(c.Build.PostsDir) == "" {
		ve.Add("build.posts_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.ManifestPath) == "" {
		ve.Add("build.manifest_path", "must not be empty")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Load reads a YAML file over Default. The result is not validated so that
// callers can apply flag and environment overrides first.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// fields present in the file override the defaults, the rest are kept
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	return cfg, nil
}

// LoadOrDefault is Load that treats a missing file as an empty one.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}

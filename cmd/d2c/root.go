package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"d2c/internal/domain/config"
	domainerr "d2c/internal/domain/errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	appConfig config.Config
	logger    zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "d2c",
	Short: "d2c builds a multilingual static blog from markdown posts",
	Long: `d2c reads <slug>.<locale>.md posts, renders every page of the blog
for each configured locale, writes RSS, Atom and JSON feeds, and can serve
a live preview that rebuilds when posts change.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(verbose)
		return initializeConfig(cmd.Flags())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "site.yaml", "site configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	rootCmd.AddCommand(buildCmd, serveCmd, feedCmd)
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"site-url": "site.site_url",
	"posts":    "build.posts_dir",
	"public":   "build.public_dir",
	"theme":    "build.theme_dir",
}

func initializeConfig(flags *pflag.FlagSet) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}

	v := newViper()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	applyOverrides(&cfg, v)

	if err := cfg.Validate(); err != nil {
		var ve domainerr.ValidationError
		if errors.As(err, &ve) {
			for _, it := range ve.Items {
				logger.Error().Str("field", it.Field).Msg(it.Message)
			}
		}
		return fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	appConfig = cfg
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("D2C")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// short aliases for the settings most often changed per environment
	_ = v.BindEnv("site.site_url", "D2C_SITE_URL", "D2C_SITE_SITE_URL")
	_ = v.BindEnv("build.public_dir", "D2C_PUBLIC_DIR", "D2C_BUILD_PUBLIC_DIR")
	return v
}

// applyOverrides copies every key set through a flag or the environment
// over the file configuration.
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	str("site.title", &cfg.Site.Title)
	str("site.description", &cfg.Site.Description)
	str("site.author", &cfg.Site.Author)
	str("site.site_url", &cfg.Site.SiteURL)
	str("site.image", &cfg.Site.Image)
	str("site.favicon", &cfg.Site.Favicon)
	str("site.twitter", &cfg.Site.Twitter)
	str("site.default_locale", &cfg.Site.DefaultLocale)
	if v.IsSet("site.locales") {
		cfg.Site.Locales = splitList(v.GetString("site.locales"))
	}
	num("site.posts_per_page", &cfg.Site.PostsPerPage)
	num("site.home_latest", &cfg.Site.HomeLatest)

	str("build.posts_dir", &cfg.Build.PostsDir)
	str("build.pages_dir", &cfg.Build.PagesDir)
	str("build.public_dir", &cfg.Build.PublicDir)
	str("build.theme_dir", &cfg.Build.ThemeDir)
	str("build.manifest_path", &cfg.Build.ManifestPath)
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}

package main

import (
	"fmt"
	"slices"

	"d2c/internal/feed"
	"d2c/internal/index"
	"d2c/internal/manifest"

	"github.com/spf13/cobra"
)

var (
	feedLocale string
	feedFormat string
	feedWrite  bool
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print a locale's feed, or write every feed into the public directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		repo := index.New(index.Options{PostsDir: cfg.Build.PostsDir, Logger: logger})
		gen := feed.NewGenerator(repo, cfg.Site, cfg.Build.Now)

		if feedWrite {
			st, err := manifest.Open(manifest.OpenOptions{Path: cfg.Build.ManifestPath})
			if err != nil {
				return err
			}
			defer st.Close()
			// not committed: the next build still owns the manifest
			w := st.NewWriter(cfg.Build.PublicDir)
			for _, locale := range cfg.Site.Locales {
				if err := gen.Write(locale, w); err != nil {
					return fmt.Errorf("feed(%s): %w", locale, err)
				}
			}
			logger.Info().Int("written", w.Written).Int("skipped", w.Skipped).Msg("feeds written")
			return nil
		}

		locale := feedLocale
		if locale == "" {
			locale = cfg.Site.DefaultLocale
		}
		if !slices.Contains(cfg.Site.Locales, locale) {
			return fmt.Errorf("unknown locale %q", locale)
		}
		docs, err := gen.Generate(locale)
		if err != nil {
			return err
		}
		var out []byte
		switch feedFormat {
		case "rss":
			out = docs.RSS
		case "atom":
			out = docs.Atom
		case "json":
			out = docs.JSON
		default:
			return fmt.Errorf("unknown feed format %q", feedFormat)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	feedCmd.Flags().StringVar(&feedLocale, "locale", "", "locale to print (default: site.default_locale)")
	feedCmd.Flags().StringVar(&feedFormat, "format", "rss", "rss, atom or json")
	feedCmd.Flags().BoolVar(&feedWrite, "write", false, "write feeds of every locale to the public directory")
	feedCmd.Flags().String("site-url", "", "override site.site_url")
	feedCmd.Flags().String("posts", "", "override build.posts_dir")
}

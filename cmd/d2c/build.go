package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"d2c/internal/build"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render every page and feed into the public directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b := &build.Builder{Cfg: appConfig, Logger: logger}
		res, err := b.Run(ctx)
		if err != nil {
			return err
		}
		for _, p := range res.Pruned {
			logger.Debug().Str("path", p).Msg("pruned")
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().String("site-url", "", "override site.site_url")
	buildCmd.Flags().String("posts", "", "override build.posts_dir")
	buildCmd.Flags().String("public", "", "override build.public_dir")
	buildCmd.Flags().String("theme", "", "override build.theme_dir")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"d2c/internal/serve"

	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build, then serve the site and rebuild it when sources change",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := serve.New(appConfig, logger)
		defer s.Close()
		return s.ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().String("posts", "", "override build.posts_dir")
	serveCmd.Flags().String("public", "", "override build.public_dir")
	serveCmd.Flags().String("theme", "", "override build.theme_dir")
}

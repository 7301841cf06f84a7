// Package cmd provides Cobra CLI commands for artcache.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/artcache/internal/cli"
	"github.com/bnema/artcache/internal/domain/build"
	"github.com/bnema/artcache/internal/infrastructure/config"
)

var (
	app       *cli.App
	buildInfo build.Info
	configDir string
	rootCmd   = &cobra.Command{
		Use:   "artcache",
		Short: "Browse remote artwork through a bounded in-memory cache",
		Long: `Artcache - remote artwork for list views, fetched once and kept in memory.

Images are downloaded in the background, decoded, and kept in a cache bounded
both by entry count and by decoded size. Scrolling rows are recycled: a row
that moves on to another item never shows a late image meant for the old one.

Use 'artcache browse' to scroll through a list of image URLs, or 'artcache
fetch' to load a handful of URLs and print what ended up in the cache.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version", "schema", "path":
				return nil
			}

			opts := []config.ManagerOption{}
			if configDir != "" {
				opts = append(opts, config.WithConfigDir(configDir))
			}
			mgr, err := config.NewManager(opts...)
			if err != nil {
				return fmt.Errorf("initialize config: %w", err)
			}
			if err := mgr.BindFlag("logging.level", cmd.Flags().Lookup("log-level")); err != nil {
				return err
			}

			// Full-screen commands keep stderr clean.
			app, err = cli.NewApp(mgr, cli.AppOptions{LogToStderr: cmd.Name() != "browse"})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.toml (default XDG config dir)")
	rootCmd.PersistentFlags().String("log-level", "", "override logging.level (trace, debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

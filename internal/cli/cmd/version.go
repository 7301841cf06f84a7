package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/artcache/internal/cli/styles"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) error {
	renderer := styles.NewAboutRenderer(styles.NewTheme())
	fmt.Println(renderer.Render(buildInfo))
	return nil
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/atlas/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove emitted atlases and the atlas cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, _ := cmd.Flags().GetBool("cache")
			output, _ := cmd.Flags().GetBool("output")

			// Without flags both are removed.
			return c.app.Clean(cmd.Context(), app.CleanOptions{
				Cache:  cache,
				Output: output,
			})
		},
	}

	cmd.Flags().BoolP("cache", "c", false, "Remove only the atlas cache")
	cmd.Flags().BoolP("output", "o", false, "Remove only the emitted atlas files")

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/atlas/internal/adapters/watcher"
	"go.trai.ch/atlas/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever assets change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := buildOptions(cmd)
			if err != nil {
				return err
			}
			debounce, err := cmd.Flags().GetDuration("debounce")
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				BuildOptions: opts,
				Debounce:     debounce,
			})
		},
	}
	addBuildFlags(cmd)
	cmd.Flags().Duration("debounce", watcher.DefaultDebounceWindow, "Quiet period before a batch of changes triggers a rebuild")
	return cmd
}

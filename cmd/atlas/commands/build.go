package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/atlas/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build every configured atlas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := buildOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Build(cmd.Context(), opts)
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the atlas cache and rebuild every atlas")
	cmd.Flags().IntP("parallel", "p", 0, "Number of atlases processed concurrently (default: number of CPUs)")
}

func buildOptions(cmd *cobra.Command) (app.BuildOptions, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return app.BuildOptions{}, err
	}
	parallel, err := cmd.Flags().GetInt("parallel")
	if err != nil {
		return app.BuildOptions{}, err
	}
	return app.BuildOptions{NoCache: noCache, Parallelism: parallel}, nil
}

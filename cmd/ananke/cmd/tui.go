package cmd

import (
	"github.com/spf13/cobra"

	"github.com/barysiuk/ananke/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func runTUI(cmd *cobra.Command) error {
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), tui.Options{
		Runner:   d.runner,
		Config:   d.config,
		Settings: d.settings,
		Version:  Version,
	})
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

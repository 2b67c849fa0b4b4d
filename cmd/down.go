package cmd

import (
	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop the project's devcontainer",
	Long: `Stop the container (or compose stack) belonging to the project. An
explicit down always stops, regardless of the descriptor's
shutdownAction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newProject()
		if err != nil {
			return err
		}
		if err := p.Load(); err != nil {
			return err
		}
		return p.Down(cmd.Context(), false)
	},
}

func init() {
	rootCmd.AddCommand(downCmd)
}

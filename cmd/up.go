package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/devc/internal/project"
)

var flagNoWait bool

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Bring the project's devcontainer up",
	Long: `Provision the container described by the project descriptor, run its
lifecycle hooks, spawn the configured application and wait until the
application exits, the container stops or an interrupt arrives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newProject()
		if err != nil {
			return err
		}
		if err := p.Load(); err != nil {
			return err
		}
		return p.Up(cmd.Context(), !flagNoWait)
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
	upCmd.Flags().BoolVarP(&flagNoWait, "no-wait", "d", false, "return once containers are up instead of waiting")
}

func newProject() (*project.Project, error) {
	return project.New(project.Opts{
		Path:         flagPath,
		Filename:     flagFilename,
		DockerHost:   flagDockerHost,
		SkipSettings: flagSkipSettings,
	})
}

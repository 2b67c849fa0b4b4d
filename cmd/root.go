// Package cmd wires the devc command tree.
package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagDockerHost   string
	flagPath         string
	flagFilename     string
	flagSkipSettings bool
	flagDebug        bool
)

var rootCmd = &cobra.Command{
	Use:   "devc",
	Short: "Local devcontainer launcher",
	Long: `devc reads a .devcontainer/devcontainer.json descriptor and brings the
project's development container (or compose stack) up, runs its lifecycle
hooks and optionally supervises a companion application.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagDebug {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute runs the command tree. Build metadata is injected by the linker
// through main.
func Execute(build, commit, date string) {
	setVersionInfo(build, commit, date)
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDockerHost, "host", "a", "", "Docker daemon socket to connect to")
	rootCmd.PersistentFlags().StringVarP(&flagPath, "path", "c", "", "project path (default is the working directory)")
	rootCmd.PersistentFlags().StringVarP(&flagFilename, "filename", "f", "", "descriptor filename inside .devcontainer (default devcontainer.json)")
	rootCmd.PersistentFlags().BoolVar(&flagSkipSettings, "skip-settings", false, "ignore the user settings file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

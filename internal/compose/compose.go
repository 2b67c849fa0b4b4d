// Package compose drives the docker-compose CLI and generates the override
// file that injects user settings into a compose stack.
package compose

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

// Command is the compose CLI binary. Kept as a variable so tests can swap
// it for a stub.
var Command = "docker-compose"

// BuildArgs assembles a compose invocation: project name, the descriptor's
// compose files in order, the generated override (when present), then any
// trailing action args (up/stop/...).
func BuildArgs(projectName string, files []string, overridePath string, action ...string) []string {
	args := []string{Command, "-p", projectName}

	for _, file := range files {
		args = append(args, "-f", file)
	}

	if overridePath != "" {
		args = append(args, "-f", overridePath)
	}

	return append(args, action...)
}

// Run executes a compose invocation in dir, inheriting stdout/stderr. A
// non-zero exit is returned as an error carrying the exit status.
func Run(ctx context.Context, dir string, args []string) error {
	log.Info("Running docker-compose", "args", args[1:], "dir", dir)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker-compose failed: %w", err)
	}

	return nil
}

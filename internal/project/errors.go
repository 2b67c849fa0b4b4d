package project

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDevContainer is returned when up/down runs before a descriptor
	// has been loaded.
	ErrNoDevContainer = errors.New("no devcontainer project loaded")

	// ErrNoFreePort is returned when the OS cannot hand out an ephemeral
	// port for the application.
	ErrNoFreePort = errors.New("could not select an available port for the application")

	// ErrApplicationSpawn marks failures of the companion application,
	// both at spawn time and on a failed wait.
	ErrApplicationSpawn = errors.New("failed to spawn application")

	// ErrContainerCreate marks a container that should exist but does not,
	// e.g. after a seemingly successful compose up.
	ErrContainerCreate = errors.New("failed to create container")

	// ErrCompose marks a docker-compose invocation that failed to run or
	// exited non-zero.
	ErrCompose = errors.New("compose command failed")
)

// ExecError is a lifecycle hook command that exited non-zero inside the
// container.
type ExecError struct {
	ExitCode int
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("failed to execute command: exit code %d", e.ExitCode)
}

package docker

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

// Exec runs a command inside a running container, streams its output to the
// debug log until the command finishes, and returns the exit code. The
// returned error covers transport failures only; a non-zero exit code is
// not an error at this layer.
func (c *Client) Exec(ctx context.Context, containerID string, cmd []string) (int, error) {
	log.Info("Executing command in container", "id", shortID(containerID), "cmd", cmd)

	exec, err := c.cli.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create exec: %w", err)
	}

	attach, err := c.cli.ContainerExecAttach(ctx, exec.ID, container.ExecAttachOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to attach exec: %w", err)
	}
	defer attach.Close()

	// Drain the whole stream before inspecting; the exit code is not final
	// until the command's output is consumed.
	if err := drainExecOutput(attach.Reader); err != nil {
		return 0, fmt.Errorf("failed to read exec output: %w", err)
	}

	inspect, err := c.cli.ContainerExecInspect(ctx, exec.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect exec: %w", err)
	}

	return inspect.ExitCode, nil
}

// drainExecOutput demultiplexes the attached exec stream and forwards both
// halves to the debug log line by line.
func drainExecOutput(r io.Reader) error {
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()

	go logLines(outR, "STDOUT")
	go logLines(errR, "STDERR")

	_, err := stdcopy.StdCopy(outW, errW, r)
	outW.CloseWithError(err)
	errW.CloseWithError(err)

	return err
}

func logLines(r io.Reader, stream string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Debug(stream, "line", scanner.Text())
	}
}

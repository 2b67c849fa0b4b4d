package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
)

// FindContainerByLabels returns the first container (running or not)
// matching every given "key=value" label, or nil when none matches.
//
// When more than one container matches, the first entry in daemon order is
// used. Which one that is for equal matches is daemon-defined; callers
// treat it as "the" managed container and live with the ambiguity.
func (c *Client) FindContainerByLabels(ctx context.Context, labels []string) (*container.Summary, error) {
	args := filters.NewArgs()
	for _, label := range labels {
		args.Add("label", label)
	}

	containers, err := c.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: args,
	})
	if err != nil {
		return nil, fmt.Errorf("error trying to communicate with docker: %w", err)
	}

	if len(containers) == 0 {
		return nil, nil
	}

	return &containers[0], nil
}

// ContainerNameExists reports whether any container matches the name
// filter. The daemon matches names as substrings, which is good enough for
// the collision probe this backs.
func (c *Client) ContainerNameExists(ctx context.Context, name string) (bool, error) {
	args := filters.NewArgs(filters.Arg("name", name))

	containers, err := c.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: args,
	})
	if err != nil {
		return false, fmt.Errorf("error trying to communicate with docker: %w", err)
	}

	return len(containers) > 0, nil
}

// CreateContainer creates a container and returns its id. An empty name
// lets the daemon assign one.
func (c *Client) CreateContainer(ctx context.Context, cfg *container.Config, hostCfg *container.HostConfig, name string) (string, error) {
	resp, err := c.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	for _, warning := range resp.Warnings {
		log.Warn("Container create warning", "warning", warning)
	}

	log.Info("Container created", "id", shortID(resp.ID), "name", name, "image", cfg.Image)

	return resp.ID, nil
}

// StartContainer starts a container by id.
func (c *Client) StartContainer(ctx context.Context, containerID string) error {
	if err := c.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container %s: %w", containerID, err)
	}

	log.Info("Container started", "id", shortID(containerID))
	return nil
}

// StopContainer stops a container by id with the daemon's default timeout.
func (c *Client) StopContainer(ctx context.Context, containerID string) error {
	if err := c.cli.ContainerStop(ctx, containerID, container.StopOptions{}); err != nil {
		return fmt.Errorf("failed to stop container %s: %w", containerID, err)
	}

	log.Info("Container stopped", "id", shortID(containerID))
	return nil
}

// WaitContainer returns channels resolving when the container stops
// running. Exactly one of the two channels receives a value.
func (c *Client) WaitContainer(ctx context.Context, containerID string) (<-chan container.WaitResponse, <-chan error) {
	return c.cli.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
}

// ContainerName extracts the primary name of a listed container.
func ContainerName(summary *container.Summary) string {
	if len(summary.Names) == 0 {
		return ""
	}
	return strings.TrimPrefix(summary.Names[0], "/")
}

// IsRunning reports whether a listed container is in the running state.
func IsRunning(summary *container.Summary) bool {
	return summary.State == "running"
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

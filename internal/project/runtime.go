package project

import (
	"context"
	"io"

	"github.com/docker/docker/api/types/container"

	"github.com/bnema/devc/pkg/docker"
)

// Runtime is the container runtime surface the orchestration needs. It is
// implemented by pkg/docker and mocked in tests.
type Runtime interface {
	FindContainerByLabels(ctx context.Context, labels []string) (*container.Summary, error)
	ContainerNameExists(ctx context.Context, name string) (bool, error)
	CreateContainer(ctx context.Context, cfg *container.Config, hostCfg *container.HostConfig, name string) (string, error)
	StartContainer(ctx context.Context, containerID string) error
	StopContainer(ctx context.Context, containerID string) error
	Exec(ctx context.Context, containerID string, cmd []string) (int, error)
	PullImage(ctx context.Context, imageRef string) error
	BuildImage(ctx context.Context, buildContext io.Reader, dockerfile, tag string) error
	WaitContainer(ctx context.Context, containerID string) (<-chan container.WaitResponse, <-chan error)
}

var _ Runtime = (*docker.Client)(nil)

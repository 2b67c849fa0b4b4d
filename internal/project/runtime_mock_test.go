package project

import (
	"context"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/mock"
)

type mockRuntime struct {
	mock.Mock
}

func (m *mockRuntime) FindContainerByLabels(ctx context.Context, labels []string) (*container.Summary, error) {
	args := m.Called(ctx, labels)
	var summary *container.Summary
	if v := args.Get(0); v != nil {
		summary = v.(*container.Summary)
	}
	return summary, args.Error(1)
}

func (m *mockRuntime) ContainerNameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockRuntime) CreateContainer(ctx context.Context, cfg *container.Config, hostCfg *container.HostConfig, name string) (string, error) {
	args := m.Called(ctx, cfg, hostCfg, name)
	return args.String(0), args.Error(1)
}

func (m *mockRuntime) StartContainer(ctx context.Context, containerID string) error {
	return m.Called(ctx, containerID).Error(0)
}

func (m *mockRuntime) StopContainer(ctx context.Context, containerID string) error {
	return m.Called(ctx, containerID).Error(0)
}

func (m *mockRuntime) Exec(ctx context.Context, containerID string, cmd []string) (int, error) {
	args := m.Called(ctx, containerID, cmd)
	return args.Int(0), args.Error(1)
}

func (m *mockRuntime) PullImage(ctx context.Context, imageRef string) error {
	return m.Called(ctx, imageRef).Error(0)
}

func (m *mockRuntime) BuildImage(ctx context.Context, buildContext io.Reader, dockerfile, tag string) error {
	return m.Called(ctx, buildContext, dockerfile, tag).Error(0)
}

func (m *mockRuntime) WaitContainer(ctx context.Context, containerID string) (<-chan container.WaitResponse, <-chan error) {
	args := m.Called(ctx, containerID)
	return args.Get(0).(<-chan container.WaitResponse), args.Get(1).(<-chan error)
}

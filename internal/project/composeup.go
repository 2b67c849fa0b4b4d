package project

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bnema/devc/internal/compose"
	"github.com/bnema/devc/internal/config"
	"github.com/bnema/devc/pkg/docker"
)

// composeLabels are the runtime's native compose labels, used as the
// container identity in compose mode.
func composeLabels(d *config.DevContainer, rctx *runContext) []string {
	return []string{
		composeProjectPrefix + rctx.projectName,
		composeServicePrefix + d.Service,
	}
}

// upFromCompose brings the compose stack up and locates the descriptor's
// service container. Hook idempotency keys off the container state
// captured before the compose run: create only when it did not exist,
// start only when it was not running, attach always.
func (p *Project) upFromCompose(ctx context.Context, rt Runtime, d *config.DevContainer, rctx *runContext) (string, error) {
	labels := composeLabels(d, rctx)

	existing, err := rt.FindContainerByLabels(ctx, labels)
	if err != nil {
		return "", err
	}
	existedBefore := existing != nil
	wasRunningBefore := existing != nil && docker.IsRunning(existing)
	if existing != nil {
		log.Debug("Service container state before compose up", "state", existing.State)
	}

	args, err := p.composeArgs(d, rctx, upAction(d)...)
	if err != nil {
		return "", err
	}

	if err := compose.Run(ctx, p.devcontainerDir(), args); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompose, err)
	}

	located, err := rt.FindContainerByLabels(ctx, labels)
	if err != nil {
		return "", err
	}
	if located == nil {
		return "", fmt.Errorf("%w: could not locate container after compose up", ErrContainerCreate)
	}

	containerID := located.ID

	if !existedBefore {
		if err := p.runHook(ctx, rt, containerID, hookPostCreate); err != nil {
			return "", err
		}
	}
	if !wasRunningBefore {
		if err := p.runHook(ctx, rt, containerID, hookPostStart); err != nil {
			return "", err
		}
	}
	if err := p.runHook(ctx, rt, containerID, hookPostAttach); err != nil {
		return "", err
	}

	return containerID, nil
}

func upAction(d *config.DevContainer) []string {
	action := []string{"up", "-d", d.Service}
	return append(action, d.RunServices...)
}

// composeArgs resolves the descriptor's compose files, regenerates the
// settings override and assembles the full CLI argument list.
func (p *Project) composeArgs(d *config.DevContainer, rctx *runContext, action ...string) ([]string, error) {
	files := d.ComposeFiles()

	overridePath, err := p.writeSettingsOverride(d, rctx, files[0])
	if err != nil {
		return nil, err
	}

	return compose.BuildArgs(rctx.projectName, files, overridePath, action...), nil
}

// writeSettingsOverride generates the override fragment injecting the user
// settings into the stack, matching the schema version of the first
// compose file.
func (p *Project) writeSettingsOverride(d *config.DevContainer, rctx *runContext, firstFile string) (string, error) {
	if !filepath.IsAbs(firstFile) {
		firstFile = filepath.Join(p.devcontainerDir(), firstFile)
	}

	version, err := compose.ReadVersion(firstFile)
	if err != nil {
		return "", err
	}

	serviceName := d.Service
	if serviceName == "" {
		serviceName = rctx.projectName
	}

	var extraPorts []int
	if rctx.applicationPort != 0 {
		extraPorts = []int{rctx.applicationPort}
	}

	return compose.WriteOverride(p.Settings, serviceName, version, p.devcontainerEnvs(rctx), extraPorts)
}

// downFromCompose stops the stack's containers without removing them,
// using the same file resolution as up.
func (p *Project) downFromCompose(ctx context.Context, d *config.DevContainer, rctx *runContext) error {
	args, err := p.composeArgs(d, rctx, "stop")
	if err != nil {
		return err
	}

	if err := compose.Run(ctx, p.devcontainerDir(), args); err != nil {
		return fmt.Errorf("%w: %v", ErrCompose, err)
	}

	return nil
}

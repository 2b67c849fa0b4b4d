package project

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bnema/devc/internal/config"
)

// hookKind is a lifecycle point at which commands run inside the
// container.
type hookKind int

const (
	hookPostCreate hookKind = iota
	hookPostStart
	hookPostAttach
)

func (h hookKind) String() string {
	switch h {
	case hookPostCreate:
		return "postCreate"
	case hookPostStart:
		return "postStart"
	case hookPostAttach:
		return "postAttach"
	}
	return "unknown"
}

// runHook executes the descriptor-level command for the hook, then the
// user settings command for the same hook. Order matters: user hooks may
// depend on side effects of the project hook. A non-zero exit from either
// aborts.
func (p *Project) runHook(ctx context.Context, rt Runtime, containerID string, hook hookKind) error {
	if cmd := p.descriptorHook(hook); cmd != nil {
		log.Info("Executing hook", "hook", hook.String())
		if err := p.execCommand(ctx, rt, containerID, cmd); err != nil {
			return err
		}
	}

	if cmd := p.settingsHook(hook); cmd != nil {
		log.Info("Executing user hook", "hook", hook.String())
		return p.execCommand(ctx, rt, containerID, cmd)
	}

	return nil
}

func (p *Project) descriptorHook(hook hookKind) *config.CommandLine {
	switch hook {
	case hookPostCreate:
		return p.DevContainer.PostCreateCommand
	case hookPostStart:
		return p.DevContainer.PostStartCommand
	case hookPostAttach:
		return p.DevContainer.PostAttachCommand
	}
	return nil
}

func (p *Project) settingsHook(hook hookKind) *config.CommandLine {
	switch hook {
	case hookPostCreate:
		return p.Settings.PostCreateCommand
	case hookPostStart:
		return p.Settings.PostStartCommand
	case hookPostAttach:
		return p.Settings.PostAttachCommand
	}
	return nil
}

func (p *Project) execCommand(ctx context.Context, rt Runtime, containerID string, cmd *config.CommandLine) error {
	exitCode, err := rt.Exec(ctx, containerID, cmd.ToArgs())
	if err != nil {
		return fmt.Errorf("failed to execute command: %w", err)
	}
	if exitCode != 0 {
		return &ExecError{ExitCode: exitCode}
	}
	return nil
}

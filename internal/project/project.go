// Package project implements the devcontainer lifecycle: loading the
// descriptor and user settings, provisioning a container (or compose
// stack), running lifecycle hooks, supervising the companion application
// and tearing everything down.
package project

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/bnema/devc/internal/config"
	"github.com/bnema/devc/pkg/docker"
)

const (
	labelManaged         = "devcontainer=true"
	labelNameKey         = "devcontainer_name"
	labelAppPortKey      = "devcontainer_application_port"
	envFileName          = "devcontainer.env"
	defaultDescriptor    = "devcontainer.json"
	composeProjectPrefix = "com.docker.compose.project="
	composeServicePrefix = "com.docker.compose.service="
)

// Project is one devcontainer project rooted at Path. Load populates the
// descriptor and settings; Up and Down drive the lifecycle.
type Project struct {
	Path     string
	Filename string

	DockerHost string

	DevContainer *config.DevContainer
	Settings     *config.Settings

	// envFile holds .devcontainer/devcontainer.env entries, merged into
	// the container environment below the descriptor's containerEnv.
	envFile map[string]string

	skipSettings bool
	runtime      Runtime
}

// Opts configures project construction.
type Opts struct {
	Path         string
	Filename     string
	DockerHost   string
	SkipSettings bool

	// Runtime overrides the Docker client. Used by tests.
	Runtime Runtime
}

// New resolves the project directory. Starting from opts.Path (default:
// the working directory) it walks up the ancestor chain and settles on the
// nearest directory containing .devcontainer/.
func New(opts Opts) (*Project, error) {
	path := opts.Path
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not determine working directory: %w", err)
		}
		path = wd
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid project path %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("invalid project path %s: %w", path, err)
	}

	for dir := abs; ; dir = filepath.Dir(dir) {
		if info, err := os.Stat(filepath.Join(dir, ".devcontainer")); err == nil && info.IsDir() {
			abs = dir
			break
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}

	filename := opts.Filename
	if filename == "" {
		filename = defaultDescriptor
	}

	return &Project{
		Path:         abs,
		Filename:     filename,
		DockerHost:   opts.DockerHost,
		skipSettings: opts.SkipSettings,
		runtime:      opts.Runtime,
	}, nil
}

func (p *Project) devcontainerDir() string {
	return filepath.Join(p.Path, ".devcontainer")
}

// Load reads the user settings, the descriptor and the optional env file.
func (p *Project) Load() error {
	if p.skipSettings {
		log.Warn("Ignoring user settings")
		p.Settings = &config.Settings{}
	} else {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		p.Settings = settings
	}

	descriptorPath := filepath.Join(p.devcontainerDir(), p.Filename)
	log.Info("Loading project", "path", p.Path)
	log.Info("Descriptor", "file", descriptorPath)

	devcontainer, err := config.LoadDescriptor(descriptorPath)
	if err != nil {
		return err
	}
	p.DevContainer = devcontainer

	envFilePath := filepath.Join(p.devcontainerDir(), envFileName)
	if _, err := os.Stat(envFilePath); err == nil {
		envs, err := godotenv.Read(envFilePath)
		if err != nil {
			return fmt.Errorf("invalid env file %s: %w", envFilePath, err)
		}
		log.Debug("Loaded env file", "path", envFilePath, "entries", len(envs))
		p.envFile = envs
	}

	return nil
}

// Runtime returns the container runtime client, creating the Docker client
// on first use.
func (p *Project) Runtime() (Runtime, error) {
	if p.runtime == nil {
		cli, err := docker.New(p.DockerHost)
		if err != nil {
			return nil, err
		}
		p.runtime = cli
	}
	return p.runtime, nil
}

// runContext is the per-invocation state: the project name and the lazily
// allocated application port. Never persisted.
type runContext struct {
	projectName     string
	applicationPort int
}

func (p *Project) newRunContext(d *config.DevContainer) *runContext {
	return &runContext{projectName: d.ProjectName(p.Path)}
}

// devcontainerEnvs are the synthetic variables exposed both to the
// container and to the spawned application.
func (p *Project) devcontainerEnvs(rctx *runContext) map[string]string {
	envs := map[string]string{
		"DEVCONTAINER_PROJECT": rctx.projectName,
	}
	if rctx.applicationPort != 0 {
		envs["DEVCONTAINER_APPLICATION_PORT"] = fmt.Sprintf("%d", rctx.applicationPort)
	}
	return envs
}

// Up provisions the project and, when shouldWait is set, supervises it
// until the application exits, the container stops or an interrupt
// arrives.
func (p *Project) Up(ctx context.Context, shouldWait bool) error {
	d := p.DevContainer
	if d == nil {
		return ErrNoDevContainer
	}

	rt, err := p.Runtime()
	if err != nil {
		return err
	}

	rctx := p.newRunContext(d)

	if err := p.runInitializeCommand(ctx, d); err != nil {
		return err
	}

	log.Info("Starting containers", "mode", d.Mode())

	var containerID string
	switch d.Mode() {
	case config.ModeImage:
		containerID, err = p.upFromImage(ctx, rt, d, rctx)
	case config.ModeBuild:
		containerID, err = p.upFromBuild(ctx, rt, d, rctx)
	case config.ModeCompose:
		containerID, err = p.upFromCompose(ctx, rt, d, rctx)
	}
	if err != nil {
		return err
	}

	log.Info("Containers are ready", "id", containerID)

	var appExit <-chan error
	if p.Settings.Application != nil {
		appExit, err = p.spawnApplication(d, rctx)
		if err != nil {
			return err
		}
	}

	if !shouldWait {
		return nil
	}

	// The race: application exit, container exit and interrupt compete;
	// first one to resolve decides the transition. Losing sources are
	// abandoned, not cancelled.
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigC)

	waitC, waitErrC := rt.WaitContainer(ctx, containerID)

	if appExit != nil {
		log.Info("Waiting for application")
		select {
		case err := <-appExit:
			if err != nil {
				return fmt.Errorf("%w: %v", ErrApplicationSpawn, err)
			}
			log.Info("Application has finished, closing down")
		case <-waitC:
			log.Warn("Container has finished, restart required")
			return nil
		case err := <-waitErrC:
			return fmt.Errorf("error waiting on container: %w", err)
		case <-sigC:
			log.Info("Interrupt received, finishing now")
		}
		return p.down(ctx, rt, rctx, true)
	}

	select {
	case <-waitC:
		log.Warn("Container has finished, nothing to do, closing down")
		return nil
	case err := <-waitErrC:
		return fmt.Errorf("error waiting on container: %w", err)
	case <-sigC:
		log.Info("Interrupt received, finishing now")
	}

	return p.down(ctx, rt, rctx, true)
}

// Down tears the project down. fromUp marks teardowns that follow an up
// run; those honor the descriptor's shutdown policy, while an explicit
// user-invoked down always stops.
func (p *Project) Down(ctx context.Context, fromUp bool) error {
	d := p.DevContainer
	if d == nil {
		return ErrNoDevContainer
	}

	rt, err := p.Runtime()
	if err != nil {
		return err
	}

	return p.down(ctx, rt, p.newRunContext(d), fromUp)
}

func (p *Project) down(ctx context.Context, rt Runtime, rctx *runContext, fromUp bool) error {
	log.Info("Shutting down containers")

	d := p.DevContainer
	action := d.ShutdownAction

	switch d.Mode() {
	case config.ModeCompose:
		if fromUp && action != config.ActionStopCompose {
			log.Info("Not shutting down compose stack", "shutdownAction", action)
			return nil
		}
		return p.downFromCompose(ctx, d, rctx)
	default:
		if fromUp && action != config.ActionStopContainer {
			log.Info("Not shutting down container", "shutdownAction", action)
			return nil
		}
		return p.downFromImage(ctx, rt, rctx)
	}
}

// downFromImage stops the labeled container if one exists. Absence is not
// an error.
func (p *Project) downFromImage(ctx context.Context, rt Runtime, rctx *runContext) error {
	existing, err := p.findProjectContainer(ctx, rt, rctx.projectName)
	if err != nil {
		return err
	}
	if existing == nil {
		log.Debug("No container to stop", "project", rctx.projectName)
		return nil
	}

	return rt.StopContainer(ctx, existing.ID)
}

// runInitializeCommand executes the descriptor's initializeCommand on the
// host in the project directory, before any provisioning happens.
func (p *Project) runInitializeCommand(ctx context.Context, d *config.DevContainer) error {
	if d.InitializeCommand == nil {
		return nil
	}

	args := d.InitializeCommand.ToArgs()
	log.Info("Running initialize command", "cmd", args)

	cmd := hostCommand(ctx, args)
	cmd.Dir = p.Path
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("initialize command failed: %w", err)
	}

	return nil
}

// hostCommand builds a host-side exec.Cmd from a normalized command
// vector. The single-line variant runs through a shell.
func hostCommand(ctx context.Context, args []string) *exec.Cmd {
	if len(args) == 1 {
		return exec.CommandContext(ctx, "/bin/sh", "-c", args[0])
	}
	return exec.CommandContext(ctx, args[0], args[1:]...)
}

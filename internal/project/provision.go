package project

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"
	dockermount "github.com/docker/docker/api/types/mount"
	"github.com/docker/go-connections/nat"

	"github.com/bnema/devc/internal/config"
	"github.com/bnema/devc/internal/mount"
	"github.com/bnema/devc/pkg/docker"
)

// upFromImage provisions from a pre-built image: pull, then materialize.
func (p *Project) upFromImage(ctx context.Context, rt Runtime, d *config.DevContainer, rctx *runContext) (string, error) {
	imageRef := docker.FormatImageRef(d.Image)

	if err := rt.PullImage(ctx, imageRef); err != nil {
		return "", err
	}

	log.Info("Creating container", "image", imageRef)
	return p.upContainer(ctx, rt, d, rctx, imageRef)
}

// upFromBuild provisions from a Dockerfile: build a content-addressed
// image, then materialize.
func (p *Project) upFromBuild(ctx context.Context, rt Runtime, d *config.DevContainer, rctx *runContext) (string, error) {
	imageRef, err := p.buildImage(ctx, rt, d)
	if err != nil {
		return "", err
	}

	log.Info("Creating container", "image", imageRef)
	return p.upContainer(ctx, rt, d, rctx, imageRef)
}

// findProjectContainer looks up the managed container by its identity
// labels. Returns nil when no container carries them.
func (p *Project) findProjectContainer(ctx context.Context, rt Runtime, projectName string) (*container.Summary, error) {
	return rt.FindContainerByLabels(ctx, []string{
		labelManaged,
		labelNameKey + "=" + projectName,
	})
}

// upContainer is the shared materialization routine for the image and
// build modes. An existing running container is reused as-is (attach hook
// only); a stopped one is started (start + attach hooks); otherwise a new
// container is created and all three hooks run.
func (p *Project) upContainer(ctx context.Context, rt Runtime, d *config.DevContainer, rctx *runContext, imageRef string) (string, error) {
	existing, err := p.findProjectContainer(ctx, rt, rctx.projectName)
	if err != nil {
		return "", err
	}

	if existing != nil {
		id := existing.ID
		log.Info("Found existing container", "id", id, "name", docker.ContainerName(existing))

		rctx.applicationPort, err = p.resolveApplicationPort(existing)
		if err != nil {
			return "", err
		}
		log.Info("Application port", "port", rctx.applicationPort)

		if !docker.IsRunning(existing) {
			if err := rt.StartContainer(ctx, id); err != nil {
				return "", err
			}
			if err := p.runHook(ctx, rt, id, hookPostStart); err != nil {
				return "", err
			}
		}

		if err := p.runHook(ctx, rt, id, hookPostAttach); err != nil {
			return "", err
		}

		return id, nil
	}

	rctx.applicationPort, err = p.resolveApplicationPort(nil)
	if err != nil {
		return "", err
	}
	log.Info("Application port", "port", rctx.applicationPort)

	cfg, hostCfg, err := p.buildCreateConfig(d, rctx, imageRef)
	if err != nil {
		return "", err
	}

	name := p.pickContainerName(ctx, rt, imageRef)

	id, err := rt.CreateContainer(ctx, cfg, hostCfg, name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrContainerCreate, err)
	}

	if err := rt.StartContainer(ctx, id); err != nil {
		return "", err
	}

	for _, hook := range []hookKind{hookPostCreate, hookPostStart, hookPostAttach} {
		if err := p.runHook(ctx, rt, id, hook); err != nil {
			return "", err
		}
	}

	return id, nil
}

// buildCreateConfig merges descriptor, settings and run context into the
// container creation config.
func (p *Project) buildCreateConfig(d *config.DevContainer, rctx *runContext, imageRef string) (*container.Config, *container.HostConfig, error) {
	labels := map[string]string{
		"devcontainer": "true",
		labelNameKey:   rctx.projectName,
	}
	if rctx.applicationPort != 0 {
		labels[labelAppPortKey] = strconv.Itoa(rctx.applicationPort)
	}

	cfg := &container.Config{
		Image:  imageRef,
		Labels: labels,
		Env:    p.buildEnvs(d, rctx),
		User:   d.ContainerUser,
	}

	// Keep the container alive for exec-based hooks.
	if d.OverrideCommandEnabled() {
		cfg.Cmd = []string{"/bin/sh", "-c", "while sleep 1000; do :; done"}
	}

	mounts, err := p.buildMounts(d)
	if err != nil {
		return nil, nil, err
	}

	exposed, bindings := p.buildPorts(d, rctx)
	cfg.ExposedPorts = exposed

	hostCfg := &container.HostConfig{
		PortBindings: bindings,
		Mounts:       mounts,
	}

	return cfg, hostCfg, nil
}

// buildEnvs assembles the container environment: synthetic vars first,
// then the project env file, the descriptor's containerEnv and the user
// settings envs. Duplicate keys are not removed; the runtime applies them
// last-wins.
func (p *Project) buildEnvs(d *config.DevContainer, rctx *runContext) []string {
	var envs []string

	appendSorted := func(m map[string]string) {
		for _, key := range slices.Sorted(maps.Keys(m)) {
			envs = append(envs, key+"="+m[key])
		}
	}

	appendSorted(p.devcontainerEnvs(rctx))
	appendSorted(p.envFile)
	appendSorted(d.ContainerEnv)
	appendSorted(p.Settings.Envs)

	return envs
}

// buildMounts assembles the mount list: workspace mount first (defaulting
// to binding the project dir to /workspace), then descriptor mounts, then
// user settings mounts.
func (p *Project) buildMounts(d *config.DevContainer) ([]dockermount.Mount, error) {
	workspace := d.WorkspaceMount
	if workspace == "" {
		workspace = fmt.Sprintf("source=%s,target=/workspace,type=bind,consistency=cached", p.Path)
		log.Debug("Mounting default workspace folder", "source", p.Path, "target", "/workspace")
	}

	specs := append([]string{workspace}, d.Mounts...)
	specs = append(specs, p.Settings.Mounts...)

	mounts := make([]dockermount.Mount, 0, len(specs))
	for _, spec := range specs {
		m, err := mount.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid descriptor: %w", err)
		}
		mounts = append(mounts, m)
	}

	return mounts, nil
}

// buildPorts merges appPort, descriptor and settings forward ports and the
// allocated application port. Every port is exposed as <port>/tcp bound to
// 0.0.0.0:<port>; the map keying deduplicates repeats.
func (p *Project) buildPorts(d *config.DevContainer, rctx *runContext) (nat.PortSet, nat.PortMap) {
	exposed := nat.PortSet{}
	bindings := nat.PortMap{}

	add := func(port string) {
		key := nat.Port(port + "/tcp")
		exposed[key] = struct{}{}
		bindings[key] = []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: port}}
	}

	if d.AppPort != nil {
		for _, port := range d.AppPort.Ports() {
			add(port)
		}
	}
	for _, port := range d.ForwardPorts {
		add(strconv.Itoa(port))
	}
	for _, port := range p.Settings.ForwardPorts {
		add(strconv.Itoa(port))
	}
	if rctx.applicationPort != 0 {
		add(strconv.Itoa(rctx.applicationPort))
	}

	return exposed, bindings
}

// pickContainerName probes <dirname>_devcontainer_<imageBase>_<n> for the
// first free n in 1..19. When every candidate is taken the container is
// created unnamed and the daemon assigns one.
func (p *Project) pickContainerName(ctx context.Context, rt Runtime, imageRef string) string {
	dirname := filepath.Base(p.Path)
	base := docker.ImageBaseName(imageRef)

	for n := 1; n < 20; n++ {
		name := fmt.Sprintf("%s_devcontainer_%s_%d", dirname, base, n)

		exists, err := rt.ContainerNameExists(ctx, name)
		if err != nil {
			log.Warn("Name probe failed, using candidate anyway", "name", name, "error", err)
			return name
		}
		if !exists {
			return name
		}
	}

	log.Warn("All candidate container names taken, creating unnamed container")
	return ""
}

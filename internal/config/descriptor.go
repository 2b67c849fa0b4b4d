// Package config holds the devcontainer descriptor and user settings models.
// Both files are JSON-with-comments documents; they are parsed once at
// process start and are immutable afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Mode selects the provisioning strategy for a project. Exactly one mode is
// valid per descriptor, enforced by Validate.
type Mode int

const (
	ModeImage Mode = iota
	ModeBuild
	ModeCompose
)

func (m Mode) String() string {
	switch m {
	case ModeImage:
		return "image"
	case ModeBuild:
		return "build"
	case ModeCompose:
		return "compose"
	}
	return "unknown"
}

// DevContainer is the project-level descriptor loaded from
// <project>/.devcontainer/devcontainer.json.
type DevContainer struct {
	Name string `json:"name"`

	Image string     `json:"image"`
	Build *BuildOpts `json:"build"`

	AppPort      *AppPort          `json:"appPort"`
	ContainerEnv map[string]string `json:"containerEnv"`
	RemoteEnv    map[string]string `json:"remoteEnv"`

	ContainerUser string `json:"containerUser"`
	RemoteUser    string `json:"remoteUser"`

	Mounts         []string `json:"mounts"`
	WorkspaceMount string   `json:"workspaceMount"`

	RunArgs []string `json:"runArgs"`

	// nil means unset, which defaults to true.
	OverrideCommand *bool `json:"overrideCommand"`

	ShutdownAction ShutdownAction `json:"shutdownAction"`

	DockerComposeFile *StringList `json:"dockerComposeFile"`
	Service           string      `json:"service"`
	RunServices       []string    `json:"runServices"`

	ForwardPorts []int `json:"forwardPorts"`

	PostCreateCommand *CommandLine `json:"postCreateCommand"`
	PostStartCommand  *CommandLine `json:"postStartCommand"`
	PostAttachCommand *CommandLine `json:"postAttachCommand"`
	InitializeCommand *CommandLine `json:"initializeCommand"`
}

// BuildOpts configures the build provisioning mode.
type BuildOpts struct {
	Dockerfile string            `json:"dockerfile"`
	Context    string            `json:"context"`
	Args       map[string]string `json:"args"`
	Target     string            `json:"target"`
}

// LoadDescriptor reads and validates a devcontainer descriptor.
func LoadDescriptor(path string) (*DevContainer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read descriptor %s: %w", path, err)
	}

	var d DevContainer
	if err := decodeJSONC(data, &d); err != nil {
		return nil, fmt.Errorf("invalid descriptor %s: %w", path, err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}

// Mode returns the provisioning mode implied by which source field is set.
// Only meaningful after Validate has passed.
func (d *DevContainer) Mode() Mode {
	switch {
	case d.Image != "":
		return ModeImage
	case d.Build != nil:
		return ModeBuild
	default:
		return ModeCompose
	}
}

// Validate enforces the exactly-one-source rule and the per-mode field
// requirements.
func (d *DevContainer) Validate() error {
	sources := 0
	if d.Image != "" {
		sources++
	}
	if d.Build != nil {
		sources++
	}
	if d.DockerComposeFile != nil {
		sources++
	}
	if sources > 1 {
		return fmt.Errorf("invalid descriptor: specify only one of image, dockerComposeFile or build")
	}
	if sources == 0 {
		return fmt.Errorf("invalid descriptor: specify at least one of image, dockerComposeFile or build")
	}

	if d.Image != "" && strings.TrimSpace(d.Image) == "" {
		return fmt.Errorf("invalid descriptor: invalid image %q", d.Image)
	}

	if d.Build != nil && strings.TrimSpace(d.Build.Dockerfile) == "" {
		return fmt.Errorf("invalid descriptor: invalid dockerfile %q", d.Build.Dockerfile)
	}

	if d.DockerComposeFile != nil {
		if len(d.DockerComposeFile.Values()) == 0 {
			return fmt.Errorf("invalid descriptor: empty dockerComposeFile")
		}
		if strings.TrimSpace(d.Service) == "" {
			return fmt.Errorf("invalid descriptor: compose mode requires a service")
		}
	}

	return nil
}

// ProjectName returns the descriptor name, falling back to the project
// directory name.
func (d *DevContainer) ProjectName(path string) string {
	if d.Name != "" {
		return d.Name
	}
	return filepath.Base(path)
}

// OverrideCommandEnabled reports whether the container entrypoint should be
// replaced with a keep-alive command. Defaults to true when unset.
func (d *DevContainer) OverrideCommandEnabled() bool {
	if d.OverrideCommand == nil {
		return true
	}
	return *d.OverrideCommand
}

// ComposeFiles returns the compose file list, or nil outside compose mode.
func (d *DevContainer) ComposeFiles() []string {
	if d.DockerComposeFile == nil {
		return nil
	}
	return d.DockerComposeFile.Values()
}

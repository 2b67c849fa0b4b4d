package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Application describes the optional companion client spawned after the
// container is up.
type Application struct {
	Cmd *CommandLine `json:"cmd"`
}

// Settings is the user-global overlay merged with every project descriptor.
// A missing settings file yields the zero value.
type Settings struct {
	Application *Application `json:"application"`

	Mounts []string          `json:"mounts"`
	Envs   map[string]string `json:"envs"`

	PostCreateCommand *CommandLine `json:"postCreateCommand"`
	PostStartCommand  *CommandLine `json:"postStartCommand"`
	PostAttachCommand *CommandLine `json:"postAttachCommand"`

	ForwardPorts []int `json:"forwardPorts"`
}

// SettingsPath returns the per-user settings location,
// e.g. ~/.config/devcontainer.json on Linux.
func SettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "devcontainer.json"), nil
}

// LoadSettings reads the user settings file. Absence is not an error.
func LoadSettings() (*Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return nil, err
	}

	return LoadSettingsFrom(path)
}

// LoadSettingsFrom reads a settings file from an explicit path.
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("No user settings file found", "path", path)
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	var s Settings
	if err := decodeJSONC(data, &s); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}

	return &s, nil
}

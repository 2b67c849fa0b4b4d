package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/bnema/devc/internal/config"
)

// Model is the minimal compose document shape used for the override and
// for sniffing the schema version of an existing compose file.
type Model struct {
	Version  string             `yaml:"version,omitempty"`
	Services map[string]Service `yaml:"services"`
}

// Service is a single service fragment inside an override.
type Service struct {
	Volumes     []string          `yaml:"volumes,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
}

// ReadVersion extracts the declared schema version of a compose file so the
// generated override stays compatible with it.
func ReadVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read compose file %s: %w", path, err)
	}

	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("failed to parse compose file %s: %w", path, err)
	}

	return m.Version, nil
}

// WriteOverride generates the settings override for one service and writes
// it to <tmp>/<service>-compose.yml, overwriting any previous run. The file
// is intentionally never cleaned up; the next up regenerates it.
//
// Ports are the settings forward ports plus extraPorts, each published
// host:host. Volumes are the settings mounts verbatim. The environment is
// envs overlaid by the settings envs (settings win on collision).
func WriteOverride(settings *config.Settings, serviceName, version string, envs map[string]string, extraPorts []int) (string, error) {
	merged := make(map[string]string, len(envs)+len(settings.Envs))
	for key, value := range envs {
		merged[key] = value
	}
	for key, value := range settings.Envs {
		merged[key] = value
	}

	var ports []string
	for _, port := range settings.ForwardPorts {
		ports = append(ports, fmt.Sprintf("%d:%d", port, port))
	}
	for _, port := range extraPorts {
		ports = append(ports, fmt.Sprintf("%d:%d", port, port))
	}

	model := Model{
		Version: version,
		Services: map[string]Service{
			serviceName: {
				Volumes:     settings.Mounts,
				Ports:       ports,
				Environment: merged,
			},
		},
	}

	data, err := yaml.Marshal(&model)
	if err != nil {
		return "", fmt.Errorf("failed to serialize compose override: %w", err)
	}

	path := filepath.Join(os.TempDir(), serviceName+"-compose.yml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write compose override %s: %w", path, err)
	}

	log.Debug("Compose override written", "path", path, "service", serviceName)

	return path, nil
}

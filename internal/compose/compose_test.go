package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bnema/devc/internal/config"
)

func TestBuildArgs(t *testing.T) {
	args := BuildArgs("myproject", []string{"docker-compose.yml", "extra.yml"}, "/tmp/app-compose.yml", "up", "-d", "app")

	assert.Equal(t, []string{
		Command, "-p", "myproject",
		"-f", "docker-compose.yml",
		"-f", "extra.yml",
		"-f", "/tmp/app-compose.yml",
		"up", "-d", "app",
	}, args)
}

func TestBuildArgsNoOverride(t *testing.T) {
	args := BuildArgs("myproject", []string{"docker-compose.yml"}, "", "stop")

	assert.Equal(t, []string{
		Command, "-p", "myproject",
		"-f", "docker-compose.yml",
		"stop",
	}, args)
}

func TestReadVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"3.8\"\nservices:\n  app:\n    image: alpine\n"), 0o644))

	version, err := ReadVersion(path)
	require.NoError(t, err)
	assert.Equal(t, "3.8", version)
}

func TestReadVersionAbsentField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  app:\n    image: alpine\n"), 0o644))

	version, err := ReadVersion(path)
	require.NoError(t, err)
	assert.Empty(t, version)
}

func TestReadVersionMissingFile(t *testing.T) {
	_, err := ReadVersion(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestWriteOverride(t *testing.T) {
	settings := &config.Settings{
		Mounts:       []string{"/host/.ssh:/root/.ssh"},
		Envs:         map[string]string{"EDITOR": "vim", "SHARED": "from-settings"},
		ForwardPorts: []int{9229},
	}

	path, err := WriteOverride(settings, "app", "3.8", map[string]string{
		"DEVCONTAINER_PROJECT": "myproject",
		"SHARED":               "from-project",
	}, []int{42000})
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	assert.Equal(t, filepath.Join(os.TempDir(), "app-compose.yml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var m Model
	require.NoError(t, yaml.Unmarshal(data, &m))

	assert.Equal(t, "3.8", m.Version)
	require.Contains(t, m.Services, "app")

	svc := m.Services["app"]
	assert.Equal(t, []string{"/host/.ssh:/root/.ssh"}, svc.Volumes)
	assert.Equal(t, []string{"9229:9229", "42000:42000"}, svc.Ports)
	assert.Equal(t, map[string]string{
		"EDITOR":               "vim",
		"DEVCONTAINER_PROJECT": "myproject",
		"SHARED":               "from-settings",
	}, svc.Environment)
}

func TestWriteOverrideOmitsVersionWhenEmpty(t *testing.T) {
	path, err := WriteOverride(&config.Settings{}, "svc", "", nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "version:")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDescriptor(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devcontainer.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDescriptorParsesJSONC(t *testing.T) {
	path := writeDescriptor(t, `{
		// the project image
		"name": "myproject",
		"image": "alpine:3.19",
		"containerEnv": {
			"FOO": "bar", // trailing comma below is fine too
		},
	}`)

	d, err := LoadDescriptor(path)
	require.NoError(t, err)

	assert.Equal(t, "myproject", d.Name)
	assert.Equal(t, "alpine:3.19", d.Image)
	assert.Equal(t, map[string]string{"FOO": "bar"}, d.ContainerEnv)
	assert.Equal(t, ModeImage, d.Mode())
}

func TestLoadDescriptorMissingFile(t *testing.T) {
	_, err := LoadDescriptor(filepath.Join(t.TempDir(), "devcontainer.json"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadDescriptorInvalidJSON(t *testing.T) {
	path := writeDescriptor(t, `{"image": `)

	_, err := LoadDescriptor(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfigNotFound)
}

func TestValidateExactlyOneSource(t *testing.T) {
	tests := []struct {
		name    string
		d       DevContainer
		wantErr bool
	}{
		{
			name: "image only",
			d:    DevContainer{Image: "alpine"},
		},
		{
			name: "build only",
			d:    DevContainer{Build: &BuildOpts{Dockerfile: "Dockerfile"}},
		},
		{
			name: "compose only",
			d: DevContainer{
				DockerComposeFile: &StringList{values: []string{"docker-compose.yml"}},
				Service:           "app",
			},
		},
		{
			name:    "no source",
			d:       DevContainer{},
			wantErr: true,
		},
		{
			name: "image and build",
			d: DevContainer{
				Image: "alpine",
				Build: &BuildOpts{Dockerfile: "Dockerfile"},
			},
			wantErr: true,
		},
		{
			name: "image and compose",
			d: DevContainer{
				Image:             "alpine",
				DockerComposeFile: &StringList{values: []string{"docker-compose.yml"}},
				Service:           "app",
			},
			wantErr: true,
		},
		{
			name:    "whitespace image",
			d:       DevContainer{Image: "   "},
			wantErr: true,
		},
		{
			name:    "blank dockerfile",
			d:       DevContainer{Build: &BuildOpts{Dockerfile: "   "}},
			wantErr: true,
		},
		{
			name: "compose without service",
			d: DevContainer{
				DockerComposeFile: &StringList{values: []string{"docker-compose.yml"}},
			},
			wantErr: true,
		},
		{
			name: "compose with empty file list",
			d: DevContainer{
				DockerComposeFile: &StringList{},
				Service:           "app",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMode(t *testing.T) {
	assert.Equal(t, ModeImage, (&DevContainer{Image: "alpine"}).Mode())
	assert.Equal(t, ModeBuild, (&DevContainer{Build: &BuildOpts{Dockerfile: "Dockerfile"}}).Mode())
	assert.Equal(t, ModeCompose, (&DevContainer{
		DockerComposeFile: &StringList{values: []string{"docker-compose.yml"}},
		Service:           "app",
	}).Mode())
}

func TestProjectName(t *testing.T) {
	d := &DevContainer{Name: "explicit"}
	assert.Equal(t, "explicit", d.ProjectName("/home/user/myproject"))

	d = &DevContainer{}
	assert.Equal(t, "myproject", d.ProjectName("/home/user/myproject"))
}

func TestOverrideCommandEnabled(t *testing.T) {
	assert.True(t, (&DevContainer{}).OverrideCommandEnabled())

	enabled := true
	assert.True(t, (&DevContainer{OverrideCommand: &enabled}).OverrideCommandEnabled())

	disabled := false
	assert.False(t, (&DevContainer{OverrideCommand: &disabled}).OverrideCommandEnabled())
}

func TestComposeFiles(t *testing.T) {
	d := &DevContainer{}
	assert.Nil(t, d.ComposeFiles())

	d = &DevContainer{DockerComposeFile: &StringList{values: []string{"a.yml", "b.yml"}}}
	assert.Equal(t, []string{"a.yml", "b.yml"}, d.ComposeFiles())
}

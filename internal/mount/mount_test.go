package mount

import (
	"testing"

	dockermount "github.com/docker/docker/api/types/mount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColonForm(t *testing.T) {
	m, err := Parse("/host/path:/container/path")
	require.NoError(t, err)
	assert.Equal(t, "/host/path", m.Source)
	assert.Equal(t, "/container/path", m.Target)
	assert.Equal(t, dockermount.TypeBind, m.Type)
}

func TestParseColonFormExtraFieldsIgnored(t *testing.T) {
	m, err := Parse("/host:/container:ro:z")
	require.NoError(t, err)
	assert.Equal(t, "/host", m.Source)
	assert.Equal(t, "/container", m.Target)
}

func TestParseColonFormTooFewParts(t *testing.T) {
	_, err := Parse("/just-a-path")
	assert.Error(t, err)
}

func TestParseCommaForm(t *testing.T) {
	m, err := Parse("source=/src,target=/workspace,type=bind,consistency=cached")
	require.NoError(t, err)
	assert.Equal(t, "/src", m.Source)
	assert.Equal(t, "/workspace", m.Target)
	assert.Equal(t, dockermount.TypeBind, m.Type)
	assert.Equal(t, dockermount.Consistency("cached"), m.Consistency)
}

func TestParseCommaFormVolume(t *testing.T) {
	m, err := Parse("source=mydata,target=/data,type=volume")
	require.NoError(t, err)
	assert.Equal(t, dockermount.TypeVolume, m.Type)
}

func TestParseCommaFormSingleKey(t *testing.T) {
	m, err := Parse("source=/a")
	require.NoError(t, err)
	assert.Equal(t, "/a", m.Source)
	assert.Empty(t, m.Target)
}

func TestParseCommaFormMissingKeysAllowed(t *testing.T) {
	m, err := Parse("target=/scratch,type=tmpfs")
	require.NoError(t, err)
	assert.Empty(t, m.Source)
	assert.Equal(t, "/scratch", m.Target)
	assert.Equal(t, dockermount.TypeTmpfs, m.Type)
}

func TestParseCommaFormUnknownType(t *testing.T) {
	_, err := Parse("source=/a,target=/b,type=quantum")
	assert.Error(t, err)
}

func TestParseCommaFormUnknownKey(t *testing.T) {
	_, err := Parse("source=/a,target=/b,readonly=true")
	assert.Error(t, err)
}

func TestParseCommaFormMissingEquals(t *testing.T) {
	_, err := Parse("source=/a,garbage")
	assert.Error(t, err)
}

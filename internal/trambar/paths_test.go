package trambar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPrefixEnvOverride(t *testing.T) {
	t.Setenv("TRAMBAR_PREFIX", "/tmp/custom-trambar")
	assert.Equal(t, "/tmp/custom-trambar", GetPrefix())

	t.Setenv("TRAMBAR_PREFIX", "")
	assert.Equal(t, defaultPrefix(), GetPrefix())
}

func TestGetProjectName(t *testing.T) {
	t.Setenv("TRAMBAR_PROJECT", "")
	assert.Equal(t, "trambar", GetProjectName())

	t.Setenv("TRAMBAR_PROJECT", "staging")
	assert.Equal(t, "staging", GetProjectName())
}

func TestInstalled(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Installed(dir))

	require.NoError(t, os.WriteFile(ComposePath(dir), []byte("services: {}\n"), 0o640))
	assert.True(t, Installed(dir))
}

func TestBundlePaths(t *testing.T) {
	assert.Equal(t, filepath.Join("/x", "docker-compose.yml"), ComposePath("/x"))
	assert.Equal(t, filepath.Join("/x", ".env"), DotEnvPath("/x"))
	assert.Equal(t, filepath.Join("/x", "trambar.htpasswd"), CredentialPath("/x"))
	assert.Equal(t, filepath.Join("/x", "certbot.json"), CertRegistryPath("/x"))
}

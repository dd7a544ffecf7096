package trambar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `# core settings
DOMAIN=trambar.example.com
ADMIN_EMAIL="admin@example.com"

HTTP_PORT=80
not-a-pair
  HTTPS_PORT = 443
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))

	vars, err := ReadDotEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "trambar.example.com", vars["DOMAIN"])
	assert.Equal(t, "admin@example.com", vars["ADMIN_EMAIL"], "quotes should be stripped")
	assert.Equal(t, "80", vars["HTTP_PORT"])
	assert.Equal(t, "443", vars["HTTPS_PORT"], "whitespace around = should be tolerated")
	assert.NotContains(t, vars, "not-a-pair")
}

func TestWriteDotEnvPreservesLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `# generated by trambar install
DOMAIN=old.example.com

# database
POSTGRES_USER=trambar
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))

	err := WriteDotEnv(path, map[string]string{
		"DOMAIN":     "new.example.com",
		"HTTPS_PORT": "443",
		"HTTP_PORT":  "80",
	})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")

	assert.Equal(t, "# generated by trambar install", lines[0])
	assert.Equal(t, "DOMAIN=new.example.com", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "# database", lines[3])
	assert.Equal(t, "POSTGRES_USER=trambar", lines[4])
	// New keys appended sorted ('S' sorts before '_')
	assert.Equal(t, "HTTPS_PORT=443", lines[5])
	assert.Equal(t, "HTTP_PORT=80", lines[6])
}

func TestWriteDotEnvCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	err := WriteDotEnv(path, map[string]string{"B": "2", "A": "1"})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A=1\nB=2\n", string(b))
}

func TestHydrate(t *testing.T) {
	dir := t.TempDir()
	content := `DOMAIN=trambar.example.com
ADMIN_EMAIL=admin@example.com
HTTP_PORT=8080
HTTPS_PORT=8443
DEV_MODE=true
`
	require.NoError(t, os.WriteFile(DotEnvPath(dir), []byte(content), 0o640))

	cfg := Config{Prefix: dir, HTTPPort: "80", HTTPSPort: "443"}
	require.NoError(t, Hydrate(&cfg))

	assert.Equal(t, "trambar.example.com", cfg.Domain)
	assert.Equal(t, "admin@example.com", cfg.Email)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "8443", cfg.HTTPSPort)
	assert.True(t, cfg.Dev)
}

func TestRequireInstalled(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRAMBAR_PREFIX", dir)

	_, err := RequireInstalled(dir)
	assert.ErrorIs(t, err, ErrNotInstalled)

	require.NoError(t, os.WriteFile(ComposePath(dir), []byte("services: {}\n"), 0o640))
	require.NoError(t, os.WriteFile(DotEnvPath(dir), []byte("DOMAIN=t.example.com\n"), 0o640))

	cfg, err := RequireInstalled(dir)
	require.NoError(t, err)
	assert.Equal(t, "t.example.com", cfg.Domain)
	assert.Equal(t, dir, cfg.Prefix)
}

package trambar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNginxConfsWithoutCertificate(t *testing.T) {
	cfg := Config{
		Prefix:    t.TempDir(),
		Domain:    "trambar.example.com",
		HTTPPort:  "80",
		HTTPSPort: "443",
		Project:   "trambar",
	}

	require.NoError(t, WriteNginxConfs(cfg))

	confDir := filepath.Join(cfg.Prefix, "nginx", "conf.d")
	b, err := os.ReadFile(filepath.Join(confDir, "default.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "server_name trambar.example.com")
	assert.Contains(t, string(b), "/.well-known/acme-challenge/", "ACME webroot must always be served")

	_, err = os.Stat(filepath.Join(confDir, "ssl.conf"))
	assert.True(t, os.IsNotExist(err), "no ssl.conf without a certificate")
}

func TestWriteNginxConfsSelfSigned(t *testing.T) {
	cfg := Config{
		Prefix:    t.TempDir(),
		Domain:    "trambar.example.com",
		HTTPPort:  "80",
		HTTPSPort: "443",
		Project:   "trambar",
	}
	require.NoError(t, ensureDir(CertsDir(cfg), 0o750))
	crt := filepath.Join(CertsDir(cfg), cfg.Domain+".crt")
	require.NoError(t, os.WriteFile(crt, []byte("cert"), 0o640))

	require.NoError(t, WriteNginxConfs(cfg))

	confDir := filepath.Join(cfg.Prefix, "nginx", "conf.d")
	b, err := os.ReadFile(filepath.Join(confDir, "ssl.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "/etc/nginx/certs/trambar.example.com.crt")

	// HTTP server should now redirect to HTTPS
	b, err = os.ReadFile(filepath.Join(confDir, "default.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "301")
}

func TestWriteNginxConfsRemovesStaleSSL(t *testing.T) {
	cfg := Config{
		Prefix:    t.TempDir(),
		Domain:    "trambar.example.com",
		HTTPPort:  "80",
		HTTPSPort: "443",
		Project:   "trambar",
	}
	confDir := filepath.Join(cfg.Prefix, "nginx", "conf.d")
	require.NoError(t, ensureDir(confDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "ssl.conf"), []byte("stale"), 0o640))

	require.NoError(t, WriteNginxConfs(cfg))

	_, err := os.Stat(filepath.Join(confDir, "ssl.conf"))
	assert.True(t, os.IsNotExist(err), "ssl.conf must be removed when the certificate is gone")
}

func TestWriteNginxConfsRegisteredDomains(t *testing.T) {
	cfg := Config{
		Prefix:    t.TempDir(),
		Domain:    "a.example.com",
		Email:     "admin@example.com",
		HTTPPort:  "80",
		HTTPSPort: "443",
		Project:   "trambar",
	}
	reg, err := LoadCertRegistry(cfg)
	require.NoError(t, err)
	reg.AddDomain("a.example.com")
	reg.AddDomain("b.example.com")
	require.NoError(t, SaveCertRegistry(cfg, reg))

	// b has a self-signed certificate, a has none.
	require.NoError(t, ensureDir(CertsDir(cfg), 0o750))
	crt := filepath.Join(CertsDir(cfg), "b.example.com.crt")
	require.NoError(t, os.WriteFile(crt, []byte("cert"), 0o640))

	require.NoError(t, WriteNginxConfs(cfg))

	confDir := filepath.Join(cfg.Prefix, "nginx", "conf.d")

	b, err := os.ReadFile(filepath.Join(confDir, "b.example.com.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "server_name b.example.com")
	assert.Contains(t, string(b), "301", "certified domain redirects to HTTPS")

	b, err = os.ReadFile(filepath.Join(confDir, "b.example.com-ssl.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "/etc/nginx/certs/b.example.com.crt")

	// The install domain keeps the default server names and stays plain HTTP.
	b, err = os.ReadFile(filepath.Join(confDir, "default.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "server_name a.example.com")
	assert.NotContains(t, string(b), "301")
	assert.NoFileExists(t, filepath.Join(confDir, "ssl.conf"))

	// Unregistering b removes its fragments on the next write.
	reg.RemoveDomain("b.example.com")
	require.NoError(t, SaveCertRegistry(cfg, reg))
	require.NoError(t, WriteNginxConfs(cfg))
	assert.NoFileExists(t, filepath.Join(confDir, "b.example.com.conf"))
	assert.NoFileExists(t, filepath.Join(confDir, "b.example.com-ssl.conf"))
}

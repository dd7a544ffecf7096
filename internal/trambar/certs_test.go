package trambar

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCertRegistryMissing(t *testing.T) {
	cfg := Config{Prefix: t.TempDir(), Email: "admin@example.com"}

	reg, err := LoadCertRegistry(cfg)
	require.NoError(t, err)
	assert.Empty(t, reg.Domains)
	assert.Equal(t, "admin@example.com", reg.Email)
}

func TestCertRegistryRoundTrip(t *testing.T) {
	cfg := Config{Prefix: t.TempDir()}
	reg := CertRegistry{
		Domains: []string{"b.example.com", "a.example.com"},
		Email:   "admin@example.com",
	}

	require.NoError(t, SaveCertRegistry(cfg, reg))

	loaded, err := LoadCertRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, loaded.Domains, "domains are stored sorted")
	assert.Equal(t, "admin@example.com", loaded.Email)

	// The file is the documented JSON shape
	b, err := os.ReadFile(CertRegistryPath(cfg.Prefix))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Contains(t, raw, "domains")
	assert.Contains(t, raw, "email")
}

func TestCertRegistryAddDomain(t *testing.T) {
	reg := CertRegistry{}

	assert.True(t, reg.AddDomain("Example.COM "))
	assert.Equal(t, []string{"example.com"}, reg.Domains, "domains are normalized")

	assert.False(t, reg.AddDomain("example.com"), "duplicate add is a no-op")
	assert.Len(t, reg.Domains, 1)

	assert.True(t, reg.AddDomain("a.example.com"))
	assert.Equal(t, []string{"a.example.com", "example.com"}, reg.Domains)
}

func TestCertRegistryRemoveDomain(t *testing.T) {
	reg := CertRegistry{Domains: []string{"a.example.com", "b.example.com"}}

	assert.True(t, reg.RemoveDomain("A.EXAMPLE.COM"))
	assert.Equal(t, []string{"b.example.com"}, reg.Domains)

	assert.False(t, reg.RemoveDomain("c.example.com"))
}

func TestLoadCertRegistryCorrupt(t *testing.T) {
	cfg := Config{Prefix: t.TempDir()}
	require.NoError(t, os.WriteFile(CertRegistryPath(cfg.Prefix), []byte("{broken"), 0o640))

	_, err := LoadCertRegistry(cfg)
	assert.Error(t, err)
}

func TestHasCertificateSelfSigned(t *testing.T) {
	cfg := Config{Prefix: t.TempDir()}
	require.NoError(t, ensureDir(CertsDir(cfg), 0o750))

	le, ss := HasCertificate(cfg, "trambar.example.com")
	assert.False(t, le)
	assert.False(t, ss)

	crt := CertsDir(cfg) + "/trambar.example.com.crt"
	require.NoError(t, os.WriteFile(crt, []byte("cert"), 0o640))

	_, ss = HasCertificate(cfg, "trambar.example.com")
	assert.True(t, ss)
}

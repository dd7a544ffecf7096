package trambar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	t.Setenv("TRAMBAR_TEMPLATES", "")
	return Config{
		Prefix:    t.TempDir(),
		Project:   "trambar",
		Domain:    "trambar.example.com",
		Email:     "admin@example.com",
		HTTPPort:  "80",
		HTTPSPort: "443",
	}
}

func TestApplyConfigFreshInstall(t *testing.T) {
	cfg := testConfig(t)

	require.NoError(t, ApplyConfig(cfg, []string{"wordpress"}))

	// Bundle directories
	assert.True(t, DirExists(filepath.Join(cfg.Prefix, "nginx", "conf.d")))
	assert.True(t, DirExists(WebrootDir(cfg)))
	assert.True(t, DirExists(CertsDir(cfg)))

	// .env got fresh secrets
	vars, err := ReadDotEnv(DotEnvPath(cfg.Prefix))
	require.NoError(t, err)
	assert.Equal(t, "trambar.example.com", vars["DOMAIN"])
	assert.Equal(t, "trambar", vars["POSTGRES_USER"])
	assert.NotEmpty(t, vars["POSTGRES_PASSWORD"])
	assert.NotEmpty(t, vars["SESSION_SECRET"])
	assert.NotEmpty(t, vars["WORDPRESS_DB_PASSWORD"], "enabled add-on gets its secret")

	// Certificate registry seeded with the install domain
	reg, err := LoadCertRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"trambar.example.com"}, reg.Domains)
	assert.Equal(t, "admin@example.com", reg.Email)

	// Add-on list and compose file
	addons, err := LoadAddons(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"wordpress"}, addons)
	assert.True(t, Installed(cfg.Prefix))

	// Override stub present
	_, err = os.Stat(filepath.Join(cfg.Prefix, composeOverrideFile))
	assert.NoError(t, err)
}

func TestApplyConfigReinstallKeepsSecrets(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, ApplyConfig(cfg, nil))

	before, err := ReadDotEnv(DotEnvPath(cfg.Prefix))
	require.NoError(t, err)

	cfg.Domain = "new.example.com"
	require.NoError(t, ApplyConfig(cfg, nil))

	after, err := ReadDotEnv(DotEnvPath(cfg.Prefix))
	require.NoError(t, err)

	assert.Equal(t, "new.example.com", after["DOMAIN"])
	assert.Equal(t, before["POSTGRES_PASSWORD"], after["POSTGRES_PASSWORD"], "re-install must not rotate the database password")
	assert.Equal(t, before["SESSION_SECRET"], after["SESSION_SECRET"])

	// Both domains now registered for certificates
	reg, err := LoadCertRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.example.com", "trambar.example.com"}, reg.Domains)
}

func TestApplyConfigPreservesOverrideEdits(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, ApplyConfig(cfg, nil))

	custom := []byte("services:\n  node:\n    mem_limit: 2g\n")
	overridePath := filepath.Join(cfg.Prefix, composeOverrideFile)
	require.NoError(t, os.WriteFile(overridePath, custom, 0o640))

	require.NoError(t, ApplyConfig(cfg, nil))

	b, err := os.ReadFile(overridePath)
	require.NoError(t, err)
	assert.Equal(t, custom, b, "user edits to the override file survive re-install")
}

func TestApplyConfigDevOverlay(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dev = true

	require.NoError(t, ApplyConfig(cfg, nil))

	_, err := os.Stat(filepath.Join(cfg.Prefix, composeDevFile))
	assert.NoError(t, err)

	vars, err := ReadDotEnv(DotEnvPath(cfg.Prefix))
	require.NoError(t, err)
	assert.Equal(t, "true", vars["DEV_MODE"])
}

func TestEnsureRootPasswordGeneratesUnderAssumeYes(t *testing.T) {
	cfg := testConfig(t)
	p := &Prompter{AssumeYes: true}

	require.NoError(t, ensureRootPassword(cfg, "", p))
	assert.True(t, HasRootPassword(cfg))

	// Existing credential is left alone on the next run
	before, err := os.ReadFile(CredentialPath(cfg.Prefix))
	require.NoError(t, err)
	require.NoError(t, ensureRootPassword(cfg, "", p))
	after, err := os.ReadFile(CredentialPath(cfg.Prefix))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEnsureRootPasswordFlagWins(t *testing.T) {
	cfg := testConfig(t)
	p := &Prompter{AssumeYes: true}

	require.NoError(t, ensureRootPassword(cfg, "from-flag", p))
	assert.NoError(t, VerifyRootPassword(cfg, "from-flag"))
}

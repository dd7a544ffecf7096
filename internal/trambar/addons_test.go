package trambar

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAddonsMissingFile(t *testing.T) {
	cfg := Config{Prefix: t.TempDir()}
	addons, err := LoadAddons(cfg)
	require.NoError(t, err)
	assert.Empty(t, addons)
}

func TestAddonsRoundTrip(t *testing.T) {
	cfg := Config{Prefix: t.TempDir()}

	require.NoError(t, WriteAddons(cfg, []string{"wordpress", "dozzle"}))

	addons, err := LoadAddons(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"dozzle", "wordpress"}, addons)
}

func TestLoadAddonsDropsUnknown(t *testing.T) {
	cfg := Config{Prefix: t.TempDir()}
	content := "addons:\n  - dozzle\n  - jenkins\n"
	require.NoError(t, os.WriteFile(addonsPath(cfg.Prefix), []byte(content), 0o640))

	addons, err := LoadAddons(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"dozzle"}, addons)
}

func TestLoadAddonsBadYAML(t *testing.T) {
	cfg := Config{Prefix: t.TempDir()}
	require.NoError(t, os.WriteFile(addonsPath(cfg.Prefix), []byte("addons: [unclosed"), 0o640))

	_, err := LoadAddons(cfg)
	assert.Error(t, err)
}

func TestAddAddonDependencies(t *testing.T) {
	// The catalog currently has no dependency edges; the closure must at
	// least deduplicate.
	out := AddAddonDependencies([]string{"dozzle", "dozzle", "watchtower"})
	assert.ElementsMatch(t, []string{"dozzle", "watchtower"}, out)
}

func TestSortedAddonNames(t *testing.T) {
	names := SortedAddonNames()
	assert.Equal(t, []string{"dozzle", "gitlab", "watchtower", "wordpress"}, names)
}

func TestToggleAddon(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, ApplyConfig(cfg, nil))

	changed, err := ToggleAddon(cfg, "dozzle", true)
	require.NoError(t, err)
	assert.True(t, changed)

	enabled, err := LoadAddons(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"dozzle"}, enabled)

	// The compose file picked up the add-on service.
	b, err := os.ReadFile(ComposePath(cfg.Prefix))
	require.NoError(t, err)
	assert.Contains(t, string(b), "dozzle:")

	// Enabling again is a no-op.
	changed, err = ToggleAddon(cfg, "dozzle", true)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = ToggleAddon(cfg, "dozzle", false)
	require.NoError(t, err)
	assert.True(t, changed)

	enabled, err = LoadAddons(cfg)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	changed, err = ToggleAddon(cfg, "dozzle", false)
	require.NoError(t, err)
	assert.False(t, changed)
}

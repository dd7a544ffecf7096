package tui

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chung-leong/trambar-cli/internal/trambar"
)

func TestAddonOrder(t *testing.T) {
	names := addonOrder()
	require.Len(t, names, len(trambar.AddonCatalog))

	// Grouped by category, sorted within each group.
	var lastCat string
	var group []string
	flush := func() {
		assert.True(t, sort.StringsAreSorted(group), "group %s not sorted", lastCat)
		group = nil
	}
	seen := map[string]bool{}
	for _, name := range names {
		info, ok := trambar.AddonCatalog[name]
		require.True(t, ok, name)
		assert.False(t, seen[info.Category] && info.Category != lastCat,
			"category %s split across the list", info.Category)
		if info.Category != lastCat {
			flush()
			seen[info.Category] = true
			lastCat = info.Category
		}
		group = append(group, name)
	}
	flush()
}

func TestEnableWithDeps(t *testing.T) {
	orig := trambar.AddonDependencies
	trambar.AddonDependencies = map[string][]string{"wordpress": {"dozzle"}}
	defer func() { trambar.AddonDependencies = orig }()

	set := map[string]bool{}
	note := enableWithDeps(set, "wordpress")
	assert.True(t, set["wordpress"])
	assert.True(t, set["dozzle"])
	assert.Equal(t, "also enabled dozzle (required by wordpress)", note)

	// Already-satisfied dependencies produce no note.
	note = enableWithDeps(set, "wordpress")
	assert.Empty(t, note)

	note = enableWithDeps(set, "watchtower")
	assert.True(t, set["watchtower"])
	assert.Empty(t, note)
}

func TestInstallCommands(t *testing.T) {
	s := &wizardState{
		domain:    "trambar.example.com",
		email:     "admin@example.com",
		httpPort:  "80",
		httpsPort: "443",
		addons:    []string{"dozzle", "wordpress"},
	}
	cmds := installCommands(s)
	require.Len(t, cmds, 4)
	assert.Equal(t,
		"trambar install --domain trambar.example.com --email admin@example.com --http-port 80 --https-port 443",
		cmds[0])
	assert.Equal(t, "trambar enable dozzle", cmds[1])
	assert.Equal(t, "trambar enable wordpress", cmds[2])
	assert.Equal(t, "trambar start", cmds[3])
}

package tui

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffectedServices(t *testing.T) {
	// Overlapping keys collapse to a sorted, deduplicated set.
	svcs := affectedServices([]string{"POSTGRES_PASSWORD", "SESSION_SECRET", "DOMAIN"})
	assert.Equal(t, []string{"nginx", "node", "postgres"}, svcs)

	// ADMIN_EMAIL is only read at certificate time; no restart needed.
	assert.Empty(t, affectedServices([]string{"ADMIN_EMAIL"}))

	// Unknown keys contribute nothing.
	assert.Empty(t, affectedServices([]string{"CUSTOM_SETTING"}))
}

func TestEnvSchemaConsistency(t *testing.T) {
	known := map[string]bool{
		"nginx": true, "postgres": true, "node": true,
		"wordpress": true, "gitlab": true, "dozzle": true, "watchtower": true,
	}
	seen := map[string]bool{}
	for _, f := range envSchema {
		require.False(t, seen[f.key], "duplicate key %s", f.key)
		seen[f.key] = true
		require.NotEmpty(t, f.group, f.key)
		require.NotEmpty(t, f.desc, f.key)
		for _, svc := range f.services {
			assert.True(t, known[svc], "%s references unknown service %s", f.key, svc)
		}
		if f.secret {
			require.NotNil(t, f.check, "secret %s has no check", f.key)
			assert.Error(t, f.check("short"), f.key)
		}
	}
}

func TestCheckValue(t *testing.T) {
	assert.NoError(t, checkValue("DOMAIN", "trambar.example.com"))
	assert.Error(t, checkValue("DOMAIN", "not a domain"))
	assert.Error(t, checkValue("HTTP_PORT", "99999"))
	assert.Error(t, checkValue("DEV_MODE", "yes"))
	assert.NoError(t, checkValue("DEV_MODE", "false"))
	assert.Error(t, checkValue("SESSION_SECRET", "short"))

	// Hand-added keys are passed through untouched.
	assert.NoError(t, checkValue("CUSTOM_SETTING", ""))
}

func TestOrderKeys(t *testing.T) {
	vars := map[string]string{
		"ZZ_CUSTOM":      "1",
		"DOMAIN":         "example.com",
		"AA_CUSTOM":      "2",
		"SESSION_SECRET": "0123456789abcdef",
	}
	keys := orderKeys(vars)
	require.Len(t, keys, 4)

	// Schema keys first, in schema order; extras sorted at the end.
	assert.Equal(t, []string{"DOMAIN", "SESSION_SECRET", "AA_CUSTOM", "ZZ_CUSTOM"}, keys)
	assert.True(t, sort.StringsAreSorted(keys[2:]))
}

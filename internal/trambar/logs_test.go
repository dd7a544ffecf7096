package trambar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterProjectStats(t *testing.T) {
	out := `{"Name":"trambar-nginx-1","CPUPerc":"0.10%","MemUsage":"12MiB / 1GiB","MemPerc":"1.2%","NetIO":"1kB / 2kB"}
{"Name":"trambar_postgres_1","CPUPerc":"1.50%","MemUsage":"80MiB / 1GiB","MemPerc":"8.0%","NetIO":"5kB / 1kB"}
{"Name":"other-app-1","CPUPerc":"9.99%","MemUsage":"1GiB / 2GiB","MemPerc":"50%","NetIO":"1MB / 1MB"}

not json at all
`
	stats, err := filterProjectStats(out, "trambar")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "trambar-nginx-1", stats[0].Name)
	assert.Equal(t, "0.10%", stats[0].CPU)
	assert.Equal(t, "trambar_postgres_1", stats[1].Name, "older underscore naming still matches")
	assert.Equal(t, "8.0%", stats[1].MemPct)
}

func TestFilterProjectStatsNoMatches(t *testing.T) {
	out := `{"Name":"unrelated-1","CPUPerc":"0.10%"}`
	stats, err := filterProjectStats(out, "trambar")
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestFilterProjectStatsPrefixIsAnchored(t *testing.T) {
	// A project name that happens to be a substring must not match.
	out := `{"Name":"mytrambar-nginx-1","CPUPerc":"0.10%"}`
	stats, err := filterProjectStats(out, "trambar")
	require.NoError(t, err)
	assert.Empty(t, stats)
}

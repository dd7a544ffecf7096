package trambar

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
		want map[string]any
	}{
		{
			name: "new keys are added",
			dst:  map[string]any{"a": 1},
			src:  map[string]any{"b": 2},
			want: map[string]any{"a": 1, "b": 2},
		},
		{
			name: "scalars are replaced",
			dst:  map[string]any{"a": 1},
			src:  map[string]any{"a": 2},
			want: map[string]any{"a": 2},
		},
		{
			name: "maps merge recursively",
			dst: map[string]any{
				"services": map[string]any{
					"nginx": map[string]any{"image": "nginx"},
				},
			},
			src: map[string]any{
				"services": map[string]any{
					"dozzle": map[string]any{"image": "amir20/dozzle"},
				},
			},
			want: map[string]any{
				"services": map[string]any{
					"nginx":  map[string]any{"image": "nginx"},
					"dozzle": map[string]any{"image": "amir20/dozzle"},
				},
			},
		},
		{
			name: "slices append",
			dst:  map[string]any{"volumes": []any{"a:/a"}},
			src:  map[string]any{"volumes": []any{"b:/b"}},
			want: map[string]any{"volumes": []any{"a:/a", "b:/b"}},
		},
		{
			name: "type mismatch replaces",
			dst:  map[string]any{"a": []any{"x"}},
			src:  map[string]any{"a": "y"},
			want: map[string]any{"a": "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deepMerge(tt.dst, tt.src)
			assert.Equal(t, tt.want, tt.dst)
		})
	}
}

func TestWriteComposeFile(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Prefix:    dir,
		Project:   "trambar",
		Domain:    "trambar.example.com",
		Email:     "admin@example.com",
		HTTPPort:  "80",
		HTTPSPort: "443",
	}

	require.NoError(t, WriteComposeFile(cfg, []string{"dozzle"}))

	b, err := os.ReadFile(ComposePath(dir))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(b, &doc))

	services, ok := doc["services"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, services, "nginx")
	assert.Contains(t, services, "postgres")
	assert.Contains(t, services, "node")
	assert.Contains(t, services, "dozzle", "enabled add-on service should be merged in")
	assert.NotContains(t, services, "wordpress")

	meta, ok := doc["x-trambar"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"dozzle"}, meta["addons"])
	assert.NotEmpty(t, meta["generated_at"])
}

func TestWriteComposeFileNoAddons(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Prefix:    dir,
		Project:   "trambar",
		Domain:    "trambar.example.com",
		HTTPPort:  "80",
		HTTPSPort: "443",
	}

	require.NoError(t, WriteComposeFile(cfg, nil))

	b, err := os.ReadFile(ComposePath(dir))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(b, &doc))
	services := doc["services"].(map[string]any)
	assert.Len(t, services, 3)
}

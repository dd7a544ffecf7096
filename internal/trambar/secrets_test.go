package trambar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword(t *testing.T) {
	for _, length := range []int{1, 16, 31, 32} {
		pw, err := GeneratePassword(length)
		require.NoError(t, err)
		assert.Len(t, pw, length)
		assert.Regexp(t, "^[0-9a-f]+$", pw)
	}

	a, err := GeneratePassword(32)
	require.NoError(t, err)
	b, err := GeneratePassword(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateSecret(t *testing.T) {
	s := GenerateSecret()
	assert.Len(t, s, 64)
	assert.NotContains(t, s, "-")
	assert.NotEqual(t, s, GenerateSecret())
}

package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHintFor(t *testing.T) {
	assert.Contains(t, hintFor("docker daemon"), "systemctl start docker")
	assert.Contains(t, hintFor("/opt/trambar writable"), "--prefix")
	assert.Contains(t, hintFor("disk space >= 5GiB"), "free up space")
	assert.Contains(t, hintFor("ports 80/443 free"), "listening")
	assert.Empty(t, hintFor("something else entirely"))
}

// Every check that RunChecks can emit should map to a remediation hint so a
// failing pre-flight screen is never a dead end.
func TestHintForCoversAllChecks(t *testing.T) {
	for _, name := range []string{
		"docker binary", "compose tool", "docker daemon", "certbot binary",
	} {
		assert.NotEmpty(t, hintFor(name), name)
	}
}

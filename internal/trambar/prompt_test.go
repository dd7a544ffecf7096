package trambar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Prompter{In: strings.NewReader(input), Out: out}, out
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{"yes", "y\n", false, true},
		{"full yes", "yes\n", false, true},
		{"no", "n\n", true, false},
		{"empty takes default true", "\n", true, true},
		{"empty takes default false", "\n", false, false},
		{"garbage takes default", "maybe\n", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)
			got, err := p.Confirm("Proceed?", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirmAssumeYes(t *testing.T) {
	p := &Prompter{In: strings.NewReader(""), Out: &bytes.Buffer{}, AssumeYes: true}

	got, err := p.Confirm("Proceed?", true)
	require.NoError(t, err)
	assert.True(t, got, "non-interactive mode resolves to the default without reading")

	got, err = p.Confirm("Proceed?", false)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestAsk(t *testing.T) {
	p, out := newTestPrompter("trambar.example.com\n")
	got, err := p.Ask("Domain", "example.com")
	require.NoError(t, err)
	assert.Equal(t, "trambar.example.com", got)
	assert.Contains(t, out.String(), "[example.com]")

	p, _ = newTestPrompter("\n")
	got, err = p.Ask("Domain", "example.com")
	require.NoError(t, err)
	assert.Equal(t, "example.com", got, "empty input takes the default")
}

func TestAskPort(t *testing.T) {
	p, out := newTestPrompter("nope\n70000\n8080\n")
	got, err := p.AskPort("HTTP port", "80")
	require.NoError(t, err)
	assert.Equal(t, "8080", got)
	assert.Contains(t, out.String(), "invalid port")
}

func TestAskPortNonInteractiveInvalidDefault(t *testing.T) {
	p := &Prompter{In: strings.NewReader(""), Out: &bytes.Buffer{}, AssumeYes: true}
	_, err := p.AskPort("HTTP port", "not-a-port")
	assert.Error(t, err)
}

func TestAskPasswordNonInteractive(t *testing.T) {
	p := &Prompter{In: strings.NewReader(""), Out: &bytes.Buffer{}, AssumeYes: true}
	_, err := p.AskPassword("Root password")
	assert.ErrorContains(t, err, "non-interactive")
}

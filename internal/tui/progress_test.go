package tui

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureOutput(t *testing.T) {
	out, err := captureOutput(func() error {
		fmt.Println("pulling nginx")
		fmt.Fprintln(os.Stderr, "warning: something")
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, out, "pulling nginx")
	assert.Contains(t, out, "warning: something")
}

func TestCaptureOutputError(t *testing.T) {
	out, err := captureOutput(func() error {
		fmt.Println("partial progress")
		return fmt.Errorf("pull failed")
	})
	assert.EqualError(t, err, "pull failed")
	assert.Contains(t, out, "partial progress")
}

// Image pulls emit far more than a pipe buffer's worth of progress lines;
// capture must keep draining while fn is still writing.
func TestCaptureOutputLargerThanPipeBuffer(t *testing.T) {
	line := strings.Repeat("x", 1023) + "\n"
	const lines = 256 // 256 KiB total

	out, err := captureOutput(func() error {
		for i := 0; i < lines; i++ {
			if _, err := os.Stdout.WriteString(line); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, out, lines*len(line))
}

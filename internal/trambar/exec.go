package trambar

import (
	"os"
	"os/exec"
)

func runCmdCapture(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func runCmdStream(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// RunCmdCapture is the exported form used by the tui package.
func RunCmdCapture(name string, args ...string) (string, error) {
	return runCmdCapture(name, args...)
}

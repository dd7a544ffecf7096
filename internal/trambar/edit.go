package trambar

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

func resolveEditor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// EditFile opens path in the user's editor and waits for it to exit.
func EditFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	editor := resolveEditor()
	parts := strings.Fields(editor)
	parts = append(parts, path)
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s failed: %w", parts[0], err)
	}
	return nil
}

// EditAndValidate opens the file, validates the compose configuration
// afterwards, and offers a restart when the stack is running.
func EditAndValidate(rt Runtime, cfg Config, path string, p *Prompter) error {
	if err := EditFile(path); err != nil {
		return err
	}
	if err := ValidateCompose(rt, cfg); err != nil {
		return err
	}
	if ComposeServiceRunning(rt, cfg, "node") {
		ok, err := p.Confirm("Configuration changed. Restart containers now?", true)
		if err != nil {
			return err
		}
		if ok {
			return runCompose(rt, cfg, "up", "-d", "--remove-orphans")
		}
	}
	return nil
}

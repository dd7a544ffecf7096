package trambar

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

var systemdUnits = []string{
	"trambar.service",
	"trambar-backup.service",
	"trambar-backup.timer",
	"trambar-renew.service",
	"trambar-renew.timer",
}

func SystemdDir(prefix string) string {
	return filepath.Join(prefix, "systemd")
}

// WriteSystemdUnits renders the boot and timer units into <prefix>/systemd
// and returns the paths written.
func WriteSystemdUnits(cfg Config) ([]string, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}

	data := cfg.RenderData()
	data.Executable = exe

	targetDir := SystemdDir(cfg.Prefix)
	if err := ensureDir(targetDir, 0o750); err != nil {
		return nil, err
	}

	var written []string
	for _, name := range systemdUnits {
		text, err := renderTemplate("systemd/"+name, data)
		if err != nil {
			return nil, fmt.Errorf("render unit %s: %w", name, err)
		}
		target := filepath.Join(targetDir, name)
		if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
			return nil, err
		}
		written = append(written, target)
	}
	return written, nil
}

// InstallSystemdUnits copies the rendered units into /etc/systemd/system and
// enables the service and timers. Requires root.
func InstallSystemdUnits(cfg Config) error {
	for _, name := range systemdUnits {
		b, err := os.ReadFile(filepath.Join(SystemdDir(cfg.Prefix), name))
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join("/etc/systemd/system", name), b, 0o644); err != nil {
			return err
		}
	}
	if err := runCmdStream("systemctl", "daemon-reload"); err != nil {
		return err
	}
	for _, name := range []string{"trambar.service", "trambar-backup.timer", "trambar-renew.timer"} {
		if err := runCmdStream("systemctl", "enable", name); err != nil {
			return err
		}
	}
	return nil
}

// RunAutostart renders the units and, when running as root, installs them.
func RunAutostart(cfg Config) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("autostart requires systemd and is only available on linux")
	}

	written, err := WriteSystemdUnits(cfg)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Printf("wrote %s\n", path)
	}

	if os.Geteuid() != 0 {
		fmt.Println("not running as root: units were rendered but not installed")
		fmt.Printf("to install: sudo cp %s/*.service %s/*.timer /etc/systemd/system/ && sudo systemctl daemon-reload\n",
			SystemdDir(cfg.Prefix), SystemdDir(cfg.Prefix))
		return nil
	}

	if err := InstallSystemdUnits(cfg); err != nil {
		return err
	}
	fmt.Println("systemd units installed and enabled")
	return nil
}

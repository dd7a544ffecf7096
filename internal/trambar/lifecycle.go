package trambar

import (
	"fmt"
	"strings"
)

func Start(rt Runtime, cfg Config) error {
	if err := runCompose(rt, cfg, "up", "-d", "--remove-orphans"); err != nil {
		return err
	}
	fmt.Println("Trambar is running")
	return nil
}

func Stop(rt Runtime, cfg Config) error {
	if err := runCompose(rt, cfg, "down"); err != nil {
		return err
	}
	fmt.Println("Trambar stopped")
	return nil
}

// PullImages fetches the images for every service in the generated file.
func PullImages(rt Runtime, cfg Config) error {
	return runCompose(rt, cfg, "pull")
}

// Up brings the stack up without the CLI chatter; TUI screens use it.
func Up(rt Runtime, cfg Config) error {
	out, err := captureCompose(rt, cfg, "up", "-d", "--remove-orphans")
	if err != nil {
		return fmt.Errorf("compose up failed: %s", strings.TrimSpace(out))
	}
	return nil
}

func Restart(rt Runtime, cfg Config, services ...string) error {
	args := append([]string{"restart"}, services...)
	return runCompose(rt, cfg, args...)
}

// UpdateOptions controls the update flow.
type UpdateOptions struct {
	NoRestart bool
	Prune     bool
}

// Update regenerates the derived files (the user's .env and override file
// are left alone), pulls fresh images, and recreates containers.
func Update(rt Runtime, cfg Config, opts UpdateOptions) error {
	addons, err := LoadAddons(cfg)
	if err != nil {
		return err
	}
	if err := WriteComposeFile(cfg, addons); err != nil {
		return err
	}
	if err := WriteNginxConfs(cfg); err != nil {
		return err
	}

	fmt.Println("pulling container images")
	if err := runCompose(rt, cfg, "pull"); err != nil {
		return fmt.Errorf("image pull failed: %w", err)
	}

	if !opts.NoRestart {
		if err := runCompose(rt, cfg, "up", "-d", "--remove-orphans"); err != nil {
			return err
		}
	}
	if opts.Prune {
		if _, err := runCmdCapture(rt.Docker, "image", "prune", "-f"); err != nil {
			return fmt.Errorf("image prune failed: %w", err)
		}
	}
	fmt.Println("update complete")
	return nil
}

// UninstallOptions controls how much an uninstall removes.
type UninstallOptions struct {
	All bool // also remove data volumes and pulled images
}

func Uninstall(rt Runtime, cfg Config, opts UninstallOptions, p *Prompter) error {
	what := "containers and the config bundle"
	if opts.All {
		what = "containers, data volumes, images, and the config bundle"
	}
	ok, err := p.Confirm(fmt.Sprintf("Remove %s at %s?", what, cfg.Prefix), false)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("uninstall cancelled")
	}

	downArgs := []string{"down", "--remove-orphans"}
	if opts.All {
		downArgs = append(downArgs, "--volumes", "--rmi", "all")
	}
	if err := runCompose(rt, cfg, downArgs...); err != nil {
		return err
	}
	if err := removeBundle(cfg); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", cfg.Prefix)
	return nil
}

func removeBundle(cfg Config) error {
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" || prefix == "/" {
		return fmt.Errorf("refusing to remove %q", prefix)
	}
	return removeAll(prefix)
}

func Status(rt Runtime, cfg Config) error {
	addons, err := LoadAddons(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("prefix: %s\n", cfg.Prefix)
	fmt.Printf("domain: %s\n", cfg.Domain)
	if v := rt.composeVersion(); v != "" {
		fmt.Printf("compose: %s\n", v)
	}
	if len(addons) > 0 {
		fmt.Printf("add-ons: %s\n", strings.Join(addons, ", "))
	} else {
		fmt.Println("add-ons: (none)")
	}

	out, err := captureCompose(rt, cfg, "ps")
	if err != nil {
		fmt.Println("compose status unavailable:")
		fmt.Println(strings.TrimSpace(out))
		return nil
	}
	fmt.Println(strings.TrimSpace(out))
	return nil
}

package trambar

import (
	"fmt"
	"os"
	"path/filepath"
)

// InstallOptions carries flag values into the install flow. Zero values
// mean "prompt" (or take the default under --yes).
type InstallOptions struct {
	Domain     string
	Email      string
	HTTPPort   string
	HTTPSPort  string
	Password   string
	SkipPull   bool
	StartAfter bool
}

// RunInstall drives the whole installation: runtime checks, prompts,
// config bundle generation, credentials, image pull, optional start.
func RunInstall(cfg Config, opts InstallOptions, p *Prompter) error {
	rt, err := EnsureRuntime(p)
	if err != nil {
		return err
	}
	if !rt.DaemonRunning() {
		return fmt.Errorf("the docker daemon is not running")
	}

	reinstall := Installed(cfg.Prefix)
	if reinstall {
		ok, err := p.Confirm(fmt.Sprintf("An installation already exists at %s. Overwrite generated files?", cfg.Prefix), false)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("install cancelled")
		}
	}

	if cfg.Domain, err = p.Ask("Server domain name", pick(opts.Domain, "example.com")); err != nil {
		return err
	}
	if cfg.Email, err = p.Ask("Contact email for certificates", pick(opts.Email, "admin@"+cfg.Domain)); err != nil {
		return err
	}
	if cfg.HTTPPort, err = p.AskPort("HTTP port", pick(opts.HTTPPort, "80")); err != nil {
		return err
	}
	if cfg.HTTPSPort, err = p.AskPort("HTTPS port", pick(opts.HTTPSPort, "443")); err != nil {
		return err
	}

	addons, err := LoadAddons(cfg)
	if err != nil {
		return err
	}
	if err := ApplyConfig(cfg, addons); err != nil {
		return err
	}

	if err := ensureRootPassword(cfg, opts.Password, p); err != nil {
		return err
	}

	if !opts.SkipPull {
		fmt.Println("pulling container images")
		if err := runCompose(rt, cfg, "pull"); err != nil {
			return fmt.Errorf("image pull failed: %w", err)
		}
	}

	start := opts.StartAfter
	if !start {
		start, err = p.Confirm("Start Trambar now?", true)
		if err != nil {
			return err
		}
	}
	if start {
		if err := runCompose(rt, cfg, "up", "-d", "--remove-orphans"); err != nil {
			return err
		}
	}

	fmt.Printf("installed Trambar at %s\n", cfg.Prefix)
	if !start {
		fmt.Println("next: trambar start")
	}
	return nil
}

// ApplyConfig writes the whole config bundle without prompting: directories,
// .env (no-clobber on re-install), certificate registry, add-on list, compose
// file, and proxy fragments. The setup wizard collects inputs on its own and
// calls this from its progress screen.
func ApplyConfig(cfg Config, addons []string) error {
	reinstall := Installed(cfg.Prefix)
	if err := ensureBundleDirs(cfg); err != nil {
		return err
	}
	if err := ensureDotEnv(cfg, reinstall); err != nil {
		return err
	}
	if err := ensureStaticFile(cfg, composeOverrideFile); err != nil {
		return err
	}
	if cfg.Dev {
		if err := writeDevOverlay(cfg); err != nil {
			return err
		}
	}

	reg, err := LoadCertRegistry(cfg)
	if err != nil {
		return err
	}
	reg.AddDomain(cfg.Domain)
	if reg.Email == "" {
		reg.Email = cfg.Email
	}
	if err := SaveCertRegistry(cfg, reg); err != nil {
		return err
	}

	if err := WriteAddons(cfg, addons); err != nil {
		return err
	}
	if err := EnsureAddonSecrets(cfg, addons); err != nil {
		return err
	}
	if err := WriteComposeFile(cfg, addons); err != nil {
		return err
	}
	return WriteNginxConfs(cfg)
}

func pick(flagVal, def string) string {
	if flagVal != "" {
		return flagVal
	}
	return def
}

func ensureBundleDirs(cfg Config) error {
	dirs := []string{
		cfg.Prefix,
		filepath.Join(cfg.Prefix, "nginx", "conf.d"),
		WebrootDir(cfg),
		CertsDir(cfg),
	}
	for _, dir := range dirs {
		if err := ensureDir(dir, 0o750); err != nil {
			return err
		}
	}
	return nil
}

// ensureDotEnv renders .env with fresh secrets unless one already exists;
// re-installs keep the user's values and only update the prompted keys.
func ensureDotEnv(cfg Config, reinstall bool) error {
	target := DotEnvPath(cfg.Prefix)
	if _, err := os.Stat(target); err == nil && reinstall {
		return WriteDotEnv(target, map[string]string{
			"DOMAIN":      cfg.Domain,
			"ADMIN_EMAIL": cfg.Email,
			"HTTP_PORT":   cfg.HTTPPort,
			"HTTPS_PORT":  cfg.HTTPSPort,
		})
	}

	dbPassword, err := GeneratePassword(32)
	if err != nil {
		return err
	}
	data := cfg.RenderData()
	data.PostgresUser = "trambar"
	data.PostgresDB = "trambar"
	data.PostgresPassword = dbPassword
	data.SessionSecret = GenerateSecret()

	text, err := renderTemplate("env.tmpl", data)
	if err != nil {
		return err
	}
	return os.WriteFile(target, []byte(text), 0o640)
}

// ensureStaticFile copies a non-templated bundle file once, never
// clobbering user edits.
func ensureStaticFile(cfg Config, name string) error {
	target := filepath.Join(cfg.Prefix, name)
	if _, err := os.Stat(target); err == nil {
		return nil
	}
	content, err := readTemplate(name)
	if err != nil {
		return err
	}
	return os.WriteFile(target, content, 0o640)
}

func writeDevOverlay(cfg Config) error {
	content, err := readTemplate(composeDevFile)
	if err != nil {
		return err
	}
	target := filepath.Join(cfg.Prefix, composeDevFile)
	if err := os.WriteFile(target, content, 0o640); err != nil {
		return err
	}
	return WriteDotEnv(DotEnvPath(cfg.Prefix), map[string]string{"DEV_MODE": "true"})
}

func ensureRootPassword(cfg Config, flagPassword string, p *Prompter) error {
	if flagPassword != "" {
		return SetRootPassword(cfg, flagPassword)
	}
	if HasRootPassword(cfg) {
		return nil
	}
	if p.AssumeYes {
		generated, err := GeneratePassword(16)
		if err != nil {
			return err
		}
		if err := SetRootPassword(cfg, generated); err != nil {
			return err
		}
		fmt.Printf("generated root password: %s\n", generated)
		fmt.Println("change it with 'trambar password'")
		return nil
	}
	password, err := p.AskPassword("Root account password")
	if err != nil {
		return err
	}
	return SetRootPassword(cfg, password)
}

// EnsureAddonSecrets generates credentials that enabled add-ons reference
// from the environment file.
func EnsureAddonSecrets(cfg Config, addons []string) error {
	vars, err := ReadDotEnv(DotEnvPath(cfg.Prefix))
	if err != nil {
		return err
	}
	updates := map[string]string{}
	for _, addon := range addons {
		if addon == "wordpress" && vars["WORDPRESS_DB_PASSWORD"] == "" {
			pw, err := GeneratePassword(32)
			if err != nil {
				return err
			}
			updates["WORDPRESS_DB_PASSWORD"] = pw
		}
	}
	if len(updates) == 0 {
		return nil
	}
	return WriteDotEnv(DotEnvPath(cfg.Prefix), updates)
}

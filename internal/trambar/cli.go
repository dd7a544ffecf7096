package trambar

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

const Version = "2.0.0"

// Run dispatches a CLI invocation. Full-screen commands (setup, dash,
// addons, config) are handled by the caller; everything else lands here.
func Run(args []string) error {
	if len(args) < 1 {
		Usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "install":
		return cmdInstall(cmdArgs)
	case "start":
		return cmdStart(cmdArgs)
	case "stop":
		return cmdStop(cmdArgs)
	case "restart":
		return cmdRestart(cmdArgs)
	case "status":
		return cmdStatus(cmdArgs)
	case "update":
		return cmdUpdate(cmdArgs)
	case "uninstall":
		return cmdUninstall(cmdArgs)
	case "logs":
		return cmdLogs(cmdArgs)
	case "stats":
		return cmdStats(cmdArgs)
	case "password":
		return cmdPassword(cmdArgs)
	case "compose":
		return cmdEditCompose(cmdArgs)
	case "env":
		return cmdEditEnv(cmdArgs)
	case "enable":
		return cmdEnableDisable(cmdArgs, true)
	case "disable":
		return cmdEnableDisable(cmdArgs, false)
	case "backup":
		return cmdBackup(cmdArgs)
	case "autostart":
		return cmdAutostart(cmdArgs)
	case "cert":
		return cmdCert(cmdArgs)
	case "doctor":
		return RunDoctor()
	case "version", "--version", "-v":
		fmt.Println("trambar " + Version)
		return nil
	case "help", "--help", "-h":
		Usage()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func Usage() {
	fmt.Println(`trambar - install and manage a Trambar server with Docker Compose

Usage:
  trambar install [--domain example.com] [--email admin@example.com] [--dev] [--yes]
  trambar setup                      # interactive setup wizard
  trambar start | stop | restart
  trambar status
  trambar update [--no-restart] [--prune]
  trambar uninstall [--all] [--yes]
  trambar logs [service] [--no-follow]
  trambar stats
  trambar password [--password VALUE]
  trambar compose | env              # edit generated files
  trambar enable <addon> | disable <addon>
  trambar cert add <domain> [--self-signed] | remove <domain> | list | renew
  trambar backup [--dir DIR] [--keep N]
  trambar autostart                  # render and install systemd units
  trambar addons                     # add-on manager
  trambar config                     # configuration editor
  trambar dash                       # status dashboard
  trambar doctor

All commands accept --prefix DIR to address a bundle outside the default
location.

Available add-ons:`)

	for _, name := range SortedAddonNames() {
		a := AddonCatalog[name]
		fmt.Printf("  - %-12s %-50s ports: %s\n", a.Name, a.Description, addonPorts(name))
	}
}

func newFlagSet(name string) (*flag.FlagSet, *string, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	prefix := fs.String("prefix", "", "config bundle directory")
	yes := fs.Bool("yes", false, "non-interactive: accept defaults")
	return fs, prefix, yes
}

func requireInstalledWithRuntime(prefix string) (Runtime, Config, error) {
	cfg, err := RequireInstalled(prefix)
	if err != nil {
		return Runtime{}, Config{}, err
	}
	rt, err := DetectRuntime()
	if err != nil {
		return Runtime{}, Config{}, err
	}
	return rt, cfg, nil
}

func cmdInstall(args []string) error {
	fs, prefix, yes := newFlagSet("install")
	var opts InstallOptions
	fs.StringVar(&opts.Domain, "domain", "", "server domain name")
	fs.StringVar(&opts.Email, "email", "", "contact email for certificates")
	fs.StringVar(&opts.HTTPPort, "http-port", "", "HTTP port")
	fs.StringVar(&opts.HTTPSPort, "https-port", "", "HTTPS port")
	fs.StringVar(&opts.Password, "password", "", "root account password")
	fs.BoolVar(&opts.SkipPull, "skip-pull", false, "skip pulling images")
	fs.BoolVar(&opts.StartAfter, "start", false, "start containers without asking")
	dev := fs.Bool("dev", false, "development mode")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(*prefix)
	if err != nil {
		return err
	}
	cfg.Dev = *dev
	return RunInstall(cfg, opts, NewPrompter(*yes))
}

func cmdStart(args []string) error {
	fs, prefix, _ := newFlagSet("start")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return Start(rt, cfg)
}

func cmdStop(args []string) error {
	fs, prefix, _ := newFlagSet("stop")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return Stop(rt, cfg)
}

func cmdRestart(args []string) error {
	fs, prefix, _ := newFlagSet("restart")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return Restart(rt, cfg, fs.Args()...)
}

func cmdStatus(args []string) error {
	fs, prefix, _ := newFlagSet("status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return Status(rt, cfg)
}

func cmdUpdate(args []string) error {
	fs, prefix, _ := newFlagSet("update")
	var opts UpdateOptions
	fs.BoolVar(&opts.NoRestart, "no-restart", false, "pull images without recreating containers")
	fs.BoolVar(&opts.Prune, "prune", false, "remove dangling images afterwards")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return Update(rt, cfg, opts)
}

func cmdUninstall(args []string) error {
	fs, prefix, yes := newFlagSet("uninstall")
	all := fs.Bool("all", false, "also remove data volumes and images")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return Uninstall(rt, cfg, UninstallOptions{All: *all}, NewPrompter(*yes))
}

func cmdLogs(args []string) error {
	fs, prefix, _ := newFlagSet("logs")
	noFollow := fs.Bool("no-follow", false, "dump logs and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	service := ""
	if fs.NArg() > 0 {
		service = fs.Arg(0)
	}
	return Logs(rt, cfg, service, !*noFollow)
}

func cmdStats(args []string) error {
	fs, prefix, _ := newFlagSet("stats")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return Stats(rt, cfg)
}

func cmdPassword(args []string) error {
	fs, prefix, yes := newFlagSet("password")
	password := fs.String("password", "", "new password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := RequireInstalled(*prefix)
	if err != nil {
		return err
	}

	pw := *password
	if pw == "" {
		pw, err = NewPrompter(*yes).AskPassword("New root password")
		if err != nil {
			return err
		}
	}
	if err := SetRootPassword(cfg, pw); err != nil {
		return err
	}
	fmt.Println("root password updated")
	return nil
}

func cmdEditCompose(args []string) error {
	fs, prefix, yes := newFlagSet("compose")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return EditAndValidate(rt, cfg, ComposePath(cfg.Prefix), NewPrompter(*yes))
}

func cmdEditEnv(args []string) error {
	fs, prefix, yes := newFlagSet("env")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return EditAndValidate(rt, cfg, DotEnvPath(cfg.Prefix), NewPrompter(*yes))
}

func cmdEnableDisable(args []string, enable bool) error {
	if len(args) == 0 {
		return errors.New("add-on name is required")
	}
	addon := args[0]
	if _, ok := AddonCatalog[addon]; !ok {
		return fmt.Errorf("unknown add-on: %s", addon)
	}

	fs, prefix, _ := newFlagSet("toggle")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	cfg, err := RequireInstalled(*prefix)
	if err != nil {
		return err
	}

	changed, err := ToggleAddon(cfg, addon, enable)
	if err != nil {
		return err
	}

	verb := "already disabled"
	if enable {
		verb = "already enabled"
	}
	if changed {
		verb = "disabled"
		if enable {
			verb = "enabled"
		}
	}
	fmt.Printf("%s %s\n", addon, verb)
	fmt.Println("run: trambar restart")
	return nil
}

func cmdBackup(args []string) error {
	fs, prefix, _ := newFlagSet("backup")
	var opts BackupOptions
	fs.StringVar(&opts.Dir, "dir", "", "destination directory")
	fs.IntVar(&opts.Keep, "keep", 0, "number of dumps to retain (0 keeps all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return RunBackup(rt, cfg, opts)
}

func cmdAutostart(args []string) error {
	fs, prefix, _ := newFlagSet("autostart")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := RequireInstalled(*prefix)
	if err != nil {
		return err
	}
	return RunAutostart(cfg)
}

func cmdCert(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: trambar cert add|remove|list|renew")
	}
	sub := args[0]
	subArgs := args[1:]

	switch sub {
	case "add":
		return cmdCertAdd(subArgs)
	case "remove":
		return cmdCertRemove(subArgs)
	case "list":
		return cmdCertList(subArgs)
	case "renew":
		return cmdCertRenew(subArgs)
	default:
		return fmt.Errorf("unknown cert command: %s", sub)
	}
}

func cmdCertAdd(args []string) error {
	if len(args) == 0 {
		return errors.New("domain is required")
	}
	domain := args[0]

	fs, prefix, _ := newFlagSet("cert add")
	selfSigned := fs.Bool("self-signed", false, "generate a local certificate instead of using certbot")
	noIssue := fs.Bool("no-issue", false, "register the domain without requesting a certificate")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}

	reg, err := LoadCertRegistry(cfg)
	if err != nil {
		return err
	}
	if reg.AddDomain(domain) {
		if err := SaveCertRegistry(cfg, reg); err != nil {
			return err
		}
		fmt.Printf("registered %s\n", domain)
	} else {
		fmt.Printf("%s already registered\n", domain)
	}

	if *noIssue {
		return nil
	}
	if *selfSigned {
		if err := IssueSelfSigned(cfg, domain); err != nil {
			return err
		}
	} else {
		if err := IssueCertificates(cfg, reg); err != nil {
			return err
		}
	}
	if err := WriteNginxConfs(cfg); err != nil {
		return err
	}
	return ReloadProxy(rt, cfg)
}

func cmdCertRemove(args []string) error {
	if len(args) == 0 {
		return errors.New("domain is required")
	}
	domain := args[0]

	fs, prefix, _ := newFlagSet("cert remove")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}

	reg, err := LoadCertRegistry(cfg)
	if err != nil {
		return err
	}
	if !reg.RemoveDomain(domain) {
		return fmt.Errorf("domain not registered: %s", domain)
	}
	if err := SaveCertRegistry(cfg, reg); err != nil {
		return err
	}
	if err := WriteNginxConfs(cfg); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", domain)
	return ReloadProxy(rt, cfg)
}

func cmdCertList(args []string) error {
	fs, prefix, _ := newFlagSet("cert list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := RequireInstalled(*prefix)
	if err != nil {
		return err
	}

	reg, err := LoadCertRegistry(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("contact: %s\n", reg.Email)
	if len(reg.Domains) == 0 {
		fmt.Println("no domains registered")
		return nil
	}
	for _, d := range reg.Domains {
		le, ss := HasCertificate(cfg, d)
		state := "no certificate"
		switch {
		case le:
			state = "certificate issued"
		case ss:
			state = "self-signed"
		}
		fmt.Printf("  %-40s %s\n", d, state)
	}
	return nil
}

func cmdCertRenew(args []string) error {
	fs, prefix, _ := newFlagSet("cert renew")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, cfg, err := requireInstalledWithRuntime(*prefix)
	if err != nil {
		return err
	}
	return RenewCertificates(rt, cfg)
}

package trambar

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Runtime is the resolved container tooling: the docker binary plus the
// argument prefix that invokes the compose tool (either the v2 plugin or a
// standalone docker-compose binary).
type Runtime struct {
	Docker  string
	Compose []string
}

// DetectRuntime locates docker and a working compose command. Returns an
// error naming whichever piece is missing.
func DetectRuntime() (Runtime, error) {
	docker, err := exec.LookPath("docker")
	if err != nil {
		return Runtime{}, fmt.Errorf("docker binary not found: %w", err)
	}

	rt := Runtime{Docker: docker}
	if _, err := runCmdCapture(docker, "compose", "version"); err == nil {
		rt.Compose = []string{docker, "compose"}
		return rt, nil
	}
	if legacy, err := exec.LookPath("docker-compose"); err == nil {
		if _, err := runCmdCapture(legacy, "version"); err == nil {
			rt.Compose = []string{legacy}
			return rt, nil
		}
	}
	return Runtime{}, fmt.Errorf("docker compose not available (tried 'docker compose' and 'docker-compose')")
}

// DaemonRunning checks whether the docker daemon answers.
func (rt Runtime) DaemonRunning() bool {
	_, err := runCmdCapture(rt.Docker, "info")
	return err == nil
}

// EnsureRuntime detects the runtime and, if docker is missing on Linux,
// offers to install it with the vendor convenience script. Elsewhere it
// points at the platform installer and gives up.
func EnsureRuntime(p *Prompter) (Runtime, error) {
	rt, err := DetectRuntime()
	if err == nil {
		return rt, nil
	}

	if runtime.GOOS != "linux" {
		return Runtime{}, fmt.Errorf("%v\ninstall Docker Desktop from https://www.docker.com/products/docker-desktop and retry", err)
	}

	ok, perr := p.Confirm("Docker is not installed. Install it now using get.docker.com?", true)
	if perr != nil {
		return Runtime{}, perr
	}
	if !ok {
		return Runtime{}, err
	}
	if err := installDocker(); err != nil {
		return Runtime{}, err
	}
	return DetectRuntime()
}

func installDocker() error {
	fmt.Println("downloading and running the Docker install script")
	if err := runCmdStream("sh", "-c", "curl -fsSL https://get.docker.com | sh"); err != nil {
		return fmt.Errorf("docker install script failed: %w", err)
	}
	return nil
}

// composeVersion returns the reported compose version string, trimmed.
func (rt Runtime) composeVersion() string {
	args := append(rt.Compose[1:], "version", "--short")
	out, err := runCmdCapture(rt.Compose[0], args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

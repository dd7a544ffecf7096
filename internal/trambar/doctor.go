package trambar

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

type CheckResult struct {
	Name string
	OK   bool
	Err  error
}

// RunChecks executes the environment checks concurrently and returns the
// results in declaration order.
func RunChecks() []CheckResult {
	prefix := GetPrefix()
	checks := []struct {
		name string
		fn   func() error
	}{
		{"docker binary", func() error {
			_, err := exec.LookPath("docker")
			return err
		}},
		{"compose tool", func() error {
			_, err := DetectRuntime()
			return err
		}},
		{"docker daemon", func() error {
			_, err := runCmdCapture("docker", "info")
			return err
		}},
		{"certbot binary", func() error {
			_, err := exec.LookPath("certbot")
			return err
		}},
		{fmt.Sprintf("%s writable", prefix), func() error {
			return writableCheck(prefix)
		}},
		{"disk space >= 5GiB", func() error {
			return diskCheck(prefix, 5)
		}},
		{"ports 80/443 free", func() error {
			return portCheck()
		}},
	}

	results := make([]CheckResult, len(checks))
	var g errgroup.Group
	for i, check := range checks {
		g.Go(func() error {
			err := check.fn()
			results[i] = CheckResult{Name: check.name, OK: err == nil, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// RunDoctor prints check results; warnings are not fatal.
func RunDoctor() error {
	fmt.Println("trambar doctor")
	fmt.Printf("runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	for _, r := range RunChecks() {
		if r.OK {
			fmt.Printf("[ OK ] %s\n", r.Name)
		} else {
			fmt.Printf("[WARN] %s: %v\n", r.Name, r.Err)
		}
	}
	return nil
}

func writableCheck(dir string) error {
	if err := ensureDir(dir, 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "trambar-write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}

// portCheck warns when 80/443 are taken by something other than our own
// containers. Installed deployments legitimately hold those ports.
func portCheck() error {
	if Installed(GetPrefix()) {
		return nil
	}
	if _, err := exec.LookPath("ss"); err != nil {
		return nil
	}
	out, err := runCmdCapture("ss", "-ltn")
	if err != nil {
		return err
	}
	if strings.Contains(out, ":80 ") || strings.Contains(out, ":443 ") {
		return fmt.Errorf("ports 80/443 already in use")
	}
	return nil
}

package trambar

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	composeFile         = "docker-compose.yml"
	composeOverrideFile = "docker-compose.override.yml"
	composeDevFile      = "docker-compose.dev.yml"
	dotEnvFile          = ".env"
	credentialFile      = "trambar.htpasswd"
	certRegistryFile    = "certbot.json"
	addonsFile          = "addons.yml"
)

func defaultPrefix() string {
	switch runtime.GOOS {
	case "darwin":
		return "/usr/local/etc/trambar"
	case "windows":
		pd := os.Getenv("ProgramData")
		if pd == "" {
			pd = `C:\ProgramData`
		}
		return filepath.Join(pd, "Trambar")
	default:
		return "/etc/trambar"
	}
}

// GetPrefix returns the config bundle directory. TRAMBAR_PREFIX overrides
// the platform default; the --prefix flag overrides both.
func GetPrefix() string {
	if v := strings.TrimSpace(os.Getenv("TRAMBAR_PREFIX")); v != "" {
		return v
	}
	return defaultPrefix()
}

// GetProjectName returns the compose project name.
func GetProjectName() string {
	if v := strings.TrimSpace(os.Getenv("TRAMBAR_PROJECT")); v != "" {
		return v
	}
	return "trambar"
}

func ComposePath(prefix string) string {
	return filepath.Join(prefix, composeFile)
}

func DotEnvPath(prefix string) string {
	return filepath.Join(prefix, dotEnvFile)
}

func CredentialPath(prefix string) string {
	return filepath.Join(prefix, credentialFile)
}

func CertRegistryPath(prefix string) string {
	return filepath.Join(prefix, certRegistryFile)
}

// Installed reports whether a config bundle exists at prefix. Commands that
// operate on a deployment check this before shelling out.
func Installed(prefix string) bool {
	info, err := os.Stat(ComposePath(prefix))
	return err == nil && !info.IsDir()
}

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func ensureDir(path string, mode os.FileMode) error {
	return os.MkdirAll(path, mode)
}

func removeAll(path string) error {
	return os.RemoveAll(path)
}

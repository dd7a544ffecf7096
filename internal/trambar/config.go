package trambar

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config describes one installation: where the bundle lives plus the values
// that drive file generation. Domain, Email and the ports live in .env after
// install; Hydrate pulls them back out for commands run later.
type Config struct {
	Prefix    string
	Project   string
	Domain    string
	Email     string
	HTTPPort  string
	HTTPSPort string
	Dev       bool
}

var ErrNotInstalled = errors.New("trambar is not installed; run 'trambar install' first")

func LoadConfig(prefix string) (Config, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = GetPrefix()
	}
	cfg := Config{
		Prefix:    prefix,
		Project:   GetProjectName(),
		HTTPPort:  "80",
		HTTPSPort: "443",
	}
	return cfg, nil
}

// RequireInstalled loads the config and hydrates it from the on-disk bundle,
// failing when no bundle exists at the prefix.
func RequireInstalled(prefix string) (Config, error) {
	cfg, err := LoadConfig(prefix)
	if err != nil {
		return Config{}, err
	}
	if !Installed(cfg.Prefix) {
		return Config{}, ErrNotInstalled
	}
	if err := Hydrate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Hydrate fills unset fields from the installation's .env file.
func Hydrate(cfg *Config) error {
	m, err := ReadDotEnv(DotEnvPath(cfg.Prefix))
	if err != nil {
		return err
	}
	if cfg.Domain == "" {
		cfg.Domain = m["DOMAIN"]
	}
	if cfg.Email == "" {
		cfg.Email = m["ADMIN_EMAIL"]
	}
	if v := m["HTTP_PORT"]; v != "" {
		cfg.HTTPPort = v
	}
	if v := m["HTTPS_PORT"]; v != "" {
		cfg.HTTPSPort = v
	}
	if m["DEV_MODE"] == "true" {
		cfg.Dev = true
	}
	return nil
}

func ReadDotEnv(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	vars := map[string]string{}
	s := bufio.NewScanner(file)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		k := strings.TrimSpace(parts[0])
		v := strings.Trim(strings.TrimSpace(parts[1]), "\"")
		vars[k] = v
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}

// WriteDotEnv updates keys in place, preserving comments and ordering of the
// existing file. Keys not present yet are appended in sorted order.
func WriteDotEnv(path string, vars map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		keys := make([]string, 0, len(vars))
		for k := range vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			b.WriteString(k + "=" + vars[k] + "\n")
		}
		return os.WriteFile(path, []byte(b.String()), 0o640)
	}
	defer file.Close()

	written := map[string]bool{}
	var lines []string
	s := bufio.NewScanner(file)
	for s.Scan() {
		line := s.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			lines = append(lines, line)
			continue
		}
		parts := strings.SplitN(trimmed, "=", 2)
		if len(parts) != 2 {
			lines = append(lines, line)
			continue
		}
		key := strings.TrimSpace(parts[0])
		if newVal, ok := vars[key]; ok {
			lines = append(lines, key+"="+newVal)
			written[key] = true
		} else {
			lines = append(lines, line)
		}
	}
	if err := s.Err(); err != nil {
		return err
	}

	var missing []string
	for k := range vars {
		if !written[k] {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	for _, k := range missing {
		lines = append(lines, k+"="+vars[k])
	}

	content := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(path, []byte(content), 0o640)
}

// WebrootDir is the directory nginx serves ACME challenges from; mounted
// into the proxy container and handed to certbot as --webroot-path.
func WebrootDir(cfg Config) string {
	return filepath.Join(cfg.Prefix, "certbot", "webroot")
}

// CertsDir holds self-signed certificates generated by 'cert add --self-signed'.
func CertsDir(cfg Config) string {
	return filepath.Join(cfg.Prefix, "certs")
}

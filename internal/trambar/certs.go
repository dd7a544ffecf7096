package trambar

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// CertRegistry drives certificate issuance and renewal: the domains to
// cover and the contact address handed to the certificate authority.
type CertRegistry struct {
	Domains []string `json:"domains"`
	Email   string   `json:"email"`
}

func LoadCertRegistry(cfg Config) (CertRegistry, error) {
	b, err := os.ReadFile(CertRegistryPath(cfg.Prefix))
	if err != nil {
		if os.IsNotExist(err) {
			return CertRegistry{Email: cfg.Email}, nil
		}
		return CertRegistry{}, err
	}
	var reg CertRegistry
	if err := json.Unmarshal(b, &reg); err != nil {
		return CertRegistry{}, fmt.Errorf("parse %s: %w", certRegistryFile, err)
	}
	return reg, nil
}

func SaveCertRegistry(cfg Config, reg CertRegistry) error {
	sort.Strings(reg.Domains)
	out, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(CertRegistryPath(cfg.Prefix), append(out, '\n'), 0o640)
}

// AddDomain records a domain, reporting whether the registry changed.
func (reg *CertRegistry) AddDomain(domain string) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	for _, d := range reg.Domains {
		if d == domain {
			return false
		}
	}
	reg.Domains = append(reg.Domains, domain)
	sort.Strings(reg.Domains)
	return true
}

// RemoveDomain drops a domain, reporting whether it was present.
func (reg *CertRegistry) RemoveDomain(domain string) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	filtered := reg.Domains[:0]
	found := false
	for _, d := range reg.Domains {
		if d == domain {
			found = true
			continue
		}
		filtered = append(filtered, d)
	}
	reg.Domains = filtered
	return found
}

// IssueCertificates runs the certificate tool for every registered domain
// using webroot validation through the running proxy. The caller reloads the
// proxy once the confs referencing the new certificates are in place.
func IssueCertificates(cfg Config, reg CertRegistry) error {
	if len(reg.Domains) == 0 {
		return fmt.Errorf("no domains registered; run 'trambar cert add <domain>' first")
	}
	if reg.Email == "" {
		return fmt.Errorf("no contact email in %s", certRegistryFile)
	}
	certbot, err := exec.LookPath("certbot")
	if err != nil {
		return fmt.Errorf("certbot not found: %w", err)
	}
	webroot := WebrootDir(cfg)
	if err := ensureDir(webroot, 0o755); err != nil {
		return err
	}

	args := []string{
		"certonly",
		"--webroot",
		"--webroot-path", webroot,
		"--email", reg.Email,
		"--agree-tos",
		"--non-interactive",
		"--expand",
	}
	for _, d := range reg.Domains {
		args = append(args, "-d", d)
	}
	if err := runCmdStream(certbot, args...); err != nil {
		return fmt.Errorf("certificate issuance failed: %w", err)
	}
	return nil
}

// RenewCertificates runs the certificate tool's renewal pass and reloads
// the proxy when anything changed.
func RenewCertificates(rt Runtime, cfg Config) error {
	certbot, err := exec.LookPath("certbot")
	if err != nil {
		return fmt.Errorf("certbot not found: %w", err)
	}
	if err := runCmdStream(certbot, "renew", "--non-interactive"); err != nil {
		return fmt.Errorf("certificate renewal failed: %w", err)
	}
	return ReloadProxy(rt, cfg)
}

// IssueSelfSigned generates a local certificate for a domain with openssl.
func IssueSelfSigned(cfg Config, domain string) error {
	openssl, err := exec.LookPath("openssl")
	if err != nil {
		return fmt.Errorf("openssl not found: %w", err)
	}
	dir := CertsDir(cfg)
	if err := ensureDir(dir, 0o750); err != nil {
		return err
	}
	crt := filepath.Join(dir, domain+".crt")
	key := filepath.Join(dir, domain+".key")
	out, err := runCmdCapture(openssl,
		"req", "-x509", "-nodes",
		"-newkey", "rsa:2048",
		"-days", "365",
		"-keyout", key,
		"-out", crt,
		"-subj", "/CN="+domain,
		"-addext", "subjectAltName=DNS:"+domain,
	)
	if err != nil {
		return fmt.Errorf("openssl failed: %s", strings.TrimSpace(out))
	}
	return os.Chmod(key, 0o600)
}

// ReloadProxy tells the running web server to pick up new certificates.
// A stopped stack is not an error; the new files get used on next start.
func ReloadProxy(rt Runtime, cfg Config) error {
	if !ComposeServiceRunning(rt, cfg, "nginx") {
		return nil
	}
	out, err := captureCompose(rt, cfg, "exec", "-T", "nginx", "nginx", "-s", "reload")
	if err != nil {
		return fmt.Errorf("nginx reload failed: %s", strings.TrimSpace(out))
	}
	return nil
}

// LetsEncryptLiveDir is where certbot leaves issued certificates.
func LetsEncryptLiveDir(domain string) string {
	return filepath.Join("/etc/letsencrypt/live", domain)
}

// HasCertificate reports whether any certificate exists for the domain,
// either issued by certbot or self-signed.
func HasCertificate(cfg Config, domain string) (letsencrypt, selfSigned bool) {
	if _, err := os.Stat(filepath.Join(LetsEncryptLiveDir(domain), "fullchain.pem")); err == nil {
		letsencrypt = true
	}
	if _, err := os.Stat(filepath.Join(CertsDir(cfg), domain+".crt")); err == nil {
		selfSigned = true
	}
	return
}

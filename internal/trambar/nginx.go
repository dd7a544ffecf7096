package trambar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteNginxConfs regenerates the proxy fragments, one pair per served
// domain: the install domain plus every domain in the certificate registry.
// The HTTP server always exists (it also answers ACME challenges); an HTTPS
// server is added when a certificate for the domain is on disk, preferring a
// CA-issued one. Fragments for domains no longer registered are removed.
func WriteNginxConfs(cfg Config) error {
	confDir := filepath.Join(cfg.Prefix, "nginx", "conf.d")
	if err := ensureDir(confDir, 0o750); err != nil {
		return err
	}

	reg, err := LoadCertRegistry(cfg)
	if err != nil {
		return err
	}

	served := map[string]bool{cfg.Domain: true}
	domains := []string{cfg.Domain}
	for _, d := range reg.Domains {
		if !served[d] {
			served[d] = true
			domains = append(domains, d)
		}
	}

	render := func(templateName, targetName string, data RenderData) error {
		text, err := renderTemplate("nginx/"+templateName, data)
		if err != nil {
			return fmt.Errorf("render nginx %s: %w", templateName, err)
		}
		return os.WriteFile(filepath.Join(confDir, targetName), []byte(text), 0o640)
	}

	for i, domain := range domains {
		letsencrypt, selfSigned := HasCertificate(cfg, domain)
		data := cfg.RenderData()
		data.Domain = domain
		data.HTTPS = letsencrypt || selfSigned

		// The install domain keeps the default.conf / ssl.conf names so
		// nginx treats it as the default server.
		httpName, sslName := domain+".conf", domain+"-ssl.conf"
		if i == 0 {
			httpName, sslName = "default.conf", "ssl.conf"
		}

		if err := render("default.conf", httpName, data); err != nil {
			return err
		}
		switch {
		case letsencrypt:
			if err := render("ssl-letsencrypt.conf", sslName, data); err != nil {
				return err
			}
		case selfSigned:
			if err := render("ssl-selfsigned.conf", sslName, data); err != nil {
				return err
			}
		default:
			_ = os.Remove(filepath.Join(confDir, sslName))
		}
	}

	return pruneNginxConfs(confDir, served)
}

// pruneNginxConfs removes per-domain fragments whose domain has been
// unregistered. Only files whose base name looks like a hostname are
// considered; hand-added fragments are left alone.
func pruneNginxConfs(confDir string, served map[string]bool) error {
	entries, err := os.ReadDir(confDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".conf") {
			continue
		}
		if name == "default.conf" || name == "ssl.conf" {
			continue
		}
		base := strings.TrimSuffix(name, ".conf")
		base = strings.TrimSuffix(base, "-ssl")
		if strings.Contains(base, ".") && !served[base] {
			if err := os.Remove(filepath.Join(confDir, name)); err != nil {
				return err
			}
		}
	}
	return nil
}

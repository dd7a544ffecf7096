package tui

import (
	"fmt"
	"sort"
	"strings"
)

// envField describes one .env key: how the editor presents it, how a new
// value is checked, and which services pick the value up only on restart.
// One table drives display grouping, validation, and the restart advice, so
// the three can never drift apart.
type envField struct {
	key      string
	group    string
	desc     string
	secret   bool
	services []string
	check    func(string) error
}

var envSchema = []envField{
	{
		key:      "DOMAIN",
		group:    "Server",
		desc:     "Public hostname of this Trambar server.",
		services: []string{"nginx", "node"},
		check:    validateHostname,
	},
	{
		key:   "ADMIN_EMAIL",
		group: "Server",
		desc:  "Certificate expiry notices go to this address.",
		check: validateEmail,
	},
	{
		key:      "HTTP_PORT",
		group:    "Server",
		desc:     "Host port the proxy listens on for plain HTTP.",
		services: []string{"nginx"},
		check:    validatePort,
	},
	{
		key:      "HTTPS_PORT",
		group:    "Server",
		desc:     "Host port the proxy listens on for TLS.",
		services: []string{"nginx"},
		check:    validatePort,
	},
	{
		key:      "DEV_MODE",
		group:    "Server",
		desc:     "Run the application server with development settings.",
		services: []string{"node"},
		check:    validateBool,
	},
	{
		key:      "POSTGRES_USER",
		group:    "Database",
		desc:     "Database role the application connects as.",
		services: []string{"postgres", "node"},
		check:    requireValue,
	},
	{
		key:      "POSTGRES_PASSWORD",
		group:    "Database",
		desc:     "Password for the database role.",
		secret:   true,
		services: []string{"postgres", "node"},
		check:    checkSecret,
	},
	{
		key:      "POSTGRES_DB",
		group:    "Database",
		desc:     "Database the schema lives in.",
		services: []string{"postgres", "node"},
		check:    requireValue,
	},
	{
		key:      "SESSION_SECRET",
		group:    "Application",
		desc:     "Signing key for browser sessions; changing it logs everyone out.",
		secret:   true,
		services: []string{"node"},
		check:    checkSecret,
	},
	{
		key:      "WORDPRESS_DB_PASSWORD",
		group:    "Application",
		desc:     "Database password for the WordPress add-on.",
		secret:   true,
		services: []string{"wordpress"},
		check:    checkSecret,
	},
}

func schemaField(key string) (envField, bool) {
	for _, f := range envSchema {
		if f.key == key {
			return f, true
		}
	}
	return envField{}, false
}

// affectedServices returns the sorted union of services that read any of the
// changed keys.
func affectedServices(changed []string) []string {
	set := map[string]bool{}
	for _, key := range changed {
		f, ok := schemaField(key)
		if !ok {
			continue
		}
		for _, svc := range f.services {
			set[svc] = true
		}
	}
	out := make([]string, 0, len(set))
	for svc := range set {
		out = append(out, svc)
	}
	sort.Strings(out)
	return out
}

// checkValue validates one key's value against the schema. Keys outside the
// schema pass; the editor shows them but does not second-guess them.
func checkValue(key, value string) error {
	f, ok := schemaField(key)
	if !ok || f.check == nil {
		return nil
	}
	return f.check(value)
}

func requireValue(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("a value is required")
	}
	return nil
}

func checkSecret(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("secrets must be at least 8 characters")
	}
	return nil
}

func validateBool(s string) error {
	if s != "true" && s != "false" {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

package trambar

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type AddonInfo struct {
	Name        string
	Description string
	Ports       []string
	Category    string
}

// AddonCatalog lists the optional services that can be layered onto the
// core stack.
var AddonCatalog = map[string]AddonInfo{
	"wordpress": {
		Name:        "wordpress",
		Description: "WordPress site fed by Trambar story exports",
		Ports:       []string{"127.0.0.1:8081"},
		Category:    "Integrations",
	},
	"gitlab": {
		Name:        "gitlab",
		Description: "Self-hosted GitLab instance for Trambar to monitor",
		Ports:       []string{"127.0.0.1:8929", "127.0.0.1:2224"},
		Category:    "Integrations",
	},
	"dozzle": {
		Name:        "dozzle",
		Description: "Container log viewer",
		Ports:       []string{"127.0.0.1:9999"},
		Category:    "Operations",
	},
	"watchtower": {
		Name:        "watchtower",
		Description: "Automatic image updates for labelled containers",
		Ports:       []string{},
		Category:    "Operations",
	},
}

// AddonDependencies maps an add-on to others it requires.
var AddonDependencies = map[string][]string{}

type addonsConfig struct {
	Addons []string `yaml:"addons"`
}

func addonsPath(prefix string) string {
	return filepath.Join(prefix, addonsFile)
}

// LoadAddons returns the enabled add-ons with unknown names dropped and the
// dependency closure applied, sorted.
func LoadAddons(cfg Config) ([]string, error) {
	b, err := os.ReadFile(addonsPath(cfg.Prefix))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var conf addonsConfig
	if err := yaml.Unmarshal(b, &conf); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(conf.Addons))
	for _, a := range conf.Addons {
		if _, ok := AddonCatalog[a]; ok {
			out = append(out, a)
		}
	}
	out = AddAddonDependencies(out)
	sort.Strings(out)
	return out, nil
}

func WriteAddons(cfg Config, addons []string) error {
	sort.Strings(addons)
	out, err := yaml.Marshal(addonsConfig{Addons: addons})
	if err != nil {
		return err
	}
	return os.WriteFile(addonsPath(cfg.Prefix), out, 0o640)
}

func AddAddonDependencies(addons []string) []string {
	set := map[string]bool{}
	for _, a := range addons {
		set[a] = true
	}
	for _, a := range addons {
		for _, dep := range AddonDependencies[a] {
			set[dep] = true
		}
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	return out
}

// ToggleAddon enables or disables one add-on and regenerates the bundle
// files, reporting whether the enabled set actually changed. Enabling also
// provisions any secrets the add-on needs.
func ToggleAddon(cfg Config, addon string, enable bool) (bool, error) {
	current, err := LoadAddons(cfg)
	if err != nil {
		return false, err
	}

	changed := false
	if enable {
		found := false
		for _, a := range current {
			if a == addon {
				found = true
				break
			}
		}
		if !found {
			current = append(current, addon)
			changed = true
		}
	} else {
		filtered := make([]string, 0, len(current))
		for _, a := range current {
			if a != addon {
				filtered = append(filtered, a)
			}
		}
		if len(filtered) != len(current) {
			current = filtered
			changed = true
		}
	}

	if err := WriteAddons(cfg, current); err != nil {
		return changed, err
	}
	if enable {
		if err := EnsureAddonSecrets(cfg, current); err != nil {
			return changed, err
		}
	}
	if err := WriteComposeFile(cfg, current); err != nil {
		return changed, err
	}
	return changed, nil
}

func SortedAddonNames() []string {
	names := make([]string, 0, len(AddonCatalog))
	for name := range AddonCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func addonPorts(name string) string {
	a, ok := AddonCatalog[name]
	if !ok || len(a.Ports) == 0 {
		return "-"
	}
	return strings.Join(a.Ports, ",")
}

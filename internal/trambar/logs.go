package trambar

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Logs streams (or dumps, with follow=false) container logs, optionally
// for a single service.
func Logs(rt Runtime, cfg Config, service string, follow bool) error {
	args := []string{"logs"}
	if follow {
		args = append(args, "-f")
	}
	args = append(args, "--tail", "200")
	if service != "" {
		if !ComposeServiceExists(rt, cfg, service) {
			return fmt.Errorf("unknown service: %s", service)
		}
		args = append(args, service)
	}
	return runCompose(rt, cfg, args...)
}

// ContainerStat is one row of resource usage for a project container.
type ContainerStat struct {
	Name   string `json:"Name"`
	CPU    string `json:"CPUPerc"`
	Mem    string `json:"MemUsage"`
	MemPct string `json:"MemPerc"`
	NetIO  string `json:"NetIO"`
}

// CollectStats runs the runtime's stats command and keeps only containers
// belonging to this project, matched by the compose naming convention.
func CollectStats(rt Runtime, cfg Config) ([]ContainerStat, error) {
	out, err := runCmdCapture(rt.Docker, "stats", "--no-stream", "--format", "json")
	if err != nil {
		return nil, fmt.Errorf("docker stats failed: %s", strings.TrimSpace(out))
	}
	return filterProjectStats(out, cfg.Project)
}

// filterProjectStats parses line-delimited JSON from docker stats and
// filters by project prefix (compose names containers <project>-<service>-N,
// older versions use underscores).
func filterProjectStats(out, project string) ([]ContainerStat, error) {
	re, err := regexp.Compile(`^` + regexp.QuoteMeta(project) + `[-_]`)
	if err != nil {
		return nil, err
	}

	var stats []ContainerStat
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var s ContainerStat
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			continue
		}
		if re.MatchString(s.Name) {
			stats = append(stats, s)
		}
	}
	return stats, nil
}

// Stats prints a resource usage table for the project's containers.
func Stats(rt Runtime, cfg Config) error {
	stats, err := CollectStats(rt, cfg)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("no running containers")
		return nil
	}
	fmt.Printf("%-32s %-8s %-24s %-8s %s\n", "NAME", "CPU", "MEM", "MEM%", "NET I/O")
	for _, s := range stats {
		fmt.Printf("%-32s %-8s %-24s %-8s %s\n", s.Name, s.CPU, s.Mem, s.MemPct, s.NetIO)
	}
	return nil
}

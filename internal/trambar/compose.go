package trambar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ComposeBaseArgs builds the argument prefix shared by every compose
// invocation: compose files, env file, project name. The dev overlay is
// layered when the installation runs in dev mode.
func ComposeBaseArgs(rt Runtime, cfg Config) []string {
	args := append([]string{}, rt.Compose[1:]...)
	args = append(args, "-f", ComposePath(cfg.Prefix))
	if cfg.Dev {
		devPath := filepath.Join(cfg.Prefix, composeDevFile)
		if _, err := os.Stat(devPath); err == nil {
			args = append(args, "-f", devPath)
		}
	}
	overridePath := filepath.Join(cfg.Prefix, composeOverrideFile)
	if _, err := os.Stat(overridePath); err == nil {
		args = append(args, "-f", overridePath)
	}
	args = append(args,
		"--env-file", DotEnvPath(cfg.Prefix),
		"-p", cfg.Project,
	)
	return args
}

func runCompose(rt Runtime, cfg Config, extra ...string) error {
	args := append(ComposeBaseArgs(rt, cfg), extra...)
	return runCmdStream(rt.Compose[0], args...)
}

func captureCompose(rt Runtime, cfg Config, extra ...string) (string, error) {
	args := append(ComposeBaseArgs(rt, cfg), extra...)
	return runCmdCapture(rt.Compose[0], args...)
}

// WriteComposeFile renders the base stack, merges the overlays of every
// enabled add-on, stamps the result with generation metadata, and writes
// docker-compose.yml.
func WriteComposeFile(cfg Config, addons []string) error {
	data := cfg.RenderData()

	rendered, err := renderTemplate("docker-compose.yml", data)
	if err != nil {
		return err
	}

	merged := map[string]any{}
	if err := yaml.Unmarshal([]byte(rendered), &merged); err != nil {
		return err
	}

	for _, addon := range addons {
		name := "addons/" + addon + "/compose.yml"
		if !templateExists(name) {
			continue
		}
		overlayText, err := renderTemplate(name, data)
		if err != nil {
			return fmt.Errorf("render add-on %s: %w", addon, err)
		}
		var overlay map[string]any
		if err := yaml.Unmarshal([]byte(overlayText), &overlay); err != nil {
			return fmt.Errorf("parse add-on %s compose: %w", addon, err)
		}
		deepMerge(merged, overlay)
	}

	if _, ok := merged["x-trambar"]; !ok {
		merged["x-trambar"] = map[string]any{}
	}
	x := merged["x-trambar"].(map[string]any)
	x["addons"] = addons
	x["generated_at"] = time.Now().UTC().Format(time.RFC3339)

	out, err := yaml.Marshal(merged)
	if err != nil {
		return err
	}
	return os.WriteFile(ComposePath(cfg.Prefix), out, 0o640)
}

// deepMerge merges src into dst: maps merge recursively, lists append,
// scalars replace.
func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		existing, exists := dst[k]
		if !exists {
			dst[k] = v
			continue
		}

		dstMap, dstMapOK := existing.(map[string]any)
		srcMap, srcMapOK := v.(map[string]any)
		if dstMapOK && srcMapOK {
			deepMerge(dstMap, srcMap)
			continue
		}

		dstSlice, dstSliceOK := existing.([]any)
		srcSlice, srcSliceOK := v.([]any)
		if dstSliceOK && srcSliceOK {
			dst[k] = append(dstSlice, srcSlice...)
			continue
		}

		dst[k] = v
	}
}

// ValidateCompose asks the compose tool to parse the current files.
func ValidateCompose(rt Runtime, cfg Config) error {
	out, err := captureCompose(rt, cfg, "config", "--quiet")
	if err != nil {
		return fmt.Errorf("compose validation failed: %s", strings.TrimSpace(out))
	}
	return nil
}

func ComposeServiceExists(rt Runtime, cfg Config, service string) bool {
	out, err := captureCompose(rt, cfg, "config", "--services")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == service {
			return true
		}
	}
	return false
}

func ComposeServiceRunning(rt Runtime, cfg Config, service string) bool {
	out, err := captureCompose(rt, cfg, "ps", "-q", service)
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}

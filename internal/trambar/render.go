package trambar

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates
var builtinTemplates embed.FS

// RenderData is the value set available to every template.
type RenderData struct {
	Domain           string
	Email            string
	HTTPPort         string
	HTTPSPort        string
	Project          string
	Prefix           string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	SessionSecret    string
	HTTPS            bool
	DevMode          bool
	Executable       string
}

func (cfg Config) RenderData() RenderData {
	return RenderData{
		Domain:    cfg.Domain,
		Email:     cfg.Email,
		HTTPPort:  cfg.HTTPPort,
		HTTPSPort: cfg.HTTPSPort,
		Project:   cfg.Project,
		Prefix:    cfg.Prefix,
		DevMode:   cfg.Dev,
	}
}

// readTemplate returns a template file's contents, preferring an override
// directory (TRAMBAR_TEMPLATES) over the embedded copies.
func readTemplate(name string) ([]byte, error) {
	if dir := strings.TrimSpace(os.Getenv("TRAMBAR_TEMPLATES")); dir != "" {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if b, err := os.ReadFile(path); err == nil {
			return b, nil
		}
	}
	return builtinTemplates.ReadFile("templates/" + name)
}

func templateExists(name string) bool {
	if dir := strings.TrimSpace(os.Getenv("TRAMBAR_TEMPLATES")); dir != "" {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err == nil {
			return true
		}
	}
	_, err := builtinTemplates.Open("templates/" + name)
	return err == nil
}

func renderTemplate(name string, data RenderData) (string, error) {
	content, err := readTemplate(name)
	if err != nil {
		return "", err
	}
	return renderString(string(content), data)
}

func renderString(content string, data RenderData) (string, error) {
	tmpl, err := template.New("").Option("missingkey=error").Parse(content)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

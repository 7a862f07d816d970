package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadConfig_WritesDefaults(t *testing.T) {
	for _, name := range []string{"apigen.json", "apigen.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if config.Server.Addr != DefaultServerConfig().Addr {
				t.Errorf("Server.Addr = %q, want default", config.Server.Addr)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("default config file was not written: %v", err)
			}
			var written Config
			if isYAML(path) {
				err = yaml.Unmarshal(data, &written)
			} else {
				err = json.Unmarshal(data, &written)
			}
			if err != nil {
				t.Fatalf("default config file is not valid: %v", err)
			}
			if written.Generator == nil || written.Generator.TemplateDir != DefaultGeneratorConfig().TemplateDir {
				t.Errorf("written generator config = %+v", written.Generator)
			}
			if written.Templates == nil || written.Templates.Filenames["class"] != "class-%s.html" {
				t.Errorf("written template config = %+v", written.Templates)
			}
		})
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apigen.json")
	content := `{
  "generator_config": {"log_level": "debug"},
  "template_config": {"todo": true, "filenames": {"class": "c-%s.html"}}
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Generator.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", config.Generator.LogLevel)
	}
	if config.Generator.TemplateDir != DefaultGeneratorConfig().TemplateDir {
		t.Errorf("TemplateDir = %q, want the default", config.Generator.TemplateDir)
	}
	if !config.Templates.Todo || !config.Templates.Packages {
		t.Errorf("Todo/Packages = %v/%v, want true/true", config.Templates.Todo, config.Templates.Packages)
	}
	if got := config.Templates.Filenames["class"]; got != "c-%s.html" {
		t.Errorf("class pattern = %q", got)
	}
	if got := config.Templates.Filenames["namespace"]; got != "namespace-%s.html" {
		t.Errorf("namespace pattern = %q, want the default", got)
	}
	if config.Server == nil || config.Server.Addr != DefaultServerConfig().Addr {
		t.Errorf("Server = %+v, want defaults", config.Server)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apigen.yml")
	content := `
generator_config:
  catalog_path: catalog.yaml
template_config:
  packages: false
  manual_base: https://example.org/manual
server_config:
  addr: ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Generator.CatalogPath != "catalog.yaml" {
		t.Errorf("CatalogPath = %q", config.Generator.CatalogPath)
	}
	if config.Templates.Packages {
		t.Error("Packages should be disabled")
	}
	if config.Templates.ManualBase != "https://example.org/manual" {
		t.Errorf("ManualBase = %q", config.Templates.ManualBase)
	}
	if config.Server.Addr != ":9000" || !config.Server.WatchTemplates {
		t.Errorf("Server = %+v", config.Server)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apigen.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for a malformed config file")
	}
}

func TestNewLogger(t *testing.T) {
	logger := newLogger(os.Stderr, "warn")
	if logger.Enabled(t.Context(), -4) {
		t.Error("debug should be disabled at warn level")
	}
	if !newLogger(os.Stderr, "bogus").Enabled(t.Context(), 0) {
		t.Error("unknown levels should default to info")
	}
}

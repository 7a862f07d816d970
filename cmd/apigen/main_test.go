package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tjoosten/ApiGen/pkg/templating"
)

var fixturePath = filepath.Join("..", "..", "pkg", "catalog", "testdata", "fixture.yaml")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeFiles creates files below dir, creating parent directories as needed.
func writeFiles(tb testing.TB, dir string, files map[string]string) {
	tb.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			tb.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			tb.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

// setupTestConfig returns a configuration reading the fixture snapshot,
// with templates and output in a fresh temporary directory.
func setupTestConfig(tb testing.TB, templates map[string]string) *Config {
	tb.Helper()
	dir := tb.TempDir()

	config := DefaultConfig()
	config.Generator.CatalogPath = fixturePath
	config.Generator.DatabasePath = filepath.Join(dir, "catalog.db")
	config.Generator.TemplateDir = filepath.Join(dir, "templates")
	config.Generator.SourceDir = filepath.Join(dir, "src")
	config.Templates.Destination = filepath.Join(dir, "api")

	if err := os.MkdirAll(config.Generator.TemplateDir, 0755); err != nil {
		tb.Fatalf("failed to create templates dir: %v", err)
	}
	writeFiles(tb, config.Generator.TemplateDir, templates)
	return config
}

// setupTestManager loads the fixture catalog into a TemplateManager.
func setupTestManager(tb testing.TB, templates map[string]string) (*templating.TemplateManager, *Config) {
	tb.Helper()
	config := setupTestConfig(tb, templates)
	tm, err := newTemplateManager(context.Background(), config, discardLogger())
	if err != nil {
		tb.Fatalf("newTemplateManager failed: %v", err)
	}
	return tm, config
}

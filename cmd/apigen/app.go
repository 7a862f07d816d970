package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
	"github.com/Tjoosten/ApiGen/pkg/templating"
)

// initDB opens the catalog database, creating its directory and schema
// when needed.
func initDB(dataSource string) (*sql.DB, error) {
	path := dataSource
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(sqliteDriver, dataSource)
	if err != nil {
		return nil, err
	}
	if err = catalog.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup catalog schema: %w", err)
	}
	return db, nil
}

// openStore opens the catalog store of the configured database. The
// returned function closes both the store and the database.
func openStore(config *Config, logger *slog.Logger) (*catalog.Store, func(), error) {
	db, err := initDB(config.Generator.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	store, err := catalog.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create catalog store: %w", err)
	}
	store.SetLogger(logger)

	closeFn := func() {
		store.Close()
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}
	return store, closeFn, nil
}

// loadCatalog reads the catalog from the configured snapshot file, or from
// the database when no snapshot is configured.
func loadCatalog(ctx context.Context, config *Config, logger *slog.Logger) (*catalog.Catalog, error) {
	if path := config.Generator.CatalogPath; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog snapshot: %w", err)
		}
		defer func() { _ = f.Close() }()

		snapshot, err := catalog.ReadSnapshot(f, catalog.FormatFromPath(path))
		if err != nil {
			return nil, err
		}
		c := snapshot.Catalog()
		logger.Info("Catalog loaded from snapshot", "path", path, "elements", c.Len())
		return c, nil
	}

	store, closeStore, err := openStore(config, logger)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	c, err := store.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("Catalog loaded from database", "elements", c.Len())
	return c, nil
}

// newTemplateManager loads the catalog and the templates.
func newTemplateManager(ctx context.Context, config *Config, logger *slog.Logger) (*templating.TemplateManager, error) {
	c, err := loadCatalog(ctx, config, logger)
	if err != nil {
		return nil, err
	}
	tm, err := templating.NewTemplateManager(logger, c, config.Templates, config.Generator.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}
	return tm, nil
}

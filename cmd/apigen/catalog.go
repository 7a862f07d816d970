package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <snapshot>",
	Short: "Merge a catalog snapshot into the database",
	Long: `Read a JSON or YAML catalog snapshot and merge it into the catalog database.
Classes, constants and functions already stored under the same name are
replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the stored catalog as a JSON snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show element counts of the stored catalog",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd, statsCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	config, logger, err := setup()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err = store.Import(cmd.Context(), f, catalog.FormatFromPath(path)); err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	config, logger, err := setup()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if len(args) == 0 {
		return store.Export(cmd.Context(), cmd.OutOrStdout())
	}

	var buf bytes.Buffer
	if err = store.Export(cmd.Context(), &buf); err != nil {
		return err
	}
	if err = atomic.WriteFile(args[0], &buf); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	config, logger, err := setup()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(stats)
}

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
)

// Export writes the stored catalog to w as an indented JSON snapshot.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	c, err := s.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	snapshot := c.Snapshot()

	s.logger.InfoContext(ctx, "Catalog exported",
		slog.Int("classes_exported", len(snapshot.Classes)),
		slog.Int("constants_exported", len(snapshot.Constants)),
		slog.Int("functions_exported", len(snapshot.Functions)),
	)

	return WriteSnapshot(w, snapshot, FormatJSON)
}

// Import reads a snapshot from r and merges it into the stored catalog.
// Elements already stored under the same name are replaced; a replaced
// class loses the members the snapshot does not list. The operation is
// transactional.
func (s *Store) Import(ctx context.Context, r io.Reader, format Format) error {
	snapshot, err := ReadSnapshot(r, format)
	if err != nil {
		return err
	}
	return s.ImportSnapshot(ctx, snapshot)
}

// ImportSnapshot merges an already decoded snapshot into the stored catalog.
func (s *Store) ImportSnapshot(ctx context.Context, snapshot *Snapshot) error {
	// Normalise names and member back references before writing.
	snapshot.addTo(New())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for import: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if err = s.write(ctx, tx, snapshot); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Catalog imported",
		slog.Int("classes_merged", len(snapshot.Classes)),
		slog.Int("constants_merged", len(snapshot.Constants)),
		slog.Int("functions_merged", len(snapshot.Functions)),
	)

	return tx.Commit()
}

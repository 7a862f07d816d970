package catalog

import (
	"context"
	"fmt"
)

// Stats holds element counts for a stored catalog.
type Stats struct {
	Classes        int `json:"classes"`         // All stored classes
	Documented     int `json:"documented"`      // Classes that get a page of their own
	Methods        int `json:"methods"`         // Methods across all classes
	Properties     int `json:"properties"`      // Properties across all classes
	ClassConstants int `json:"class_constants"` // Constants declared by classes
	Constants      int `json:"constants"`       // Namespace and global constants
	Functions      int `json:"functions"`       // Namespace and global functions
}

// Stats returns element counts for the stored catalog.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), coalesce(SUM(documented), 0) FROM catalog_classes`,
	).Scan(&stats.Classes, &stats.Documented)
	if err != nil {
		return nil, fmt.Errorf("could not count classes: %w", err)
	}

	err = s.query(ctx, `SELECT member_kind, COUNT(*) FROM catalog_members GROUP BY member_kind`, func(row scanner) error {
		var (
			kind  string
			count int
		)
		if err := row.Scan(&kind, &count); err != nil {
			return err
		}
		switch kind {
		case memberMethod:
			stats.Methods = count
		case memberProperty:
			stats.Properties = count
		case memberConstant:
			stats.ClassConstants = count
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not count members: %w", err)
	}

	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_constants`).Scan(&stats.Constants); err != nil {
		return nil, fmt.Errorf("could not count constants: %w", err)
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_functions`).Scan(&stats.Functions); err != nil {
		return nil, fmt.Errorf("could not count functions: %w", err)
	}

	return &stats, nil
}

// Stats returns element counts for an in-memory catalog.
func (c *Catalog) Stats() *Stats {
	stats := &Stats{
		Classes:   len(c.classes),
		Constants: len(c.constants),
		Functions: len(c.functions),
	}
	for _, class := range c.classes {
		if class.Documented {
			stats.Documented++
		}
		stats.Methods += len(class.Methods)
		stats.Properties += len(class.Properties)
		stats.ClassConstants += len(class.Constants)
	}
	return stats
}

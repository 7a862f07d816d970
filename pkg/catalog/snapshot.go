package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a snapshot format from a file extension, defaulting
// to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Snapshot is the serializable form of a Catalog.
type Snapshot struct {
	Classes   []*Class    `json:"classes,omitempty" yaml:"classes,omitempty"`
	Constants []*Constant `json:"constants,omitempty" yaml:"constants,omitempty"`
	Functions []*Function `json:"functions,omitempty" yaml:"functions,omitempty"`
}

// Snapshot returns the catalog contents in serializable form.
func (c *Catalog) Snapshot() *Snapshot {
	return &Snapshot{
		Classes:   c.Classes(),
		Constants: c.Constants(),
		Functions: c.Functions(),
	}
}

// Catalog builds a new Catalog from the snapshot.
func (s *Snapshot) Catalog() *Catalog {
	c := New()
	s.addTo(c)
	return c
}

func (s *Snapshot) addTo(c *Catalog) {
	for _, class := range s.Classes {
		c.AddClass(class)
	}
	for _, constant := range s.Constants {
		c.AddConstant(constant)
	}
	for _, function := range s.Functions {
		c.AddFunction(function)
	}
}

// ReadSnapshot decodes a snapshot in the given format.
func ReadSnapshot(r io.Reader, format Format) (*Snapshot, error) {
	var snapshot Snapshot
	switch format {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode json snapshot: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&snapshot); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode yaml snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
	return &snapshot, nil
}

// WriteSnapshot encodes a snapshot in the given format.
func WriteSnapshot(w io.Writer, s *Snapshot, format Format) error {
	switch format {
	case FormatJSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(s); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unknown snapshot format %q", format)
}

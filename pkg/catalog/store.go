package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrNotFound is returned by Store lookups for names that are not stored.
var ErrNotFound = errors.New("catalog: element not found")

const (
	memberProperty = "property"
	memberMethod   = "method"
	memberConstant = "constant"
)

// SetupSchema creates the catalog tables. It is idempotent and safe to call
// on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaClasses = `
CREATE TABLE IF NOT EXISTS catalog_classes (
    name TEXT PRIMARY KEY,
    namespace TEXT NOT NULL DEFAULT '',
    aliases TEXT NOT NULL DEFAULT '{}',
    file TEXT NOT NULL DEFAULT '',
    start_line INTEGER NOT NULL DEFAULT 0,
    doc_comment TEXT NOT NULL DEFAULT '',
    short_description TEXT NOT NULL DEFAULT '',
    long_description TEXT NOT NULL DEFAULT '',
    annotations TEXT NOT NULL DEFAULT '{}',
    documented INTEGER NOT NULL DEFAULT 1,
    internal INTEGER NOT NULL DEFAULT 0,
    extension TEXT NOT NULL DEFAULT '',
    parent TEXT NOT NULL DEFAULT ''
);
`
		schemaMembers = `
CREATE TABLE IF NOT EXISTS catalog_members (
    class_name TEXT NOT NULL,
    member_kind TEXT NOT NULL,
    member_name TEXT NOT NULL,
    file TEXT NOT NULL DEFAULT '',
    start_line INTEGER NOT NULL DEFAULT 0,
    doc_comment TEXT NOT NULL DEFAULT '',
    short_description TEXT NOT NULL DEFAULT '',
    long_description TEXT NOT NULL DEFAULT '',
    annotations TEXT NOT NULL DEFAULT '{}',
    value TEXT NOT NULL DEFAULT '',
    parameters TEXT NOT NULL DEFAULT '[]',
    PRIMARY KEY (class_name, member_kind, member_name)
);
`
		schemaConstants = `
CREATE TABLE IF NOT EXISTS catalog_constants (
    name TEXT PRIMARY KEY,
    namespace TEXT NOT NULL DEFAULT '',
    aliases TEXT NOT NULL DEFAULT '{}',
    file TEXT NOT NULL DEFAULT '',
    start_line INTEGER NOT NULL DEFAULT 0,
    doc_comment TEXT NOT NULL DEFAULT '',
    short_description TEXT NOT NULL DEFAULT '',
    long_description TEXT NOT NULL DEFAULT '',
    annotations TEXT NOT NULL DEFAULT '{}',
    value TEXT NOT NULL DEFAULT ''
);
`
		schemaFunctions = `
CREATE TABLE IF NOT EXISTS catalog_functions (
    name TEXT PRIMARY KEY,
    namespace TEXT NOT NULL DEFAULT '',
    aliases TEXT NOT NULL DEFAULT '{}',
    file TEXT NOT NULL DEFAULT '',
    start_line INTEGER NOT NULL DEFAULT 0,
    doc_comment TEXT NOT NULL DEFAULT '',
    short_description TEXT NOT NULL DEFAULT '',
    long_description TEXT NOT NULL DEFAULT '',
    annotations TEXT NOT NULL DEFAULT '{}',
    parameters TEXT NOT NULL DEFAULT '[]'
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	for _, schema := range []string{schemaClasses, schemaMembers, schemaConstants, schemaFunctions} {
		if _, err = tx.Exec(schema); err != nil {
			return fmt.Errorf("could not create schema: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store persists catalogs in a SQLite database using prepared statements.
type Store struct {
	db                 *sql.DB
	stmtInsertClass    *sql.Stmt
	stmtInsertMember   *sql.Stmt
	stmtInsertConstant *sql.Stmt
	stmtInsertFunction *sql.Stmt
	stmtDeleteMembers  *sql.Stmt
	stmtGetClass       *sql.Stmt
	stmtGetMembers     *sql.Stmt
	logger             *slog.Logger
}

// NewStore prepares the statements used by the Store. SetupSchema must have
// been called on db before.
func NewStore(db *sql.DB) (*Store, error) {
	stmtInsertClass, err := db.Prepare(`INSERT OR REPLACE INTO catalog_classes (name, namespace, aliases, file, start_line, doc_comment, short_description, long_description, annotations, documented, internal, extension, parent) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtInsertMember, err := db.Prepare(`INSERT OR REPLACE INTO catalog_members (class_name, member_kind, member_name, file, start_line, doc_comment, short_description, long_description, annotations, value, parameters) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtInsertConstant, err := db.Prepare(`INSERT OR REPLACE INTO catalog_constants (name, namespace, aliases, file, start_line, doc_comment, short_description, long_description, annotations, value) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtInsertFunction, err := db.Prepare(`INSERT OR REPLACE INTO catalog_functions (name, namespace, aliases, file, start_line, doc_comment, short_description, long_description, annotations, parameters) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtDeleteMembers, err := db.Prepare(`DELETE FROM catalog_members WHERE class_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetClass, err := db.Prepare(`SELECT ` + classColumns + ` FROM catalog_classes WHERE name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetMembers, err := db.Prepare(`SELECT ` + memberColumns + ` FROM catalog_members WHERE class_name = ?;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:                 db,
		stmtInsertClass:    stmtInsertClass,
		stmtInsertMember:   stmtInsertMember,
		stmtInsertConstant: stmtInsertConstant,
		stmtInsertFunction: stmtInsertFunction,
		stmtDeleteMembers:  stmtDeleteMembers,
		stmtGetClass:       stmtGetClass,
		stmtGetMembers:     stmtGetMembers,
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases the prepared statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtInsertClass.Close()
	_ = s.stmtInsertMember.Close()
	_ = s.stmtInsertConstant.Close()
	_ = s.stmtInsertFunction.Close()
	_ = s.stmtDeleteMembers.Close()
	_ = s.stmtGetClass.Close()
	_ = s.stmtGetMembers.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SaveCatalog replaces the stored catalog with c. The operation is
// performed within a transaction.
func (s *Store) SaveCatalog(ctx context.Context, c *Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for save: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	for _, table := range []string{"catalog_members", "catalog_classes", "catalog_constants", "catalog_functions"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err = s.write(ctx, tx, c.Snapshot()); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Catalog saved",
		slog.Int("classes", len(c.classes)),
		slog.Int("constants", len(c.constants)),
		slog.Int("functions", len(c.functions)),
	)

	return tx.Commit()
}

// write inserts the snapshot contents using tx. Classes replace any stored
// class of the same name together with all of its members.
func (s *Store) write(ctx context.Context, tx *sql.Tx, snapshot *Snapshot) error {
	stmtInsertClass := tx.StmtContext(ctx, s.stmtInsertClass)
	stmtInsertMember := tx.StmtContext(ctx, s.stmtInsertMember)
	stmtInsertConstant := tx.StmtContext(ctx, s.stmtInsertConstant)
	stmtInsertFunction := tx.StmtContext(ctx, s.stmtInsertFunction)
	stmtDeleteMembers := tx.StmtContext(ctx, s.stmtDeleteMembers)

	for _, class := range snapshot.Classes {
		b := &class.Base
		_, err := stmtInsertClass.ExecContext(ctx,
			b.Name, b.Namespace, encodeJSON(b.Aliases, "{}"), b.File, b.StartLine,
			b.DocComment, b.ShortDescription, b.LongDescription, encodeJSON(b.Annotations, "{}"),
			class.Documented, class.Internal, class.Extension, class.Parent,
		)
		if err != nil {
			return fmt.Errorf("failed to insert class '%s': %w", b.Name, err)
		}
		if _, err = stmtDeleteMembers.ExecContext(ctx, b.Name); err != nil {
			return fmt.Errorf("failed to clear members of '%s': %w", b.Name, err)
		}

		for name, p := range class.Properties {
			if err = insertMember(ctx, stmtInsertMember, b.Name, memberProperty, name, &p.Base, "", nil); err != nil {
				return err
			}
		}
		for name, m := range class.Methods {
			if err = insertMember(ctx, stmtInsertMember, b.Name, memberMethod, name, &m.Base, "", m.Parameters); err != nil {
				return err
			}
		}
		for name, k := range class.Constants {
			if err = insertMember(ctx, stmtInsertMember, b.Name, memberConstant, name, &k.Base, k.Value, nil); err != nil {
				return err
			}
		}
	}

	for _, constant := range snapshot.Constants {
		b := &constant.Base
		_, err := stmtInsertConstant.ExecContext(ctx,
			b.Name, b.Namespace, encodeJSON(b.Aliases, "{}"), b.File, b.StartLine,
			b.DocComment, b.ShortDescription, b.LongDescription, encodeJSON(b.Annotations, "{}"),
			constant.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to insert constant '%s': %w", b.Name, err)
		}
	}

	for _, function := range snapshot.Functions {
		b := &function.Base
		_, err := stmtInsertFunction.ExecContext(ctx,
			b.Name, b.Namespace, encodeJSON(b.Aliases, "{}"), b.File, b.StartLine,
			b.DocComment, b.ShortDescription, b.LongDescription, encodeJSON(b.Annotations, "{}"),
			encodeJSON(function.Parameters, "[]"),
		)
		if err != nil {
			return fmt.Errorf("failed to insert function '%s': %w", b.Name, err)
		}
	}

	return nil
}

func insertMember(ctx context.Context, stmt *sql.Stmt, class, kind, name string, b *Base, value string, params []*Parameter) error {
	_, err := stmt.ExecContext(ctx,
		class, kind, name, b.File, b.StartLine,
		b.DocComment, b.ShortDescription, b.LongDescription, encodeJSON(b.Annotations, "{}"),
		value, encodeJSON(params, "[]"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s '%s::%s': %w", kind, class, name, err)
	}
	return nil
}

const (
	baseColumns   = `name, namespace, aliases, file, start_line, doc_comment, short_description, long_description, annotations`
	classColumns  = baseColumns + `, documented, internal, extension, parent`
	memberColumns = `class_name, member_kind, member_name, file, start_line, doc_comment, short_description, long_description, annotations, value, parameters`
)

type scanner interface {
	Scan(dest ...any) error
}

func scanBase(row scanner, b *Base, extra ...any) error {
	var aliases, annotations string
	dest := append([]any{
		&b.Name, &b.Namespace, &aliases, &b.File, &b.StartLine,
		&b.DocComment, &b.ShortDescription, &b.LongDescription, &annotations,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if err := decodeJSON(aliases, &b.Aliases); err != nil {
		return fmt.Errorf("bad aliases for '%s': %w", b.Name, err)
	}
	if err := decodeJSON(annotations, &b.Annotations); err != nil {
		return fmt.Errorf("bad annotations for '%s': %w", b.Name, err)
	}
	return nil
}

func scanClass(row scanner) (*Class, error) {
	class := &Class{}
	err := scanBase(row, &class.Base, &class.Documented, &class.Internal, &class.Extension, &class.Parent)
	if err != nil {
		return nil, err
	}
	return class, nil
}

// addMember scans one catalog_members row into its class.
func addMember(row scanner, classes map[string]*Class) error {
	var (
		className, kind, value, annotations, params string
		b                                           Base
	)
	err := row.Scan(&className, &kind, &b.Name, &b.File, &b.StartLine,
		&b.DocComment, &b.ShortDescription, &b.LongDescription, &annotations, &value, &params)
	if err != nil {
		return err
	}
	class, ok := classes[className]
	if !ok {
		return nil
	}
	if err = decodeJSON(annotations, &b.Annotations); err != nil {
		return fmt.Errorf("bad annotations for '%s::%s': %w", className, b.Name, err)
	}

	switch kind {
	case memberProperty:
		if class.Properties == nil {
			class.Properties = make(map[string]*Property)
		}
		class.Properties[b.Name] = &Property{Base: b}
	case memberMethod:
		m := &Method{Base: b}
		if err = decodeJSON(params, &m.Parameters); err != nil {
			return fmt.Errorf("bad parameters for '%s::%s': %w", className, b.Name, err)
		}
		if class.Methods == nil {
			class.Methods = make(map[string]*Method)
		}
		class.Methods[b.Name] = m
	case memberConstant:
		if class.Constants == nil {
			class.Constants = make(map[string]*Constant)
		}
		class.Constants[b.Name] = &Constant{Base: b, Value: value}
	default:
		return fmt.Errorf("unknown member kind %q for '%s::%s'", kind, className, b.Name)
	}
	return nil
}

// LoadClass reads a single class with its members. It returns ErrNotFound
// when no class of that name is stored.
func (s *Store) LoadClass(ctx context.Context, name string) (*Class, error) {
	class, err := scanClass(s.stmtGetClass.QueryRowContext(ctx, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("class '%s': %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.stmtGetMembers.QueryContext(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("could not query members of '%s': %w", name, err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	classes := map[string]*Class{name: class}
	for rows.Next() {
		if err = addMember(rows, classes); err != nil {
			return nil, err
		}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return class, nil
}

// LoadCatalog reads the whole stored catalog.
func (s *Store) LoadCatalog(ctx context.Context) (*Catalog, error) {
	snapshot := &Snapshot{}
	classes := make(map[string]*Class)

	err := s.query(ctx, `SELECT `+classColumns+` FROM catalog_classes ORDER BY name`, func(row scanner) error {
		class, err := scanClass(row)
		if err != nil {
			return err
		}
		classes[class.Name] = class
		snapshot.Classes = append(snapshot.Classes, class)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not load classes: %w", err)
	}

	err = s.query(ctx, `SELECT `+memberColumns+` FROM catalog_members`, func(row scanner) error {
		return addMember(row, classes)
	})
	if err != nil {
		return nil, fmt.Errorf("could not load members: %w", err)
	}

	err = s.query(ctx, `SELECT `+baseColumns+`, value FROM catalog_constants ORDER BY name`, func(row scanner) error {
		constant := &Constant{}
		if err := scanBase(row, &constant.Base, &constant.Value); err != nil {
			return err
		}
		snapshot.Constants = append(snapshot.Constants, constant)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not load constants: %w", err)
	}

	err = s.query(ctx, `SELECT `+baseColumns+`, parameters FROM catalog_functions ORDER BY name`, func(row scanner) error {
		var params string
		function := &Function{}
		if err := scanBase(row, &function.Base, &params); err != nil {
			return err
		}
		if err := decodeJSON(params, &function.Parameters); err != nil {
			return fmt.Errorf("bad parameters for '%s': %w", function.Name, err)
		}
		snapshot.Functions = append(snapshot.Functions, function)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not load functions: %w", err)
	}

	c := snapshot.Catalog()
	s.logger.DebugContext(ctx, "Catalog loaded", slog.Int("elements", c.Len()))
	return c, nil
}

func (s *Store) query(ctx context.Context, query string, each func(scanner) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		if err = each(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func encodeJSON(v any, empty string) string {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return empty
	}
	return string(data)
}

func decodeJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}

package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"carddex/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale databases must be rebuilt from source data.
const schemaVersion = 1

// Store manages the canonical catalog backed by SQLite. The exact-match
// lookups run over prepared statements so repeated queries reuse compiled
// plans.
type Store struct {
	db   *sql.DB
	path string

	stmtTriplet    *sql.Stmt
	stmtNameSet    *sql.Stmt
	stmtNameNumber *sql.Stmt
	stmtName       *sql.Stmt
	stmtCardAlias  *sql.Stmt
	stmtNameAlias  *sql.Stmt
	stmtByID       *sql.Stmt
}

// Open initializes or connects to the catalog database and prepares the
// lookup statements.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.CatalogDBPath())
}

// OpenPath opens a catalog database at an explicit path. Tests use this with
// temp directories.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.prepareStatements(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases prepared statements and the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	for _, stmt := range []*sql.Stmt{
		s.stmtTriplet, s.stmtNameSet, s.stmtNameNumber, s.stmtName,
		s.stmtCardAlias, s.stmtNameAlias, s.stmtByID,
	} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("catalog schema version %d, expected %d (rebuild the catalog database)", version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

const cardColumns = "id, name, set_name, card_number, normalized_name, normalized_set, normalized_number, set_total, release_year, sales_volume"

func (s *Store) prepareStatements(ctx context.Context) error {
	prepared := []struct {
		target **sql.Stmt
		query  string
	}{
		{&s.stmtTriplet, "SELECT " + cardColumns + " FROM catalog_cards WHERE normalized_name = ? AND normalized_set = ? AND normalized_number = ?"},
		{&s.stmtNameSet, "SELECT " + cardColumns + " FROM catalog_cards WHERE normalized_name = ? AND normalized_set = ?"},
		{&s.stmtNameNumber, "SELECT " + cardColumns + " FROM catalog_cards WHERE normalized_name = ? AND normalized_number = ?"},
		{&s.stmtName, "SELECT " + cardColumns + " FROM catalog_cards WHERE normalized_name = ?"},
		{&s.stmtCardAlias, "SELECT card_id FROM aliases WHERE alias = ? AND card_id IS NOT NULL"},
		{&s.stmtNameAlias, "SELECT canonical_name FROM aliases WHERE alias = ? AND canonical_name IS NOT NULL"},
		{&s.stmtByID, "SELECT " + cardColumns + " FROM catalog_cards WHERE id = ?"},
	}
	for _, p := range prepared {
		stmt, err := s.db.PrepareContext(ctx, p.query)
		if err != nil {
			return fmt.Errorf("prepare %q: %w", p.query, err)
		}
		*p.target = stmt
	}
	return nil
}

// InsertCard writes a catalog row, computing the normalized mirror fields.
func (s *Store) InsertCard(ctx context.Context, c Card) error {
	if c.ID == "" {
		return fmt.Errorf("insert card: id is required")
	}
	c = c.Normalized()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO catalog_cards (
            id, name, set_name, card_number,
            normalized_name, normalized_set, normalized_number,
            set_total, release_year, sales_volume, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.SetName, c.CardNumber,
		c.NormalizedName, c.NormalizedSet, c.NormalizedNumber,
		c.SetTotal, c.ReleaseYear, c.SalesVolume,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert card %s: %w", c.ID, err)
	}
	return nil
}

// InsertAlias writes an alias row. Card-level aliases must reference an
// existing card id; the foreign key enforces it.
func (s *Store) InsertAlias(ctx context.Context, a Alias) error {
	if a.Alias == "" {
		return fmt.Errorf("insert alias: alias text is required")
	}
	if a.CardID == "" && a.CanonicalName == "" {
		return fmt.Errorf("insert alias %q: card id or canonical name required", a.Alias)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO aliases (alias, card_id, canonical_name) VALUES (?, ?, ?)",
		normalizeAliasKey(a.Alias), nullable(a.CardID), nullable(a.CanonicalName),
	)
	if err != nil {
		return fmt.Errorf("insert alias %q: %w", a.Alias, err)
	}
	return nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

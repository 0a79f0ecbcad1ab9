package corpus

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"carddex/internal/card"
	"carddex/internal/config"
	"carddex/internal/normalize"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// Store manages the fallback corpus backed by SQLite.
type Store struct {
	db       *sql.DB
	path     string
	seedPath string

	mu       sync.Mutex
	inflight chan struct{}
	ingested bool
}

// Open initializes or connects to the corpus database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	store, err := OpenPath(cfg.CorpusDBPath())
	if err != nil {
		return nil, err
	}
	store.seedPath = cfg.Corpus.SeedPath
	return store, nil
}

// OpenPath opens a corpus database at an explicit path.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
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
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
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
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("corpus schema version %d, expected %d (re-ingest the corpus)", version, schemaVersion)
	}
	return nil
}

// Record is one corpus row as ingested from the seed feed.
type Record struct {
	ID          string  `json:"id"`
	ProductName string  `json:"product_name"`
	ConsoleName string  `json:"console_name"`
	ReleaseYear int     `json:"release_year"`
	SalesVolume float64 `json:"sales_volume"`
	CardNumber  string  `json:"card_number"`
	SetTotal    string  `json:"set_total"`
}

// IngestRecords bulk-loads corpus rows inside one transaction. Existing ids
// are replaced, which keeps re-ingestion idempotent.
func (s *Store) IngestRecords(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO corpus_cards (
            id, product_name, console_name, release_year, sales_volume,
            card_number, set_total, normalized_name, ingested_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare ingest: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("ingest record: id is required (product %q)", rec.ProductName)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.ProductName, rec.ConsoleName, rec.ReleaseYear, rec.SalesVolume,
			rec.CardNumber, rec.SetTotal, normalize.Text(rec.ProductName), now,
		); err != nil {
			return fmt.Errorf("ingest record %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of corpus rows.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM corpus_cards").Scan(&count); err != nil {
		return 0, fmt.Errorf("count corpus: %w", err)
	}
	return count, nil
}

// Search returns fuzzy candidates for the extracted fields, most-sold first.
func (s *Store) Search(ctx context.Context, extracted card.ExtractedFields, limit int) ([]card.Candidate, error) {
	name := normalize.Text(extracted.Name)
	if name == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_name, console_name, release_year, sales_volume, card_number, set_total
         FROM corpus_cards WHERE normalized_name LIKE ?
         ORDER BY sales_volume DESC, id LIMIT ?`,
		"%"+name+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search corpus: %w", err)
	}
	defer rows.Close()
	return collectCandidates(rows)
}

// GetManyByIDsOrdered rehydrates candidates for the given ids, preserving
// input order and silently dropping unknown ids.
func (s *Store) GetManyByIDsOrdered(ctx context.Context, ids []string) ([]card.Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_name, console_name, release_year, sales_volume, card_number, set_total
         FROM corpus_cards WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch corpus by ids: %w", err)
	}
	defer rows.Close()

	found, err := collectCandidates(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]card.Candidate, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	ordered := make([]card.Candidate, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func collectCandidates(rows *sql.Rows) ([]card.Candidate, error) {
	var candidates []card.Candidate
	for rows.Next() {
		var c card.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.SetName, &c.ReleaseYear, &c.SalesVolume, &c.Number, &c.SetTotal); err != nil {
			return nil, fmt.Errorf("scan corpus candidate: %w", err)
		}
		c.Source = card.SourceCorpus
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate corpus candidates: %w", err)
	}
	return candidates, nil
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carddex/internal/normalize"
)

// FindByTriplet returns rows matching the full normalized (name, set, number)
// triplet. Inputs are expected pre-normalized by the resolver.
func (s *Store) FindByTriplet(ctx context.Context, name, set, number string) ([]Card, error) {
	return s.queryCards(ctx, s.stmtTriplet, name, set, number)
}

// FindByNameSet returns rows matching normalized name and set.
func (s *Store) FindByNameSet(ctx context.Context, name, set string) ([]Card, error) {
	return s.queryCards(ctx, s.stmtNameSet, name, set)
}

// FindByNameNumber returns rows matching normalized name and number.
func (s *Store) FindByNameNumber(ctx context.Context, name, number string) ([]Card, error) {
	return s.queryCards(ctx, s.stmtNameNumber, name, number)
}

// FindByName returns rows matching the normalized name alone.
func (s *Store) FindByName(ctx context.Context, name string) ([]Card, error) {
	return s.queryCards(ctx, s.stmtName, name)
}

// GetByID fetches a single card by id. Returns (nil, nil) when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Card, error) {
	row := s.stmtByID.QueryRowContext(ctx, id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get card %s: %w", id, err)
	}
	return &c, nil
}

// LookupCardAlias resolves a raw alias string to a card id. The key is
// normalized before lookup; misses return ("", nil).
func (s *Store) LookupCardAlias(ctx context.Context, alias string) (string, error) {
	var cardID string
	err := s.stmtCardAlias.QueryRowContext(ctx, normalizeAliasKey(alias)).Scan(&cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup card alias: %w", err)
	}
	return cardID, nil
}

// LookupNameAlias resolves a raw alias string to a canonical normalized name.
func (s *Store) LookupNameAlias(ctx context.Context, alias string) (string, error) {
	var name string
	err := s.stmtNameAlias.QueryRowContext(ctx, normalizeAliasKey(alias)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup name alias: %w", err)
	}
	return name, nil
}

func normalizeAliasKey(alias string) string {
	return normalize.Text(alias)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (Card, error) {
	var c Card
	err := row.Scan(
		&c.ID, &c.Name, &c.SetName, &c.CardNumber,
		&c.NormalizedName, &c.NormalizedSet, &c.NormalizedNumber,
		&c.SetTotal, &c.ReleaseYear, &c.SalesVolume,
	)
	return c, err
}

func (s *Store) queryCards(ctx context.Context, stmt *sql.Stmt, args ...any) ([]Card, error) {
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

package catalog

import (
	"context"
	"fmt"
	"strings"

	"carddex/internal/card"
	"carddex/internal/normalize"
)

// Search returns fuzzy candidates for the extracted fields, most-sold first.
// The extracted name is required; without it there is nothing to match on.
func (s *Store) Search(ctx context.Context, extracted card.ExtractedFields, limit int) ([]card.Candidate, error) {
	name := normalize.Text(extracted.Name)
	if name == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+cardColumns+" FROM catalog_cards WHERE normalized_name LIKE ? ORDER BY sales_volume DESC, id LIMIT ?",
		"%"+name+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer rows.Close()

	var candidates []card.Candidate
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c.Candidate())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}

// GetManyByIDsOrdered rehydrates candidates for the given ids, preserving
// input order. Unknown ids are silently dropped.
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
		"SELECT "+cardColumns+" FROM catalog_cards WHERE id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch cards by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]card.Candidate, len(ids))
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		byID[c.ID] = c.Candidate()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	ordered := make([]card.Candidate, 0, len(ids))
	for _, id := range ids {
		if candidate, ok := byID[id]; ok {
			ordered = append(ordered, candidate)
		}
	}
	return ordered, nil
}

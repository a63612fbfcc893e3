package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, rawDescription string) (*matching.Rule, error) {
	query := `
		SELECT pattern, description, category
		FROM category_rules
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var (
		rule     matching.Rule
		category string
	)

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&rule.Pattern, &rule.Description, &category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	rule.Category = transaction.Category(category)

	return &rule, nil
}

func (s *Store) CreateRule(ctx context.Context, rule matching.Rule) error {
	query := `
		INSERT INTO category_rules (pattern, description, category, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, rule.Pattern, rule.Description, string(rule.Category))
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context) ([]matching.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pattern, description, category
		FROM category_rules
		ORDER BY pattern, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []matching.Rule

	for rows.Next() {
		var (
			rule     matching.Rule
			category string
		)

		if err := rows.Scan(&rule.Pattern, &rule.Description, &category); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rule.Category = transaction.Category(category)
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

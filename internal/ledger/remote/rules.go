package remote

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var _ matching.Repository = (*Client)(nil)

type ruleRow struct {
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (r ruleRow) rule() matching.Rule {
	return matching.Rule{
		Pattern:     r.Pattern,
		Description: r.Description,
		Category:    transaction.Category(r.Category),
	}
}

func (c *Client) FindMatch(ctx context.Context, rawDescription string) (*matching.Rule, error) {
	var rows []ruleRow

	err := c.query(ctx, &rows, `
		SELECT pattern, description, category
		FROM category_rules
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1`, rawDescription)
	if err != nil {
		return nil, fmt.Errorf("finding match: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	rule := rows[0].rule()

	return &rule, nil
}

func (c *Client) CreateRule(ctx context.Context, rule matching.Rule) error {
	err := c.query(ctx, nil, `
		INSERT INTO category_rules (pattern, description, category, created_at)
		VALUES ($1, $2, $3, NOW())`, rule.Pattern, rule.Description, string(rule.Category))
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (c *Client) ListRules(ctx context.Context) ([]matching.Rule, error) {
	var rows []ruleRow

	err := c.query(ctx, &rows, `
		SELECT pattern, description, category
		FROM category_rules
		ORDER BY pattern, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}

	rules := make([]matching.Rule, 0, len(rows))
	for _, r := range rows {
		rules = append(rules, r.rule())
	}

	return rules, nil
}

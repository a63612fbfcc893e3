package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching

// Rule maps a raw bank description pattern to a preferred description and a
// category.
type Rule struct {
	Pattern     string
	Description string
	Category    transaction.Category
}

var ErrInvalidRule = errors.New("invalid rule")

type Repository interface {
	// FindMatch returns the rule with the longest pattern contained in
	// rawDescription, case-insensitively, or nil when none matches.
	FindMatch(ctx context.Context, rawDescription string) (*Rule, error)
	CreateRule(ctx context.Context, rule Rule) error
	ListRules(ctx context.Context) ([]Rule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest finds the rule for a raw description. ok is false when no rule
// matches.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (Rule, bool, error) {
	rule, err := s.repo.FindMatch(ctx, rawDescription)
	if err != nil {
		return Rule{}, false, err
	}

	if rule == nil {
		return Rule{}, false, nil
	}

	return *rule, true, nil
}

// Learn remembers a new rule. An empty description keeps the raw one.
func (s *Service) Learn(ctx context.Context, rule Rule) error {
	rule.Pattern = strings.TrimSpace(rule.Pattern)
	if rule.Pattern == "" {
		return fmt.Errorf("%w: pattern is required", ErrInvalidRule)
	}

	if !rule.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRule, rule.Category)
	}

	return s.repo.CreateRule(ctx, rule)
}

func (s *Service) Rules(ctx context.Context) ([]Rule, error) {
	return s.repo.ListRules(ctx)
}

// Categorize fills in description and category for a parsed transaction.
// Without a matching rule the category falls back to the sign of the amount.
func (s *Service) Categorize(ctx context.Context, p transaction.CreateParams) (transaction.CreateParams, error) {
	rule, ok, err := s.Suggest(ctx, p.Description)
	if err != nil {
		return p, fmt.Errorf("suggesting category: %w", err)
	}

	if !ok {
		p.Category = fallback(p.Category, p.Amount)
		return p, nil
	}

	p.Category = rule.Category
	if rule.Description != "" {
		p.Description = rule.Description
	}

	return p, nil
}

func fallback(c transaction.Category, amount money.Amount) transaction.Category {
	if c.Valid() {
		return c
	}

	return transaction.DefaultCategory(amount)
}

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
)

func (s *Store) CreateAccount(ctx context.Context, a account.Account) error {
	query := `
		INSERT INTO accounts (id, name, institution, number, kind, balance, opening_balance, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.Name,
		a.Institution,
		a.Number,
		string(a.Kind),
		int64(a.Balance),
		int64(a.OpeningBalance),
		a.Active,
	)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

// UpdateAccount writes the descriptive fields only; balances move through
// the transaction calls.
func (s *Store) UpdateAccount(ctx context.Context, a account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, institution = $2, number = $3, kind = $4, active = $5, updated_at = NOW()
		WHERE id = $6
	`

	return execOne(ctx, s.db, "updating account", a.ID, query,
		a.Name, a.Institution, a.Number, string(a.Kind), a.Active, a.ID)
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.db, "deleting account", id, `DELETE FROM accounts WHERE id = $1`, id)
}

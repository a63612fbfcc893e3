package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func (l *Ledger) CreateAccount(ctx context.Context, p account.CreateParams) (account.Account, error) {
	if err := validateAccount(p.Name, p.Kind); err != nil {
		return account.Account{}, err
	}

	if !p.OpeningBalance.InRange() {
		return account.Account{}, fmt.Errorf("%w: opening balance: %w", ErrValidation, money.ErrOutOfRange)
	}

	a := account.New(p)

	err := l.mutate(ctx, "create_account", recordKey{}, func(ctx context.Context, recs Records) (Records, error) {
		err := l.persist(ctx, "create_account", func(ctx context.Context) error {
			return l.repo.CreateAccount(ctx, a)
		})
		if err != nil {
			return recs, err
		}

		recs.Accounts = slices.Concat(recs.Accounts, []account.Account{a})

		return recs, nil
	})
	if err != nil {
		return account.Account{}, err
	}

	return a, nil
}

// UpdateAccount edits an account's descriptive fields. Its balance can only
// be moved by transactions.
func (l *Ledger) UpdateAccount(ctx context.Context, id uuid.UUID, p account.UpdateParams) (account.Account, error) {
	if err := validateAccount(p.Name, p.Kind); err != nil {
		return account.Account{}, err
	}

	var updated account.Account

	err := l.mutate(ctx, "update_account", accountKey(id), func(ctx context.Context, recs Records) (Records, error) {
		idx := indexAccount(recs.Accounts, id)
		if idx < 0 {
			return recs, fmt.Errorf("%w: account %s", ErrRecordNotFound, id)
		}

		next := recs.Accounts[idx].Apply(p)

		err := l.persist(ctx, "update_account", func(ctx context.Context) error {
			return l.repo.UpdateAccount(ctx, next)
		})
		if err != nil {
			return recs, err
		}

		recs.Accounts = slices.Clone(recs.Accounts)
		recs.Accounts[idx] = next
		updated = next

		return recs, nil
	})
	if err != nil {
		return account.Account{}, err
	}

	return updated, nil
}

// DeleteAccount removes an account that no transaction references.
func (l *Ledger) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return l.mutate(ctx, "delete_account", accountKey(id), func(ctx context.Context, recs Records) (Records, error) {
		idx := indexAccount(recs.Accounts, id)
		if idx < 0 {
			return recs, fmt.Errorf("%w: account %s", ErrRecordNotFound, id)
		}

		referenced := slices.ContainsFunc(recs.Transactions, func(t transaction.Transaction) bool {
			return t.AccountID == id
		})
		if referenced {
			return recs, fmt.Errorf("%w: account %s still has transactions", ErrValidation, id)
		}

		err := l.persist(ctx, "delete_account", func(ctx context.Context) error {
			return l.repo.DeleteAccount(ctx, id)
		})
		if err != nil {
			return recs, err
		}

		recs.Accounts = slices.Delete(slices.Clone(recs.Accounts), idx, idx+1)

		return recs, nil
	})
}

func validateAccount(name string, kind account.Kind) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: account name is required", ErrValidation)
	}

	if !kind.Valid() {
		return fmt.Errorf("%w: unknown account kind %q", ErrValidation, kind)
	}

	return nil
}

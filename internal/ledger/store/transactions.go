package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func (s *Store) CreateTransactions(ctx context.Context, txs []transaction.Transaction, balances []account.Balance) error {
	query := `
		INSERT INTO transactions (id, account_id, date, amount, description, category, recurring, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`

	return s.withTx(ctx, func(dbTx *sql.Tx) error {
		stmt, err := dbTx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for _, tx := range txs {
			_, err := stmt.ExecContext(ctx,
				tx.ID,
				tx.AccountID,
				tx.Date,
				int64(tx.Amount),
				tx.Description,
				string(tx.Category),
				tx.Recurring,
			)
			if err != nil {
				return fmt.Errorf("creating transaction: %w", err)
			}
		}

		return setBalances(ctx, dbTx, balances)
	})
}

func (s *Store) UpdateTransaction(ctx context.Context, tx transaction.Transaction, balances []account.Balance) error {
	query := `
		UPDATE transactions
		SET account_id = $1, date = $2, amount = $3, description = $4, category = $5, recurring = $6, updated_at = NOW()
		WHERE id = $7
	`

	return s.withTx(ctx, func(dbTx *sql.Tx) error {
		err := execOne(ctx, dbTx, "updating transaction", tx.ID, query,
			tx.AccountID,
			tx.Date,
			int64(tx.Amount),
			tx.Description,
			string(tx.Category),
			tx.Recurring,
			tx.ID,
		)
		if err != nil {
			return err
		}

		return setBalances(ctx, dbTx, balances)
	})
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID, balances []account.Balance) error {
	return s.withTx(ctx, func(dbTx *sql.Tx) error {
		if err := execOne(ctx, dbTx, "deleting transaction", id, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
			return err
		}

		return setBalances(ctx, dbTx, balances)
	})
}

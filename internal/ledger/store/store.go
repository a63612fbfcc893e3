// Package store is the PostgreSQL realization of ledger.Repository. Every
// call runs in a single SQL transaction.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Store struct {
	db *sql.DB
}

var _ ledger.Repository = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const (
	selectAccounts = `
		SELECT id, name, institution, number, kind, balance, opening_balance, active
		FROM accounts
		ORDER BY created_at, id`

	selectTransactions = `
		SELECT id, account_id, date, amount, description, category, recurring
		FROM transactions
		ORDER BY date, created_at, id`

	selectBills = `
		SELECT id, name, amount, due_date, paid, recurring, frequency, category
		FROM bills
		ORDER BY due_date, created_at, id`
)

// scanAccount expects the column order of selectAccounts.
func scanAccount(s scanner) (account.Account, error) {
	var (
		a       account.Account
		kind    string
		balance int64
		opening int64
	)

	if err := s.Scan(&a.ID, &a.Name, &a.Institution, &a.Number, &kind, &balance, &opening, &a.Active); err != nil {
		return account.Account{}, err
	}

	a.Kind = account.Kind(kind)
	a.Balance = money.Amount(balance)
	a.OpeningBalance = money.Amount(opening)

	return a, nil
}

// scanTransaction expects the column order of selectTransactions.
func scanTransaction(s scanner) (transaction.Transaction, error) {
	var (
		tx       transaction.Transaction
		amount   int64
		category string
	)

	if err := s.Scan(&tx.ID, &tx.AccountID, &tx.Date, &amount, &tx.Description, &category, &tx.Recurring); err != nil {
		return transaction.Transaction{}, err
	}

	tx.Amount = money.Amount(amount)
	tx.Category = transaction.Category(category)

	return tx, nil
}

// scanBill expects the column order of selectBills.
func scanBill(s scanner) (bill.Bill, error) {
	var (
		b         bill.Bill
		amount    int64
		frequency string
	)

	if err := s.Scan(&b.ID, &b.Name, &amount, &b.DueDate, &b.Paid, &b.Recurring, &frequency, &b.Category); err != nil {
		return bill.Bill{}, err
	}

	b.Amount = money.Amount(amount)
	b.Frequency = bill.Frequency(frequency)

	return b, nil
}

func queryAll[T any](ctx context.Context, tx *sql.Tx, query string, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T

	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, rows.Err()
}

func (s *Store) FetchAll(ctx context.Context) (ledger.Records, error) {
	dbTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return ledger.Records{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var recs ledger.Records

	if recs.Accounts, err = queryAll(ctx, dbTx, selectAccounts, scanAccount); err != nil {
		return ledger.Records{}, fmt.Errorf("listing accounts: %w", err)
	}

	if recs.Transactions, err = queryAll(ctx, dbTx, selectTransactions, scanTransaction); err != nil {
		return ledger.Records{}, fmt.Errorf("listing transactions: %w", err)
	}

	if recs.Bills, err = queryAll(ctx, dbTx, selectBills, scanBill); err != nil {
		return ledger.Records{}, fmt.Errorf("listing bills: %w", err)
	}

	return recs, nil
}

// withTx runs fn in a database transaction, committing only if fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(dbTx *sql.Tx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := fn(dbTx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// execOne runs a statement that must affect exactly one row.
func execOne(ctx context.Context, db execer, what string, id uuid.UUID, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w: %s", what, ledger.ErrRecordNotFound, id)
	}

	return nil
}

func setBalances(ctx context.Context, dbTx *sql.Tx, balances []account.Balance) error {
	query := `UPDATE accounts SET balance = $1, updated_at = NOW() WHERE id = $2`

	for _, b := range balances {
		if err := execOne(ctx, dbTx, "updating balance", b.AccountID, query, int64(b.Balance), b.AccountID); err != nil {
			return err
		}
	}

	return nil
}

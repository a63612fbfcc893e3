package ledger

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// AddTransaction records a transaction and moves its account's balance by
// the transaction amount.
func (l *Ledger) AddTransaction(ctx context.Context, p transaction.CreateParams) (transaction.Transaction, error) {
	txs, err := l.addTransactions(ctx, "add_transaction", []transaction.CreateParams{p})
	if err != nil {
		return transaction.Transaction{}, err
	}

	return txs[0], nil
}

// AddTransactions records a batch atomically: either every transaction is
// added or none is.
func (l *Ledger) AddTransactions(ctx context.Context, params []transaction.CreateParams) ([]transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	return l.addTransactions(ctx, "add_transactions", params)
}

func (l *Ledger) addTransactions(ctx context.Context, op string, params []transaction.CreateParams) ([]transaction.Transaction, error) {
	var created []transaction.Transaction

	err := l.mutate(ctx, op, recordKey{}, func(ctx context.Context, recs Records) (Records, error) {
		txs := make([]transaction.Transaction, 0, len(params))
		deltas := make(map[uuid.UUID]money.Amount)

		for _, p := range params {
			p, err := prepareTransaction(p)
			if err != nil {
				return recs, err
			}

			if indexAccount(recs.Accounts, p.AccountID) < 0 {
				return recs, fmt.Errorf("%w: %s", ErrAccountNotFound, p.AccountID)
			}

			txs = append(txs, transaction.New(p))

			deltas[p.AccountID] += p.Amount
			if !deltas[p.AccountID].InRange() {
				return recs, fmt.Errorf("%w: batch moves account %s by more than %s", ErrValidation, p.AccountID, money.Max)
			}
		}

		accounts, balances, err := applyDeltas(recs.Accounts, deltas)
		if err != nil {
			return recs, err
		}

		err = l.persist(ctx, op, func(ctx context.Context) error {
			return l.repo.CreateTransactions(ctx, txs, balances)
		})
		if err != nil {
			return recs, err
		}

		created = txs

		return Records{
			Accounts:     accounts,
			Transactions: slices.Concat(recs.Transactions, txs),
			Bills:        recs.Bills,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateTransaction replaces a transaction's fields. The old amount is
// reversed on the old account before the new amount is applied to the new
// account, so moving a transaction between accounts is a plain update.
func (l *Ledger) UpdateTransaction(ctx context.Context, id uuid.UUID, p transaction.CreateParams) (transaction.Transaction, error) {
	return l.EditTransaction(ctx, id, func(transaction.CreateParams) transaction.CreateParams { return p })
}

// EditTransaction is UpdateTransaction for partial changes. edit receives the
// transaction's fields as they are when the change is applied and returns the
// fields to store.
func (l *Ledger) EditTransaction(ctx context.Context, id uuid.UUID, edit func(transaction.CreateParams) transaction.CreateParams) (transaction.Transaction, error) {
	var updated transaction.Transaction

	err := l.mutate(ctx, "update_transaction", transactionKey(id), func(ctx context.Context, recs Records) (Records, error) {
		idx := indexTransaction(recs.Transactions, id)
		if idx < 0 {
			return recs, fmt.Errorf("%w: transaction %s", ErrRecordNotFound, id)
		}

		old := recs.Transactions[idx]

		p, err := prepareTransaction(edit(old.Params()))
		if err != nil {
			return recs, err
		}

		if indexAccount(recs.Accounts, p.AccountID) < 0 {
			return recs, fmt.Errorf("%w: %s", ErrAccountNotFound, p.AccountID)
		}

		next := old.Apply(p)

		deltas := map[uuid.UUID]money.Amount{old.AccountID: -old.Amount}
		deltas[next.AccountID] += next.Amount

		accounts, balances, err := applyDeltas(recs.Accounts, deltas)
		if err != nil {
			return recs, err
		}

		err = l.persist(ctx, "update_transaction", func(ctx context.Context) error {
			return l.repo.UpdateTransaction(ctx, next, balances)
		})
		if err != nil {
			return recs, err
		}

		txs := slices.Clone(recs.Transactions)
		txs[idx] = next
		updated = next

		return Records{Accounts: accounts, Transactions: txs, Bills: recs.Bills}, nil
	})
	if err != nil {
		return transaction.Transaction{}, err
	}

	return updated, nil
}

// DeleteTransaction removes a transaction and reverses its amount on its
// account.
func (l *Ledger) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return l.mutate(ctx, "delete_transaction", transactionKey(id), func(ctx context.Context, recs Records) (Records, error) {
		idx := indexTransaction(recs.Transactions, id)
		if idx < 0 {
			return recs, fmt.Errorf("%w: transaction %s", ErrRecordNotFound, id)
		}

		old := recs.Transactions[idx]
		accounts, balances, err := applyDeltas(recs.Accounts, map[uuid.UUID]money.Amount{old.AccountID: -old.Amount})
		if err != nil {
			return recs, err
		}

		err = l.persist(ctx, "delete_transaction", func(ctx context.Context) error {
			return l.repo.DeleteTransaction(ctx, id, balances)
		})
		if err != nil {
			return recs, err
		}

		txs := slices.Delete(slices.Clone(recs.Transactions), idx, idx+1)

		return Records{Accounts: accounts, Transactions: txs, Bills: recs.Bills}, nil
	})
}

func prepareTransaction(p transaction.CreateParams) (transaction.CreateParams, error) {
	if p.Date.IsZero() {
		return p, fmt.Errorf("%w: transaction date is required", ErrValidation)
	}

	if !p.Amount.InRange() {
		return p, fmt.Errorf("%w: %w", ErrValidation, money.ErrOutOfRange)
	}

	if p.Category == "" {
		p.Category = transaction.DefaultCategory(p.Amount)
	}

	if !p.Category.Valid() {
		return p, fmt.Errorf("%w: unknown category %q", ErrValidation, p.Category)
	}

	return p, nil
}

// applyDeltas returns a copy of accounts with the deltas added to their
// balances, and the resulting balances of every touched account in account
// order. Deltas are at most 2*Max in magnitude, so the sum cannot wrap before
// it is checked against Max.
func applyDeltas(accounts []account.Account, deltas map[uuid.UUID]money.Amount) ([]account.Account, []account.Balance, error) {
	out := slices.Clone(accounts)

	var balances []account.Balance

	for i := range out {
		d, ok := deltas[out[i].ID]
		if !ok {
			continue
		}

		out[i].Balance += d
		if !out[i].Balance.InRange() {
			return nil, nil, fmt.Errorf("%w: balance of account %s would leave ±%s", ErrValidation, out[i].ID, money.Max)
		}

		balances = append(balances, account.Balance{AccountID: out[i].ID, Balance: out[i].Balance})
	}

	return out, balances, nil
}

func indexAccount(accounts []account.Account, id uuid.UUID) int {
	return slices.IndexFunc(accounts, func(a account.Account) bool { return a.ID == id })
}

func indexTransaction(txs []transaction.Transaction, id uuid.UUID) int {
	return slices.IndexFunc(txs, func(t transaction.Transaction) bool { return t.ID == id })
}

// Package ledgertest provides an in-memory Repository and a deterministic
// fixture builder for tests.
package ledgertest

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// Memory is an in-memory ledger.Repository. Hook, when set, runs before
// every write; returning an error fails the write without changing state.
type Memory struct {
	mu   sync.Mutex
	recs ledger.Records

	Hook func(ctx context.Context, op string) error
}

var _ ledger.Repository = (*Memory)(nil)

func NewMemory(recs ledger.Records) *Memory {
	return &Memory{recs: clone(recs)}
}

func clone(r ledger.Records) ledger.Records {
	return ledger.Records{
		Accounts:     slices.Clone(r.Accounts),
		Transactions: slices.Clone(r.Transactions),
		Bills:        slices.Clone(r.Bills),
	}
}

// Records returns a copy of the stored records.
func (m *Memory) Records() ledger.Records {
	m.mu.Lock()
	defer m.mu.Unlock()

	return clone(m.recs)
}

func (m *Memory) write(ctx context.Context, op string, fn func() error) error {
	if m.Hook != nil {
		if err := m.Hook(ctx, op); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return fn()
}

func (m *Memory) FetchAll(ctx context.Context) (ledger.Records, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Records{}, err
	}

	return m.Records(), nil
}

func (m *Memory) CreateAccount(ctx context.Context, a account.Account) error {
	return m.write(ctx, "create_account", func() error {
		m.recs.Accounts = append(m.recs.Accounts, a)
		return nil
	})
}

func (m *Memory) UpdateAccount(ctx context.Context, a account.Account) error {
	return m.write(ctx, "update_account", func() error {
		i := slices.IndexFunc(m.recs.Accounts, func(x account.Account) bool { return x.ID == a.ID })
		if i < 0 {
			return notFound("account", a.ID)
		}

		m.recs.Accounts[i] = a

		return nil
	})
}

func (m *Memory) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return m.write(ctx, "delete_account", func() error {
		i := slices.IndexFunc(m.recs.Accounts, func(x account.Account) bool { return x.ID == id })
		if i < 0 {
			return notFound("account", id)
		}

		m.recs.Accounts = slices.Delete(m.recs.Accounts, i, i+1)

		return nil
	})
}

func (m *Memory) CreateTransactions(ctx context.Context, txs []transaction.Transaction, balances []account.Balance) error {
	return m.write(ctx, "create_transactions", func() error {
		if err := m.setBalances(balances); err != nil {
			return err
		}

		m.recs.Transactions = append(m.recs.Transactions, txs...)

		return nil
	})
}

func (m *Memory) UpdateTransaction(ctx context.Context, tx transaction.Transaction, balances []account.Balance) error {
	return m.write(ctx, "update_transaction", func() error {
		i := slices.IndexFunc(m.recs.Transactions, func(x transaction.Transaction) bool { return x.ID == tx.ID })
		if i < 0 {
			return notFound("transaction", tx.ID)
		}

		if err := m.setBalances(balances); err != nil {
			return err
		}

		m.recs.Transactions[i] = tx

		return nil
	})
}

func (m *Memory) DeleteTransaction(ctx context.Context, id uuid.UUID, balances []account.Balance) error {
	return m.write(ctx, "delete_transaction", func() error {
		i := slices.IndexFunc(m.recs.Transactions, func(x transaction.Transaction) bool { return x.ID == id })
		if i < 0 {
			return notFound("transaction", id)
		}

		if err := m.setBalances(balances); err != nil {
			return err
		}

		m.recs.Transactions = slices.Delete(m.recs.Transactions, i, i+1)

		return nil
	})
}

func (m *Memory) CreateBill(ctx context.Context, b bill.Bill) error {
	return m.write(ctx, "create_bill", func() error {
		m.recs.Bills = append(m.recs.Bills, b)
		return nil
	})
}

func (m *Memory) UpdateBill(ctx context.Context, b bill.Bill) error {
	return m.write(ctx, "update_bill", func() error {
		return m.replaceBill(b)
	})
}

func (m *Memory) DeleteBill(ctx context.Context, id uuid.UUID) error {
	return m.write(ctx, "delete_bill", func() error {
		i := slices.IndexFunc(m.recs.Bills, func(x bill.Bill) bool { return x.ID == id })
		if i < 0 {
			return notFound("bill", id)
		}

		m.recs.Bills = slices.Delete(m.recs.Bills, i, i+1)

		return nil
	})
}

func (m *Memory) PayBill(ctx context.Context, paid bill.Bill, next *bill.Bill) error {
	return m.write(ctx, "pay_bill", func() error {
		if err := m.replaceBill(paid); err != nil {
			return err
		}

		if next != nil {
			m.recs.Bills = append(m.recs.Bills, *next)
		}

		return nil
	})
}

func (m *Memory) replaceBill(b bill.Bill) error {
	i := slices.IndexFunc(m.recs.Bills, func(x bill.Bill) bool { return x.ID == b.ID })
	if i < 0 {
		return notFound("bill", b.ID)
	}

	m.recs.Bills[i] = b

	return nil
}

// setBalances checks every account before touching any so a failed write
// leaves balances unchanged.
func (m *Memory) setBalances(balances []account.Balance) error {
	idx := make([]int, len(balances))

	for n, b := range balances {
		i := slices.IndexFunc(m.recs.Accounts, func(x account.Account) bool { return x.ID == b.AccountID })
		if i < 0 {
			return notFound("account", b.AccountID)
		}

		idx[n] = i
	}

	for n, b := range balances {
		m.recs.Accounts[idx[n]].Balance = b.Balance
	}

	return nil
}

func notFound(kind string, id uuid.UUID) error {
	return fmt.Errorf("%w: %s %s", ledger.ErrRecordNotFound, kind, id)
}

package ledgertest

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var namespace = uuid.MustParse("5b7e4c1e-9f0a-4a8e-a7c1-3f0a2f6d9b10")

// Fixture builds a record set relative to a fixed as-of instant. IDs are
// derived from insertion order, so the same calls always yield the same
// records.
type Fixture struct {
	AsOf time.Time
	recs ledger.Records
	seq  int
}

func NewFixture(asOf time.Time) *Fixture {
	return &Fixture{AsOf: asOf}
}

// Clock returns a clock frozen at t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func (f *Fixture) id(kind string) uuid.UUID {
	f.seq++
	return uuid.NewSHA1(namespace, fmt.Appendf(nil, "%s-%d", kind, f.seq))
}

// Day returns midnight of the as-of day shifted by offset days.
func (f *Fixture) Day(offset int) time.Time {
	y, m, d := f.AsOf.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, f.AsOf.Location())
}

func (f *Fixture) Account(name string, kind account.Kind, opening money.Amount) account.Account {
	a := account.Account{
		ID:             f.id("account"),
		Name:           name,
		Kind:           kind,
		Balance:        opening,
		OpeningBalance: opening,
		Active:         true,
	}

	f.recs.Accounts = append(f.recs.Accounts, a)

	return a
}

// Transaction adds a transaction dated offset days from the as-of day and
// moves the account balance accordingly.
func (f *Fixture) Transaction(a account.Account, offset int, amount money.Amount, cat transaction.Category, desc string) transaction.Transaction {
	tx := transaction.Transaction{
		ID:          f.id("transaction"),
		Date:        f.Day(offset),
		Amount:      amount,
		Description: desc,
		Category:    cat,
		AccountID:   a.ID,
	}

	f.recs.Transactions = append(f.recs.Transactions, tx)

	for i := range f.recs.Accounts {
		if f.recs.Accounts[i].ID == a.ID {
			f.recs.Accounts[i].Balance += amount
		}
	}

	return tx
}

func (f *Fixture) Bill(name string, amount money.Amount, dueOffset int, paid, recurring bool) bill.Bill {
	b := bill.Bill{
		ID:        f.id("bill"),
		Name:      name,
		Amount:    amount,
		DueDate:   f.Day(dueOffset),
		Paid:      paid,
		Recurring: recurring,
		Frequency: bill.FrequencyMonthly,
	}

	f.recs.Bills = append(f.recs.Bills, b)

	return b
}

func (f *Fixture) Records() ledger.Records {
	return clone(f.recs)
}

func (f *Fixture) Repository() *Memory {
	return NewMemory(f.recs)
}

// Household is a small, fully populated record set: three accounts, a
// month of activity and a handful of bills around the as-of day.
func Household(asOf time.Time) *Fixture {
	f := NewFixture(asOf)

	checking := f.Account("Checking", account.KindChecking, 254367)
	savings := f.Account("Savings", account.KindSavings, 1575042)
	card := f.Account("Credit Card", account.KindCredit, -125030)

	f.Transaction(checking, -14, 420000, transaction.CategoryIncome, "Salary")
	f.Transaction(checking, -13, -150000, transaction.CategoryHousing, "Rent")
	f.Transaction(card, -2, -495, transaction.CategoryFood, "Starbucks")
	f.Transaction(card, -1, -2999, transaction.CategoryShopping, "Amazon")
	f.Transaction(card, 0, -1499, transaction.CategoryEntertainment, "Netflix")
	f.Transaction(savings, -10, 50000, transaction.CategoryIncome, "Transfer")

	f.Bill("Internet", 6500, -5, false, true)
	f.Bill("Electricity", 9000, 3, false, true)
	f.Bill("Gym", 3000, -10, true, true)
	f.Bill("Insurance", 45000, 45, false, false)

	return f
}

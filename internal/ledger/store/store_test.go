package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/database"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/ledger/store"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// newStore connects to FINBOARD_TEST_DATABASE_URL, migrates it and empties
// the ledger tables. Tests are skipped when the variable is unset.
func newStore(t *testing.T) *store.Store {
	t.Helper()

	url := os.Getenv("FINBOARD_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FINBOARD_TEST_DATABASE_URL not set")
	}

	require.NoError(t, database.Migrate(url))

	db, err := database.New(url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`TRUNCATE transactions, bills, accounts`)
	require.NoError(t, err)

	return store.New(db)
}

func TestStore_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	acc := account.New(account.CreateParams{Name: "Checking", Kind: account.KindChecking, OpeningBalance: 50000})
	require.NoError(t, s.CreateAccount(ctx, acc))

	tx := transaction.New(transaction.CreateParams{
		AccountID: acc.ID,
		Date:      day,
		Amount:    -8542,
		Category:  transaction.CategoryFood,
	})
	require.NoError(t, s.CreateTransactions(ctx, []transaction.Transaction{tx}, []account.Balance{{AccountID: acc.ID, Balance: 41458}}))

	tx.Amount = -4500
	require.NoError(t, s.UpdateTransaction(ctx, tx, []account.Balance{{AccountID: acc.ID, Balance: 45500}}))

	rent := bill.New(bill.CreateParams{Name: "Rent", Amount: 150000, DueDate: day, Recurring: true})
	require.NoError(t, s.CreateBill(ctx, rent))

	next, err := rent.Next()
	require.NoError(t, err)

	rent.Paid = true
	require.NoError(t, s.PayBill(ctx, rent, &next))

	recs, err := s.FetchAll(ctx)
	require.NoError(t, err)

	require.Len(t, recs.Accounts, 1)
	assert.EqualValues(t, 45500, recs.Accounts[0].Balance)
	assert.EqualValues(t, 50000, recs.Accounts[0].OpeningBalance)

	require.Len(t, recs.Transactions, 1)
	assert.EqualValues(t, -4500, recs.Transactions[0].Amount)
	assert.Equal(t, transaction.CategoryFood, recs.Transactions[0].Category)
	assert.True(t, day.Equal(recs.Transactions[0].Date))

	require.Len(t, recs.Bills, 2)
	assert.True(t, recs.Bills[0].Paid)
	assert.Equal(t, next.ID, recs.Bills[1].ID)
	assert.NoError(t, ledger.CheckBalances(ledger.Snapshot{Accounts: recs.Accounts, Transactions: recs.Transactions}))

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID, []account.Balance{{AccountID: acc.ID, Balance: 50000}}))
	require.NoError(t, s.DeleteAccount(ctx, acc.ID))
}

func TestStore_MissingRecords(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.DeleteBill(ctx, uuid.New()), ledger.ErrRecordNotFound)
	assert.ErrorIs(t, s.DeleteAccount(ctx, uuid.New()), ledger.ErrRecordNotFound)
	assert.ErrorIs(t, s.UpdateAccount(ctx, account.Account{ID: uuid.New(), Kind: account.KindChecking}), ledger.ErrRecordNotFound)
	assert.ErrorIs(t, s.DeleteTransaction(ctx, uuid.New(), nil), ledger.ErrRecordNotFound)
}

func TestStore_FailedBatchRollsBack(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	acc := account.New(account.CreateParams{Name: "Checking", Kind: account.KindChecking})
	require.NoError(t, s.CreateAccount(ctx, acc))

	tx := transaction.New(transaction.CreateParams{AccountID: acc.ID, Date: time.Now(), Amount: 100, Category: transaction.CategoryIncome})

	// the second balance references an unknown account
	err := s.CreateTransactions(ctx, []transaction.Transaction{tx}, []account.Balance{
		{AccountID: acc.ID, Balance: 100},
		{AccountID: uuid.New(), Balance: 1},
	})
	require.ErrorIs(t, err, ledger.ErrRecordNotFound)

	recs, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs.Transactions)
	assert.Zero(t, recs.Accounts[0].Balance)
}

package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/ledger/ledgertest"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func receive(t *testing.T, ch <-chan ledger.Snapshot) ledger.Snapshot {
	t.Helper()

	select {
	case s, ok := <-ch:
		require.True(t, ok, "channel closed")
		return s
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
		return ledger.Snapshot{}
	}
}

func TestSubscribe(t *testing.T) {
	f := ledgertest.NewFixture(asOf)
	acc := f.Account("Checking", account.KindChecking, 0)
	l := newLedger(t, f.Repository())

	ch, unsubscribe := l.Subscribe()
	defer unsubscribe()

	initial := receive(t, ch)
	assert.Equal(t, l.Snapshot().Version, initial.Version)

	_, err := l.AddTransaction(context.Background(), transaction.CreateParams{AccountID: acc.ID, Date: asOf, Amount: 100})
	require.NoError(t, err)

	next := receive(t, ch)
	assert.Equal(t, initial.Version+1, next.Version)
	assert.Len(t, next.Transactions, 1)
}

func TestSubscribe_SlowSubscriberGetsLatest(t *testing.T) {
	f := ledgertest.NewFixture(asOf)
	acc := f.Account("Checking", account.KindChecking, 0)
	l := newLedger(t, f.Repository())

	ch, unsubscribe := l.Subscribe()
	defer unsubscribe()

	for range 5 {
		_, err := l.AddTransaction(context.Background(), transaction.CreateParams{AccountID: acc.ID, Date: asOf, Amount: 100})
		require.NoError(t, err)
	}

	latest := receive(t, ch)
	assert.Equal(t, l.Snapshot().Version, latest.Version)
	assert.Len(t, latest.Transactions, 5)

	select {
	case s := <-ch:
		t.Fatalf("unexpected snapshot %d", s.Version)
	default:
	}
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	l := newLedger(t, ledgertest.NewMemory(ledger.Records{}))

	ch, unsubscribe := l.Subscribe()
	receive(t, ch)

	unsubscribe()
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok)

	l.Refresh()
}

func TestRefresh_PublishesWithoutChangingRecords(t *testing.T) {
	f := ledgertest.Household(asOf)
	l := newLedger(t, f.Repository())

	before := l.Snapshot()
	l.Refresh()
	after := l.Snapshot()

	assert.Equal(t, before.Version+1, after.Version)
	assert.Equal(t, before.Transactions, after.Transactions)
	assert.Equal(t, before.Dashboard, after.Dashboard)
}

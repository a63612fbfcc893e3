package dashboard_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var asOf = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func tx(date time.Time, amount money.Amount, cat transaction.Category) transaction.Transaction {
	return transaction.Transaction{
		ID:       uuid.New(),
		Date:     date,
		Amount:   amount,
		Category: cat,
	}
}

func TestMonthly(t *testing.T) {
	tests := []struct {
		name string
		txs  []transaction.Transaction
		want dashboard.MonthlyTotals
	}{
		{
			name: "last month excluded",
			txs: []transaction.Transaction{
				tx(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), 200000, transaction.CategoryIncome),
				tx(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), -30000, transaction.CategoryHousing),
				tx(time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), -5000, transaction.CategoryFood),
			},
			want: dashboard.MonthlyTotals{Income: 200000, Expenses: 30000, CashFlow: 170000},
		},
		{
			name: "month boundaries inclusive",
			txs: []transaction.Transaction{
				tx(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 100, transaction.CategoryIncome),
				tx(asOf, -40, transaction.CategoryFood),
				tx(asOf.Add(time.Second), -1000, transaction.CategoryFood),
				tx(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), 1000, transaction.CategoryIncome),
			},
			want: dashboard.MonthlyTotals{Income: 100, Expenses: 40, CashFlow: 60},
		},
		{
			name: "zero amounts ignored",
			txs: []transaction.Transaction{
				tx(asOf, 0, transaction.CategoryOther),
			},
			want: dashboard.MonthlyTotals{},
		},
		{
			name: "negative cash flow",
			txs: []transaction.Transaction{
				tx(asOf, 1000, transaction.CategoryIncome),
				tx(asOf, -2500, transaction.CategoryTravel),
			},
			want: dashboard.MonthlyTotals{Income: 1000, Expenses: 2500, CashFlow: -1500},
		},
		{
			name: "empty",
			want: dashboard.MonthlyTotals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dashboard.Monthly(tt.txs, asOf))
		})
	}
}

func TestMonthly_Idempotent(t *testing.T) {
	txs := []transaction.Transaction{
		tx(asOf, 123, transaction.CategoryIncome),
		tx(asOf, -45, transaction.CategoryFood),
	}

	assert.Equal(t, dashboard.Monthly(txs, asOf), dashboard.Monthly(txs, asOf))
}

func TestMonthly_CashFlowIsExact(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for range 50 {
		var txs []transaction.Transaction
		for range r.IntN(40) {
			day := 1 + r.IntN(15)
			amount := money.Amount(r.Int64N(2_000_000) - 1_000_000)
			txs = append(txs, tx(time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC), amount, transaction.CategoryOther))
		}

		m := dashboard.Monthly(txs, asOf)
		assert.Equal(t, m.CashFlow, m.Income-m.Expenses)
	}
}

func TestSpendByCategory_SumsOutflows(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	cats := transaction.Categories()

	var txs []transaction.Transaction
	var outflows money.Amount

	for range 200 {
		date := time.Date(2024, 2+time.Month(r.IntN(2)), 1+r.IntN(28), 0, 0, 0, 0, time.UTC)
		amount := money.Amount(r.Int64N(100_000) - 50_000)
		txs = append(txs, tx(date, amount, cats[r.IntN(len(cats))]))

		if amount < 0 && !date.Before(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) && !date.After(asOf) {
			outflows += amount.Abs()
		}
	}

	var sum money.Amount
	for _, v := range dashboard.SpendByCategory(txs, asOf) {
		sum += v
	}

	assert.Equal(t, outflows, sum)
}

func TestBreakdown(t *testing.T) {
	spend := map[transaction.Category]money.Amount{
		transaction.CategoryShopping: 2500,
		transaction.CategoryHousing:  5000,
		transaction.CategoryFood:     2500,
	}

	got := dashboard.Breakdown(spend)
	require.Len(t, got, 3)

	assert.Equal(t, transaction.CategoryHousing, got[0].Category)
	assert.InDelta(t, 50.0, got[0].Percentage, 1e-9)
	// equal amounts fall back to declaration order
	assert.Equal(t, transaction.CategoryFood, got[1].Category)
	assert.Equal(t, transaction.CategoryShopping, got[2].Category)
	assert.InDelta(t, 25.0, got[2].Percentage, 1e-9)
}

func TestBreakdown_ZeroTotal(t *testing.T) {
	got := dashboard.Breakdown(map[transaction.Category]money.Amount{transaction.CategoryFood: 0})
	require.Len(t, got, 1)
	assert.Zero(t, got[0].Percentage)

	assert.Empty(t, dashboard.Breakdown(nil))
}

func TestNetWorth(t *testing.T) {
	accounts := []account.Account{
		{Balance: 1575042},
		{Balance: -250000},
		{Balance: 0, Active: false},
	}

	assert.Equal(t, money.Amount(1325042), dashboard.NetWorth(accounts))
}

func TestRecent(t *testing.T) {
	var txs []transaction.Transaction
	for i := range 8 {
		txs = append(txs, tx(time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC), money.Amount(i), transaction.CategoryOther))
	}

	got := dashboard.Recent(txs, dashboard.RecentLimit)
	require.Len(t, got, 5)

	for i, r := range got {
		assert.Equal(t, money.Amount(7-i), r.Amount)
	}

	assert.Equal(t, money.Amount(0), txs[0].Amount, "input must not be reordered")
}

func TestSchedule(t *testing.T) {
	monthly := []bill.MonthlyBill{
		{Name: "rent", DueDate: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		{Name: "gym", DueDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)},
		{Name: "water", DueDate: time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)},
		{Name: "april", DueDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	}

	got := dashboard.Schedule(monthly, asOf)
	require.Len(t, got, 2)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got[0].Date)
	require.Len(t, got[0].Bills, 2)
	assert.Equal(t, "rent", got[0].Bills[0].Name)
	assert.Equal(t, "water", got[0].Bills[1].Name)

	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), got[1].Date)
}

package dashboard_test

import (
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

func TestCompute(t *testing.T) {
	checking := uuid.New()

	in := dashboard.Input{
		Accounts: []account.Account{
			{ID: checking, Name: "Checking", Kind: account.KindChecking, Balance: 350000, Active: true},
			{ID: uuid.New(), Name: "Card", Kind: account.KindCredit, Balance: -45000, Active: true},
		},
		Transactions: []transaction.Transaction{
			tx(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 400000, transaction.CategoryIncome),
			tx(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), -150000, transaction.CategoryHousing),
			tx(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), -40000, transaction.CategoryShopping),
			tx(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), -10000, transaction.CategoryFood),
			tx(time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC), -99999, transaction.CategoryTravel),
		},
		Bills: []bill.Bill{
			{ID: uuid.New(), Name: "Rent", Amount: 150000, DueDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), Name: "Internet", Amount: 6500, DueDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), Name: "Gym", Amount: 3000, DueDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Paid: true},
		},
		AsOf:   asOf,
		Window: bill.DefaultWindow,
	}

	d := dashboard.Compute(in)

	assert.Equal(t, asOf, d.AsOf)
	assert.Equal(t, money.Amount(305000), d.NetWorth)
	assert.Equal(t, dashboard.MonthlyTotals{Income: 400000, Expenses: 200000, CashFlow: 200000}, d.Monthly)

	require.Len(t, d.SpendByCategory, 3)
	assert.Equal(t, transaction.CategoryHousing, d.SpendByCategory[0].Category)
	assert.InDelta(t, 75.0, d.SpendByCategory[0].Percentage, 1e-9)

	assert.Equal(t, money.Amount(200000), d.Insight.Savings)
	assert.InDelta(t, 40.0, d.Insight.NeedsPercentage, 1e-9)
	assert.InDelta(t, 10.0, d.Insight.WantsPercentage, 1e-9)
	assert.InDelta(t, 50.0, d.Insight.GoalsPercentage, 1e-9)

	require.Len(t, d.Upcoming, 1)
	assert.Equal(t, "Rent", d.Upcoming[0].Name)

	require.Len(t, d.MonthlyBills, 3)
	assert.Equal(t, bill.StatusPaid, d.MonthlyBills[0].Status)
	assert.Equal(t, bill.StatusLate, d.MonthlyBills[1].Status)
	assert.Equal(t, 5, d.MonthlyBills[1].DaysPastDue)
	assert.Equal(t, bill.StatusScheduled, d.MonthlyBills[2].Status)

	require.Len(t, d.Recent, 5)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), d.Recent[0].Date)
}

func TestInsight(t *testing.T) {
	tests := []struct {
		name    string
		monthly dashboard.MonthlyTotals
		spend   map[transaction.Category]money.Amount
		want    dashboard.BudgetInsight
	}{
		{
			name:    "no income",
			monthly: dashboard.MonthlyTotals{Expenses: 5000, CashFlow: -5000},
			spend:   map[transaction.Category]money.Amount{transaction.CategoryFood: 5000},
			want: dashboard.BudgetInsight{
				Expenses:    5000,
				NeedsTarget: 50,
				WantsTarget: 30,
				GoalsTarget: 20,
			},
		},
		{
			name:    "split",
			monthly: dashboard.MonthlyTotals{Income: 10000, Expenses: 8000, CashFlow: 2000},
			spend: map[transaction.Category]money.Amount{
				transaction.CategoryUtilities: 5000,
				transaction.CategoryOther:     3000,
			},
			want: dashboard.BudgetInsight{
				Income:          10000,
				Expenses:        8000,
				Savings:         2000,
				NeedsPercentage: 50,
				NeedsTarget:     50,
				WantsPercentage: 30,
				WantsTarget:     30,
				GoalsPercentage: 20,
				GoalsTarget:     20,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dashboard.Insight(tt.monthly, tt.spend))
		})
	}
}

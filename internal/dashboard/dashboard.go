// Package dashboard derives the read-models shown on the dashboard from a set
// of accounts, transactions and bills. Every function is pure: the same
// records and as-of instant always produce the same result.
package dashboard

import (
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// RecentLimit is the number of transactions kept in Dashboard.Recent.
const RecentLimit = 5

type MonthlyTotals struct {
	Income   money.Amount
	Expenses money.Amount
	CashFlow money.Amount
}

type BudgetCategory struct {
	Category   transaction.Category
	Amount     money.Amount
	Percentage float64
}

// PaymentDate groups the bills falling on one calendar day.
type PaymentDate struct {
	Date  time.Time
	Bills []bill.MonthlyBill
}

type Dashboard struct {
	AsOf            time.Time
	NetWorth        money.Amount
	Monthly         MonthlyTotals
	SpendByCategory []BudgetCategory
	Insight         BudgetInsight
	Upcoming        []bill.Bill
	MonthlyBills    []bill.MonthlyBill
	Recent          []transaction.Transaction
}

type Input struct {
	Accounts     []account.Account
	Transactions []transaction.Transaction
	Bills        []bill.Bill
	AsOf         time.Time
	Window       int
}

// Compute derives the full dashboard for the input records.
func Compute(in Input) Dashboard {
	monthly := Monthly(in.Transactions, in.AsOf)
	spend := SpendByCategory(in.Transactions, in.AsOf)

	return Dashboard{
		AsOf:            in.AsOf,
		NetWorth:        NetWorth(in.Accounts),
		Monthly:         monthly,
		SpendByCategory: Breakdown(spend),
		Insight:         Insight(monthly, spend),
		Upcoming:        bill.Upcoming(in.Bills, in.AsOf, in.Window),
		MonthlyBills:    bill.MonthlyBills(in.Bills, in.AsOf, in.Window),
		Recent:          Recent(in.Transactions, RecentLimit),
	}
}

package dashboard

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/calendar"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// inMonth reports whether t falls within [start of asOf's month, asOf].
func inMonth(t, asOf time.Time) bool {
	return !t.Before(calendar.StartOfMonth(asOf)) && !t.After(asOf)
}

// NetWorth is the sum of all account balances.
func NetWorth(accounts []account.Account) money.Amount {
	var total money.Amount
	for _, a := range accounts {
		total += a.Balance
	}

	return total
}

// Monthly totals the month-to-date transactions as of asOf. Zero amounts
// count as neither income nor expense.
func Monthly(txs []transaction.Transaction, asOf time.Time) MonthlyTotals {
	var m MonthlyTotals

	for _, tx := range txs {
		if !inMonth(tx.Date, asOf) {
			continue
		}

		switch {
		case tx.Amount > 0:
			m.Income += tx.Amount
		case tx.Amount < 0:
			m.Expenses -= tx.Amount
		}
	}

	m.CashFlow = m.Income - m.Expenses

	return m
}

// SpendByCategory sums the absolute value of month-to-date outflows per
// category. Categories without outflows are absent.
func SpendByCategory(txs []transaction.Transaction, asOf time.Time) map[transaction.Category]money.Amount {
	spend := make(map[transaction.Category]money.Amount)

	for _, tx := range txs {
		if tx.Amount >= 0 || !inMonth(tx.Date, asOf) {
			continue
		}

		spend[tx.Category] += tx.Amount.Abs()
	}

	return spend
}

// Breakdown orders category spend by descending amount, breaking ties by
// category declaration order, and attaches each category's share of the total.
func Breakdown(spend map[transaction.Category]money.Amount) []BudgetCategory {
	var total money.Amount
	for _, v := range spend {
		total += v
	}

	out := make([]BudgetCategory, 0, len(spend))
	for _, c := range slices.Collect(maps.Keys(spend)) {
		out = append(out, BudgetCategory{
			Category:   c,
			Amount:     spend[c],
			Percentage: spend[c].Percent(total),
		})
	}

	slices.SortFunc(out, func(a, b BudgetCategory) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}

		if c := cmp.Compare(a.Category.Order(), b.Category.Order()); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return out
}

// Recent returns up to n transactions, newest first. Transactions sharing a
// date keep their input order.
func Recent(txs []transaction.Transaction, n int) []transaction.Transaction {
	out := slices.Clone(txs)

	slices.SortStableFunc(out, func(a, b transaction.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	if len(out) > n {
		out = out[:n]
	}

	return out
}

// Schedule groups the monthly bills due in month's calendar month by due day,
// in ascending day order.
func Schedule(monthly []bill.MonthlyBill, month time.Time) []PaymentDate {
	byDay := make(map[time.Time][]bill.MonthlyBill)

	for _, mb := range monthly {
		due := mb.DueDate.In(month.Location())
		if !calendar.SameMonth(due, month) {
			continue
		}

		day := calendar.StartOfDay(due)
		byDay[day] = append(byDay[day], mb)
	}

	days := slices.SortedFunc(maps.Keys(byDay), time.Time.Compare)

	out := make([]PaymentDate, 0, len(days))
	for _, d := range days {
		out = append(out, PaymentDate{Date: d, Bills: byDay[d]})
	}

	return out
}

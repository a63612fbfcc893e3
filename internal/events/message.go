package events

import (
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/money"
)

const (
	KeyDashboardUpdated = "dashboard.updated"
	KeyBillsLate        = "bills.late"
)

type DashboardUpdated struct {
	Version       uint64       `json:"version"`
	AsOf          time.Time    `json:"as_of"`
	NetWorth      money.Amount `json:"net_worth"`
	Income        money.Amount `json:"income"`
	Expenses      money.Amount `json:"expenses"`
	CashFlow      money.Amount `json:"cash_flow"`
	UpcomingBills int          `json:"upcoming_bills"`
	LateBills     int          `json:"late_bills"`
}

type LateBill struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	PastDue     money.Amount `json:"past_due"`
	DueDate     time.Time    `json:"due_date"`
	DaysPastDue int          `json:"days_past_due"`
}

type BillsLate struct {
	Version uint64     `json:"version"`
	Bills   []LateBill `json:"bills"`
}

func newDashboardUpdated(s ledger.Snapshot) DashboardUpdated {
	d := s.Dashboard

	return DashboardUpdated{
		Version:       s.Version,
		AsOf:          d.AsOf,
		NetWorth:      d.NetWorth,
		Income:        d.Monthly.Income,
		Expenses:      d.Monthly.Expenses,
		CashFlow:      d.Monthly.CashFlow,
		UpcomingBills: len(d.Upcoming),
		LateBills:     len(lateBills(s)),
	}
}

func lateBills(s ledger.Snapshot) []LateBill {
	var out []LateBill

	for _, mb := range s.Dashboard.MonthlyBills {
		if mb.Status != bill.StatusLate {
			continue
		}

		out = append(out, LateBill{
			ID:          mb.ID.String(),
			Name:        mb.Name,
			PastDue:     mb.PastDue,
			DueDate:     mb.DueDate,
			DaysPastDue: mb.DaysPastDue,
		})
	}

	return out
}

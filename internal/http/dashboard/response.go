package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type monthlyResponse struct {
	Income   money.Amount `json:"income"`
	Expenses money.Amount `json:"expenses"`
	CashFlow money.Amount `json:"cash_flow"`
}

type categoryResponse struct {
	Category   transaction.Category `json:"category"`
	Amount     money.Amount         `json:"amount"`
	Percentage float64              `json:"percentage"`
}

type insightResponse struct {
	Income          money.Amount `json:"income"`
	Expenses        money.Amount `json:"expenses"`
	Savings         money.Amount `json:"savings"`
	NeedsPercentage float64      `json:"needs_percentage"`
	NeedsTarget     float64      `json:"needs_target"`
	WantsPercentage float64      `json:"wants_percentage"`
	WantsTarget     float64      `json:"wants_target"`
	GoalsPercentage float64      `json:"goals_percentage"`
	GoalsTarget     float64      `json:"goals_target"`
}

type upcomingResponse struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Amount  money.Amount `json:"amount"`
	DueDate time.Time    `json:"due_date"`
}

type monthlyBillResponse struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	MonthlyAmount money.Amount `json:"monthly_amount"`
	PastDue       money.Amount `json:"past_due"`
	DueDate       time.Time    `json:"due_date"`
	Status        bill.Status  `json:"status"`
	Category      string       `json:"category,omitempty"`
	DaysPastDue   int          `json:"days_past_due"`
}

type recentResponse struct {
	ID          uuid.UUID            `json:"id"`
	AccountID   uuid.UUID            `json:"account_id"`
	Amount      money.Amount         `json:"amount"`
	Category    transaction.Category `json:"category"`
	Description string               `json:"description"`
	Date        time.Time            `json:"date"`
}

type dashboardResponse struct {
	Version         uint64                `json:"version,omitempty"`
	AsOf            time.Time             `json:"as_of"`
	NetWorth        money.Amount          `json:"net_worth"`
	Monthly         monthlyResponse       `json:"monthly"`
	SpendByCategory []categoryResponse    `json:"spend_by_category"`
	Insight         insightResponse       `json:"insight"`
	Upcoming        []upcomingResponse    `json:"upcoming"`
	MonthlyBills    []monthlyBillResponse `json:"monthly_bills"`
	Recent          []recentResponse      `json:"recent"`
}

type paymentDateResponse struct {
	Date  string                `json:"date"`
	Bills []monthlyBillResponse `json:"bills"`
}

func toMonthlyBill(mb bill.MonthlyBill) monthlyBillResponse {
	return monthlyBillResponse{
		ID:            mb.ID,
		Name:          mb.Name,
		MonthlyAmount: mb.MonthlyAmount,
		PastDue:       mb.PastDue,
		DueDate:       mb.DueDate,
		Status:        mb.Status,
		Category:      mb.Category,
		DaysPastDue:   mb.DaysPastDue,
	}
}

func toResponse(version uint64, d dashboard.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Version:  version,
		AsOf:     d.AsOf,
		NetWorth: d.NetWorth,
		Monthly: monthlyResponse{
			Income:   d.Monthly.Income,
			Expenses: d.Monthly.Expenses,
			CashFlow: d.Monthly.CashFlow,
		},
		Insight: insightResponse{
			Income:          d.Insight.Income,
			Expenses:        d.Insight.Expenses,
			Savings:         d.Insight.Savings,
			NeedsPercentage: d.Insight.NeedsPercentage,
			NeedsTarget:     d.Insight.NeedsTarget,
			WantsPercentage: d.Insight.WantsPercentage,
			WantsTarget:     d.Insight.WantsTarget,
			GoalsPercentage: d.Insight.GoalsPercentage,
			GoalsTarget:     d.Insight.GoalsTarget,
		},
		SpendByCategory: make([]categoryResponse, 0, len(d.SpendByCategory)),
		Upcoming:        make([]upcomingResponse, 0, len(d.Upcoming)),
		MonthlyBills:    make([]monthlyBillResponse, 0, len(d.MonthlyBills)),
		Recent:          make([]recentResponse, 0, len(d.Recent)),
	}

	for _, c := range d.SpendByCategory {
		resp.SpendByCategory = append(resp.SpendByCategory, categoryResponse{
			Category:   c.Category,
			Amount:     c.Amount,
			Percentage: c.Percentage,
		})
	}

	for _, b := range d.Upcoming {
		resp.Upcoming = append(resp.Upcoming, upcomingResponse{
			ID:      b.ID,
			Name:    b.Name,
			Amount:  b.Amount,
			DueDate: b.DueDate,
		})
	}

	for _, mb := range d.MonthlyBills {
		resp.MonthlyBills = append(resp.MonthlyBills, toMonthlyBill(mb))
	}

	for _, tx := range d.Recent {
		resp.Recent = append(resp.Recent, recentResponse{
			ID:          tx.ID,
			AccountID:   tx.AccountID,
			Amount:      tx.Amount,
			Category:    tx.Category,
			Description: tx.Description,
			Date:        tx.Date,
		})
	}

	return resp
}

func toSchedule(days []dashboard.PaymentDate) []paymentDateResponse {
	resp := make([]paymentDateResponse, 0, len(days))

	for _, d := range days {
		bills := make([]monthlyBillResponse, 0, len(d.Bills))
		for _, mb := range d.Bills {
			bills = append(bills, toMonthlyBill(mb))
		}

		resp = append(resp, paymentDateResponse{Date: d.Date.Format(time.DateOnly), Bills: bills})
	}

	return resp
}

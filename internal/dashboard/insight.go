package dashboard

import (
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const (
	NeedsTarget = 50.0
	WantsTarget = 30.0
	GoalsTarget = 20.0
)

var needs = map[transaction.Category]bool{
	transaction.CategoryHousing:        true,
	transaction.CategoryTransportation: true,
	transaction.CategoryFood:           true,
	transaction.CategoryUtilities:      true,
	transaction.CategoryHealthcare:     true,
	transaction.CategoryEducation:      true,
}

var wants = map[transaction.Category]bool{
	transaction.CategoryEntertainment: true,
	transaction.CategoryShopping:      true,
	transaction.CategoryPersonal:      true,
	transaction.CategoryTravel:        true,
	transaction.CategoryOther:         true,
}

// BudgetInsight compares month-to-date spending against the 50/30/20 rule.
// Percentages are shares of income; with no income they are all zero.
type BudgetInsight struct {
	Income          money.Amount
	Expenses        money.Amount
	Savings         money.Amount
	NeedsPercentage float64
	NeedsTarget     float64
	WantsPercentage float64
	WantsTarget     float64
	GoalsPercentage float64
	GoalsTarget     float64
}

func Insight(m MonthlyTotals, spend map[transaction.Category]money.Amount) BudgetInsight {
	var needsTotal, wantsTotal money.Amount

	for c, v := range spend {
		switch {
		case needs[c]:
			needsTotal += v
		case wants[c]:
			wantsTotal += v
		}
	}

	savings := max(m.CashFlow, 0)

	return BudgetInsight{
		Income:          m.Income,
		Expenses:        m.Expenses,
		Savings:         savings,
		NeedsPercentage: needsTotal.Percent(m.Income),
		NeedsTarget:     NeedsTarget,
		WantsPercentage: wantsTotal.Percent(m.Income),
		WantsTarget:     WantsTarget,
		GoalsPercentage: savings.Percent(m.Income),
		GoalsTarget:     GoalsTarget,
	}
}

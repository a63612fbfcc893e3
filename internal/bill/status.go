package bill

import (
	"slices"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/calendar"
	"github.com/MrJamesThe3rd/finboard/internal/money"
)

// Derivation is the result of deriving a bill's status on a given day.
type Derivation struct {
	Status      Status
	DaysPastDue int
	PastDue     money.Amount
}

// DeriveStatus computes the status of a bill as of asOf. Dates are compared as
// calendar days in asOf's location: a bill due on the as-of day is never late.
// window is the lookahead in days within which an unpaid bill is scheduled.
func DeriveStatus(dueDate time.Time, amount money.Amount, paid bool, asOf time.Time, window int) Derivation {
	if paid {
		return Derivation{Status: StatusPaid}
	}

	days := calendar.DaysBetween(dueDate, asOf)

	switch {
	case days > 0:
		return Derivation{Status: StatusLate, DaysPastDue: days, PastDue: amount}
	case -days <= window:
		return Derivation{Status: StatusScheduled}
	default:
		return Derivation{Status: StatusUnpaid}
	}
}

// Derive is DeriveStatus applied to b.
func (b Bill) Derive(asOf time.Time, window int) Derivation {
	return DeriveStatus(b.DueDate, b.Amount, b.Paid, asOf, window)
}

// ToMonthly converts a bill into its dashboard read-model as of asOf.
func ToMonthly(b Bill, asOf time.Time, window int) MonthlyBill {
	d := b.Derive(asOf, window)

	return MonthlyBill{
		ID:            b.ID,
		Name:          b.Name,
		MonthlyAmount: b.Amount,
		PastDue:       d.PastDue,
		DueDate:       b.DueDate,
		Status:        d.Status,
		Category:      b.Category,
		DaysPastDue:   d.DaysPastDue,
	}
}

// MonthlyBills converts every bill and orders the result by due date.
func MonthlyBills(bills []Bill, asOf time.Time, window int) []MonthlyBill {
	out := make([]MonthlyBill, 0, len(bills))
	for _, b := range bills {
		out = append(out, ToMonthly(b, asOf, window))
	}

	slices.SortStableFunc(out, func(a, b MonthlyBill) int {
		return a.DueDate.Compare(b.DueDate)
	})

	return out
}

// Upcoming returns the unpaid bills due between asOf and asOf+window days
// (inclusive, by calendar day), ordered by due date. Bills sharing a due date
// keep their input order.
func Upcoming(bills []Bill, asOf time.Time, window int) []Bill {
	var out []Bill

	for _, b := range bills {
		if b.Paid {
			continue
		}

		ahead := calendar.DaysBetween(asOf, b.DueDate.In(asOf.Location()))
		if ahead < 0 || ahead > window {
			continue
		}

		out = append(out, b)
	}

	slices.SortStableFunc(out, func(a, b Bill) int {
		return a.DueDate.Compare(b.DueDate)
	})

	return out
}

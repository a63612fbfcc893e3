package bill

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/money"
)

// DefaultWindow is the default lookahead window in days.
const DefaultWindow = 30

// Frequency is how often a recurring bill comes due.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	_, ok := advancers[f]
	return ok
}

// Status is the derived state of a bill on a given day.
type Status string

const (
	StatusPaid      Status = "paid"
	StatusUnpaid    Status = "unpaid"
	StatusScheduled Status = "scheduled"
	StatusLate      Status = "late"
)

// Bill is a canonical bill record.
type Bill struct {
	ID        uuid.UUID
	Name      string
	Amount    money.Amount
	DueDate   time.Time
	Paid      bool
	Recurring bool
	Frequency Frequency
	Category  string
}

type CreateParams struct {
	Name      string
	Amount    money.Amount
	DueDate   time.Time
	Recurring bool
	Frequency Frequency
	Category  string
}

func New(p CreateParams) Bill {
	freq := p.Frequency
	if freq == "" {
		freq = FrequencyMonthly
	}

	return Bill{
		ID:        uuid.New(),
		Name:      p.Name,
		Amount:    p.Amount,
		DueDate:   p.DueDate,
		Recurring: p.Recurring,
		Frequency: freq,
		Category:  p.Category,
	}
}

// MonthlyBill is the dashboard read-model of a bill. It is only ever produced
// by ToMonthly; Status and DaysPastDue are never set directly.
type MonthlyBill struct {
	ID            uuid.UUID
	Name          string
	MonthlyAmount money.Amount
	PastDue       money.Amount
	DueDate       time.Time
	Status        Status
	Category      string
	DaysPastDue   int
}

type UpdateParams struct {
	Name      string
	Amount    money.Amount
	DueDate   time.Time
	Paid      bool
	Recurring bool
	Frequency Frequency
	Category  string
}

// Apply returns a copy of b with the update applied. An empty frequency
// keeps the current one.
func (b Bill) Apply(p UpdateParams) Bill {
	b.Name = p.Name
	b.Amount = p.Amount
	b.DueDate = p.DueDate
	b.Paid = p.Paid
	b.Recurring = p.Recurring
	b.Category = p.Category

	if p.Frequency != "" {
		b.Frequency = p.Frequency
	}

	return b
}

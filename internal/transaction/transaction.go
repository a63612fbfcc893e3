package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/money"
)

// Category classifies a transaction. The set is closed; declaration order is
// used to break ties when ordering category summaries.
type Category string

const (
	CategoryHousing        Category = "housing"
	CategoryTransportation Category = "transportation"
	CategoryFood           Category = "food"
	CategoryUtilities      Category = "utilities"
	CategoryHealthcare     Category = "healthcare"
	CategoryEntertainment  Category = "entertainment"
	CategoryShopping       Category = "shopping"
	CategoryPersonal       Category = "personal"
	CategoryEducation      Category = "education"
	CategoryTravel         Category = "travel"
	CategoryIncome         Category = "income"
	CategoryOther          Category = "other"
)

var categories = []Category{
	CategoryHousing,
	CategoryTransportation,
	CategoryFood,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryEntertainment,
	CategoryShopping,
	CategoryPersonal,
	CategoryEducation,
	CategoryTravel,
	CategoryIncome,
	CategoryOther,
}

// Categories returns all categories in declaration order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Order returns the declaration index of the category, or len(Categories())
// for unknown values.
func (c Category) Order() int {
	for i, v := range categories {
		if v == c {
			return i
		}
	}

	return len(categories)
}

func (c Category) Valid() bool {
	return c.Order() < len(categories)
}

// Transaction is a signed movement on an account: positive amounts are
// inflows, negative amounts are outflows.
type Transaction struct {
	ID          uuid.UUID
	Date        time.Time
	Amount      money.Amount
	Description string
	Category    Category
	AccountID   uuid.UUID
	Recurring   bool
}

type CreateParams struct {
	AccountID   uuid.UUID
	Date        time.Time
	Amount      money.Amount
	Description string
	Category    Category
	Recurring   bool
}

// New builds an unsaved transaction with a fresh ID from params.
func New(p CreateParams) Transaction {
	return Transaction{
		ID:          uuid.New(),
		Date:        p.Date,
		Amount:      p.Amount,
		Description: p.Description,
		Category:    p.Category,
		AccountID:   p.AccountID,
		Recurring:   p.Recurring,
	}
}

// DefaultCategory is used when nothing better is known: inflows are income,
// everything else is other.
func DefaultCategory(amount money.Amount) Category {
	if amount > 0 {
		return CategoryIncome
	}

	return CategoryOther
}

// Params returns t's editable fields.
func (t Transaction) Params() CreateParams {
	return CreateParams{
		AccountID:   t.AccountID,
		Date:        t.Date,
		Amount:      t.Amount,
		Description: t.Description,
		Category:    t.Category,
		Recurring:   t.Recurring,
	}
}

// Apply returns a copy of t with every editable field replaced by p.
func (t Transaction) Apply(p CreateParams) Transaction {
	t.Date = p.Date
	t.Amount = p.Amount
	t.Description = p.Description
	t.Category = p.Category
	t.AccountID = p.AccountID
	t.Recurring = p.Recurring

	return t
}

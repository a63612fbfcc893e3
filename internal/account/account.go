package account

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/money"
)

// Kind represents the kind of financial account.
type Kind string

const (
	KindChecking   Kind = "checking"
	KindSavings    Kind = "savings"
	KindCredit     Kind = "credit"
	KindInvestment Kind = "investment"
	KindLoan       Kind = "loan"
	KindMortgage   Kind = "mortgage"
)

var kinds = []Kind{KindChecking, KindSavings, KindCredit, KindInvestment, KindLoan, KindMortgage}

// Kinds returns all account kinds in declaration order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

func (k Kind) Valid() bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}

	return false
}

// Account is a user-held account. Balance is signed; a negative balance on a
// credit account is a liability.
type Account struct {
	ID             uuid.UUID
	Name           string
	Institution    string
	Number         string // masked, e.g. "XXXX-XXXX-1234"
	Kind           Kind
	Balance        money.Amount
	OpeningBalance money.Amount
	Active         bool
}

// Balance is the persisted balance of one account after a mutation.
type Balance struct {
	AccountID uuid.UUID
	Balance   money.Amount
}

// CreateParams holds the user-provided fields of a new account.
type CreateParams struct {
	Name           string
	Institution    string
	Number         string
	Kind           Kind
	OpeningBalance money.Amount
}

// UpdateParams holds the editable fields of an account. The balance is only
// ever moved by transactions.
type UpdateParams struct {
	Name        string
	Institution string
	Number      string
	Kind        Kind
	Active      bool
}

func New(p CreateParams) Account {
	return Account{
		ID:             uuid.New(),
		Name:           p.Name,
		Institution:    p.Institution,
		Number:         p.Number,
		Kind:           p.Kind,
		Balance:        p.OpeningBalance,
		OpeningBalance: p.OpeningBalance,
		Active:         true,
	}
}

// Apply returns a copy of a with the update applied.
func (a Account) Apply(p UpdateParams) Account {
	a.Name = p.Name
	a.Institution = p.Institution
	a.Number = p.Number
	a.Kind = p.Kind
	a.Active = p.Active

	return a
}

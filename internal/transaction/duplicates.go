package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/money"
)

// Conflict pairs an incoming transaction with an existing one that looks identical.
type Conflict struct {
	Incoming CreateParams
	Existing Transaction
}

type dupKey struct {
	AccountID   uuid.UUID
	Date        string
	Amount      money.Amount
	Description string
}

// SplitDuplicates separates params that already exist in existing (same account,
// day, amount and description) from genuinely new ones. Input order is kept.
func SplitDuplicates(existing []Transaction, params []CreateParams) ([]CreateParams, []Conflict) {
	lookup := make(map[dupKey]Transaction, len(existing))

	for _, e := range existing {
		k := dupKey{
			AccountID:   e.AccountID,
			Date:        e.Date.Format(time.DateOnly),
			Amount:      e.Amount,
			Description: e.Description,
		}
		lookup[k] = e
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		k := dupKey{
			AccountID:   p.AccountID,
			Date:        p.Date.Format(time.DateOnly),
			Amount:      p.Amount,
			Description: p.Description,
		}

		found, ok := lookup[k]
		if ok {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: found})
			continue
		}

		newParams = append(newParams, p)
	}

	return newParams, conflicts
}

package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/money"
)

// CheckBalances verifies that every account balance equals its opening
// balance plus the sum of its transactions, and that every transaction
// references a known account.
func CheckBalances(s Snapshot) error {
	sums := make(map[uuid.UUID]money.Amount, len(s.Accounts))
	for _, a := range s.Accounts {
		sums[a.ID] = a.OpeningBalance
	}

	var errs []error

	for _, t := range s.Transactions {
		if _, ok := sums[t.AccountID]; !ok {
			errs = append(errs, fmt.Errorf("transaction %s: %w: %s", t.ID, ErrAccountNotFound, t.AccountID))
			continue
		}

		sums[t.AccountID] += t.Amount
	}

	for _, a := range s.Accounts {
		if sums[a.ID] != a.Balance {
			errs = append(errs, fmt.Errorf("account %s: opening %s plus transactions is %s, balance is %s",
				a.ID, a.OpeningBalance, sums[a.ID], a.Balance))
		}
	}

	return errors.Join(errs...)
}

package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/money"
)

func (l *Ledger) CreateBill(ctx context.Context, p bill.CreateParams) (bill.Bill, error) {
	b := bill.New(p)
	if err := validateBill(b); err != nil {
		return bill.Bill{}, err
	}

	err := l.mutate(ctx, "create_bill", recordKey{}, func(ctx context.Context, recs Records) (Records, error) {
		err := l.persist(ctx, "create_bill", func(ctx context.Context) error {
			return l.repo.CreateBill(ctx, b)
		})
		if err != nil {
			return recs, err
		}

		recs.Bills = slices.Concat(recs.Bills, []bill.Bill{b})

		return recs, nil
	})
	if err != nil {
		return bill.Bill{}, err
	}

	return b, nil
}

func (l *Ledger) UpdateBill(ctx context.Context, id uuid.UUID, p bill.UpdateParams) (bill.Bill, error) {
	var updated bill.Bill

	err := l.mutate(ctx, "update_bill", billKey(id), func(ctx context.Context, recs Records) (Records, error) {
		idx := indexBill(recs.Bills, id)
		if idx < 0 {
			return recs, fmt.Errorf("%w: bill %s", ErrRecordNotFound, id)
		}

		next := recs.Bills[idx].Apply(p)
		if err := validateBill(next); err != nil {
			return recs, err
		}

		err := l.persist(ctx, "update_bill", func(ctx context.Context) error {
			return l.repo.UpdateBill(ctx, next)
		})
		if err != nil {
			return recs, err
		}

		recs.Bills = slices.Clone(recs.Bills)
		recs.Bills[idx] = next
		updated = next

		return recs, nil
	})
	if err != nil {
		return bill.Bill{}, err
	}

	return updated, nil
}

func (l *Ledger) DeleteBill(ctx context.Context, id uuid.UUID) error {
	return l.mutate(ctx, "delete_bill", billKey(id), func(ctx context.Context, recs Records) (Records, error) {
		idx := indexBill(recs.Bills, id)
		if idx < 0 {
			return recs, fmt.Errorf("%w: bill %s", ErrRecordNotFound, id)
		}

		err := l.persist(ctx, "delete_bill", func(ctx context.Context) error {
			return l.repo.DeleteBill(ctx, id)
		})
		if err != nil {
			return recs, err
		}

		recs.Bills = slices.Delete(slices.Clone(recs.Bills), idx, idx+1)

		return recs, nil
	})
}

// MarkBillPaid marks a bill paid. For a recurring bill the unpaid bill of the
// following period is created in the same repository call and returned.
func (l *Ledger) MarkBillPaid(ctx context.Context, id uuid.UUID) (bill.Bill, *bill.Bill, error) {
	var (
		paid bill.Bill
		next *bill.Bill
	)

	err := l.mutate(ctx, "pay_bill", billKey(id), func(ctx context.Context, recs Records) (Records, error) {
		idx := indexBill(recs.Bills, id)
		if idx < 0 {
			return recs, fmt.Errorf("%w: bill %s", ErrRecordNotFound, id)
		}

		b := recs.Bills[idx]
		if b.Paid {
			return recs, fmt.Errorf("%w: bill %s is already paid", ErrValidation, id)
		}

		b.Paid = true

		var follow *bill.Bill

		if b.Recurring {
			n, err := b.Next()
			if err != nil {
				return recs, fmt.Errorf("%w: %w", ErrValidation, err)
			}

			follow = &n
		}

		err := l.persist(ctx, "pay_bill", func(ctx context.Context) error {
			return l.repo.PayBill(ctx, b, follow)
		})
		if err != nil {
			return recs, err
		}

		bills := slices.Clone(recs.Bills)
		bills[idx] = b

		if follow != nil {
			bills = append(bills, *follow)
		}

		recs.Bills = bills
		paid, next = b, follow

		return recs, nil
	})
	if err != nil {
		return bill.Bill{}, nil, err
	}

	return paid, next, nil
}

func validateBill(b bill.Bill) error {
	switch {
	case strings.TrimSpace(b.Name) == "":
		return fmt.Errorf("%w: bill name is required", ErrValidation)
	case b.Amount <= 0:
		return fmt.Errorf("%w: bill amount must be positive", ErrValidation)
	case !b.Amount.InRange():
		return fmt.Errorf("%w: bill amount: %w", ErrValidation, money.ErrOutOfRange)
	case b.DueDate.IsZero():
		return fmt.Errorf("%w: bill due date is required", ErrValidation)
	case !b.Frequency.Valid():
		return fmt.Errorf("%w: unknown frequency %q", ErrValidation, b.Frequency)
	}

	return nil
}

func indexBill(bills []bill.Bill, id uuid.UUID) int {
	return slices.IndexFunc(bills, func(b bill.Bill) bool { return b.ID == id })
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/bill"
)

const insertBill = `
	INSERT INTO bills (id, name, amount, due_date, paid, recurring, frequency, category, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
`

const updateBill = `
	UPDATE bills
	SET name = $1, amount = $2, due_date = $3, paid = $4, recurring = $5, frequency = $6, category = $7, updated_at = NOW()
	WHERE id = $8
`

func (s *Store) CreateBill(ctx context.Context, b bill.Bill) error {
	return createBill(ctx, s.db, b)
}

func createBill(ctx context.Context, db execer, b bill.Bill) error {
	_, err := db.ExecContext(ctx, insertBill,
		b.ID, b.Name, int64(b.Amount), b.DueDate, b.Paid, b.Recurring, string(b.Frequency), b.Category)
	if err != nil {
		return fmt.Errorf("creating bill: %w", err)
	}

	return nil
}

func (s *Store) UpdateBill(ctx context.Context, b bill.Bill) error {
	return execOne(ctx, s.db, "updating bill", b.ID, updateBill,
		b.Name, int64(b.Amount), b.DueDate, b.Paid, b.Recurring, string(b.Frequency), b.Category, b.ID)
}

func (s *Store) DeleteBill(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.db, "deleting bill", id, `DELETE FROM bills WHERE id = $1`, id)
}

func (s *Store) PayBill(ctx context.Context, paid bill.Bill, next *bill.Bill) error {
	return s.withTx(ctx, func(dbTx *sql.Tx) error {
		err := execOne(ctx, dbTx, "updating bill", paid.ID, updateBill,
			paid.Name, int64(paid.Amount), paid.DueDate, paid.Paid, paid.Recurring, string(paid.Frequency), paid.Category, paid.ID)
		if err != nil {
			return err
		}

		if next == nil {
			return nil
		}

		return createBill(ctx, dbTx, *next)
	})
}

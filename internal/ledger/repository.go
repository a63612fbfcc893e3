package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=ledger

// Records is the full canonical record set held by a repository.
type Records struct {
	Accounts     []account.Account
	Transactions []transaction.Transaction
	Bills        []bill.Bill
}

// Repository is the persistence boundary of the ledger. Calls that move
// money carry the post-mutation balances of every affected account; an
// implementation must store them atomically with the transaction rows.
// Updating or deleting a missing record returns ErrRecordNotFound.
type Repository interface {
	FetchAll(ctx context.Context) (Records, error)

	CreateAccount(ctx context.Context, a account.Account) error
	UpdateAccount(ctx context.Context, a account.Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	CreateTransactions(ctx context.Context, txs []transaction.Transaction, balances []account.Balance) error
	UpdateTransaction(ctx context.Context, tx transaction.Transaction, balances []account.Balance) error
	DeleteTransaction(ctx context.Context, id uuid.UUID, balances []account.Balance) error

	CreateBill(ctx context.Context, b bill.Bill) error
	UpdateBill(ctx context.Context, b bill.Bill) error
	DeleteBill(ctx context.Context, id uuid.UUID) error
	// PayBill stores the paid bill and, for recurring bills, its follow-up.
	PayBill(ctx context.Context, paid bill.Bill, next *bill.Bill) error
}

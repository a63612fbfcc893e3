package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var _ ledger.Repository = (*Client)(nil)

type accountRow struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Institution    string    `json:"institution"`
	Number         string    `json:"number"`
	Kind           string    `json:"kind"`
	Balance        int64     `json:"balance"`
	OpeningBalance int64     `json:"opening_balance"`
	Active         bool      `json:"active"`
}

type transactionRow struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	Date        time.Time `json:"date"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Recurring   bool      `json:"recurring"`
}

type billRow struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Amount    int64     `json:"amount"`
	DueDate   time.Time `json:"due_date"`
	Paid      bool      `json:"paid"`
	Recurring bool      `json:"recurring"`
	Frequency string    `json:"frequency"`
	Category  string    `json:"category"`
}

type balanceRow struct {
	ID      uuid.UUID `json:"id"`
	Balance int64     `json:"balance"`
}

// countRow is the single row answered by mutating statements.
type countRow struct {
	Matched int `json:"matched"`
}

func toTransactionRow(tx transaction.Transaction) transactionRow {
	return transactionRow{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Date:        tx.Date,
		Amount:      int64(tx.Amount),
		Description: tx.Description,
		Category:    string(tx.Category),
		Recurring:   tx.Recurring,
	}
}

func toBalanceRows(balances []account.Balance) []balanceRow {
	rows := make([]balanceRow, 0, len(balances))
	for _, b := range balances {
		rows = append(rows, balanceRow{ID: b.AccountID, Balance: int64(b.Balance)})
	}

	return rows
}

// jsonParam encodes v for a ::json statement parameter.
func jsonParam(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding parameter: %w", err)
	}

	return string(b), nil
}

func (c *Client) FetchAll(ctx context.Context) (ledger.Records, error) {
	var (
		accounts []accountRow
		txs      []transactionRow
		bills    []billRow
	)

	err := c.query(ctx, &accounts, `
		SELECT id, name, institution, number, kind, balance, opening_balance, active
		FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return ledger.Records{}, fmt.Errorf("listing accounts: %w", err)
	}

	err = c.query(ctx, &txs, `
		SELECT id, account_id, date, amount, description, category, recurring
		FROM transactions ORDER BY date, created_at, id`)
	if err != nil {
		return ledger.Records{}, fmt.Errorf("listing transactions: %w", err)
	}

	err = c.query(ctx, &bills, `
		SELECT id, name, amount, due_date, paid, recurring, frequency, category
		FROM bills ORDER BY due_date, created_at, id`)
	if err != nil {
		return ledger.Records{}, fmt.Errorf("listing bills: %w", err)
	}

	var recs ledger.Records

	for _, r := range accounts {
		recs.Accounts = append(recs.Accounts, account.Account{
			ID:             r.ID,
			Name:           r.Name,
			Institution:    r.Institution,
			Number:         r.Number,
			Kind:           account.Kind(r.Kind),
			Balance:        money.Amount(r.Balance),
			OpeningBalance: money.Amount(r.OpeningBalance),
			Active:         r.Active,
		})
	}

	for _, r := range txs {
		recs.Transactions = append(recs.Transactions, transaction.Transaction{
			ID:          r.ID,
			Date:        r.Date,
			Amount:      money.Amount(r.Amount),
			Description: r.Description,
			Category:    transaction.Category(r.Category),
			AccountID:   r.AccountID,
			Recurring:   r.Recurring,
		})
	}

	for _, r := range bills {
		recs.Bills = append(recs.Bills, bill.Bill{
			ID:        r.ID,
			Name:      r.Name,
			Amount:    money.Amount(r.Amount),
			DueDate:   r.DueDate,
			Paid:      r.Paid,
			Recurring: r.Recurring,
			Frequency: bill.Frequency(r.Frequency),
			Category:  r.Category,
		})
	}

	return recs, nil
}

// mutate runs a statement that answers one countRow and reports a zero
// match as ErrRecordNotFound.
func (c *Client) mutate(ctx context.Context, what string, id uuid.UUID, query string, params ...any) error {
	var rows []countRow

	if err := c.query(ctx, &rows, query, params...); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	if len(rows) == 0 || rows[0].Matched == 0 {
		return fmt.Errorf("%s: %w: %s", what, ledger.ErrRecordNotFound, id)
	}

	return nil
}

func (c *Client) CreateAccount(ctx context.Context, a account.Account) error {
	err := c.query(ctx, nil, `
		INSERT INTO accounts (id, name, institution, number, kind, balance, opening_balance, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
		a.ID, a.Name, a.Institution, a.Number, string(a.Kind), int64(a.Balance), int64(a.OpeningBalance), a.Active)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (c *Client) UpdateAccount(ctx context.Context, a account.Account) error {
	return c.mutate(ctx, "updating account", a.ID, `
		WITH upd AS (
			UPDATE accounts
			SET name = $1, institution = $2, number = $3, kind = $4, active = $5, updated_at = NOW()
			WHERE id = $6
			RETURNING id
		)
		SELECT count(*) AS matched FROM upd`,
		a.Name, a.Institution, a.Number, string(a.Kind), a.Active, a.ID)
}

func (c *Client) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return c.mutate(ctx, "deleting account", id, `
		WITH del AS (DELETE FROM accounts WHERE id = $1 RETURNING id)
		SELECT count(*) AS matched FROM del`, id)
}

// balancesCTE updates account balances from the ::json parameter $n, only
// when the guard CTE matched a row.
func balancesCTE(param int, guard string) string {
	return fmt.Sprintf(`
		bal AS (
			UPDATE accounts a
			SET balance = b.balance, updated_at = NOW()
			FROM json_to_recordset($%d::json) AS b(id uuid, balance bigint)
			WHERE a.id = b.id AND EXISTS (SELECT 1 FROM %s)
			RETURNING a.id
		)`, param, guard)
}

func (c *Client) CreateTransactions(ctx context.Context, txs []transaction.Transaction, balances []account.Balance) error {
	rows := make([]transactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, toTransactionRow(tx))
	}

	txParam, err := jsonParam(rows)
	if err != nil {
		return err
	}

	balParam, err := jsonParam(toBalanceRows(balances))
	if err != nil {
		return err
	}

	return c.mutate(ctx, "creating transactions", uuid.Nil, `
		WITH ins AS (
			INSERT INTO transactions (id, account_id, date, amount, description, category, recurring, created_at, updated_at)
			SELECT t.id, t.account_id, t.date, t.amount, t.description, t.category, t.recurring, NOW(), NOW()
			FROM json_to_recordset($1::json) AS t(
				id uuid, account_id uuid, date timestamptz, amount bigint,
				description text, category text, recurring boolean
			)
			RETURNING id
		),`+balancesCTE(2, "ins")+`
		SELECT count(*) AS matched FROM ins`,
		txParam, balParam)
}

func (c *Client) UpdateTransaction(ctx context.Context, tx transaction.Transaction, balances []account.Balance) error {
	balParam, err := jsonParam(toBalanceRows(balances))
	if err != nil {
		return err
	}

	return c.mutate(ctx, "updating transaction", tx.ID, `
		WITH upd AS (
			UPDATE transactions
			SET account_id = $1, date = $2, amount = $3, description = $4, category = $5, recurring = $6, updated_at = NOW()
			WHERE id = $7
			RETURNING id
		),`+balancesCTE(8, "upd")+`
		SELECT count(*) AS matched FROM upd`,
		tx.AccountID, tx.Date, int64(tx.Amount), tx.Description, string(tx.Category), tx.Recurring, tx.ID, balParam)
}

func (c *Client) DeleteTransaction(ctx context.Context, id uuid.UUID, balances []account.Balance) error {
	balParam, err := jsonParam(toBalanceRows(balances))
	if err != nil {
		return err
	}

	return c.mutate(ctx, "deleting transaction", id, `
		WITH del AS (DELETE FROM transactions WHERE id = $1 RETURNING id),`+balancesCTE(2, "del")+`
		SELECT count(*) AS matched FROM del`,
		id, balParam)
}

func (c *Client) CreateBill(ctx context.Context, b bill.Bill) error {
	err := c.query(ctx, nil, `
		INSERT INTO bills (id, name, amount, due_date, paid, recurring, frequency, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
		b.ID, b.Name, int64(b.Amount), b.DueDate, b.Paid, b.Recurring, string(b.Frequency), b.Category)
	if err != nil {
		return fmt.Errorf("creating bill: %w", err)
	}

	return nil
}

const updateBill = `
	UPDATE bills
	SET name = $1, amount = $2, due_date = $3, paid = $4, recurring = $5, frequency = $6, category = $7, updated_at = NOW()
	WHERE id = $8
	RETURNING id`

func (c *Client) UpdateBill(ctx context.Context, b bill.Bill) error {
	return c.mutate(ctx, "updating bill", b.ID, `
		WITH upd AS (`+updateBill+`)
		SELECT count(*) AS matched FROM upd`,
		b.Name, int64(b.Amount), b.DueDate, b.Paid, b.Recurring, string(b.Frequency), b.Category, b.ID)
}

func (c *Client) DeleteBill(ctx context.Context, id uuid.UUID) error {
	return c.mutate(ctx, "deleting bill", id, `
		WITH del AS (DELETE FROM bills WHERE id = $1 RETURNING id)
		SELECT count(*) AS matched FROM del`, id)
}

func (c *Client) PayBill(ctx context.Context, paid bill.Bill, next *bill.Bill) error {
	var follow []billRow
	if next != nil {
		follow = append(follow, billRow{
			ID:        next.ID,
			Name:      next.Name,
			Amount:    int64(next.Amount),
			DueDate:   next.DueDate,
			Recurring: next.Recurring,
			Frequency: string(next.Frequency),
			Category:  next.Category,
		})
	}

	nextParam, err := jsonParam(follow)
	if err != nil {
		return err
	}

	return c.mutate(ctx, "paying bill", paid.ID, `
		WITH upd AS (`+updateBill+`),
		ins AS (
			INSERT INTO bills (id, name, amount, due_date, paid, recurring, frequency, category, created_at, updated_at)
			SELECT n.id, n.name, n.amount, n.due_date, FALSE, n.recurring, n.frequency, n.category, NOW(), NOW()
			FROM json_to_recordset($9::json) AS n(
				id uuid, name text, amount bigint, due_date timestamptz,
				recurring boolean, frequency text, category text
			)
			WHERE EXISTS (SELECT 1 FROM upd)
			RETURNING id
		)
		SELECT count(*) AS matched FROM upd`,
		paid.Name, int64(paid.Amount), paid.DueDate, paid.Paid, paid.Recurring, string(paid.Frequency), paid.Category, paid.ID, nextParam)
}

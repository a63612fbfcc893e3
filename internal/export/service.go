package export

import (
	"archive/zip"
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/calendar"
	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const (
	TransactionsFile = "transactions.csv"
	SummaryFile      = "summary.txt"
)

var csvHeader = []string{"date", "account", "description", "category", "amount", "recurring"}

// Service builds monthly statements out of ledger snapshots.
type Service struct {
	window int
}

// NewService creates a Service that derives bill statuses with the given
// lookahead window in days.
func NewService(window int) *Service {
	return &Service{window: window}
}

// Filename returns the download name for month's statement.
func Filename(month time.Time) string {
	return fmt.Sprintf("statement_%s.zip", month.Format("2006-01"))
}

// Statement writes a zip holding the month's transactions as CSV and a plain
// text summary.
func (s *Service) Statement(w io.Writer, snap ledger.Snapshot, month time.Time) error {
	zw := zip.NewWriter(w)

	f, err := zw.Create(TransactionsFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", TransactionsFile, err)
	}

	if err := WriteTransactions(f, snap.Accounts, MonthTransactions(snap.Transactions, month)); err != nil {
		return err
	}

	f, err = zw.Create(SummaryFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", SummaryFile, err)
	}

	if _, err := io.WriteString(f, s.Summary(snap, month)); err != nil {
		return fmt.Errorf("writing %s: %w", SummaryFile, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zip: %w", err)
	}

	return nil
}

// MonthTransactions returns the transactions dated in month, oldest first.
func MonthTransactions(txs []transaction.Transaction, month time.Time) []transaction.Transaction {
	var out []transaction.Transaction

	for _, tx := range txs {
		if calendar.SameMonth(tx.Date, month) {
			out = append(out, tx)
		}
	}

	slices.SortStableFunc(out, func(a, b transaction.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	return out
}

// WriteTransactions writes txs as CSV, resolving account IDs to names.
func WriteTransactions(w io.Writer, accounts []account.Account, txs []transaction.Transaction) error {
	names := make(map[uuid.UUID]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			tx.Date.Format(time.DateOnly),
			cmp.Or(names[tx.AccountID], tx.AccountID.String()),
			tx.Description,
			string(tx.Category),
			tx.Amount.String(),
			fmt.Sprint(tx.Recurring),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Summary renders the month's totals, category breakdown and bill schedule.
// A month that is still running is summarized up to the snapshot's as-of
// instant.
func (s *Service) Summary(snap ledger.Snapshot, month time.Time) string {
	asOf := calendar.EndOfMonth(month)
	if now := snap.Dashboard.AsOf; !now.IsZero() && now.Before(asOf) {
		asOf = now
	}

	d := dashboard.Compute(dashboard.Input{
		Accounts:     snap.Accounts,
		Transactions: snap.Transactions,
		Bills:        snap.Bills,
		AsOf:         asOf,
		Window:       s.window,
	})

	var sb strings.Builder

	fmt.Fprintf(&sb, "Statement %s\n\n", month.Format("January 2006"))
	fmt.Fprintf(&sb, "Income:    %s\n", d.Monthly.Income)
	fmt.Fprintf(&sb, "Expenses:  %s\n", d.Monthly.Expenses)
	fmt.Fprintf(&sb, "Cash flow: %s\n", d.Monthly.CashFlow)
	fmt.Fprintf(&sb, "Net worth: %s\n", d.NetWorth)

	if len(d.SpendByCategory) > 0 {
		sb.WriteString("\nSpending\n")

		for _, c := range d.SpendByCategory {
			fmt.Fprintf(&sb, "* %-15s %10s  %5.1f%%\n", c.Category, c.Amount, c.Percentage)
		}
	}

	schedule := dashboard.Schedule(d.MonthlyBills, month)
	if len(schedule) > 0 {
		sb.WriteString("\nBills\n")

		for _, day := range schedule {
			for _, b := range day.Bills {
				fmt.Fprintf(&sb, "* %s | %s | %s | %s\n", day.Date.Format(time.DateOnly), b.Name, b.MonthlyAmount, b.Status)
			}
		}
	}

	return sb.String()
}

package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	enc "github.com/MrJamesThe3rd/finboard/internal/encoding"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// ErrUnknownLayout is returned when no row of the file looks like the header
// of a known CGD export.
var ErrUnknownLayout = errors.New("no matching CGD format found: expected columns for conta, extrato, or cartão")

// Parser reads Caixa Geral de Depósitos CSV exports. The preamble CGD writes
// above the table is skipped until a row matches one of the known layouts.
// Returned params have no AccountID; the caller owns that.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	text, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	cr := csv.NewReader(text)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	b, at, ok := locate(records)
	if !ok {
		return nil, ErrUnknownLayout
	}

	txs, skipped, err := b.extract(records[at+1:], at+2)
	if err != nil {
		return nil, err
	}

	slog.Debug("parsed cgd export",
		"layout", b.name,
		"charset", charset,
		"transactions", len(txs),
		"skipped", skipped,
	)

	return txs, nil
}

// locate returns the first row that binds to a layout, trying layouts in
// declaration order.
func locate(records [][]string) (binding, int, bool) {
	for i, rec := range records {
		for _, l := range layouts {
			if b, ok := l.bind(rec); ok {
				return b, i, true
			}
		}
	}

	return binding{}, 0, false
}

// extract turns data rows into params. line is the 1-based file line of the
// first row. Rows without a date or a non-zero amount are counted as skipped;
// a dated row without a description is an error.
func (b binding) extract(rows [][]string, line int) ([]transaction.CreateParams, int, error) {
	var (
		txs     []transaction.CreateParams
		skipped int
	)

	for i, row := range rows {
		date, ok := b.when(row)
		if !ok {
			skipped++
			continue
		}

		desc := cell(row, b.desc)
		if desc == "" {
			return nil, 0, fmt.Errorf("line %d: missing description", line+i)
		}

		amount, ok := b.signed(row)
		if !ok {
			skipped++
			continue
		}

		txs = append(txs, transaction.CreateParams{
			Date:        date,
			Amount:      amount,
			Description: desc,
			Category:    transaction.DefaultCategory(amount),
		})
	}

	return txs, skipped, nil
}

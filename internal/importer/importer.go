package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// ErrUnknownBank is returned for a bank with no registered statement parser.
var ErrUnknownBank = errors.New("unknown bank")

// Bank identifies a statement source by its short code, e.g. "cgd".
type Bank string

const (
	BankCGD Bank = "cgd"
)

var bankNames = map[Bank]string{
	BankCGD: "Caixa Geral de Depósitos",
}

// ParseBank normalizes a user-supplied bank code.
func ParseBank(s string) (Bank, error) {
	b := Bank(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := bankNames[b]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBank, s)
	}

	return b, nil
}

// Name is the bank's display name, falling back to its code.
func (b Bank) Name() string {
	if n, ok := bankNames[b]; ok {
		return n
	}

	return string(b)
}

// Importer turns one bank's statement export into signed transaction params
// with no account set.
type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}

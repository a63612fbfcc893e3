// Package money holds the signed currency amount used across the ledger.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a signed currency amount in cents.
type Amount int64

// Max bounds the magnitude of any single amount and of any account balance.
// It is far below the int64 limit so sums over many records cannot wrap.
const Max Amount = 1_000_000_000_000_000

// ErrOutOfRange is returned for amounts whose magnitude exceeds Max.
var ErrOutOfRange = errors.New("amount out of range")

var (
	hundred    = decimal.NewFromInt(100)
	maxDecimal = decimal.NewFromInt(int64(Max))
)

// Parse parses a dot-decimal string such as "-85.42" or "2000" into an Amount.
// Fractions beyond cents are rounded half away from zero.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return FromDecimal(d)
}

// ParseEuropean parses a European-formatted amount string.
// Format examples: "1.234,56" -> 123456, "-588,74" -> -58874, "10,00" -> 1000.
func ParseEuropean(s string) (Amount, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return FromDecimal(d)
}

// FromDecimal rounds d to cents. Values beyond ±Max are rejected before the
// conversion to int64.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	cents := d.Mul(hundred).Round(0)
	if cents.Abs().GreaterThan(maxDecimal) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}

	return Amount(cents.IntPart()), nil
}

// InRange reports whether a is within ±Max.
func (a Amount) InRange() bool {
	return a >= -Max && a <= Max
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}

	return a
}

// Percent returns a as a percentage of total, or 0 when total is zero.
func (a Amount) Percent(total Amount) float64 {
	if total == 0 {
		return 0
	}

	return a.Decimal().Div(total.Decimal()).Mul(hundred).InexactFloat64()
}

// String formats the amount with exactly two decimals, e.g. "-85.42".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if n := len(b); n >= 2 && b[0] == '"' && b[n-1] == '"' {
		b = b[1 : n-1]
	}

	v, err := Parse(string(b))
	if err != nil {
		return err
	}

	*a = v

	return nil
}

package cgd

import (
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/money"
)

// layout names the columns of one CGD export flavour. amount holds either a
// single signed column or a debit column followed by a credit column.
type layout struct {
	name       string
	dateLayout string
	date       string
	desc       string
	amount     []string
}

var layouts = []layout{
	{
		name:       "cartão",
		dateLayout: "02-01-2006",
		date:       "Data",
		desc:       "Descrição",
		amount:     []string{"Débito", "Crédito"},
	},
	{
		name:       "extrato",
		dateLayout: "02-01-2006",
		date:       "Data mov.",
		desc:       "Descrição",
		amount:     []string{"Movimento"},
	},
	{
		name:       "conta",
		dateLayout: "02-01-2006",
		date:       "Data mov.",
		desc:       "Descrição",
		amount:     []string{"Montante"},
	},
}

// binding is a layout resolved against a concrete header row.
type binding struct {
	layout
	date   int
	desc   int
	amount []int
}

// bind resolves every column of l in header. Header cells are compared
// trimmed, since CGD pads them with trailing spaces.
func (l layout) bind(header []string) (binding, bool) {
	pos := make(map[string]int, len(header))
	for i, cell := range header {
		if name := strings.TrimSpace(cell); name != "" {
			pos[name] = i
		}
	}

	b := binding{layout: l}

	var ok bool
	if b.date, ok = pos[l.date]; !ok {
		return binding{}, false
	}

	if b.desc, ok = pos[l.desc]; !ok {
		return binding{}, false
	}

	for _, col := range l.amount {
		i, ok := pos[col]
		if !ok {
			return binding{}, false
		}

		b.amount = append(b.amount, i)
	}

	return b, true
}

// when reports the booking date of row. Footer and page-break rows carry no
// date and yield false.
func (b binding) when(row []string) (time.Time, bool) {
	t, err := time.Parse(b.dateLayout, cell(row, b.date))
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// signed reports the row's amount with outflows negative. Empty and zero
// amounts yield false. Split layouts always treat the debit column as an
// outflow regardless of the sign the bank wrote.
func (b binding) signed(row []string) (money.Amount, bool) {
	if len(b.amount) == 1 {
		a := european(cell(row, b.amount[0]))
		return a, a != 0
	}

	if a := european(cell(row, b.amount[0])); a != 0 {
		return -a.Abs(), true
	}

	if a := european(cell(row, b.amount[1])); a != 0 {
		return a.Abs(), true
	}

	return 0, false
}

func european(s string) money.Amount {
	if s == "" {
		return 0
	}

	a, err := money.ParseEuropean(s)
	if err != nil {
		return 0
	}

	return a
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/money"
)

const opTimeout = 5 * time.Second

var (
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// FormatAmount renders an amount with two decimals.
func FormatAmount(a money.Amount) string {
	return a.String()
}

// ColorAmount renders an amount green when positive and red when negative.
func ColorAmount(a money.Amount) string {
	switch {
	case a > 0:
		return positiveStyle.Render(a.String())
	case a < 0:
		return negativeStyle.Render(a.String())
	}

	return a.String()
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// OpCtx returns a context with the standard timeout for a ledger write.
func OpCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

func errorView(err error) string {
	return negativeStyle.Render("Error: " + err.Error())
}

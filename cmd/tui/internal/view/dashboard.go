package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
)

// DashboardModel follows the ledger and re-renders on every published
// snapshot.
type DashboardModel struct {
	ledger *ledger.Ledger

	updates     <-chan ledger.Snapshot
	unsubscribe func()

	snap   ledger.Snapshot
	bills  table.Model
	recent table.Model
}

type snapshotMsg struct {
	from <-chan ledger.Snapshot
	snap ledger.Snapshot
	ok   bool
}

func NewDashboardModel(l *ledger.Ledger) DashboardModel {
	bills := newTable([]table.Column{
		{Title: "Due", Width: 12},
		{Title: "Bill", Width: 24},
		{Title: "Amount", Width: 10},
		{Title: "Status", Width: 10},
	}, 6)

	recent := newTable([]table.Column{
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 30},
		{Title: "Category", Width: 16},
		{Title: "Amount", Width: 10},
	}, 6)
	recent.Blur()

	return DashboardModel{
		ledger: l,
		bills:  bills,
		recent: recent,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string { return "Esc: back | Tab: switch table" }

// Subscribe starts following the ledger. The first message carries the
// current snapshot.
func (m *DashboardModel) Subscribe() tea.Cmd {
	m.updates, m.unsubscribe = m.ledger.Subscribe()
	return waitSnapshot(m.updates)
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func waitSnapshot(ch <-chan ledger.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		return snapshotMsg{from: ch, snap: snap, ok: ok}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if !msg.ok || msg.from != m.updates {
			return m, nil
		}

		m.snap = msg.snap
		m.refresh()

		return m, waitSnapshot(m.updates)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.unsubscribe != nil {
				m.unsubscribe()
				m.unsubscribe = nil
			}

			return m, Back
		case "tab":
			if m.bills.Focused() {
				m.bills.Blur()
				m.recent.Focus()
			} else {
				m.recent.Blur()
				m.bills.Focus()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.bills.Focused() {
		m.bills, cmd = m.bills.Update(msg)
	} else {
		m.recent, cmd = m.recent.Update(msg)
	}

	return m, cmd
}

func (m *DashboardModel) refresh() {
	d := m.snap.Dashboard

	rows := make([]table.Row, 0, len(d.MonthlyBills))
	for _, b := range d.MonthlyBills {
		rows = append(rows, table.Row{
			FormatDate(b.DueDate),
			b.Name,
			FormatAmount(b.MonthlyAmount),
			string(b.Status),
		})
	}

	m.bills.SetRows(rows)

	rows = make([]table.Row, 0, len(d.Recent))
	for _, tx := range d.Recent {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.Description,
			string(tx.Category),
			FormatAmount(tx.Amount),
		})
	}

	m.recent.SetRows(rows)
}

func (m DashboardModel) View() string {
	if m.snap.Version == 0 {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	d := m.snap.Dashboard

	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf(
		"Net worth %s", ColorAmount(d.NetWorth),
	)) + faintStyle.Render(fmt.Sprintf("   as of %s, v%d", FormatDate(d.AsOf), m.snap.Version))

	totals := fmt.Sprintf(
		"Income %s   Expenses %s   Cash flow %s",
		ColorAmount(d.Monthly.Income),
		ColorAmount(-d.Monthly.Expenses),
		ColorAmount(d.Monthly.CashFlow),
	)

	left := lipgloss.JoinVertical(lipgloss.Left,
		accentStyle.Render("Bills this month"),
		boxed(m.bills.View()),
		accentStyle.Render("Recent transactions"),
		boxed(m.recent.View()),
	)

	right := lipgloss.JoinVertical(lipgloss.Left,
		accentStyle.Render("Spending"),
		spendingView(d.SpendByCategory),
		"",
		accentStyle.Render("Budget"),
		insightView(d.Insight),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().PaddingLeft(2).Render(right))

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, totals, "", body),
	)
}

const barWidth = 20

func spendingView(cats []dashboard.BudgetCategory) string {
	if len(cats) == 0 {
		return faintStyle.Render("No spending this month.")
	}

	var b strings.Builder

	for _, c := range cats {
		filled := min(max(int(c.Percentage/100*barWidth), 0), barWidth)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(&b, "%-15s %s %5.1f%% %s\n", c.Category, bar, c.Percentage, FormatAmount(c.Amount))
	}

	return strings.TrimRight(b.String(), "\n")
}

func insightView(in dashboard.BudgetInsight) string {
	return fmt.Sprintf(
		"Needs %5.1f%% (target %.0f%%)\nWants %5.1f%% (target %.0f%%)\nGoals %5.1f%% (target %.0f%%)\nSavings %s",
		in.NeedsPercentage, in.NeedsTarget,
		in.WantsPercentage, in.WantsTarget,
		in.GoalsPercentage, in.GoalsTarget,
		ColorAmount(in.Savings),
	)
}

func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func boxed(s string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(s)
}

package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/money"
)

var statusColors = map[bill.Status]lipgloss.Color{
	bill.StatusPaid:      "46",
	bill.StatusScheduled: "39",
	bill.StatusUnpaid:    "214",
	bill.StatusLate:      "196",
}

type BillsModel struct {
	ledger *ledger.Ledger

	table  table.Model
	bills  []bill.Bill
	form   *huh.Form
	status string

	showPaid bool

	in *billInput
}

type billInput struct {
	name      string
	amount    string
	due       string
	recurring bool
	frequency bill.Frequency
	category  string
}

func NewBillsModel(l *ledger.Ledger) BillsModel {
	t := newTable([]table.Column{
		{Title: "Due", Width: 12},
		{Title: "Name", Width: 24},
		{Title: "Amount", Width: 10},
		{Title: "Repeats", Width: 10},
		{Title: "Status", Width: 10},
		{Title: "Past due", Width: 10},
	}, 15)

	m := BillsModel{ledger: l, table: t}
	m.reload()

	return m
}

func (m BillsModel) Title() string { return "Bills" }

func (m BillsModel) ShortHelp() string {
	if m.form != nil {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: mark paid | n: new | x: delete | h: toggle paid"
}

func (m BillsModel) Init() tea.Cmd {
	return nil
}

func (m *BillsModel) reload() {
	snap := m.ledger.Snapshot()
	asOf := snap.Dashboard.AsOf

	m.bills = nil
	for _, b := range snap.Bills {
		if b.Paid && !m.showPaid {
			continue
		}

		m.bills = append(m.bills, b)
	}

	slices.SortStableFunc(m.bills, func(a, b bill.Bill) int {
		return cmp.Compare(a.DueDate.Unix(), b.DueDate.Unix())
	})

	rows := make([]table.Row, 0, len(m.bills))
	for _, b := range m.bills {
		d := b.Derive(asOf, m.ledger.Lookahead())

		repeats := "once"
		if b.Recurring {
			repeats = string(b.Frequency)
		}

		pastDue := ""
		if d.DaysPastDue > 0 {
			pastDue = fmt.Sprintf("%dd", d.DaysPastDue)
		}

		rows = append(rows, table.Row{
			FormatDate(b.DueDate),
			b.Name,
			FormatAmount(b.Amount),
			repeats,
			lipgloss.NewStyle().Foreground(statusColors[d.Status]).Render(string(d.Status)),
			pastDue,
		})
	}

	m.table.SetRows(rows)
}

func (m BillsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case writeResultMsg:
		m.status = msg.status()
		m.form = nil
		m.table.Focus()
		m.reload()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "p":
			return m, m.payCmd()
		case "x":
			return m, m.deleteCmd()
		case "h":
			m.showPaid = !m.showPaid
			m.reload()

			return m, nil
		case "n":
			return m.startCreate()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BillsModel) selected() (bill.Bill, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.bills) {
		return bill.Bill{}, false
	}

	return m.bills[idx], true
}

func (m BillsModel) startCreate() (tea.Model, tea.Cmd) {
	m.in = &billInput{
		due:       FormatDate(time.Now()),
		recurring: true,
		frequency: bill.FrequencyMonthly,
	}

	freqs := []bill.Frequency{
		bill.FrequencyDaily,
		bill.FrequencyWeekly,
		bill.FrequencyBiweekly,
		bill.FrequencyMonthly,
		bill.FrequencyQuarterly,
		bill.FrequencyYearly,
	}

	opts := make([]huh.Option[bill.Frequency], len(freqs))
	for i, f := range freqs {
		opts[i] = huh.NewOption(string(f), f)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			nameInput(&m.in.name),
			huh.NewInput().Title("Amount").Value(&m.in.amount).Validate(func(s string) error {
				a, err := money.Parse(s)
				if err != nil || a <= 0 {
					return fmt.Errorf("amount must be positive")
				}
				return nil
			}),
			huh.NewInput().Title("Due date").Placeholder("YYYY-MM-DD").Value(&m.in.due).Validate(func(s string) error {
				if _, err := time.Parse(time.DateOnly, s); err != nil {
					return fmt.Errorf("invalid date (YYYY-MM-DD)")
				}
				return nil
			}),
			huh.NewConfirm().Title("Recurring?").Affirmative("Yes").Negative("No").Value(&m.in.recurring),
			huh.NewSelect[bill.Frequency]().Title("Frequency").Options(opts...).Value(&m.in.frequency),
			huh.NewInput().Title("Category").Value(&m.in.category),
		),
	).WithWidth(45).WithShowHelp(false)

	m.table.Blur()

	return m, m.form.Init()
}

func (m BillsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m BillsModel) View() string {
	var due money.Amount

	for _, b := range m.bills {
		if !b.Paid {
			due += b.Amount
		}
	}

	header := fmt.Sprintf("Open bills: %s", ColorAmount(-due))
	if m.showPaid {
		header += faintStyle.Render("   (showing paid)")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Bill\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

func (m BillsModel) payCmd() tea.Cmd {
	b, ok := m.selected()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		_, next, err := m.ledger.MarkBillPaid(ctx, b.ID)
		if err != nil {
			return writeResultMsg{err: err}
		}

		done := fmt.Sprintf("Paid %s.", b.Name)
		if next != nil {
			done += fmt.Sprintf(" Next due %s.", FormatDate(next.DueDate))
		}

		return writeResultMsg{done: done}
	}
}

func (m BillsModel) createCmd() tea.Cmd {
	amount, _ := money.Parse(m.in.amount)
	due, _ := time.Parse(time.DateOnly, m.in.due)

	p := bill.CreateParams{
		Name:      strings.TrimSpace(m.in.name),
		Amount:    amount,
		DueDate:   due,
		Recurring: m.in.recurring,
		Frequency: m.in.frequency,
		Category:  m.in.category,
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		b, err := m.ledger.CreateBill(ctx, p)

		return writeResultMsg{done: fmt.Sprintf("Created %s.", b.Name), err: err}
	}
}

func (m BillsModel) deleteCmd() tea.Cmd {
	b, ok := m.selected()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		err := m.ledger.DeleteBill(ctx, b.ID)

		return writeResultMsg{done: fmt.Sprintf("Deleted %s.", b.Name), err: err}
	}
}

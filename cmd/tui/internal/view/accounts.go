package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/money"
)

type accountsState int

const (
	accountsStateBrowse accountsState = iota
	accountsStateEdit
	accountsStateCreate
)

type AccountsModel struct {
	ledger *ledger.Ledger

	state    accountsState
	table    table.Model
	accounts []account.Account
	form     *huh.Form
	status   string

	in *accountInput
}

// accountInput holds the form bindings. It sits behind a pointer so values
// written by huh survive model copies.
type accountInput struct {
	name        string
	institution string
	number      string
	kind        account.Kind
	opening     string
	active      bool
}

func NewAccountsModel(l *ledger.Ledger) AccountsModel {
	t := newTable([]table.Column{
		{Title: "Name", Width: 24},
		{Title: "Institution", Width: 18},
		{Title: "Number", Width: 16},
		{Title: "Kind", Width: 11},
		{Title: "Balance", Width: 12},
		{Title: "Active", Width: 6},
	}, 15)

	m := AccountsModel{ledger: l, table: t}
	m.reload()

	return m
}

func (m AccountsModel) Title() string { return "Accounts" }

func (m AccountsModel) ShortHelp() string {
	if m.state != accountsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | e: edit | x: delete"
}

func (m AccountsModel) Init() tea.Cmd {
	return nil
}

func (m *AccountsModel) reload() {
	m.accounts = m.ledger.Snapshot().Accounts

	rows := make([]table.Row, 0, len(m.accounts))
	for _, a := range m.accounts {
		active := "yes"
		if !a.Active {
			active = "no"
		}

		rows = append(rows, table.Row{
			a.Name,
			a.Institution,
			a.Number,
			string(a.Kind),
			FormatAmount(a.Balance),
			active,
		})
	}

	m.table.SetRows(rows)
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case writeResultMsg:
		m.status = msg.status()
		m.state = accountsStateBrowse
		m.form = nil
		m.table.Focus()
		m.reload()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == accountsStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m AccountsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			return m.startCreate()
		case "e":
			return m.startEdit()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) selected() (account.Account, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return account.Account{}, false
	}

	return m.accounts[idx], true
}

func (m AccountsModel) startCreate() (tea.Model, tea.Cmd) {
	m.in = &accountInput{kind: account.KindChecking, opening: "0.00"}

	m.form = huh.NewForm(
		huh.NewGroup(
			nameInput(&m.in.name),
			huh.NewInput().Title("Institution").Value(&m.in.institution),
			huh.NewInput().Title("Number").Placeholder("XXXX-XXXX-1234").Value(&m.in.number),
			kindSelect(&m.in.kind),
			huh.NewInput().
				Title("Opening balance").
				Value(&m.in.opening).
				Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) startEdit() (tea.Model, tea.Cmd) {
	a, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.in = &accountInput{
		name:        a.Name,
		institution: a.Institution,
		number:      a.Number,
		kind:        a.Kind,
		active:      a.Active,
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			nameInput(&m.in.name),
			huh.NewInput().Title("Institution").Value(&m.in.institution),
			huh.NewInput().Title("Number").Value(&m.in.number),
			kindSelect(&m.in.kind),
			huh.NewConfirm().Title("Active?").Affirmative("Yes").Negative("No").Value(&m.in.active),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = accountsStateBrowse
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

	if m.state == accountsStateCreate {
		return m, m.createCmd()
	}

	return m, m.updateCmd()
}

func (m AccountsModel) View() string {
	tableView := boxed(m.table.View())

	total := money.Amount(0)
	for _, a := range m.accounts {
		total += a.Balance
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf("Accounts: %d   Total: %s", len(m.accounts), ColorAmount(total))),
		tableView,
	)

	if m.form != nil {
		title := "Edit Account"
		if m.state == accountsStateCreate {
			title = "New Account"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func nameInput(v *string) *huh.Input {
	return huh.NewInput().
		Title("Name").
		Value(v).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("name cannot be empty")
			}
			return nil
		})
}

func kindSelect(v *account.Kind) *huh.Select[account.Kind] {
	opts := make([]huh.Option[account.Kind], 0, len(account.Kinds()))
	for _, k := range account.Kinds() {
		opts = append(opts, huh.NewOption(string(k), k))
	}

	return huh.NewSelect[account.Kind]().Title("Kind").Options(opts...).Value(v)
}

func validateAmount(s string) error {
	if _, err := money.Parse(s); err != nil {
		return fmt.Errorf("not an amount: %q", s)
	}
	return nil
}

// Messages

// writeResultMsg reports the outcome of a ledger write issued from a form.
type writeResultMsg struct {
	done string
	err  error
}

func (r writeResultMsg) status() string {
	if r.err != nil {
		return "Error: " + r.err.Error()
	}
	return r.done
}

func (m AccountsModel) createCmd() tea.Cmd {
	opening, _ := money.Parse(m.in.opening)
	p := account.CreateParams{
		Name:           strings.TrimSpace(m.in.name),
		Institution:    m.in.institution,
		Number:         m.in.number,
		Kind:           m.in.kind,
		OpeningBalance: opening,
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		a, err := m.ledger.CreateAccount(ctx, p)

		return writeResultMsg{done: fmt.Sprintf("Created %s.", a.Name), err: err}
	}
}

func (m AccountsModel) updateCmd() tea.Cmd {
	a, ok := m.selected()
	if !ok {
		return nil
	}

	p := account.UpdateParams{
		Name:        strings.TrimSpace(m.in.name),
		Institution: m.in.institution,
		Number:      m.in.number,
		Kind:        m.in.kind,
		Active:      m.in.active,
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		_, err := m.ledger.UpdateAccount(ctx, a.ID, p)

		return writeResultMsg{done: "Saved.", err: err}
	}
}

func (m AccountsModel) deleteCmd() tea.Cmd {
	a, ok := m.selected()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		err := m.ledger.DeleteAccount(ctx, a.ID)

		return writeResultMsg{done: fmt.Sprintf("Deleted %s.", a.Name), err: err}
	}
}

package view

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
	txStateEditing
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx      transaction.Transaction
	account string
}

func (i txItem) Title() string {
	category := faintStyle.Render(fmt.Sprintf("[%s]", i.tx.Category))
	return fmt.Sprintf("%s  %10s  %s  %s", FormatDate(i.tx.Date), FormatAmount(i.tx.Amount), category, i.tx.Description)
}

func (i txItem) Description() string {
	if i.tx.Recurring {
		return i.account + " · recurring"
	}

	return i.account
}

func (i txItem) FilterValue() string {
	return i.tx.Description
}

type TransactionsModel struct {
	ledger   *ledger.Ledger
	matching *matching.Service

	state           txState
	timeframePicker TimeframePicker
	list            list.Model
	form            *huh.Form
	selected        transaction.Transaction

	timeframe Range
	status    string

	in *txInput
}

type txInput struct {
	description string
	category    transaction.Category
	recurring   bool
	remember    bool
}

func NewTransactionsModel(l *ledger.Ledger, matchSvc *matching.Service) TransactionsModel {
	li := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	li.Title = "Transactions"
	li.SetShowStatusBar(true)
	li.SetFilteringEnabled(true)
	li.SetShowHelp(true)

	return TransactionsModel{
		ledger:          l,
		matching:        matchSvc,
		timeframePicker: NewTimeframePicker(),
		list:            li,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | Enter: edit | x: delete | /: filter"
	case txStateEditing:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.timeframe = msg.Range
		m.state = txStateList
		m.reload()

		return m, nil

	case writeResultMsg:
		m.status = msg.status()
		m.state = txStateList
		m.form = nil
		m.reload()

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateEditing:
		return m.updateEditing(msg)
	}

	return m, nil
}

// reload reads the transactions in the selected timeframe from the current
// snapshot, newest first.
func (m *TransactionsModel) reload() {
	snap := m.ledger.Snapshot()

	names := make(map[uuid.UUID]string, len(snap.Accounts))
	for _, a := range snap.Accounts {
		names[a.ID] = a.Name
	}

	var txs []transaction.Transaction

	for _, tx := range snap.Transactions {
		if m.timeframe.Contains(tx.Date) {
			txs = append(txs, tx)
		}
	}

	slices.SortStableFunc(txs, func(a, b transaction.Transaction) int {
		return cmp.Compare(b.Date.Unix(), a.Date.Unix())
	})

	items := make([]list.Item, len(txs))
	for i, tx := range txs {
		items[i] = txItem{tx: tx, account: names[tx.AccountID]}
	}

	m.list.SetItems(items)
	m.list.Title = "Transactions, " + m.timeframe.String()

	if len(txs) == 0 && m.status == "" {
		m.status = "No transactions found."
	}
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			m.state = txStateTimeframe
			m.timeframePicker.Reset()
			m.status = ""

			return m, nil
		case "enter":
			return m.startEditing()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startEditing() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.selected = selected.tx
	m.in = &txInput{
		description: selected.tx.Description,
		category:    selected.tx.Category,
		recurring:   selected.tx.Recurring,
	}

	// Uncategorized spending gets the learned rule as a starting point.
	if m.in.category == transaction.CategoryOther {
		ctx, cancel := OpCtx()
		defer cancel()

		if rule, found, err := m.matching.Suggest(ctx, selected.tx.Description); err == nil && found {
			m.in.description = rule.Description
			m.in.category = rule.Category
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.in.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),

			categorySelect(&m.in.category),

			huh.NewConfirm().
				Key("recurring").
				Title("Recurring?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.in.recurring),

			huh.NewConfirm().
				Key("remember").
				Title("Remember for future imports?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.in.remember),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateEditing

	return m, m.form.Init()
}

func (m TransactionsModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateList:
		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case txStateEditing:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(
			m.txInfoView() + "\n" + m.form.View(),
		)
	}

	return ""
}

func (m TransactionsModel) txInfoView() string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Date: %s  |  Amount: %s\nOriginal: %s",
			FormatDate(m.selected.Date),
			ColorAmount(m.selected.Amount),
			m.selected.Description,
		))
}

func categorySelect(v *transaction.Category) *huh.Select[transaction.Category] {
	opts := make([]huh.Option[transaction.Category], 0, len(transaction.Categories()))
	for _, c := range transaction.Categories() {
		opts = append(opts, huh.NewOption(string(c), c))
	}

	return huh.NewSelect[transaction.Category]().Key("category").Title("Category").Options(opts...).Value(v)
}

// Messages

func (m TransactionsModel) saveCmd() tea.Cmd {
	tx := m.selected
	desc := strings.TrimSpace(m.in.description)
	category := m.in.category
	recurring := m.in.recurring
	remember := m.in.remember
	l := m.ledger
	matchSvc := m.matching

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if remember {
			rule := matching.Rule{Pattern: tx.Description, Description: desc, Category: category}
			if err := matchSvc.Learn(ctx, rule); err != nil {
				return writeResultMsg{err: err}
			}
		}

		_, err := l.UpdateTransaction(ctx, tx.ID, transaction.CreateParams{
			AccountID:   tx.AccountID,
			Date:        tx.Date,
			Amount:      tx.Amount,
			Description: desc,
			Category:    category,
			Recurring:   recurring,
		})

		return writeResultMsg{done: "Saved.", err: err}
	}
}

func (m TransactionsModel) deleteCmd() tea.Cmd {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		err := m.ledger.DeleteTransaction(ctx, selected.tx.ID)

		return writeResultMsg{done: "Deleted.", err: err}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = accentStyle.Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}

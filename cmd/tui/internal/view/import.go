package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/metrics"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importStepSource importStep = iota
	importStepFile
	importStepRunning
	importStepReview
	importStepDone
)

// ImportModel walks through source selection, file picking and, when the
// statement overlaps the ledger, a duplicate review before anything is
// written.
type ImportModel struct {
	ledger   *ledger.Ledger
	importer *importer.Service
	metrics  *metrics.Metrics

	step   importStep
	form   *huh.Form
	source *importSource
	picker filepicker.Model

	review *importReview
	list   list.Model

	added int
	err   error
}

// importSource holds the huh bindings for the first step.
type importSource struct {
	bank     importer.Bank
	account  uuid.UUID
	accounts []account.Account
}

func (s *importSource) accountName() string {
	for _, a := range s.accounts {
		if a.ID == s.account {
			return a.Name
		}
	}

	return s.account.String()
}

// importReview is a pending plan plus which conflicting rows the user wants
// to keep anyway.
type importReview struct {
	plan importer.Plan
	keep []bool
}

func (r *importReview) params() []transaction.CreateParams {
	out := append([]transaction.CreateParams(nil), r.plan.New...)

	for i, c := range r.plan.Conflicts {
		if r.keep[i] {
			out = append(out, c.Incoming)
		}
	}

	return out
}

func NewImportModel(l *ledger.Ledger, svc *importer.Service, m *metrics.Metrics) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		ledger:   l,
		importer: svc,
		metrics:  m,
		picker:   fp,
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.step {
	case importStepReview:
		return "Space: keep/skip | a: keep all | n: skip all | Enter: import | Esc: cancel"
	case importStepFile:
		return "Esc: change source | Enter: open"
	}

	return "Esc: back"
}

func (m ImportModel) Init() tea.Cmd {
	return nil
}

// Start resets the screen to the source form. The form is left nil when
// there is no active account to import into.
func (m *ImportModel) Start() tea.Cmd {
	m.step = importStepSource
	m.review = nil
	m.err = nil

	var active []account.Account
	for _, a := range m.ledger.Snapshot().Accounts {
		if a.Active {
			active = append(active, a)
		}
	}

	if len(active) == 0 {
		m.form = nil
		return nil
	}

	src := &importSource{account: active[0].ID, accounts: active}
	m.source = src

	var banks []huh.Option[importer.Bank]
	for _, b := range m.importer.Banks() {
		banks = append(banks, huh.NewOption(b.Name(), b))
	}

	if len(banks) > 0 {
		src.bank = banks[0].Value
	}

	accounts := make([]huh.Option[uuid.UUID], 0, len(active))
	for _, a := range active {
		accounts = append(accounts, huh.NewOption(a.Name+" ("+a.Institution+")", a.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[importer.Bank]().Title("Bank").Options(banks...).Value(&src.bank),
			huh.NewSelect[uuid.UUID]().Title("Into account").Options(accounts...).Value(&src.account),
		),
	).WithWidth(50).WithShowHelp(false)

	return m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importDoneMsg:
		return m.finish(msg), nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.back()
		}
	}

	switch m.step {
	case importStepSource:
		return m.updateSource(msg)
	case importStepFile:
		return m.updateFile(msg)
	case importStepReview:
		return m.updateReview(msg)
	}

	return m, nil
}

func (m ImportModel) back() (tea.Model, tea.Cmd) {
	switch m.step {
	case importStepFile, importStepReview, importStepDone:
		cmd := m.Start()
		return m, cmd
	case importStepRunning:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateSource(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.form = nil
	m.step = importStepFile

	return m, m.picker.Init()
}

func (m ImportModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.step = importStepRunning
		return m, m.prepareCmd(path)
	}

	return m, cmd
}

func (m ImportModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case " ":
			i := m.list.Index()
			m.review.keep[i] = !m.review.keep[i]

			return m, nil
		case "a", "n":
			for i := range m.review.keep {
				m.review.keep[i] = key.String() == "a"
			}

			return m, nil
		case "enter":
			m.step = importStepRunning
			return m, m.commitCmd(m.review.params())
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

// finish moves to the review step when the plan has conflicts and nothing was
// written yet, otherwise to the result.
func (m ImportModel) finish(msg importDoneMsg) ImportModel {
	if msg.err != nil || msg.plan == nil || len(msg.plan.Conflicts) == 0 {
		m.step = importStepDone
		m.added = msg.added
		m.err = msg.err
		m.review = nil

		return m
	}

	m.review = &importReview{plan: *msg.plan, keep: make([]bool, len(msg.plan.Conflicts))}
	m.step = importStepReview

	items := make([]list.Item, len(msg.plan.Conflicts))
	for i, c := range msg.plan.Conflicts {
		items[i] = conflictItem(c)
	}

	m.list = list.New(items, conflictDelegate{review: m.review}, 90, 20)
	m.list.Title = fmt.Sprintf("%d new rows, %d look like existing transactions", len(msg.plan.New), len(msg.plan.Conflicts))
	m.list.SetShowStatusBar(false)
	m.list.SetFilteringEnabled(false)
	m.list.SetShowHelp(false)

	return m
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1, 2)

	switch m.step {
	case importStepSource:
		if m.form == nil {
			return pad.Render("No active accounts. Create one first.")
		}

		return pad.Render(accentStyle.Render("Import a statement") + "\n\n" + m.form.View())
	case importStepFile:
		return pad.Render(fmt.Sprintf("%s statement into %s\n\n%s",
			m.source.bank.Name(), m.source.accountName(), m.picker.View()))
	case importStepRunning:
		return pad.Render("Importing...")
	case importStepReview:
		return pad.Render(m.list.View())
	case importStepDone:
		if m.err != nil {
			return pad.Render(errorView(m.err))
		}

		return pad.Render(positiveStyle.Render(fmt.Sprintf("Imported %d transactions.", m.added)))
	}

	return ""
}

// importDoneMsg reports a finished prepare or commit. plan is set only when a
// prepare stopped for review.
type importDoneMsg struct {
	plan  *importer.Plan
	added int
	err   error
}

// prepareCmd parses the file and commits it straight away when nothing in it
// looks like a duplicate.
func (m ImportModel) prepareCmd(path string) tea.Cmd {
	bank, accountID := m.source.bank, m.source.account

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importDoneMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		plan, err := m.importer.Prepare(ctx, bank, f, accountID, m.ledger.Snapshot().Transactions)
		if err != nil {
			return importDoneMsg{err: err}
		}

		if len(plan.Conflicts) > 0 {
			return importDoneMsg{plan: &plan}
		}

		return m.commit(ctx, plan.New)
	}
}

func (m ImportModel) commitCmd(params []transaction.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		return m.commit(ctx, params)
	}
}

func (m ImportModel) commit(ctx context.Context, params []transaction.CreateParams) importDoneMsg {
	txs, err := m.ledger.AddTransactions(ctx, params)
	if err != nil {
		return importDoneMsg{err: err}
	}

	m.metrics.Imported(len(txs))

	return importDoneMsg{added: len(txs)}
}

type conflictItem transaction.Conflict

func (i conflictItem) FilterValue() string { return i.Incoming.Description }

type conflictDelegate struct {
	review *importReview
}

func (d conflictDelegate) Height() int                         { return 2 }
func (d conflictDelegate) Spacing() int                        { return 1 }
func (d conflictDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	c, ok := item.(conflictItem)
	if !ok {
		return
	}

	mark := "skip"
	if d.review.keep[index] {
		mark = "keep"
	}

	line := fmt.Sprintf("[%s] %s %10s  %s", mark, FormatDate(c.Incoming.Date), FormatAmount(c.Incoming.Amount), c.Incoming.Description)
	if index == m.Index() {
		line = accentStyle.Render("> " + line)
	} else {
		line = "  " + line
	}

	fmt.Fprintf(w, "%s\n%s", line, faintStyle.Render(fmt.Sprintf(
		"       matches %s %10s  %s [%s]",
		FormatDate(c.Existing.Date), FormatAmount(c.Existing.Amount), c.Existing.Description, c.Existing.Category,
	)))
}

package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finboard/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finboard/internal/app"
	"github.com/MrJamesThe3rd/finboard/internal/config"
)

type model struct {
	app *app.App

	currentView View

	dashboardView    view.DashboardModel
	accountsView     view.AccountsModel
	transactionsView view.TransactionsModel
	billsView        view.BillsModel
	importView       view.ImportModel
	exportView       view.ExportModel
}

type View int

const (
	ViewMenu         View = 0
	ViewDashboard    View = 1
	ViewAccounts     View = 2
	ViewTransactions View = 3
	ViewBills        View = 4
	ViewImport       View = 5
	ViewExport       View = 6
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
		importView:  view.NewImportModel(a.Ledger, a.Importer, a.Metrics),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.app.Ledger)

				return m, m.dashboardView.Subscribe()
			case "2":
				m.currentView = ViewAccounts
				m.accountsView = view.NewAccountsModel(m.app.Ledger)

				return m, m.accountsView.Init()
			case "3":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.app.Ledger, m.app.Matching)

				return m, m.transactionsView.Init()
			case "4":
				m.currentView = ViewBills
				m.billsView = view.NewBillsModel(m.app.Ledger)

				return m, m.billsView.Init()
			case "5":
				m.currentView = ViewImport
				return m, m.importView.Start()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export, m.app.Ledger)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewAccounts:
		var newModel tea.Model
		newModel, cmd = m.accountsView.Update(msg)
		m.accountsView = newModel.(view.AccountsModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewBills:
		var newModel tea.Model
		newModel, cmd = m.billsView.Update(msg)
		m.billsView = newModel.(view.BillsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var v view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.app.Config.App.Name + "\n\n" +
				"1. Dashboard\n" +
				"2. Accounts\n" +
				"3. Transactions\n" +
				"4. Bills\n" +
				"5. Import Statement\n" +
				"6. Export Statement\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		v = m.dashboardView
	case ViewAccounts:
		v = m.accountsView
	case ViewTransactions:
		v = m.transactionsView
	case ViewBills:
		v = m.billsView
	case ViewImport:
		v = m.importView
	case ViewExport:
		v = m.exportView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.Title() + " · " + v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, v.View(), help)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, nil)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	go func() {
		_ = a.Ledger.RefreshEvery(ctx, cfg.Ledger.RefreshInterval)
	}()

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		a.Close()
		os.Exit(1)
	}
}

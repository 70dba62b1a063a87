package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rasoi-labs/rasoi/internal/model"
	"github.com/rasoi-labs/rasoi/internal/session"
	"github.com/rasoi-labs/rasoi/internal/tui/themes"
)

// View renders the active screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.signin != nil {
		return m.renderSignin()
	}

	// A returning user's data may still be hydrating; never show the
	// onboarding wizard while that is possible.
	if m.sessionState == session.Authenticating && !m.cfg.Store.HasOnboarded() {
		return m.renderLoading()
	}
	if m.needsOnboarding() {
		return m.renderOnboarding()
	}
	if m.config != nil {
		return m.theme.Box.Render(m.config.form.View())
	}
	if m.addTxn != nil {
		return m.theme.Box.Render(m.addTxn.form.View())
	}

	var content string
	switch RouteView(m.active, m.cfg.Store.FamilyMode()) {
	case ViewDashboard:
		content = m.renderDashboard()
	case ViewPlanner:
		content = m.renderPlanner()
	case ViewMyPlans:
		content = m.renderMyPlans()
	case ViewReports:
		content = m.renderReports()
	case ViewAssistant:
		content = m.renderAssistant()
	case ViewConfiguration:
		content = m.renderConfiguration()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		m.theme.Box.Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.Title.Render("Rasoi"),
		m.theme.StatusPending.Render("Loading your data..."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderOnboarding() string {
	if m.onboarding == nil {
		return m.renderLoading()
	}
	header := m.theme.Title.Render("Welcome to Rasoi") + "\n" +
		m.theme.Subtitle.Render("A few questions to set up your household budget.")
	return m.theme.Box.Render(header + "\n" + m.onboarding.form.View())
}

func (m Model) renderSignin() string {
	var parts []string
	parts = append(parts, m.theme.Title.Render("Account"))
	if m.signin.authErr != "" {
		parts = append(parts, m.theme.StatusError.Render(m.signin.authErr))
	}
	if m.signin.inFlight {
		parts = append(parts, m.theme.StatusPending.Render("Signing in..."))
	} else {
		parts = append(parts, m.signin.form.View())
	}
	return m.theme.Box.Render(strings.Join(parts, "\n"))
}

func (m Model) renderTabs() string {
	familyMode := m.cfg.Store.FamilyMode()
	active := RouteView(m.active, familyMode)

	tabs := make([]string, 0, len(allViews))
	for _, v := range allViews {
		if familyMode && !familyViews[v] {
			continue
		}
		label := " " + string(v) + " "
		if v == active {
			tabs = append(tabs, m.theme.Selected.Render(label))
		} else {
			tabs = append(tabs, m.theme.Highlighted.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if familyMode {
		row += "  " + m.theme.StatusWarning.Render("family mode")
	}
	return row
}

func (m Model) renderStatusBar() string {
	left := m.theme.Subtitle.Render(m.statusMsg)
	help := "tab: switch view • q: quit"
	switch RouteView(m.active, m.cfg.Store.FamilyMode()) {
	case ViewPlanner:
		help = "g: generate • s: save plan • enter: expand • " + help
	case ViewMyPlans:
		help = "enter: open • d: delete • " + help
	case ViewDashboard:
		help = "a: add transaction • " + help
	case ViewConfiguration:
		help = "e: edit settings • i: sign in • ctrl+o: sign out • " + help
	}
	return left + "\n" + m.theme.StatusPending.Render(help)
}

func (m Model) renderDashboard() string {
	transactions := m.cfg.Store.Transactions()
	income := model.SumByType(transactions, model.TypeIncome)
	expenses := model.SumByType(transactions, model.TypeExpense)
	balance := income.Sub(expenses)

	card := func(title string, amount decimal.Decimal, style lipgloss.Style) string {
		return m.theme.SummaryCard.Render(
			m.theme.Subtitle.Render(title) + "\n" + style.Render(m.cfg.Formatter.Format(amount)))
	}
	balanceStyle := m.theme.StatusSuccess
	if balance.IsNegative() {
		balanceStyle = m.theme.StatusError
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Income", income, m.theme.StatusSuccess), " ",
		card("Expenses", expenses, m.theme.StatusError), " ",
		card("Balance", balance, balanceStyle),
	)

	rows := []string{m.theme.Title.Render("Recent transactions")}
	recent := transactions
	if len(recent) > 8 {
		recent = recent[len(recent)-8:]
	}
	if len(recent) == 0 {
		rows = append(rows, m.theme.Subtitle.Render("No transactions yet. Press a to add one."))
	}
	for i := len(recent) - 1; i >= 0; i-- {
		txn := recent[i]
		icon := m.theme.CategoryIcon.Render(themes.GetCategoryIcon(txn.Category))
		amount := m.cfg.Formatter.Format(txn.Amount)
		if txn.IsIncome() {
			amount = m.theme.StatusSuccess.Render("+" + amount)
		} else {
			amount = m.theme.Normal.Render("-" + amount)
		}
		rows = append(rows, fmt.Sprintf("%s %s  %s  %s",
			icon, m.theme.Normal.Render(txn.Description), amount, m.theme.Subtitle.Render(txn.Date)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards, "", strings.Join(rows, "\n"))
}

func (m Model) renderPlanner() string {
	profile := m.cfg.Store.Profile()
	header := m.theme.Title.Render("Grocery planner") + "\n" +
		m.theme.Subtitle.Render(fmt.Sprintf("Family of %s • %s • Budget ₹%s",
			profile.FamilySize, profile.Diet, orDefault(profile.Budget, "3000")))

	body := m.plannerResult.View()
	if body == "" {
		body = m.theme.Subtitle.Render("Press g to generate a weekly plan with price comparisons.")
	}
	return header + "\n" + body
}

func (m Model) renderMyPlans() string {
	if m.viewingPlan {
		return m.planView.View() + "\n" + m.theme.Subtitle.Render("esc: back to list")
	}

	plans := m.cfg.Store.Plans()
	if len(plans) == 0 {
		return m.theme.Title.Render("My Plans") + "\n" +
			m.theme.Subtitle.Render("No saved plans yet. Generate one in the Planner.")
	}

	rows := []string{m.theme.Title.Render("My Plans")}
	for i, plan := range plans {
		line := fmt.Sprintf("%s  %s  %s",
			plan.Date, plan.Title,
			m.theme.Amount.Render(m.cfg.Formatter.Format(plan.EstimatedTotal)))
		if i == m.plansCursor {
			line = m.theme.Selected.Render("> " + line)
		} else {
			line = m.theme.Normal.Render("  " + line)
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderReports() string {
	transactions := m.cfg.Store.Transactions()

	totals := map[string]decimal.Decimal{}
	var grand decimal.Decimal
	for _, txn := range transactions {
		if txn.IsIncome() {
			continue
		}
		totals[txn.Category] = totals[txn.Category].Add(txn.Amount)
		grand = grand.Add(txn.Amount)
	}
	if len(totals) == 0 {
		return m.theme.Title.Render("Reports") + "\n" +
			m.theme.Subtitle.Render("No expenses recorded yet.")
	}

	categories := make([]string, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return totals[categories[i]].GreaterThan(totals[categories[j]])
	})

	rows := []string{m.theme.Title.Render("Spending by category")}
	for _, category := range categories {
		amount := totals[category]
		share := 0.0
		if !grand.IsZero() {
			share = amount.Div(grand).InexactFloat64()
		}
		bar := strings.Repeat("█", int(share*30))
		rows = append(rows, fmt.Sprintf("%s %-14s %s %s",
			m.theme.CategoryIcon.Render(themes.GetCategoryIcon(category)),
			category,
			m.theme.Amount.Render(m.cfg.Formatter.Format(amount)),
			lipgloss.NewStyle().Foreground(m.theme.Primary).Render(bar)))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderAssistant() string {
	header := m.theme.Title.Render("Assistant")
	body := m.assistantResult.View()
	if body == "" {
		body = m.theme.Subtitle.Render("Ask about prices, substitutions, or meal ideas.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.assistantInput.View(),
		"",
		body,
	)
}

func (m Model) renderConfiguration() string {
	profile := m.cfg.Store.Profile()
	rows := []string{
		m.theme.Title.Render("Configuration"),
		m.theme.Subtitle.Render("Household"),
		fmt.Sprintf("  Family size: %s", profile.FamilySize),
		fmt.Sprintf("  Diet: %s", profile.Diet),
		fmt.Sprintf("  Budget: ₹%s", orDefault(profile.Budget, "not set")),
		fmt.Sprintf("  Nutritional focus: %s", orDefault(profile.NutritionalFocus, "not set")),
		"",
		m.theme.Subtitle.Render("Appearance"),
		fmt.Sprintf("  Theme: %s", orDefault(m.cfg.Store.Theme(), "default")),
		fmt.Sprintf("  Family mode: %t", m.cfg.Store.FamilyMode()),
		"",
	}

	if account := m.cfg.Session.Account(); account != nil {
		rows = append(rows, m.theme.Subtitle.Render("Account"),
			fmt.Sprintf("  %s <%s>", account.Name, account.Email))
	} else if _, ok := m.cfg.Auth.GetSession(); ok {
		rows = append(rows, m.theme.Subtitle.Render("Account"), "  signed in")
	} else {
		rows = append(rows, m.theme.Subtitle.Render("Account"),
			"  not signed in — press i to sign in and sync across devices")
	}
	return strings.Join(rows, "\n")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

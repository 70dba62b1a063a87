// Package tui is the terminal front end: a single bubbletea model routing
// between the dashboard, planner, saved plans, reports, assistant, and
// configuration screens.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rasoi-labs/rasoi/internal/ai"
	"github.com/rasoi-labs/rasoi/internal/auth"
	"github.com/rasoi-labs/rasoi/internal/model"
	"github.com/rasoi-labs/rasoi/internal/session"
	"github.com/rasoi-labs/rasoi/internal/store"
	"github.com/rasoi-labs/rasoi/internal/tui/components"
	"github.com/rasoi-labs/rasoi/internal/tui/themes"
)

// AuthClient is the slice of the identity client the TUI needs.
type AuthClient interface {
	SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	GetSession() (*auth.Session, bool)
}

// Config wires the TUI to the application services.
type Config struct {
	Store     *store.Store
	Session   *session.Manager
	Auth      AuthClient
	Planner   *ai.Planner
	Formatter *components.CurrencyFormatter
	Theme     themes.Theme
}

// Model holds the main TUI state.
type Model struct {
	theme  themes.Theme
	keymap KeyMap
	cfg    Config
	width  int
	height int

	active       View
	sessionState session.State

	plannerResult components.ResultModel
	planInFlight  bool

	assistantResult   components.ResultModel
	assistantInput    textinput.Model
	assistantInFlight bool

	plansCursor int
	viewingPlan bool
	planView    components.ResultModel

	onboarding *onboardingForm
	config     *configForm
	addTxn     *transactionForm
	signin     *signinForm

	statusMsg string
	quitting  bool
}

// newModel creates the model with the given configuration.
func newModel(cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "Ask anything about groceries, budgets, or meal plans..."
	input.CharLimit = 500

	return Model{
		theme:           cfg.Theme,
		keymap:          DefaultKeyMap(),
		cfg:             cfg,
		active:          ViewDashboard,
		sessionState:    cfg.Session.State(),
		plannerResult:   components.NewResult(cfg.Theme, cfg.Formatter),
		assistantResult: components.NewResult(cfg.Theme, cfg.Formatter),
		planView:        components.NewResult(cfg.Theme, cfg.Formatter),
		assistantInput:  input,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.plannerResult.SetWidth(msg.Width - 4)
		m.assistantResult.SetWidth(msg.Width - 4)
		m.planView.SetWidth(msg.Width - 4)
		m.assistantInput.Width = msg.Width - 8
		return m, nil

	case sessionStateMsg:
		m.sessionState = msg.state
		switch msg.state {
		case session.Hydrated:
			m.statusMsg = "Synced with your account."
		case session.Unauthenticated:
			m.statusMsg = "Signed out."
			m.active = ViewDashboard
		case session.Authenticating:
			m.statusMsg = "Loading your data..."
		}
		return m, nil

	case navigateMsg:
		m.active = msg.view
		m.viewingPlan = false
		return m, nil

	case planResultMsg:
		m.planInFlight = false
		if msg.err != nil {
			m.plannerResult.SetError(msg.err)
		} else {
			m.plannerResult.SetResult(msg.result)
		}
		return m, nil

	case assistantResultMsg:
		m.assistantInFlight = false
		if msg.err != nil {
			m.assistantResult.SetError(msg.err)
		} else {
			m.assistantResult.SetResult(msg.result)
		}
		return m, nil

	case authResultMsg:
		if m.signin != nil {
			m.signin.finish(msg.err)
			if msg.err == nil {
				m.signin = nil
				m.statusMsg = "Signed in."
			}
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	// Active forms capture all input until they finish.
	if m.signin != nil {
		return m.updateSignin(msg)
	}
	if m.needsOnboarding() {
		return m.updateOnboarding(msg)
	}
	if m.config != nil {
		return m.updateConfigForm(msg)
	}
	if m.addTxn != nil {
		return m.updateTransactionForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}
	return m, nil
}

// needsOnboarding reports whether the onboarding wizard should run. While a
// hydration is in flight the answer is no even when the local flag is unset,
// so a returning user sees a loading screen instead of the wizard.
func (m *Model) needsOnboarding() bool {
	if m.cfg.Store.HasOnboarded() {
		return false
	}
	return m.sessionState != session.Authenticating
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	familyMode := m.cfg.Store.FamilyMode()

	switch {
	case key.Matches(msg, m.keymap.Quit):
		// The assistant input needs plain letters.
		if m.active == ViewAssistant && m.assistantInput.Focused() {
			break
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.NextView):
		m.active = nextView(RouteView(m.active, familyMode), familyMode)
		m.viewingPlan = false
		return m, m.enterViewCmd()

	case key.Matches(msg, m.keymap.PrevView):
		m.active = prevView(RouteView(m.active, familyMode), familyMode)
		m.viewingPlan = false
		return m, m.enterViewCmd()

	case key.Matches(msg, m.keymap.SignOut):
		// Only meaningful with an active session; a local-only user has
		// nothing to sign out of.
		if _, ok := m.cfg.Auth.GetSession(); !ok {
			return m, nil
		}
		return m, m.signOutCmd()
	}

	switch RouteView(m.active, familyMode) {
	case ViewDashboard:
		return m.updateDashboard(msg)
	case ViewPlanner:
		return m.updatePlanner(msg)
	case ViewMyPlans:
		return m.updateMyPlans(msg)
	case ViewAssistant:
		return m.updateAssistant(msg)
	case ViewConfiguration:
		return m.updateConfiguration(msg)
	default:
		return m, nil
	}
}

// enterViewCmd runs one-time setup when a view becomes active.
func (m *Model) enterViewCmd() tea.Cmd {
	if RouteView(m.active, m.cfg.Store.FamilyMode()) == ViewAssistant {
		return m.assistantInput.Focus()
	}
	m.assistantInput.Blur()
	return nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Add) && !m.cfg.Store.FamilyMode() {
		m.addTxn = newTransactionForm()
		return m, m.addTxn.form.Init()
	}
	return m, nil
}

func (m Model) updatePlanner(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Generate):
		if m.planInFlight {
			return m, nil
		}
		m.planInFlight = true
		m.plannerResult.SetLoading(true)
		return m, m.generatePlanCmd()

	case key.Matches(msg, m.keymap.SavePlan):
		result := m.plannerResult.Result()
		if result == nil || result.Grocery == nil {
			return m, nil
		}
		title := "Weekly Plan " + time.Now().Format(model.DateFormat)
		m.cfg.Store.AddPlan(context.Background(), title, *result.Grocery)
		m.statusMsg = "Plan saved."
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.plannerResult.CursorUp()
	case key.Matches(msg, m.keymap.Down):
		m.plannerResult.CursorDown()
	case key.Matches(msg, m.keymap.Select):
		m.plannerResult.ToggleCursor()
	}
	return m, nil
}

func (m Model) updateMyPlans(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	plans := m.cfg.Store.Plans()

	if m.viewingPlan {
		switch {
		case msg.String() == "esc":
			m.viewingPlan = false
		case key.Matches(msg, m.keymap.Up):
			m.planView.CursorUp()
		case key.Matches(msg, m.keymap.Down):
			m.planView.CursorDown()
		case key.Matches(msg, m.keymap.Select):
			m.planView.ToggleCursor()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.plansCursor > 0 {
			m.plansCursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.plansCursor < len(plans)-1 {
			m.plansCursor++
		}
	case key.Matches(msg, m.keymap.Select):
		if m.plansCursor < len(plans) {
			list := plans[m.plansCursor].List()
			m.planView.SetResult(&ai.Result{Grocery: &list})
			m.viewingPlan = true
		}
	case key.Matches(msg, m.keymap.Delete):
		if m.cfg.Store.FamilyMode() {
			return m, nil
		}
		if m.plansCursor < len(plans) {
			m.cfg.Store.DeletePlan(context.Background(), plans[m.plansCursor].ID)
			if m.plansCursor > 0 {
				m.plansCursor--
			}
			m.statusMsg = "Plan deleted."
		}
	}
	return m, nil
}

func (m Model) updateAssistant(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		query := m.assistantInput.Value()
		if query == "" || m.assistantInFlight {
			return m, nil
		}
		m.assistantInFlight = true
		m.assistantResult.SetLoading(true)
		m.assistantInput.SetValue("")
		return m, m.askAssistantCmd(query)
	}

	var cmd tea.Cmd
	m.assistantInput, cmd = m.assistantInput.Update(msg)
	return m, cmd
}

func (m Model) updateConfiguration(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		m.config = newConfigForm(m.cfg.Store.Profile(), m.cfg.Store.Theme(), m.cfg.Store.FamilyMode())
		return m, m.config.form.Init()
	case "i":
		if _, signedIn := m.cfg.Auth.GetSession(); !signedIn {
			m.signin = newSigninForm()
			return m, m.signin.form.Init()
		}
	}
	return m, nil
}

func (m Model) updateOnboarding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.onboarding == nil {
		m.onboarding = newOnboardingForm()
		return m, m.onboarding.form.Init()
	}

	done, cmd := m.onboarding.update(msg)
	if done {
		incomes, expenses, profile, err := m.onboarding.entries()
		if err == nil {
			m.cfg.Store.CompleteOnboarding(context.Background(), incomes, expenses, profile)
			m.statusMsg = "Welcome to Rasoi!"
		}
		m.onboarding = nil
	}
	return m, cmd
}

func (m Model) updateConfigForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, cmd := m.config.update(msg)
	if done {
		if m.config.submitted() {
			ctx := context.Background()
			m.cfg.Store.SetProfile(ctx, m.config.profile())
			m.cfg.Store.SetTheme(ctx, m.config.theme)
			m.cfg.Store.SetFamilyMode(ctx, m.config.familyMode)
			m.statusMsg = "Settings saved."
		}
		m.config = nil
	}
	return m, cmd
}

func (m Model) updateTransactionForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, cmd := m.addTxn.update(msg)
	if done {
		if txn, ok := m.addTxn.transaction(); ok {
			m.cfg.Store.AddTransaction(context.Background(), txn)
			m.statusMsg = "Transaction added."
		}
		m.addTxn = nil
	}
	return m, cmd
}

func (m Model) updateSignin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" && !m.signin.inFlight {
		m.signin = nil
		return m, nil
	}

	submit, cmd := m.signin.update(msg)
	if submit {
		return m, tea.Batch(cmd, m.authCmd(m.signin.mode, m.signin.email, m.signin.password))
	}
	return m, cmd
}

func (m *Model) generatePlanCmd() tea.Cmd {
	profile := m.cfg.Store.Profile()
	planner := m.cfg.Planner
	return func() tea.Msg {
		result, err := planner.PlanGroceries(context.Background(), profile)
		if err != nil {
			return planResultMsg{err: err}
		}
		return planResultMsg{result: &result}
	}
}

func (m *Model) askAssistantCmd(query string) tea.Cmd {
	planner := m.cfg.Planner
	return func() tea.Msg {
		result, err := planner.Ask(context.Background(), query)
		if err != nil {
			return assistantResultMsg{err: err}
		}
		return assistantResultMsg{result: &result}
	}
}

func (m *Model) authCmd(mode, email, password string) tea.Cmd {
	authClient := m.cfg.Auth
	return func() tea.Msg {
		var err error
		if mode == modeSignUp {
			_, err = authClient.SignUp(context.Background(), email, password)
		} else {
			_, err = authClient.SignInWithPassword(context.Background(), email, password)
		}
		return authResultMsg{err: err}
	}
}

func (m *Model) signOutCmd() tea.Cmd {
	mgr := m.cfg.Session
	return func() tea.Msg {
		_ = mgr.SignOut(context.Background())
		return sessionStateMsg{state: session.Unauthenticated}
	}
}

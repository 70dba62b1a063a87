package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/rasoi-labs/rasoi/internal/common"
	"github.com/rasoi-labs/rasoi/internal/model"
	"github.com/rasoi-labs/rasoi/internal/store"
)

const (
	modeSignIn = "signin"
	modeSignUp = "signup"
)

func validateAmount(required bool) func(string) error {
	return func(s string) error {
		if s == "" {
			if required {
				return fmt.Errorf("amount is required")
			}
			return nil
		}
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if amount.IsNegative() {
			return fmt.Errorf("amount cannot be negative")
		}
		return nil
	}
}

// onboardingForm is the first-run wizard: household profile plus the
// starting income and expense lines.
type onboardingForm struct {
	form *huh.Form

	familySize string
	diet       string
	budget     string
	focus      string

	incomeDesc   string
	incomeAmount string

	rentAmount    string
	groceryAmount string
}

func newOnboardingForm() *onboardingForm {
	f := &onboardingForm{
		familySize: "2",
		diet:       "Vegetarian",
		incomeDesc: "Salary",
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Family size").
				Options(huh.NewOptions("1", "2", "3", "4", "5", "6+")...).
				Value(&f.familySize),
			huh.NewSelect[string]().
				Title("Diet preference").
				Options(huh.NewOptions("Vegetarian", "Non-Vegetarian", "Vegan")...).
				Value(&f.diet),
			huh.NewInput().
				Title("Weekly grocery budget (₹)").
				Placeholder("3000").
				Validate(validateAmount(false)).
				Value(&f.budget),
			huh.NewInput().
				Title("Nutritional focus").
				Placeholder("Balanced weekly diet").
				Value(&f.focus),
		).Title("Your household"),
		huh.NewGroup(
			huh.NewInput().
				Title("Income source").
				Value(&f.incomeDesc),
			huh.NewInput().
				Title("Monthly income (₹)").
				Validate(validateAmount(true)).
				Value(&f.incomeAmount),
		).Title("Income"),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly rent (₹, optional)").
				Validate(validateAmount(false)).
				Value(&f.rentAmount),
			huh.NewInput().
				Title("Monthly groceries (₹, optional)").
				Validate(validateAmount(false)).
				Value(&f.groceryAmount),
		).Title("Regular expenses"),
	)
	return f
}

func (f *onboardingForm) update(msg tea.Msg) (bool, tea.Cmd) {
	updated, cmd := f.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		f.form = form
	}
	return f.form.State == huh.StateCompleted, cmd
}

func (f *onboardingForm) entries() ([]store.OnboardingEntry, []store.OnboardingEntry, model.UserProfile, error) {
	incomeAmount, err := decimal.NewFromString(f.incomeAmount)
	if err != nil {
		return nil, nil, model.UserProfile{}, fmt.Errorf("%w: income amount: %w", common.ErrInvalidConfig, err)
	}
	incomes := []store.OnboardingEntry{{Description: f.incomeDesc, Amount: incomeAmount}}

	var expenses []store.OnboardingEntry
	if f.rentAmount != "" {
		if amount, parseErr := decimal.NewFromString(f.rentAmount); parseErr == nil {
			expenses = append(expenses, store.OnboardingEntry{Description: "Rent", Amount: amount, Category: "Housing"})
		}
	}
	if f.groceryAmount != "" {
		if amount, parseErr := decimal.NewFromString(f.groceryAmount); parseErr == nil {
			expenses = append(expenses, store.OnboardingEntry{Description: "Groceries", Amount: amount, Category: "Food"})
		}
	}

	profile := model.UserProfile{
		FamilySize:       f.familySize,
		Diet:             f.diet,
		Budget:           f.budget,
		NutritionalFocus: f.focus,
	}
	return incomes, expenses, profile, nil
}

// configForm edits the profile, theme, and family mode.
type configForm struct {
	form *huh.Form

	familySize string
	diet       string
	budget     string
	focus      string
	theme      string
	familyMode bool
	confirm    bool
}

func newConfigForm(profile model.UserProfile, theme string, familyMode bool) *configForm {
	if theme == "" {
		theme = "default"
	}
	f := &configForm{
		familySize: profile.FamilySize,
		diet:       profile.Diet,
		budget:     profile.Budget,
		focus:      profile.NutritionalFocus,
		theme:      theme,
		familyMode: familyMode,
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Family size").
				Options(huh.NewOptions("1", "2", "3", "4", "5", "6+")...).
				Value(&f.familySize),
			huh.NewSelect[string]().
				Title("Diet preference").
				Options(huh.NewOptions("Vegetarian", "Non-Vegetarian", "Vegan")...).
				Value(&f.diet),
			huh.NewInput().
				Title("Weekly grocery budget (₹)").
				Validate(validateAmount(false)).
				Value(&f.budget),
			huh.NewInput().
				Title("Nutritional focus").
				Value(&f.focus),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions("default", "light")...).
				Value(&f.theme),
			huh.NewConfirm().
				Title("Family mode (dashboard and plans only)").
				Value(&f.familyMode),
			huh.NewConfirm().
				Title("Save changes?").
				Value(&f.confirm),
		),
	)
	return f
}

func (f *configForm) update(msg tea.Msg) (bool, tea.Cmd) {
	updated, cmd := f.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		f.form = form
	}
	return f.form.State == huh.StateCompleted || f.form.State == huh.StateAborted, cmd
}

func (f *configForm) submitted() bool {
	return f.form.State == huh.StateCompleted && f.confirm
}

func (f *configForm) profile() model.UserProfile {
	return model.UserProfile{
		FamilySize:       f.familySize,
		Diet:             f.diet,
		Budget:           f.budget,
		NutritionalFocus: f.focus,
	}
}

// transactionForm adds a single transaction from the dashboard.
type transactionForm struct {
	form *huh.Form

	txnType     string
	description string
	amount      string
	category    string
}

func newTransactionForm() *transactionForm {
	f := &transactionForm{txnType: string(model.TypeExpense)}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Expense", string(model.TypeExpense)),
					huh.NewOption("Income", string(model.TypeIncome)),
				).
				Value(&f.txnType),
			huh.NewInput().
				Title("Description").
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("description is required")
					}
					return nil
				}).
				Value(&f.description),
			huh.NewInput().
				Title("Amount (₹)").
				Validate(validateAmount(true)).
				Value(&f.amount),
			huh.NewSelect[string]().
				Title("Category").
				Options(huh.NewOptions(
					"Food", "Housing", "Transport", "Utilities",
					"Education", "Healthcare", "Income", "Other",
				)...).
				Value(&f.category),
		),
	)
	return f
}

func (f *transactionForm) update(msg tea.Msg) (bool, tea.Cmd) {
	updated, cmd := f.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		f.form = form
	}
	return f.form.State == huh.StateCompleted || f.form.State == huh.StateAborted, cmd
}

func (f *transactionForm) transaction() (model.Transaction, bool) {
	if f.form.State != huh.StateCompleted {
		return model.Transaction{}, false
	}
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return model.Transaction{}, false
	}
	return model.Transaction{
		Type:        model.TransactionType(f.txnType),
		Description: f.description,
		Amount:      amount,
		Category:    f.category,
	}, true
}

// signinForm collects credentials. Auth failures render inline and the form
// stays open for another attempt.
type signinForm struct {
	form *huh.Form

	mode     string
	email    string
	password string

	inFlight bool
	authErr  string
}

func newSigninForm() *signinForm {
	f := &signinForm{mode: modeSignIn}
	f.form = newSigninHuhForm(f)
	return f
}

func newSigninHuhForm(f *signinForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Options(
					huh.NewOption("Sign in", modeSignIn),
					huh.NewOption("Create account", modeSignUp),
				).
				Value(&f.mode),
			huh.NewInput().
				Title("Email").
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("email is required")
					}
					return nil
				}).
				Value(&f.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if len(s) < 6 {
						return fmt.Errorf("at least 6 characters")
					}
					return nil
				}).
				Value(&f.password),
		),
	)
}

// update returns true when the form submitted and an auth call should start.
// While a call is in flight further submissions are ignored.
func (f *signinForm) update(msg tea.Msg) (bool, tea.Cmd) {
	if f.inFlight {
		return false, nil
	}
	updated, cmd := f.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		f.form = form
	}
	if f.form.State == huh.StateCompleted {
		f.inFlight = true
		f.authErr = ""
		return true, cmd
	}
	return false, cmd
}

// finish records the auth outcome. On failure the form is rebuilt so the
// user can retry with the error shown inline.
func (f *signinForm) finish(err error) {
	f.inFlight = false
	if err != nil {
		f.authErr = common.UserMessage(err)
		f.form = newSigninHuhForm(f)
	}
}

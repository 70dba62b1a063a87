package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoi-labs/rasoi/internal/auth"
	"github.com/rasoi-labs/rasoi/internal/model"
	"github.com/rasoi-labs/rasoi/internal/session"
	"github.com/rasoi-labs/rasoi/internal/store"
	"github.com/rasoi-labs/rasoi/internal/tui/components"
	"github.com/rasoi-labs/rasoi/internal/tui/themes"
)

type nopLocal struct{}

func (nopLocal) SaveTransactions(context.Context, []model.Transaction) {}
func (nopLocal) SavePlans(context.Context, []model.SavedPlan)          {}
func (nopLocal) SaveProfile(context.Context, model.UserProfile)        {}
func (nopLocal) SetOnboarded(context.Context, bool)                    {}
func (nopLocal) SaveFamilyMode(context.Context, bool)                  {}
func (nopLocal) SaveTheme(context.Context, string)                     {}
func (nopLocal) Clear(context.Context)                                 {}

type nopRemote struct{}

func (nopRemote) EnqueueTransaction(model.Transaction)    {}
func (nopRemote) EnqueueTransactions([]model.Transaction) {}
func (nopRemote) EnqueuePlan(model.SavedPlan)             {}
func (nopRemote) EnqueuePlans([]model.SavedPlan)          {}
func (nopRemote) EnqueuePlanDelete(string)                {}
func (nopRemote) EnqueueProfile(model.UserProfile, bool)  {}
func (nopRemote) EnqueueActivity(string, string, string)  {}

type fakeAuthClient struct{ session *auth.Session }

func (f *fakeAuthClient) SignInWithPassword(context.Context, string, string) (*auth.Session, error) {
	return f.session, nil
}

func (f *fakeAuthClient) SignUp(context.Context, string, string) (*auth.Session, error) {
	return f.session, nil
}

func (f *fakeAuthClient) GetSession() (*auth.Session, bool) {
	return f.session, f.session != nil
}

func newTestModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	st := store.New(nopLocal{}, nopRemote{})
	formatter, err := components.NewCurrencyFormatter("en-IN", "INR")
	require.NoError(t, err)
	cfg := Config{
		Store:     st,
		Session:   session.NewManager(&fakeAuthClientAdapter{}, nil, st),
		Auth:      &fakeAuthClient{},
		Formatter: formatter,
		Theme:     themes.Default,
	}
	return newModel(cfg), st
}

// fakeAuthClientAdapter satisfies the session manager's Authenticator with a
// permanently signed-out identity.
type fakeAuthClientAdapter struct{}

func (fakeAuthClientAdapter) GetSession() (*auth.Session, bool)                 { return nil, false }
func (fakeAuthClientAdapter) GetUser(context.Context) (*model.Account, error)   { return nil, nil }
func (fakeAuthClientAdapter) OnSessionChange(auth.Listener)                     {}
func (fakeAuthClientAdapter) SignOut(context.Context) error                     { return nil }

func TestLoadingShownWhileHydratingBeforeOnboarding(t *testing.T) {
	m, st := newTestModel(t)
	require.False(t, st.HasOnboarded())

	m.sessionState = session.Authenticating
	assert.False(t, m.needsOnboarding())
	assert.Contains(t, m.View(), "Loading your data")
}

func TestOnboardingShownWhenIdleAndNotOnboarded(t *testing.T) {
	m, _ := newTestModel(t)
	m.sessionState = session.Unauthenticated
	assert.True(t, m.needsOnboarding())
}

func TestOnboardingSkippedAfterHydrationMarksOnboarded(t *testing.T) {
	m, st := newTestModel(t)
	st.AdoptRemote(context.Background(), nil, []model.SavedPlan{{ID: "p-1"}}, nil, true)
	m.sessionState = session.Hydrated
	assert.False(t, m.needsOnboarding())
}

func TestFamilyModeHidesRestrictedTabs(t *testing.T) {
	m, st := newTestModel(t)
	st.AdoptRemote(context.Background(), nil, nil, nil, true)
	st.SetFamilyMode(context.Background(), true)

	tabs := m.renderTabs()
	assert.Contains(t, tabs, "Dashboard")
	assert.Contains(t, tabs, "My Plans")
	assert.NotContains(t, tabs, "Planner")
	assert.NotContains(t, tabs, "Configuration")
	assert.Contains(t, tabs, "family mode")
}

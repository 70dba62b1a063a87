package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoi-labs/rasoi/internal/auth"
	"github.com/rasoi-labs/rasoi/internal/model"
	"github.com/rasoi-labs/rasoi/internal/remote"
	"github.com/rasoi-labs/rasoi/internal/store"
)

type fakeAuth struct {
	mu        sync.Mutex
	session   *auth.Session
	account   *model.Account
	userErr   error
	listeners []auth.Listener
}

func (f *fakeAuth) GetSession() (*auth.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil, false
	}
	sess := *f.session
	return &sess, true
}

func (f *fakeAuth) GetUser(context.Context) (*model.Account, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.account, nil
}

func (f *fakeAuth) OnSessionChange(listener auth.Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, listener)
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.setSession(nil)
	return nil
}

func (f *fakeAuth) setSession(sess *auth.Session) {
	f.mu.Lock()
	f.session = sess
	listeners := make([]auth.Listener, len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.Unlock()
	for _, l := range listeners {
		l(sess)
	}
}

type fakeLoader struct {
	profile      *remote.RemoteProfile
	profileErr   error
	plans        []model.SavedPlan
	plansErr     error
	transactions []model.Transaction
	txnErr       error
}

func (f *fakeLoader) LoadProfile(context.Context) (*remote.RemoteProfile, error) {
	return f.profile, f.profileErr
}

func (f *fakeLoader) LoadPlans(context.Context) ([]model.SavedPlan, error) {
	return f.plans, f.plansErr
}

func (f *fakeLoader) LoadTransactions(context.Context) ([]model.Transaction, error) {
	return f.transactions, f.txnErr
}

type nopLocal struct{}

func (nopLocal) SaveTransactions(context.Context, []model.Transaction) {}
func (nopLocal) SavePlans(context.Context, []model.SavedPlan)          {}
func (nopLocal) SaveProfile(context.Context, model.UserProfile)        {}
func (nopLocal) SetOnboarded(context.Context, bool)                    {}
func (nopLocal) SaveFamilyMode(context.Context, bool)                  {}
func (nopLocal) SaveTheme(context.Context, string)                     {}
func (nopLocal) Clear(context.Context)                                 {}

type nopRemote struct{}

func (nopRemote) EnqueueTransaction(model.Transaction)      {}
func (nopRemote) EnqueueTransactions([]model.Transaction)   {}
func (nopRemote) EnqueuePlan(model.SavedPlan)               {}
func (nopRemote) EnqueuePlans([]model.SavedPlan)            {}
func (nopRemote) EnqueuePlanDelete(string)                  {}
func (nopRemote) EnqueueProfile(model.UserProfile, bool)    {}
func (nopRemote) EnqueueActivity(action, id, detail string) {}

func newManager(authClient *fakeAuth, loader *fakeLoader) (*Manager, *store.Store) {
	st := store.New(nopLocal{}, nopRemote{})
	return NewManager(authClient, loader, st), st
}

func TestHydrationAdoptsRemoteState(t *testing.T) {
	authClient := &fakeAuth{
		session: &auth.Session{AccessToken: "at", UserID: "user-1"},
		account: &model.Account{ID: "user-1", Email: "asha@example.com", Name: "Asha"},
	}
	loader := &fakeLoader{
		profile: &remote.RemoteProfile{
			Profile:      model.UserProfile{FamilySize: "4", Diet: "Vegan"},
			HasOnboarded: true,
		},
		plans: []model.SavedPlan{{ID: "p-1", Title: "Diwali week"}},
	}
	mgr, st := newManager(authClient, loader)

	mgr.Start(context.Background())
	mgr.Wait()

	assert.Equal(t, Hydrated, mgr.State())
	assert.Equal(t, model.UserProfile{FamilySize: "4", Diet: "Vegan"}, st.Profile())
	require.Len(t, st.Plans(), 1)
	assert.Equal(t, "p-1", st.Plans()[0].ID)
	assert.Empty(t, st.Transactions())
	assert.True(t, st.HasOnboarded())

	account := mgr.Account()
	require.NotNil(t, account)
	assert.Equal(t, "Asha", account.Name)
}

func TestHydrationSurvivesPartialFailures(t *testing.T) {
	authClient := &fakeAuth{
		session: &auth.Session{AccessToken: "at", UserID: "user-1"},
		userErr: errors.New("identity provider down"),
	}
	loader := &fakeLoader{
		plansErr:     errors.New("network"),
		transactions: []model.Transaction{{ID: "t-1", Type: model.TypeExpense, Description: "Dal"}},
	}
	mgr, st := newManager(authClient, loader)

	mgr.Start(context.Background())
	mgr.Wait()

	// Hydration completes with whatever arrived.
	assert.Equal(t, Hydrated, mgr.State())
	require.Len(t, st.Transactions(), 1)
	assert.Empty(t, st.Plans())
	assert.Nil(t, mgr.Account())
	// Remote data existing implies the account has onboarded.
	assert.True(t, st.HasOnboarded())
}

func TestNoSessionStaysUnauthenticated(t *testing.T) {
	mgr, _ := newManager(&fakeAuth{}, &fakeLoader{})
	mgr.Start(context.Background())
	mgr.Wait()
	assert.Equal(t, Unauthenticated, mgr.State())
}

func TestSignInViaListenerTriggersHydration(t *testing.T) {
	authClient := &fakeAuth{account: &model.Account{ID: "user-1"}}
	loader := &fakeLoader{
		profile: &remote.RemoteProfile{Profile: model.DefaultProfile(), HasOnboarded: true},
	}
	mgr, st := newManager(authClient, loader)

	var states []State
	var mu sync.Mutex
	mgr.OnStateChange(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	mgr.Start(context.Background())
	assert.Equal(t, Unauthenticated, mgr.State())

	// An OAuth completion arrives out of band through the listener.
	authClient.setSession(&auth.Session{AccessToken: "at", UserID: "user-1"})
	mgr.Wait()

	assert.Equal(t, Hydrated, mgr.State())
	assert.True(t, st.HasOnboarded())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{Authenticating, Hydrated}, states)
}

func TestSignOutWithoutSessionKeepsLocalData(t *testing.T) {
	// A local-only user who never signed in still has a working app; the
	// sign-out path must not destroy their data.
	st := store.New(nopLocal{}, nopRemote{})
	mgr := NewManager(auth.NewClient("http://localhost:1", "anon", ""), &fakeLoader{}, st)
	mgr.Start(context.Background())
	mgr.Wait()

	st.CompleteOnboarding(context.Background(),
		[]store.OnboardingEntry{{Description: "Salary", Amount: decimal.NewFromInt(60000)}},
		nil, model.UserProfile{FamilySize: "3", Diet: "Vegetarian"})
	require.True(t, st.HasOnboarded())

	require.NoError(t, mgr.SignOut(context.Background()))

	assert.True(t, st.HasOnboarded())
	assert.Len(t, st.Transactions(), 1)
	assert.Equal(t, "3", st.Profile().FamilySize)
}

func TestSignOutResetsToDefaults(t *testing.T) {
	authClient := &fakeAuth{
		session: &auth.Session{AccessToken: "at", UserID: "user-1"},
		account: &model.Account{ID: "user-1"},
	}
	loader := &fakeLoader{
		profile: &remote.RemoteProfile{
			Profile:      model.UserProfile{FamilySize: "5", Diet: "Non-Vegetarian"},
			HasOnboarded: true,
		},
		transactions: []model.Transaction{{ID: "t-1", Type: model.TypeIncome}},
	}
	mgr, st := newManager(authClient, loader)
	mgr.Start(context.Background())
	mgr.Wait()
	require.True(t, st.HasOnboarded())

	require.NoError(t, mgr.SignOut(context.Background()))

	assert.Equal(t, Unauthenticated, mgr.State())
	assert.Nil(t, mgr.Account())
	assert.Equal(t, model.UserProfile{FamilySize: "2", Diet: "Vegetarian"}, st.Profile())
	assert.Empty(t, st.Transactions())
	assert.False(t, st.HasOnboarded())
}

// Package session ties identity to data: it tracks the authentication state
// machine and hydrates the store from the remote mirror when a session
// appears.
package session

import (
	"context"
	"sync"

	"github.com/rasoi-labs/rasoi/internal/auth"
	"github.com/rasoi-labs/rasoi/internal/common"
	"github.com/rasoi-labs/rasoi/internal/model"
	"github.com/rasoi-labs/rasoi/internal/remote"
	"github.com/rasoi-labs/rasoi/internal/store"
)

// State is the authentication lifecycle position.
type State int

const (
	// Unauthenticated means no session exists; the app runs on local data.
	Unauthenticated State = iota
	// Authenticating means a session exists and hydration is in flight.
	Authenticating
	// Hydrated means remote data has been adopted into the store.
	Hydrated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Hydrated:
		return "hydrated"
	default:
		return "unauthenticated"
	}
}

// Authenticator is the slice of the identity client the manager needs.
type Authenticator interface {
	GetSession() (*auth.Session, bool)
	GetUser(ctx context.Context) (*model.Account, error)
	OnSessionChange(listener auth.Listener)
	SignOut(ctx context.Context) error
}

// RemoteLoader reads the remote mirror during hydration.
type RemoteLoader interface {
	LoadProfile(ctx context.Context) (*remote.RemoteProfile, error)
	LoadPlans(ctx context.Context) ([]model.SavedPlan, error)
	LoadTransactions(ctx context.Context) ([]model.Transaction, error)
}

// Manager drives the session state machine. Hydrations are not cancelled
// when a newer one starts; whichever finishes last wins, and since each
// hydration reads the same account the late writer is equivalent.
type Manager struct {
	auth   Authenticator
	loader RemoteLoader
	store  *store.Store

	mu       sync.Mutex
	state    State
	account  *model.Account
	onChange func(State)

	hydrations sync.WaitGroup
}

// NewManager wires the state machine to the identity client, the remote
// loader, and the store.
func NewManager(authClient Authenticator, loader RemoteLoader, st *store.Store) *Manager {
	return &Manager{
		auth:   authClient,
		loader: loader,
		store:  st,
		state:  Unauthenticated,
	}
}

// OnStateChange registers the callback invoked after every state
// transition.
func (m *Manager) OnStateChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Start subscribes to session changes and, when a cached session already
// exists, begins hydration immediately. Session changes can arrive out of
// band (OAuth redirects), so all sign-in paths funnel through the listener.
func (m *Manager) Start(ctx context.Context) {
	m.auth.OnSessionChange(func(sess *auth.Session) {
		if sess == nil {
			m.handleSignOut(ctx)
			return
		}
		m.beginHydration(ctx)
	})

	if _, ok := m.auth.GetSession(); ok {
		m.beginHydration(ctx)
	}
}

// State returns the current lifecycle position.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Account returns the identity summary captured during hydration, nil while
// signed out or still authenticating.
func (m *Manager) Account() *model.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.account == nil {
		return nil
	}
	account := *m.account
	return &account
}

// SignOut revokes the session and resets local state to defaults. The
// remote mirror keeps the account's data for the next sign-in.
func (m *Manager) SignOut(ctx context.Context) error {
	return m.auth.SignOut(ctx)
}

// Wait blocks until every in-flight hydration has finished.
func (m *Manager) Wait() {
	m.hydrations.Wait()
}

func (m *Manager) beginHydration(ctx context.Context) {
	m.setState(Authenticating)
	m.hydrations.Add(1)
	go func() {
		defer m.hydrations.Done()
		m.hydrate(ctx)
	}()
}

// hydrate fetches the account and the three remote collections concurrently.
// Individual fetch failures are logged and swallowed; hydration always
// completes with whatever arrived, leaving missing pieces to local data.
func (m *Manager) hydrate(ctx context.Context) {
	var (
		wg           sync.WaitGroup
		account      *model.Account
		profile      *remote.RemoteProfile
		plans        []model.SavedPlan
		transactions []model.Transaction
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		acct, err := m.auth.GetUser(ctx)
		if err != nil {
			common.LogDebug("hydration: account fetch failed", common.Fields{"error": err.Error()})
			return
		}
		account = acct
	}()
	go func() {
		defer wg.Done()
		rp, err := m.loader.LoadProfile(ctx)
		if err != nil {
			common.LogDebug("hydration: profile fetch failed", common.Fields{"error": err.Error()})
			return
		}
		profile = rp
	}()
	go func() {
		defer wg.Done()
		ps, err := m.loader.LoadPlans(ctx)
		if err != nil {
			common.LogDebug("hydration: plans fetch failed", common.Fields{"error": err.Error()})
			return
		}
		plans = ps
	}()
	go func() {
		defer wg.Done()
		txns, err := m.loader.LoadTransactions(ctx)
		if err != nil {
			common.LogDebug("hydration: transactions fetch failed", common.Fields{"error": err.Error()})
			return
		}
		transactions = txns
	}()
	wg.Wait()

	// An account with any remote data counts as onboarded even when the
	// profile row never recorded the flag.
	onboarded := len(plans) > 0 || len(transactions) > 0
	var adoptedProfile *model.UserProfile
	if profile != nil {
		onboarded = onboarded || profile.HasOnboarded
		p := profile.Profile
		adoptedProfile = &p
	}

	m.store.AdoptRemote(ctx, adoptedProfile, plans, transactions, onboarded)

	m.mu.Lock()
	m.account = account
	m.mu.Unlock()
	m.setState(Hydrated)
}

func (m *Manager) handleSignOut(ctx context.Context) {
	m.store.Reset(ctx)
	m.mu.Lock()
	m.account = nil
	m.mu.Unlock()
	m.setState(Unauthenticated)
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	m.state = state
	notify := m.onChange
	m.mu.Unlock()
	if notify != nil {
		notify(state)
	}
}

// Package store holds the authoritative in-memory application state. All
// business logic reads from here; the local and remote adapters are
// write-behind mirrors notified after each mutation.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rasoi-labs/rasoi/internal/model"
)

// LocalPersister mirrors state changes to durable local storage,
// synchronously with the mutation.
type LocalPersister interface {
	SaveTransactions(ctx context.Context, transactions []model.Transaction)
	SavePlans(ctx context.Context, plans []model.SavedPlan)
	SaveProfile(ctx context.Context, profile model.UserProfile)
	SetOnboarded(ctx context.Context, onboarded bool)
	SaveFamilyMode(ctx context.Context, enabled bool)
	SaveTheme(ctx context.Context, theme string)
	Clear(ctx context.Context)
}

// RemoteSyncer mirrors state changes to the remote store, asynchronously and
// best-effort. Callers never learn whether a mirror write succeeded.
type RemoteSyncer interface {
	EnqueueTransaction(txn model.Transaction)
	EnqueueTransactions(transactions []model.Transaction)
	EnqueuePlan(plan model.SavedPlan)
	EnqueuePlans(plans []model.SavedPlan)
	EnqueuePlanDelete(planID string)
	EnqueueProfile(profile model.UserProfile, hasOnboarded bool)
	EnqueueActivity(action, entityID, detail string)
}

// Activity-log action names.
const (
	ActionTransactionAdded    = "transaction.added"
	ActionPlanSaved           = "plan.saved"
	ActionPlanUpdated         = "plan.updated"
	ActionPlanDeleted         = "plan.deleted"
	ActionProfileUpdated      = "profile.updated"
	ActionOnboardingCompleted = "onboarding.completed"
)

// OnboardingEntry is one income or expense line from the onboarding wizard.
type OnboardingEntry struct {
	Description string
	Amount      decimal.Decimal
	Category    string
}

// Store is the single source of truth for rendering and business logic.
type Store struct {
	mu           sync.RWMutex
	transactions []model.Transaction
	plans        []model.SavedPlan
	profile      model.UserProfile
	hasOnboarded bool
	familyMode   bool
	theme        string

	local      LocalPersister
	remote     RemoteSyncer
	onNavigate func(view string)
}

// New creates an empty store wired to its two mirrors.
func New(local LocalPersister, remote RemoteSyncer) *Store {
	return &Store{
		profile: model.DefaultProfile(),
		local:   local,
		remote:  remote,
	}
}

// SetNavigationHandler registers the UI hook invoked by mutations that carry
// a navigation side effect (AddPlan). The handler is a separable step: the
// mutation is complete before it runs.
func (s *Store) SetNavigationHandler(handler func(view string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onNavigate = handler
}

// LoadLocal initializes the store from durable local storage. Called once at
// startup; corrupt values have already been reduced to defaults by the
// persister.
func (s *Store) LoadLocal(ctx context.Context, loader interface {
	LoadTransactions(ctx context.Context) []model.Transaction
	LoadPlans(ctx context.Context) []model.SavedPlan
	LoadProfile(ctx context.Context) model.UserProfile
	LoadOnboarded(ctx context.Context) bool
	LoadFamilyMode(ctx context.Context) bool
	LoadTheme(ctx context.Context) string
}) {
	transactions := loader.LoadTransactions(ctx)
	plans := loader.LoadPlans(ctx)
	profile := loader.LoadProfile(ctx)
	onboarded := loader.LoadOnboarded(ctx)
	familyMode := loader.LoadFamilyMode(ctx)
	theme := loader.LoadTheme(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = transactions
	s.plans = plans
	s.profile = profile
	s.hasOnboarded = onboarded
	s.familyMode = familyMode
	s.theme = theme
}

// AddTransaction appends a transaction, assigning an id when absent, and
// mirrors the updated collection.
func (s *Store) AddTransaction(ctx context.Context, txn model.Transaction) model.Transaction {
	if txn.ID == "" {
		txn.ID = model.NewID()
	}
	if txn.Date == "" {
		txn.Date = time.Now().Format(model.DateFormat)
	}

	s.mu.Lock()
	s.transactions = append(s.transactions, txn)
	snapshot := s.copyTransactionsLocked()
	s.mu.Unlock()

	s.local.SaveTransactions(ctx, snapshot)
	s.remote.EnqueueTransaction(txn)
	s.remote.EnqueueActivity(ActionTransactionAdded, txn.ID, txn.Description)
	return txn
}

// CompleteOnboarding converts the wizard's income and expense lines into
// transactions dated the first of the current month, adopts the profile, and
// marks onboarding done. The onboarding flag is persisted before the
// collections so the persister's write gate is open for them.
func (s *Store) CompleteOnboarding(ctx context.Context, incomes, expenses []OnboardingEntry, profile model.UserProfile) {
	firstOfMonth := time.Now().Format("2006-01") + "-01"

	transactions := make([]model.Transaction, 0, len(incomes)+len(expenses))
	for _, entry := range incomes {
		transactions = append(transactions, model.Transaction{
			ID:          model.NewID(),
			Type:        model.TypeIncome,
			Description: entry.Description,
			Amount:      entry.Amount,
			Date:        firstOfMonth,
			Category:    "Income",
		})
	}
	for _, entry := range expenses {
		transactions = append(transactions, model.Transaction{
			ID:          model.NewID(),
			Type:        model.TypeExpense,
			Description: entry.Description,
			Amount:      entry.Amount,
			Date:        firstOfMonth,
			Category:    entry.Category,
		})
	}

	s.mu.Lock()
	s.transactions = transactions
	s.profile = profile
	s.hasOnboarded = true
	snapshot := s.copyTransactionsLocked()
	s.mu.Unlock()

	s.local.SetOnboarded(ctx, true)
	s.local.SaveTransactions(ctx, snapshot)
	s.local.SaveProfile(ctx, profile)

	s.remote.EnqueueProfile(profile, true)
	s.remote.EnqueueTransactions(snapshot)
	s.remote.EnqueueActivity(ActionOnboardingCompleted, "", "")
}

// AddPlan stamps and appends a plan, mirrors it, and then asks the UI to
// navigate to the plans view.
func (s *Store) AddPlan(ctx context.Context, title string, list model.GroceryList) model.SavedPlan {
	plan := model.NewSavedPlan(title, list)

	s.mu.Lock()
	s.plans = append(s.plans, plan)
	snapshot := s.copyPlansLocked()
	navigate := s.onNavigate
	s.mu.Unlock()

	s.local.SavePlans(ctx, snapshot)
	s.remote.EnqueuePlan(plan)
	s.remote.EnqueueActivity(ActionPlanSaved, plan.ID, plan.Title)

	if navigate != nil {
		navigate("My Plans")
	}
	return plan
}

// UpdatePlan replaces the plan with a matching id in place. Returns false
// when no plan matches.
func (s *Store) UpdatePlan(ctx context.Context, plan model.SavedPlan) bool {
	s.mu.Lock()
	updated := false
	for i := range s.plans {
		if s.plans[i].ID == plan.ID {
			s.plans[i] = plan
			updated = true
			break
		}
	}
	snapshot := s.copyPlansLocked()
	s.mu.Unlock()

	if !updated {
		return false
	}
	s.local.SavePlans(ctx, snapshot)
	s.remote.EnqueuePlan(plan)
	s.remote.EnqueueActivity(ActionPlanUpdated, plan.ID, plan.Title)
	return true
}

// DeletePlan removes exactly the plan with the given id, leaving all others
// untouched. Returns false when no plan matches.
func (s *Store) DeletePlan(ctx context.Context, planID string) bool {
	s.mu.Lock()
	kept := s.plans[:0:0]
	removed := false
	for _, plan := range s.plans {
		if plan.ID == planID {
			removed = true
			continue
		}
		kept = append(kept, plan)
	}
	s.plans = kept
	snapshot := s.copyPlansLocked()
	s.mu.Unlock()

	if !removed {
		return false
	}
	s.local.SavePlans(ctx, snapshot)
	s.remote.EnqueuePlanDelete(planID)
	s.remote.EnqueueActivity(ActionPlanDeleted, planID, "")
	return true
}

// SetProfile replaces the profile wholesale.
func (s *Store) SetProfile(ctx context.Context, profile model.UserProfile) {
	s.mu.Lock()
	s.profile = profile
	onboarded := s.hasOnboarded
	s.mu.Unlock()

	s.local.SaveProfile(ctx, profile)
	s.remote.EnqueueProfile(profile, onboarded)
	s.remote.EnqueueActivity(ActionProfileUpdated, "", "")
}

// SetFamilyMode flips the family-mode flag. Data is unaffected; only view
// reachability changes.
func (s *Store) SetFamilyMode(ctx context.Context, enabled bool) {
	s.mu.Lock()
	s.familyMode = enabled
	s.mu.Unlock()
	s.local.SaveFamilyMode(ctx, enabled)
}

// SetTheme persists the theme choice.
func (s *Store) SetTheme(ctx context.Context, theme string) {
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	s.local.SaveTheme(ctx, theme)
}

// AdoptRemote replaces state wholesale with hydrated remote data. Non-empty
// collections replace, empty ones leave local state alone; the profile is
// adopted only when the hydration determined the account has onboarded, so a
// bare placeholder row never clobbers a local profile. The remote mirror is
// deliberately not re-notified: the data just came from there.
func (s *Store) AdoptRemote(ctx context.Context, profile *model.UserProfile, plans []model.SavedPlan, transactions []model.Transaction, onboarded bool) {
	s.mu.Lock()
	if profile != nil && onboarded {
		s.profile = *profile
	}
	if len(plans) > 0 {
		s.plans = plans
	}
	if len(transactions) > 0 {
		s.transactions = transactions
	}
	s.hasOnboarded = s.hasOnboarded || onboarded
	profileSnapshot := s.profile
	planSnapshot := s.copyPlansLocked()
	txnSnapshot := s.copyTransactionsLocked()
	nowOnboarded := s.hasOnboarded
	s.mu.Unlock()

	if nowOnboarded {
		s.local.SetOnboarded(ctx, true)
		s.local.SaveProfile(ctx, profileSnapshot)
		s.local.SavePlans(ctx, planSnapshot)
		s.local.SaveTransactions(ctx, txnSnapshot)
	}
}

// Reset clears all state back to signed-out defaults and wipes the local
// mirror. Remote data is left untouched.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.transactions = nil
	s.plans = nil
	s.profile = model.DefaultProfile()
	s.hasOnboarded = false
	s.familyMode = false
	s.mu.Unlock()

	s.local.Clear(ctx)
}

// Transactions returns a copy of the transaction collection.
func (s *Store) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyTransactionsLocked()
}

// Plans returns a copy of the plan collection.
func (s *Store) Plans() []model.SavedPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyPlansLocked()
}

// Profile returns the current profile.
func (s *Store) Profile() model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// HasOnboarded reports whether onboarding has completed.
func (s *Store) HasOnboarded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasOnboarded
}

// FamilyMode reports whether family mode is active.
func (s *Store) FamilyMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.familyMode
}

// Theme returns the persisted theme name, empty when unset.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *Store) copyTransactionsLocked() []model.Transaction {
	out := make([]model.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

func (s *Store) copyPlansLocked() []model.SavedPlan {
	out := make([]model.SavedPlan, len(s.plans))
	copy(out, s.plans)
	return out
}

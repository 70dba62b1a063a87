package localstore

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"

	"github.com/rasoi-labs/rasoi/internal/common"
	"github.com/rasoi-labs/rasoi/internal/model"
)

// Storage keys, one per persisted collection.
const (
	KeyTransactions = "transactions"
	KeyPlans        = "savedPlans"
	KeyProfile      = "userProfile"
	KeyOnboarded    = "hasOnboarded"
	KeyFamilyMode   = "isFamilyMode"
	KeyTheme        = "theme"
)

// Persister serializes whole collections to the key-value store on every
// observed change. Collection writes are gated on onboarding completion so
// empty placeholder state never clobbers previously onboarded data.
type Persister struct {
	kv        *KV
	onboarded atomic.Bool
}

// NewPersister wraps a KV store. The onboarding gate starts closed and is
// opened by SetOnboarded once the flag is loaded or set.
func NewPersister(kv *KV) *Persister {
	return &Persister{kv: kv}
}

// SetOnboarded opens or closes the collection-write gate and persists the
// flag itself (flag writes are never gated).
func (p *Persister) SetOnboarded(ctx context.Context, onboarded bool) {
	p.onboarded.Store(onboarded)
	p.setOrLog(ctx, KeyOnboarded, strconv.FormatBool(onboarded))
}

// SaveTransactions persists the full transaction collection.
func (p *Persister) SaveTransactions(ctx context.Context, transactions []model.Transaction) {
	p.saveCollection(ctx, KeyTransactions, transactions)
}

// SavePlans persists the full plan collection.
func (p *Persister) SavePlans(ctx context.Context, plans []model.SavedPlan) {
	p.saveCollection(ctx, KeyPlans, plans)
}

// SaveProfile persists the user profile.
func (p *Persister) SaveProfile(ctx context.Context, profile model.UserProfile) {
	p.saveCollection(ctx, KeyProfile, profile)
}

// SaveFamilyMode persists the family-mode flag. Never gated.
func (p *Persister) SaveFamilyMode(ctx context.Context, enabled bool) {
	p.setOrLog(ctx, KeyFamilyMode, strconv.FormatBool(enabled))
}

// SaveTheme persists the theme name. Never gated.
func (p *Persister) SaveTheme(ctx context.Context, theme string) {
	p.setOrLog(ctx, KeyTheme, theme)
}

// Clear removes every persisted collection and flag. Used on sign-out.
func (p *Persister) Clear(ctx context.Context) {
	p.onboarded.Store(false)
	for _, key := range []string{KeyTransactions, KeyPlans, KeyProfile, KeyOnboarded, KeyFamilyMode} {
		if err := p.kv.Remove(ctx, key); err != nil {
			common.LogError(err, "failed to clear local collection", common.Fields{"key": key})
		}
	}
}

func (p *Persister) saveCollection(ctx context.Context, key string, v any) {
	if !p.onboarded.Load() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		common.LogError(err, "failed to serialize collection", common.Fields{"key": key})
		return
	}
	p.setOrLog(ctx, key, string(data))
}

func (p *Persister) setOrLog(ctx context.Context, key, value string) {
	if err := p.kv.Set(ctx, key, value); err != nil {
		common.LogError(err, "failed to persist value", common.Fields{"key": key})
	}
}

// LoadTransactions reads the transaction collection. A missing or corrupt
// value is logged and treated as empty; startup never fails on a bad read.
func (p *Persister) LoadTransactions(ctx context.Context) []model.Transaction {
	var transactions []model.Transaction
	p.loadCollection(ctx, KeyTransactions, &transactions)
	return transactions
}

// LoadPlans reads the plan collection, tolerating corrupt values.
func (p *Persister) LoadPlans(ctx context.Context) []model.SavedPlan {
	var plans []model.SavedPlan
	p.loadCollection(ctx, KeyPlans, &plans)
	return plans
}

// LoadProfile reads the profile, returning the default on absence or
// corruption.
func (p *Persister) LoadProfile(ctx context.Context) model.UserProfile {
	profile := model.DefaultProfile()
	if !p.loadCollection(ctx, KeyProfile, &profile) {
		return model.DefaultProfile()
	}
	return profile
}

// LoadOnboarded reads the onboarding flag and opens the write gate to match.
func (p *Persister) LoadOnboarded(ctx context.Context) bool {
	value, ok, err := p.kv.Get(ctx, KeyOnboarded)
	if err != nil {
		common.LogError(err, "failed to read onboarding flag", common.Fields{"key": KeyOnboarded})
		return false
	}
	onboarded := ok && value == "true"
	p.onboarded.Store(onboarded)
	return onboarded
}

// LoadFamilyMode reads the family-mode flag.
func (p *Persister) LoadFamilyMode(ctx context.Context) bool {
	value, ok, err := p.kv.Get(ctx, KeyFamilyMode)
	if err != nil {
		common.LogError(err, "failed to read family-mode flag", common.Fields{"key": KeyFamilyMode})
		return false
	}
	return ok && value == "true"
}

// LoadTheme reads the persisted theme name, empty when unset.
func (p *Persister) LoadTheme(ctx context.Context) string {
	value, _, err := p.kv.Get(ctx, KeyTheme)
	if err != nil {
		common.LogError(err, "failed to read theme", common.Fields{"key": KeyTheme})
		return ""
	}
	return value
}

// loadCollection reports whether dest was populated from storage. Corrupt
// JSON counts as absent, per the PersistenceReadError policy.
func (p *Persister) loadCollection(ctx context.Context, key string, dest any) bool {
	value, ok, err := p.kv.Get(ctx, key)
	if err != nil {
		common.LogError(err, "failed to read collection", common.Fields{"key": key})
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		common.LogError(err, "corrupt collection in local storage, using defaults", common.Fields{"key": key})
		return false
	}
	return true
}

package remote

import (
	"context"

	"github.com/rasoi-labs/rasoi/internal/model"
)

// Syncer binds the typed collection operations to the write-behind queue.
// Every method returns immediately; the write happens on the queue worker
// and its outcome is never reported back.
type Syncer struct {
	cols  *Collections
	queue *Queue
}

// NewSyncer creates the write-behind remote syncer.
func NewSyncer(cols *Collections, queue *Queue) *Syncer {
	return &Syncer{cols: cols, queue: queue}
}

// EnqueueTransaction mirrors a single new transaction.
func (s *Syncer) EnqueueTransaction(txn model.Transaction) {
	s.queue.Enqueue(Op{Name: "transaction.upsert", Do: func(ctx context.Context) error {
		return s.cols.SaveTransaction(ctx, txn)
	}})
}

// EnqueueTransactions mirrors the full transaction collection.
func (s *Syncer) EnqueueTransactions(transactions []model.Transaction) {
	s.queue.Enqueue(Op{Name: "transactions.replace", Do: func(ctx context.Context) error {
		return s.cols.ReplaceTransactions(ctx, transactions)
	}})
}

// EnqueuePlan mirrors a single saved plan.
func (s *Syncer) EnqueuePlan(plan model.SavedPlan) {
	s.queue.Enqueue(Op{Name: "plan.upsert", Do: func(ctx context.Context) error {
		return s.cols.SavePlan(ctx, plan)
	}})
}

// EnqueuePlans mirrors the full plan collection.
func (s *Syncer) EnqueuePlans(plans []model.SavedPlan) {
	s.queue.Enqueue(Op{Name: "plans.replace", Do: func(ctx context.Context) error {
		return s.cols.ReplacePlans(ctx, plans)
	}})
}

// EnqueuePlanDelete removes a plan row by id.
func (s *Syncer) EnqueuePlanDelete(planID string) {
	s.queue.Enqueue(Op{Name: "plan.delete", Do: func(ctx context.Context) error {
		return s.cols.DeletePlan(ctx, planID)
	}})
}

// EnqueueProfile mirrors the profile row.
func (s *Syncer) EnqueueProfile(profile model.UserProfile, hasOnboarded bool) {
	s.queue.Enqueue(Op{Name: "profile.upsert", Do: func(ctx context.Context) error {
		return s.cols.SaveProfile(ctx, profile, hasOnboarded)
	}})
}

// EnqueueActivity appends an activity-log entry.
func (s *Syncer) EnqueueActivity(action, entityID, detail string) {
	s.queue.Enqueue(Op{Name: "activity.insert", Do: func(ctx context.Context) error {
		return s.cols.LogActivity(ctx, action, entityID, detail)
	}})
}

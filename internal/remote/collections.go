package remote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rasoi-labs/rasoi/internal/model"
)

// Table names in the remote store.
const (
	TableProfiles     = "profiles"
	TableTransactions = "transactions"
	TablePlans        = "plans"
	TableActivityLog  = "activity_log"
)

// Collections exposes the typed per-entity operations of the remote store.
type Collections struct {
	client *Client
}

// NewCollections wraps a remote client.
func NewCollections(client *Client) *Collections {
	return &Collections{client: client}
}

type profileRow struct {
	UserID           string `json:"user_id"`
	HasOnboarded     bool   `json:"has_onboarded"`
	FamilySize       string `json:"family_size"`
	Diet             string `json:"diet"`
	Budget           string `json:"budget,omitempty"`
	NutritionalFocus string `json:"nutritional_focus,omitempty"`
}

type transactionRow struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
}

type planRow struct {
	ID     string          `json:"id"`
	UserID string          `json:"user_id"`
	Date   string          `json:"date"`
	Plan   model.SavedPlan `json:"plan"`
}

type activityRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RemoteProfile is the hydration read of the profile table.
type RemoteProfile struct {
	Profile      model.UserProfile
	HasOnboarded bool
}

func (c *Collections) userID() string {
	sess, ok := c.client.session()
	if !ok {
		return ""
	}
	return sess.UserID
}

// SaveProfile upserts the singleton profile row.
func (c *Collections) SaveProfile(ctx context.Context, profile model.UserProfile, hasOnboarded bool) error {
	uid := c.userID()
	if uid == "" {
		return nil
	}
	row := profileRow{
		UserID:           uid,
		HasOnboarded:     hasOnboarded,
		FamilySize:       profile.FamilySize,
		Diet:             profile.Diet,
		Budget:           profile.Budget,
		NutritionalFocus: profile.NutritionalFocus,
	}
	return c.client.Upsert(ctx, TableProfiles, []profileRow{row}, "user_id")
}

// LoadProfile fetches the profile row, nil when absent.
func (c *Collections) LoadProfile(ctx context.Context) (*RemoteProfile, error) {
	var rows []profileRow
	if err := c.client.Select(ctx, TableProfiles, nil, "", &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &RemoteProfile{
		Profile: model.UserProfile{
			FamilySize:       row.FamilySize,
			Diet:             row.Diet,
			Budget:           row.Budget,
			NutritionalFocus: row.NutritionalFocus,
		},
		HasOnboarded: row.HasOnboarded,
	}, nil
}

// SaveTransaction upserts a single transaction row.
func (c *Collections) SaveTransaction(ctx context.Context, txn model.Transaction) error {
	uid := c.userID()
	if uid == "" {
		return nil
	}
	return c.client.Upsert(ctx, TableTransactions, []transactionRow{transactionToRow(txn, uid)}, "id")
}

// ReplaceTransactions upserts the full transaction collection.
func (c *Collections) ReplaceTransactions(ctx context.Context, transactions []model.Transaction) error {
	uid := c.userID()
	if uid == "" || len(transactions) == 0 {
		return nil
	}
	rows := make([]transactionRow, 0, len(transactions))
	for _, txn := range transactions {
		rows = append(rows, transactionToRow(txn, uid))
	}
	return c.client.Upsert(ctx, TableTransactions, rows, "id")
}

// LoadTransactions fetches every transaction row for the user.
func (c *Collections) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	var rows []transactionRow
	if err := c.client.Select(ctx, TableTransactions, nil, "date.asc", &rows); err != nil {
		return nil, err
	}
	transactions := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, model.Transaction{
			ID:          row.ID,
			Type:        model.TransactionType(row.Type),
			Description: row.Description,
			Amount:      row.Amount,
			Date:        row.Date,
			Category:    row.Category,
		})
	}
	return transactions, nil
}

// SavePlan upserts a single plan row.
func (c *Collections) SavePlan(ctx context.Context, plan model.SavedPlan) error {
	uid := c.userID()
	if uid == "" {
		return nil
	}
	row := planRow{ID: plan.ID, UserID: uid, Date: plan.Date, Plan: plan}
	return c.client.Upsert(ctx, TablePlans, []planRow{row}, "id")
}

// ReplacePlans upserts the full plan collection.
func (c *Collections) ReplacePlans(ctx context.Context, plans []model.SavedPlan) error {
	uid := c.userID()
	if uid == "" || len(plans) == 0 {
		return nil
	}
	rows := make([]planRow, 0, len(plans))
	for _, plan := range plans {
		rows = append(rows, planRow{ID: plan.ID, UserID: uid, Date: plan.Date, Plan: plan})
	}
	return c.client.Upsert(ctx, TablePlans, rows, "id")
}

// DeletePlan removes the plan row with the given id.
func (c *Collections) DeletePlan(ctx context.Context, planID string) error {
	return c.client.Delete(ctx, TablePlans, Filter{"id": planID})
}

// LoadPlans fetches every saved plan for the user.
func (c *Collections) LoadPlans(ctx context.Context) ([]model.SavedPlan, error) {
	var rows []planRow
	if err := c.client.Select(ctx, TablePlans, nil, "date.desc", &rows); err != nil {
		return nil, err
	}
	plans := make([]model.SavedPlan, 0, len(rows))
	for _, row := range rows {
		plan := row.Plan
		if plan.ID == "" {
			plan.ID = row.ID
		}
		if plan.Date == "" {
			plan.Date = row.Date
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// LogActivity appends an entry to the activity log.
func (c *Collections) LogActivity(ctx context.Context, action, entityID, detail string) error {
	uid := c.userID()
	if uid == "" {
		return nil
	}
	row := activityRow{
		ID:        model.NewID(),
		UserID:    uid,
		Action:    action,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	return c.client.Insert(ctx, TableActivityLog, row)
}

func transactionToRow(txn model.Transaction, uid string) transactionRow {
	return transactionRow{
		ID:          txn.ID,
		UserID:      uid,
		Type:        string(txn.Type),
		Description: txn.Description,
		Amount:      txn.Amount,
		Date:        txn.Date,
		Category:    txn.Category,
	}
}

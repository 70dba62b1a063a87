package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoi-labs/rasoi/internal/model"
)

func sessionFor(userID string) SessionFunc {
	return func() (Session, bool) {
		return Session{UserID: userID, AccessToken: "token-" + userID}, true
	}
}

func noSession() (Session, bool) {
	return Session{}, false
}

func TestClientNoSessionIsSilentNoOp(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon", noSession)
	ctx := context.Background()

	require.NoError(t, client.Upsert(ctx, TableTransactions, []transactionRow{{ID: "t1"}}, "id"))
	require.NoError(t, client.Insert(ctx, TableActivityLog, activityRow{ID: "a1"}))
	require.NoError(t, client.Delete(ctx, TablePlans, Filter{"id": "p1"}))

	var rows []transactionRow
	require.NoError(t, client.Select(ctx, TableTransactions, nil, "", &rows))
	assert.Empty(t, rows)

	assert.Zero(t, hits.Load(), "no request may leave the client without a session")
}

func TestClientUpsertRequestShape(t *testing.T) {
	var captured *http.Request
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key", sessionFor("user-1"))
	txn := model.Transaction{
		ID:          "t1",
		Type:        model.TypeExpense,
		Description: "Toor Dal",
		Amount:      decimal.NewFromInt(340),
		Date:        "2026-08-01",
		Category:    "Pulses",
	}
	require.NoError(t, client.Upsert(context.Background(), TableTransactions,
		[]transactionRow{transactionToRow(txn, "user-1")}, "id"))

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/rest/v1/transactions", captured.URL.Path)
	assert.Equal(t, "id", captured.URL.Query().Get("on_conflict"))
	assert.Equal(t, "anon-key", captured.Header.Get("apikey"))
	assert.Equal(t, "Bearer token-user-1", captured.Header.Get("Authorization"))
	assert.Equal(t, "resolution=merge-duplicates", captured.Header.Get("Prefer"))

	var rows []transactionRow
	require.NoError(t, json.Unmarshal(body, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "user-1", rows[0].UserID)
	assert.Equal(t, "Toor Dal", rows[0].Description)
}

func TestClientDeleteAlwaysScopesToUser(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon", sessionFor("user-7"))
	require.NoError(t, client.Delete(context.Background(), TablePlans, Filter{"id": "plan-1"}))

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodDelete, captured.Method)
	assert.Equal(t, "eq.plan-1", captured.URL.Query().Get("id"))
	assert.Equal(t, "eq.user-7", captured.URL.Query().Get("user_id"))
}

func TestClientSelectDecodesRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "date.asc", r.URL.Query().Get("order"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"t1","user_id":"user-1","type":"income","description":"Salary","amount":50000,"date":"2026-08-01","category":"Income"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon", sessionFor("user-1"))
	var rows []transactionRow
	require.NoError(t, client.Select(context.Background(), TableTransactions, nil, "date.asc", &rows))

	require.Len(t, rows, 1)
	assert.Equal(t, "Salary", rows[0].Description)
	assert.True(t, decimal.NewFromInt(50000).Equal(rows[0].Amount))
}

func TestClientSelectErrorOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "permission denied", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon", sessionFor("user-1"))
	var rows []transactionRow
	err := client.Select(context.Background(), TableTransactions, nil, "", &rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestCollectionsLoadProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"user_id":"user-1","has_onboarded":true,"family_size":"4","diet":"Vegan"}]`))
	}))
	defer server.Close()

	cols := NewCollections(NewClient(server.URL, "anon", sessionFor("user-1")))
	rp, err := cols.LoadProfile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rp)
	assert.True(t, rp.HasOnboarded)
	assert.Equal(t, "4", rp.Profile.FamilySize)
	assert.Equal(t, "Vegan", rp.Profile.Diet)
}

func TestCollectionsLoadProfileAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cols := NewCollections(NewClient(server.URL, "anon", sessionFor("user-1")))
	rp, err := cols.LoadProfile(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rp)
}

func TestQueueRunsOpsInOrderAndSwallowsFailures(t *testing.T) {
	q := NewQueue(8)

	var order []string
	done := make(chan struct{})
	q.Enqueue(Op{Name: "first", Do: func(context.Context) error {
		order = append(order, "first")
		return nil
	}})
	q.Enqueue(Op{Name: "failing", Do: func(context.Context) error {
		order = append(order, "failing")
		return errors.New("backend down")
	}})
	q.Enqueue(Op{Name: "last", Do: func(context.Context) error {
		order = append(order, "last")
		close(done)
		return nil
	}})

	<-done
	q.Close()

	assert.Equal(t, []string{"first", "failing", "last"}, order)
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoi-labs/rasoi/internal/common"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "password" {
			http.Error(w, `{"msg":"unsupported grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","expires_in":3600,"user":{"id":"user-1","email":"asha@example.com"}}`))
	})
	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, _ *http.Request) {
		// Confirmation-required providers return a user but no token.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"user-2","email":"new@example.com"}}`))
	})
	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			http.Error(w, `{"msg":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"asha@example.com","user_metadata":{"name":"Asha"}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSignInWithPassword(t *testing.T) {
	server := newAuthServer(t)
	tokenFile := filepath.Join(t.TempDir(), "session.json")
	client := NewClient(server.URL, "anon", tokenFile)

	var notified []*Session
	client.OnSessionChange(func(s *Session) { notified = append(notified, s) })

	sess, err := client.SignInWithPassword(context.Background(), "asha@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "asha@example.com", sess.Email)
	require.Len(t, notified, 1)
	assert.Equal(t, "user-1", notified[0].UserID)

	// Session survives a restart via the on-disk cache.
	restarted := NewClient(server.URL, "anon", tokenFile)
	cached, ok := restarted.GetSession()
	require.True(t, ok)
	assert.Equal(t, "at-1", cached.AccessToken)
}

func TestSignInWithBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error_description":"Invalid login credentials"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon", "")
	_, err := client.SignInWithPassword(context.Background(), "asha@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAuth))
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestSignUpConfirmationRequired(t *testing.T) {
	server := newAuthServer(t)
	client := NewClient(server.URL, "anon", "")

	_, err := client.SignUp(context.Background(), "new@example.com", "secret")
	assert.ErrorIs(t, err, common.ErrConfirmEmail)
	_, ok := client.GetSession()
	assert.False(t, ok)
}

func TestSignOutClearsSessionAndNotifies(t *testing.T) {
	server := newAuthServer(t)
	tokenFile := filepath.Join(t.TempDir(), "session.json")
	client := NewClient(server.URL, "anon", tokenFile)

	_, err := client.SignInWithPassword(context.Background(), "asha@example.com", "secret")
	require.NoError(t, err)

	var last *Session
	sawSignOut := false
	client.OnSessionChange(func(s *Session) {
		last = s
		if s == nil {
			sawSignOut = true
		}
	})

	require.NoError(t, client.SignOut(context.Background()))
	assert.True(t, sawSignOut)
	assert.Nil(t, last)
	_, ok := client.GetSession()
	assert.False(t, ok)
}

func TestSignOutWithoutSessionIsNoOp(t *testing.T) {
	client := NewClient("http://localhost:1", "anon", "")

	notified := 0
	client.OnSessionChange(func(*Session) { notified++ })

	// A sign-out with nothing to sign out of must not fire the listeners;
	// a nil notification here would reset local-only application state.
	require.NoError(t, client.SignOut(context.Background()))
	assert.Zero(t, notified)
}

func TestGetUser(t *testing.T) {
	server := newAuthServer(t)
	client := NewClient(server.URL, "anon", "")
	_, err := client.SignInWithPassword(context.Background(), "asha@example.com", "secret")
	require.NoError(t, err)

	account, err := client.GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", account.ID)
	assert.Equal(t, "Asha", account.Name)
}

func TestGetUserWithoutSession(t *testing.T) {
	client := NewClient("http://localhost:1", "anon", "")
	_, err := client.GetUser(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSession)
}

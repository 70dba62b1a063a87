// Package auth is the client for the identity provider. The provider is a
// black box: this package only manages sessions (sign-in, sign-up, OAuth,
// sign-out), caches the current session on disk, and notifies listeners on
// session changes.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rasoi-labs/rasoi/internal/common"
	"github.com/rasoi-labs/rasoi/internal/model"
)

// Session is an authenticated identity session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Listener receives session changes; nil means signed out.
type Listener func(*Session)

// Client talks to the identity provider's REST endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	tokenFile  string
	httpClient *http.Client

	mu        sync.Mutex
	session   *Session
	listeners []Listener
}

// NewClient creates an identity client. The cached session (if any) is
// loaded from tokenFile so a restart resumes the previous sign-in.
func NewClient(baseURL, apiKey, tokenFile string) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		tokenFile: tokenFile,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	c.session = c.loadCachedSession()
	return c
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorResponse struct {
	Message     string `json:"msg"`
	Description string `json:"error_description"`
}

// SignInWithPassword exchanges email/password credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrAuth, err)
	}
	return c.adoptToken(resp)
}

// SignUp registers a new account. When the provider requires email
// confirmation no session is returned and the error is ErrConfirmEmail.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	if err := c.post(ctx, "/auth/v1/signup", body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrAuth, err)
	}
	if resp.AccessToken == "" {
		return nil, common.ErrConfirmEmail
	}
	return c.adoptToken(resp)
}

// SignOut revokes the session with the provider (best effort) and clears the
// cached session, notifying listeners. Remote application data is untouched.
// Without an active session this is a no-op: listeners must not see a
// signed-out transition that would reset local-only state.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	if sess == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err == nil {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
		if resp, doErr := c.httpClient.Do(req); doErr == nil {
			_ = resp.Body.Close()
		}
	}

	c.setSession(nil)
	return nil
}

// GetSession returns the current session, if any.
func (c *Client) GetSession() (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, false
	}
	sess := *c.session
	return &sess, true
}

// GetUser fetches the identity summary for the current session.
func (c *Client) GetUser(ctx context.Context) (*model.Account, error) {
	sess, ok := c.GetSession()
	if !ok {
		return nil, common.ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("user request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read user response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", common.ErrAuth, resp.StatusCode, string(body))
	}

	var user struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			Name      string `json:"name"`
			AvatarURL string `json:"avatar_url"`
		} `json:"user_metadata"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}

	return &model.Account{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.UserMetadata.Name,
		AvatarURL: user.UserMetadata.AvatarURL,
	}, nil
}

// OnSessionChange registers a listener invoked whenever the session changes,
// including out-of-band OAuth completions.
func (c *Client) OnSessionChange(listener Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}

func (c *Client) adoptToken(resp tokenResponse) (*Session, error) {
	if resp.AccessToken == "" || resp.User.ID == "" {
		return nil, fmt.Errorf("%w: provider returned no session", common.ErrAuth)
	}
	sess := &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	c.setSession(sess)
	return sess, nil
}

func (c *Client) setSession(sess *Session) {
	c.mu.Lock()
	c.session = sess
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	c.persistSession(sess)
	for _, listener := range listeners {
		listener(sess)
	}
}

func (c *Client) post(ctx context.Context, path string, payload, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil {
			if errResp.Description != "" {
				return fmt.Errorf("%s", errResp.Description)
			}
			if errResp.Message != "" {
				return fmt.Errorf("%s", errResp.Message)
			}
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	if dest != nil {
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) loadCachedSession() *Session {
	if c.tokenFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		common.LogError(err, "corrupt session cache, ignoring", common.Fields{"file": c.tokenFile})
		return nil
	}
	if sess.AccessToken == "" {
		return nil
	}
	return &sess
}

func (c *Client) persistSession(sess *Session) {
	if c.tokenFile == "" {
		return
	}
	if sess == nil {
		_ = os.Remove(c.tokenFile)
		return
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.tokenFile), 0o700); err != nil {
		common.LogError(err, "failed to create session cache directory", common.Fields{"file": c.tokenFile})
		return
	}
	if err := os.WriteFile(c.tokenFile, data, 0o600); err != nil {
		common.LogError(err, "failed to cache session", common.Fields{"file": c.tokenFile})
	}
}

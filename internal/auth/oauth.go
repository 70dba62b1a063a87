package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/rasoi-labs/rasoi/internal/common"
)

const oauthCallbackAddr = "localhost:8910"

// SignInWithOAuth runs the provider's OAuth flow interactively: it prints
// the authorization URL, waits for the redirect on a local callback server,
// exchanges the code, and adopts the resulting session. The session change
// reaches the rest of the app through the registered listeners, matching
// the out-of-band redirect sign-in contract.
func (c *Client) SignInWithOAuth(ctx context.Context, provider string) (*Session, error) {
	if provider == "" {
		return nil, fmt.Errorf("%w: oauth provider is required", common.ErrInvalidConfig)
	}

	oauthConfig := &oauth2.Config{
		ClientID: c.apiKey,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.baseURL + "/auth/v1/authorize",
			TokenURL: c.baseURL + "/auth/v1/token?grant_type=authorization_code",
		},
		RedirectURL: "http://" + oauthCallbackAddr + "/callback",
	}

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			errChan <- fmt.Errorf("%w: oauth state mismatch", common.ErrAuth)
			_, _ = fmt.Fprint(w, "<html><body><h1>Authentication failed</h1><p>State mismatch. Please try again.</p></body></html>")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("%w: no authorization code received", common.ErrAuth)
			_, _ = fmt.Fprint(w, "<html><body><h1>Authentication failed</h1><p>No authorization code received.</p></body></html>")
			return
		}
		codeChan <- code
		_, _ = fmt.Fprint(w, "<html><body><h1>Authentication successful</h1><p>You can close this window and return to the terminal.</p></body></html>")
	})

	server := &http.Server{Addr: oauthCallbackAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := oauthConfig.AuthCodeURL(state, oauth2.SetAuthURLParam("provider", provider))
	fmt.Printf("Open this URL in your browser to sign in:\n\n  %s\n\n", authURL)
	slog.Info("Waiting for OAuth redirect", "provider", provider, "callback", oauthCallbackAddr)

	var code string
	select {
	case code = <-codeChan:
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange failed: %w", common.ErrAuth, err)
	}

	return c.adoptOAuthToken(ctx, token)
}

// adoptOAuthToken turns an exchanged OAuth token into a session by asking
// the provider who the token belongs to.
func (c *Client) adoptOAuthToken(ctx context.Context, token *oauth2.Token) (*Session, error) {
	sess := &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}

	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()

	account, err := c.GetUser(ctx)
	if err != nil {
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
		return nil, err
	}
	sess.UserID = account.ID
	sess.Email = account.Email

	c.setSession(sess)
	return sess, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Package remote mirrors the local collections to the remote structured
// store. Every write is best-effort and scoped to the authenticated user;
// with no session each operation is a silent no-op.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Session carries the identity a remote operation runs under.
type Session struct {
	UserID      string
	AccessToken string
}

// SessionFunc reports the current session; ok is false when signed out.
type SessionFunc func() (Session, bool)

// Client talks to the remote row store over its REST interface. Rows are
// keyed per user; the anon API key plus the session bearer token authorize
// each request.
type Client struct {
	baseURL    string
	apiKey     string
	session    SessionFunc
	httpClient *http.Client
}

// NewClient creates a remote store client.
func NewClient(baseURL, apiKey string, session SessionFunc) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		session: session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Filter is a column=value equality filter rendered as eq.<value> params.
type Filter map[string]string

func (f Filter) encode() url.Values {
	values := url.Values{}
	for column, v := range f {
		values.Set(column, "eq."+v)
	}
	return values
}

// Upsert writes rows to table, merging on conflictKey.
func (c *Client) Upsert(ctx context.Context, table string, rows any, conflictKey string) error {
	sess, ok := c.session()
	if !ok {
		return nil
	}
	query := url.Values{}
	if conflictKey != "" {
		query.Set("on_conflict", conflictKey)
	}
	return c.write(ctx, sess, http.MethodPost, table, query, rows, "resolution=merge-duplicates")
}

// Insert appends a row to table without conflict handling.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	sess, ok := c.session()
	if !ok {
		return nil
	}
	return c.write(ctx, sess, http.MethodPost, table, nil, row, "")
}

// Delete removes the rows of table matching filter. The caller's user id is
// always added to the filter so one user can never delete another's rows.
func (c *Client) Delete(ctx context.Context, table string, filter Filter) error {
	sess, ok := c.session()
	if !ok {
		return nil
	}
	query := filter.encode()
	query.Set("user_id", "eq."+sess.UserID)
	return c.write(ctx, sess, http.MethodDelete, table, query, nil, "")
}

// Select reads the caller's rows from table into dest, optionally ordered.
// With no session dest is left untouched and no request is made.
func (c *Client) Select(ctx context.Context, table string, filter Filter, order string, dest any) error {
	sess, ok := c.session()
	if !ok {
		return nil
	}

	query := filter.encode()
	query.Set("user_id", "eq."+sess.UserID)
	query.Set("select", "*")
	if order != "" {
		query.Set("order", order)
	}

	req, err := c.newRequest(ctx, sess, http.MethodGet, table, query, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote select %s: %w", table, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote select %s: read body: %w", table, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote select %s: status %d: %s", table, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("remote select %s: decode rows: %w", table, err)
	}
	return nil
}

func (c *Client) write(ctx context.Context, sess Session, method, table string, query url.Values, payload any, prefer string) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("remote %s %s: marshal: %w", strings.ToLower(method), table, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, sess, method, table, query, body)
	if err != nil {
		return err
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote %s %s: %w", strings.ToLower(method), table, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("remote %s %s: status %d: %s", strings.ToLower(method), table, resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, sess Session, method, table string, query url.Values, body io.Reader) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("remote request for %s: %w", table, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	return req, nil
}

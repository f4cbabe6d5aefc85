package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"synapse-digest/internal/session"
	"synapse-digest/internal/storage"
)

const sessionKey = "auth:session"

// refreshLeeway refreshes tokens slightly before they expire.
const refreshLeeway = 30 * time.Second

// ErrNotConfigured is returned by sign-in when no provider URL is set.
var ErrNotConfigured = errors.New("auth provider not configured: set auth.base_url and auth.api_key")

type user struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// stored is the persisted session, also the token endpoint response shape.
type stored struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
	User         user   `json:"user"`
}

func (s *stored) credentials() *session.Credentials {
	return &session.Credentials{AccessToken: s.AccessToken, UserID: s.User.ID, Email: s.User.Email}
}

// Client talks to a GoTrue-compatible auth REST API and keeps the session
// in the device store so it survives restarts.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	kv      storage.KV
	now     func() time.Time

	mu     sync.Mutex
	subs   map[int]func(session.Event)
	nextID int
}

// New creates a provider client. baseURL should be like
// "https://<project>.supabase.co/auth/v1".
func New(baseURL, apiKey string, kv storage.KV, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		kv:      kv,
		now:     time.Now,
		subs:    map[int]func(session.Event){},
	}
}

var _ session.Provider = (*Client)(nil)

// Subscribe registers fn for auth state changes.
func (c *Client) Subscribe(fn func(session.Event)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Client) emit(ev session.Event) {
	c.mu.Lock()
	fns := make([]func(session.Event), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Current returns the persisted session, refreshing it first when the
// access token is about to expire. A rejected refresh token ends the session.
func (c *Client) Current(ctx context.Context) (*session.Credentials, error) {
	st, err := c.load(ctx)
	if err != nil || st == nil {
		return nil, err
	}
	if !c.expired(st) {
		return st.credentials(), nil
	}
	if st.RefreshToken == "" {
		return st.credentials(), nil
	}
	next, err := c.grant(ctx, "refresh_token", map[string]string{"refresh_token": st.RefreshToken})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status >= 400 && se.status < 500 {
			slog.Warn("auth: refresh token rejected, signing out", "status", se.status)
			c.clear(ctx)
			c.emit(session.Event{Kind: session.SignedOut})
			return nil, nil
		}
		return nil, err
	}
	c.emit(session.Event{Kind: session.TokenRefreshed, Credentials: next.credentials()})
	return next.credentials(), nil
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Credentials, error) {
	st, err := c.grant(ctx, "password", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	creds := st.credentials()
	c.emit(session.Event{Kind: session.SignedIn, Credentials: creds})
	return creds, nil
}

// SignOut revokes the session remotely (best effort) and always clears it
// locally.
func (c *Client) SignOut(ctx context.Context) error {
	st, err := c.load(ctx)
	if err == nil && st != nil && c.baseURL != "" {
		if err := c.post(ctx, "/logout", st.AccessToken, nil, nil); err != nil {
			slog.Warn("auth: remote logout failed", "error", err)
		}
	}
	clearErr := c.clear(ctx)
	c.emit(session.Event{Kind: session.SignedOut})
	return clearErr
}

func (c *Client) expired(st *stored) bool {
	if st.ExpiresAt == 0 {
		return false
	}
	return !c.now().Add(refreshLeeway).Before(time.Unix(st.ExpiresAt, 0))
}

func (c *Client) grant(ctx context.Context, grantType string, body map[string]string) (*stored, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	var st stored
	if err := c.post(ctx, "/token?grant_type="+grantType, "", body, &st); err != nil {
		return nil, err
	}
	if st.AccessToken == "" {
		return nil, errors.New("auth: token response missing access_token")
	}
	if st.ExpiresAt == 0 && st.ExpiresIn > 0 {
		st.ExpiresAt = c.now().Add(time.Duration(st.ExpiresIn) * time.Second).Unix()
	}
	if err := c.save(ctx, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("auth request failed: status=%d body=%s", e.status, e.body)
}

func (c *Client) post(ctx context.Context, path, bearer string, body, out any) error {
	var rdr io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{status: resp.StatusCode, body: string(b)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) load(ctx context.Context) (*stored, error) {
	raw, err := c.kv.Get(ctx, sessionKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load auth session: %w", err)
	}
	var st stored
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("parse auth session: %w", err)
	}
	if st.AccessToken == "" {
		return nil, nil
	}
	return &st, nil
}

func (c *Client) save(ctx context.Context, st *stored) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, sessionKey, string(b))
}

func (c *Client) clear(ctx context.Context) error {
	return c.kv.Delete(ctx, sessionKey)
}

package authprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"synapse-digest/internal/session"
	"synapse-digest/internal/storage"
)

type recorder struct {
	mu     sync.Mutex
	events []session.EventKind
}

func (r *recorder) on(ev session.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev.Kind)
	r.mu.Unlock()
}

func (r *recorder) kinds() []session.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.EventKind{}, r.events...)
}

func tokenServer(t *testing.T, refreshStatus int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon" {
			t.Errorf("missing apikey header")
		}
		switch {
		case r.URL.Path == "/token" && r.URL.Query().Get("grant_type") == "password":
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"expires_in":    3600,
				"user":          map[string]string{"id": "u1", "email": "ada@example.com"},
			})
		case r.URL.Path == "/token" && r.URL.Query().Get("grant_type") == "refresh_token":
			if refreshStatus != http.StatusOK {
				w.WriteHeader(refreshStatus)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-2",
				"refresh_token": "refresh-2",
				"expires_in":    3600,
				"user":          map[string]string{"id": "u1", "email": "ada@example.com"},
			})
		case r.URL.Path == "/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSignInPersistsAndEmits(t *testing.T) {
	srv := tokenServer(t, http.StatusOK)
	kv := storage.NewMemoryStore()
	c := New(srv.URL, "anon", kv, time.Second)
	rec := &recorder{}
	c.Subscribe(rec.on)

	creds, err := c.SignIn(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if creds.AccessToken != "access-1" || creds.UserID != "u1" {
		t.Errorf("creds = %+v", creds)
	}
	if got := rec.kinds(); len(got) != 1 || got[0] != session.SignedIn {
		t.Errorf("events = %v", got)
	}

	// A fresh client over the same store sees the session.
	again := New(srv.URL, "anon", kv, time.Second)
	cur, err := again.Current(context.Background())
	if err != nil || cur == nil || cur.AccessToken != "access-1" {
		t.Errorf("Current = %+v, %v", cur, err)
	}
}

func TestCurrentRefreshesExpiredToken(t *testing.T) {
	srv := tokenServer(t, http.StatusOK)
	c := New(srv.URL, "anon", storage.NewMemoryStore(), time.Second)
	if _, err := c.SignIn(context.Background(), "a", "b"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	rec := &recorder{}
	c.Subscribe(rec.on)

	cur, err := c.Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.AccessToken != "access-2" {
		t.Errorf("token = %q, want refreshed", cur.AccessToken)
	}
	if got := rec.kinds(); len(got) != 1 || got[0] != session.TokenRefreshed {
		t.Errorf("events = %v", got)
	}
}

func TestCurrentRejectedRefreshSignsOut(t *testing.T) {
	srv := tokenServer(t, http.StatusBadRequest)
	c := New(srv.URL, "anon", storage.NewMemoryStore(), time.Second)
	if _, err := c.SignIn(context.Background(), "a", "b"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	rec := &recorder{}
	c.Subscribe(rec.on)

	cur, err := c.Current(context.Background())
	if err != nil || cur != nil {
		t.Fatalf("Current = %+v, %v; want nil, nil", cur, err)
	}
	if got := rec.kinds(); len(got) != 1 || got[0] != session.SignedOut {
		t.Errorf("events = %v", got)
	}
}

func TestSignOutClearsAndUnsubscribeStopsEvents(t *testing.T) {
	srv := tokenServer(t, http.StatusOK)
	c := New(srv.URL, "anon", storage.NewMemoryStore(), time.Second)
	rec := &recorder{}
	unsub := c.Subscribe(rec.on)
	if _, err := c.SignIn(context.Background(), "a", "b"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	unsub()

	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if cur, _ := c.Current(context.Background()); cur != nil {
		t.Errorf("session survived sign out: %+v", cur)
	}
	if got := rec.kinds(); len(got) != 1 {
		t.Errorf("events after unsubscribe delivered: %v", got)
	}
}

func TestStoreFollowsProvider(t *testing.T) {
	srv := tokenServer(t, http.StatusOK)
	c := New(srv.URL, "anon", storage.NewMemoryStore(), time.Second)
	s := session.New(c)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	if _, err := c.SignIn(ctx, "a", "b"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if s.Token() != "access-1" {
		t.Errorf("store token = %q", s.Token())
	}
	if err := s.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if s.Authenticated() {
		t.Error("store still authenticated")
	}
}

func TestSignOutSeenAcrossDeviceStores(t *testing.T) {
	srv := tokenServer(t, http.StatusOK)
	path := filepath.Join(t.TempDir(), "device.json")
	open := func() *Client {
		kv, err := storage.NewFileStore(path)
		if err != nil {
			t.Fatalf("NewFileStore: %v", err)
		}
		return New(srv.URL, "anon", kv, time.Second)
	}
	watcher, cli := open(), open()
	ctx := context.Background()

	if _, err := cli.SignIn(ctx, "a", "b"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if cur, _ := watcher.Current(ctx); cur == nil {
		t.Fatal("sign in not visible to second client")
	}
	if err := cli.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if cur, _ := watcher.Current(ctx); cur != nil {
		t.Errorf("second client kept session after sign out: %+v", cur)
	}
}

func TestSignInWithoutConfig(t *testing.T) {
	c := New("", "", storage.NewMemoryStore(), time.Second)
	if _, err := c.SignIn(context.Background(), "a", "b"); err != ErrNotConfigured {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

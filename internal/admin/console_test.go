package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"synapse-digest/internal/api"
	"synapse-digest/internal/session"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestConsoleRequiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	}))
	defer srv.Close()
	c := NewConsole(api.New(srv.URL, api.Options{}), staticToken(""))
	if _, err := c.Dashboard(context.Background()); !errors.Is(err, session.ErrUnauthenticated) {
		t.Errorf("err = %v", err)
	}
	if err := c.NewLogTail(0).Refresh(context.Background()); !errors.Is(err, session.ErrUnauthenticated) {
		t.Errorf("log tail err = %v", err)
	}
}

func TestConsoleDashboardAndForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/dashboard":
			_ = json.NewEncoder(w).Encode(map[string]int{"total_users": 7, "articles_today": 3})
		default:
			http.Error(w, `{"detail":"Not enough privileges"}`, http.StatusForbidden)
		}
	}))
	defer srv.Close()
	c := NewConsole(api.New(srv.URL, api.Options{}), staticToken("tok"))
	stats, err := c.Dashboard(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalUsers != 7 || stats.ArticlesToday != 3 {
		t.Errorf("stats = %+v", stats)
	}
	_, err = c.Promote(context.Background(), "u1")
	if api.StatusOf(err) != http.StatusForbidden {
		t.Errorf("promote err = %v", err)
	}
}

func TestLogTailReplacesLines(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("lines") != "50" {
			t.Errorf("lines = %q", r.URL.Query().Get("lines"))
		}
		logs := []string{"a", "b"}
		if calls > 1 {
			logs = []string{"c"}
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"logs": logs})
	}))
	defer srv.Close()
	tail := NewConsole(api.New(srv.URL, api.Options{}), staticToken("tok")).NewLogTail(50)
	ctx := context.Background()
	if err := tail.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if err := tail.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if got := tail.Lines(); len(got) != 1 || got[0] != "c" {
		t.Errorf("lines = %v", got)
	}
	tail.Close()
	_ = tail.Refresh(ctx)
	if got := tail.Lines(); len(got) != 1 || got[0] != "c" {
		t.Errorf("lines after close = %v", got)
	}
}

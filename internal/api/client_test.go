package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"synapse-digest/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/v1/", Options{HTTPClient: srv.Client()})
}

func TestDoSendsBearerOnlyWithToken(t *testing.T) {
	var gotAuth []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		w.Write([]byte(`[]`))
	})
	ctx := context.Background()

	if _, err := c.Personalized(ctx, "tok", 0); err != nil {
		t.Fatalf("Personalized: %v", err)
	}
	if _, err := c.Trending(ctx, 6); err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if gotAuth[0] != "Bearer tok" {
		t.Errorf("auth header = %q, want Bearer tok", gotAuth[0])
	}
	if gotAuth[1] != "" {
		t.Errorf("anonymous call sent auth header %q", gotAuth[1])
	}
}

func TestDoJoinsBasePathAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/articles/category/AI" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit = %q, want 20", got)
		}
		if got := r.URL.Query().Get("skip"); got != "40" {
			t.Errorf("skip = %q, want 40", got)
		}
		json.NewEncoder(w).Encode([]model.Article{{ID: "a1", Title: "t"}})
	})
	got, err := c.ByCategory(context.Background(), "AI", 40, 20)
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("got %+v", got)
	}
}

func TestDoNon2xxIsRequestFailed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"down"}`))
	})
	_, err := c.ArticlesToday(context.Background(), 0)
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("err = %v, want ErrRequestFailed", err)
	}
	if got := StatusOf(err); got != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", got)
	}
	var rf *RequestFailedError
	if !errors.As(err, &rf) || rf.Body != `{"detail":"down"}` {
		t.Errorf("body snippet = %+v", rf)
	}
}

func TestDoTransportFailureIsRequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, Options{Timeout: time.Second})
	err := c.Do(context.Background(), http.MethodGet, "/articles", "", nil, nil)
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("err = %v, want ErrRequestFailed", err)
	}
	if StatusOf(err) != 0 {
		t.Errorf("status = %d, want 0 for transport failure", StatusOf(err))
	}
}

func TestDoBadJSONIsRequestFailed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{broken`))
	})
	_, err := c.Trending(context.Background(), 0)
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("err = %v, want ErrRequestFailed", err)
	}
}

func TestDailyPollNull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})
	p, err := c.DailyPoll(context.Background())
	if err != nil {
		t.Fatalf("DailyPoll: %v", err)
	}
	if p != nil {
		t.Errorf("poll = %+v, want nil", p)
	}
}

func TestCreateCommentBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.URL.Query().Get("poll_id"); got != "p1" {
			t.Errorf("poll_id = %q", got)
		}
		b, _ := io.ReadAll(r.Body)
		var in map[string]any
		if err := json.Unmarshal(b, &in); err != nil {
			t.Fatalf("body: %v", err)
		}
		if in["content"] != "hello" || in["parent_id"] != "c1" {
			t.Errorf("body = %s", b)
		}
		w.Write([]byte(`{"id":"c2","content":"hello","user_name":"ada","parent_id":"c1"}`))
	})
	parent := "c1"
	got, err := c.CreateComment(context.Background(), "tok", model.Resource{Kind: model.ResourcePoll, ID: "p1"}, "hello", &parent)
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if got.ID != "c2" || got.ParentID == nil || *got.ParentID != "c1" {
		t.Errorf("got %+v", got)
	}
}

func TestReactQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/articles/a1/reaction" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("reaction_type") != "fire" || q.Get("action") != "decrement" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"fire":2,"mindblown":0,"skeptical":1}`))
	})
	got, err := c.React(context.Background(), "a1", model.ReactionFire, Decrement)
	if err != nil {
		t.Fatalf("React: %v", err)
	}
	if got.Fire != 2 || got.Skeptical != 1 {
		t.Errorf("counts = %+v", got)
	}
}

func TestArchivePaging(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("skip"); got != "48" {
			t.Errorf("skip = %q, want 48", got)
		}
		w.Write([]byte(`[]`))
	})
	if _, err := c.Archive(context.Background(), 3, 24); err != nil {
		t.Fatalf("Archive: %v", err)
	}
}

func TestSystemLogs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lines") != "200" {
			t.Errorf("lines = %q", r.URL.Query().Get("lines"))
		}
		w.Write([]byte(`{"logs":["a","b"]}`))
	})
	lines, err := c.SystemLogs(context.Background(), "tok", 200)
	if err != nil {
		t.Fatalf("SystemLogs: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("lines = %v", lines)
	}
}

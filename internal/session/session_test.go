package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type fakeProvider struct {
	mu       sync.Mutex
	creds    *Credentials
	err      error
	subs     []func(Event)
	unsubbed int
	signouts int
}

func (p *fakeProvider) Current(context.Context) (*Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.creds, p.err
}

func (p *fakeProvider) Subscribe(fn func(Event)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
	return func() {
		p.mu.Lock()
		p.unsubbed++
		p.mu.Unlock()
	}
}

func (p *fakeProvider) SignOut(context.Context) error {
	p.mu.Lock()
	p.signouts++
	p.mu.Unlock()
	return nil
}

func (p *fakeProvider) emit(ev Event) {
	p.mu.Lock()
	subs := append([]func(Event){}, p.subs...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestRefreshDerivesIdentityFromClaims(t *testing.T) {
	tok := signed(t, jwt.MapClaims{
		"sub":   "user-1",
		"email": "ada@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	p := &fakeProvider{creds: &Credentials{AccessToken: tok}}
	s := New(p)

	s.Refresh(context.Background())

	cur := s.Current()
	if cur.UserID != "user-1" || cur.Email != "ada@example.com" {
		t.Errorf("identity = %+v", cur)
	}
	if !cur.Fresh {
		t.Error("unexpired token should be fresh")
	}
	if s.Token() != tok {
		t.Error("token not exposed")
	}
}

func TestExpiredTokenIsNotFresh(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()})
	s := New(&fakeProvider{creds: &Credentials{AccessToken: tok}})
	s.Refresh(context.Background())
	if s.Current().Fresh {
		t.Error("expired token reported fresh")
	}
	if !s.Authenticated() {
		t.Error("expired token still counts as a session until the provider clears it")
	}
}

func TestRefreshFailureKeepsLastKnown(t *testing.T) {
	p := &fakeProvider{creds: &Credentials{AccessToken: "opaque", UserID: "u1"}}
	s := New(p)
	s.Refresh(context.Background())

	p.mu.Lock()
	p.creds, p.err = nil, errors.New("provider unreachable")
	p.mu.Unlock()
	s.Refresh(context.Background())

	if s.Token() != "opaque" {
		t.Errorf("token = %q, want last known", s.Token())
	}
}

func TestRefreshFailureWithoutPriorSessionIsAnonymous(t *testing.T) {
	s := New(&fakeProvider{err: errors.New("down")})
	s.Refresh(context.Background())
	if s.Authenticated() {
		t.Error("expected anonymous")
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	p := &fakeProvider{creds: &Credentials{AccessToken: "opaque", UserID: "u1"}}
	s := New(p)
	s.Refresh(context.Background())
	first := s.Current()
	s.Refresh(context.Background())
	if s.Current() != first {
		t.Errorf("second refresh changed session: %+v vs %+v", s.Current(), first)
	}
}

func TestStartSubscribesOnceAndHandlesEvents(t *testing.T) {
	p := &fakeProvider{}
	s := New(p)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	s.Start(ctx)
	if got := len(p.subs); got != 1 {
		t.Fatalf("subscriptions = %d, want 1", got)
	}

	p.emit(Event{Kind: SignedIn, Credentials: &Credentials{AccessToken: "t1", UserID: "u1"}})
	if s.Token() != "t1" {
		t.Fatalf("token after sign in = %q", s.Token())
	}
	ended := s.Watch()

	p.emit(Event{Kind: TokenRefreshed, Credentials: &Credentials{AccessToken: "t2", UserID: "u1"}})
	if s.Token() != "t2" {
		t.Errorf("token after refresh = %q", s.Token())
	}

	// A sign-out event clears even if it carries stale credentials.
	p.emit(Event{Kind: SignedOut, Credentials: &Credentials{AccessToken: "t2"}})
	if s.Authenticated() {
		t.Error("still authenticated after sign out")
	}
	select {
	case <-ended:
	default:
		t.Error("watch channel not closed on sign out")
	}
}

func TestCloseUnsubscribesOnContextEnd(t *testing.T) {
	p := &fakeProvider{}
	s := New(p)
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		p.mu.Lock()
		n := p.unsubbed
		p.mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("provider subscription not dropped after context end")
}

func TestWatchWhenAnonymousIsClosed(t *testing.T) {
	s := New(&fakeProvider{})
	select {
	case <-s.Watch():
	default:
		t.Error("anonymous watch should be closed")
	}
}

func TestSignOutClears(t *testing.T) {
	p := &fakeProvider{creds: &Credentials{AccessToken: "opaque"}}
	s := New(p)
	s.Refresh(context.Background())
	if err := s.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if s.Authenticated() || p.signouts != 1 {
		t.Errorf("authenticated=%v signouts=%d", s.Authenticated(), p.signouts)
	}
}

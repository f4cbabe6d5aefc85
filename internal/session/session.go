package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is returned when an action needs a session and there
// is none. Callers resolve it by sending the user to login.
var ErrUnauthenticated = errors.New("authentication required")

// Session is the current identity as seen by feature components.
type Session struct {
	UserID string
	Email  string
	Token  string
	Fresh  bool
}

// Authenticated reports whether a bearer token is present.
func (s Session) Authenticated() bool { return s.Token != "" }

// Credentials is what an auth provider hands out.
type Credentials struct {
	AccessToken string
	UserID      string
	Email       string
}

// EventKind enumerates provider-pushed auth state changes.
type EventKind int

const (
	SignedIn EventKind = iota
	SignedOut
	TokenRefreshed
	UserUpdated
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "SIGNED_IN"
	case SignedOut:
		return "SIGNED_OUT"
	case TokenRefreshed:
		return "TOKEN_REFRESHED"
	case UserUpdated:
		return "USER_UPDATED"
	}
	return "UNKNOWN"
}

// Event is one auth state change. Credentials is nil when there is no session.
type Event struct {
	Kind        EventKind
	Credentials *Credentials
}

// Provider is the external authentication provider.
type Provider interface {
	// Current returns the provider's session, or nil when signed out.
	Current(ctx context.Context) (*Credentials, error)
	// Subscribe registers fn for auth state changes.
	Subscribe(fn func(Event)) (unsubscribe func())
	SignOut(ctx context.Context) error
}

// Navigator sends the user to the login entry point.
type Navigator interface {
	ToLogin()
}

var closed = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// Store holds the current session. It is the only writer of the token;
// consumers read it at call time through Token or Current.
type Store struct {
	provider Provider
	now      func() time.Time

	mu    sync.RWMutex
	cur   Session
	ended chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
	unsub     func()
}

func New(p Provider) *Store {
	return &Store{provider: p, now: time.Now, ended: make(chan struct{})}
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Token returns the bearer token, or "" when anonymous.
func (s *Store) Token() string {
	return s.Current().Token
}

func (s *Store) Authenticated() bool {
	return s.Current().Authenticated()
}

// Watch returns a channel that is closed once the session ends. When there
// is no session the channel is already closed.
func (s *Store) Watch() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.cur.Authenticated() {
		return closed
	}
	return s.ended
}

// Refresh re-derives the session from the provider. On provider failure the
// last known session is kept.
func (s *Store) Refresh(ctx context.Context) {
	creds, err := s.provider.Current(ctx)
	if err != nil {
		slog.Warn("session: refresh failed, keeping last known session", "error", err)
		return
	}
	s.apply(creds)
}

// Start subscribes to provider events for the lifetime of ctx. Only the
// first call subscribes.
func (s *Store) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		unsub := s.provider.Subscribe(s.handle)
		s.mu.Lock()
		s.unsub = unsub
		s.mu.Unlock()
		go func() {
			<-ctx.Done()
			s.Close()
		}()
	})
}

// Close drops the provider subscription.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		unsub := s.unsub
		s.mu.Unlock()
		if unsub != nil {
			unsub()
		}
	})
}

// SignOut asks the provider to end the session. The store itself is cleared
// by the resulting SignedOut event, and also here in case the provider
// pushes nothing.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.provider.SignOut(ctx)
	s.apply(nil)
	return err
}

func (s *Store) handle(ev Event) {
	slog.Debug("session: auth state change", "event", ev.Kind.String())
	if ev.Kind == SignedOut {
		s.apply(nil)
		return
	}
	s.apply(ev.Credentials)
}

func (s *Store) apply(creds *Credentials) {
	next := s.derive(creds)
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.cur.Authenticated()
	s.cur = next
	if was && !next.Authenticated() {
		close(s.ended)
		s.ended = make(chan struct{})
	}
}

// derive fills identity from the credentials, falling back to the token
// claims. The token is not verified here; the API does that.
func (s *Store) derive(creds *Credentials) Session {
	if creds == nil || creds.AccessToken == "" {
		return Session{}
	}
	out := Session{
		UserID: creds.UserID,
		Email:  creds.Email,
		Token:  creds.AccessToken,
		Fresh:  true,
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(creds.AccessToken, claims); err != nil {
		return out
	}
	if out.UserID == "" {
		if sub, err := claims.GetSubject(); err == nil {
			out.UserID = sub
		}
	}
	if out.Email == "" {
		if email, ok := claims["email"].(string); ok {
			out.Email = email
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.Fresh = s.now().Before(exp.Time)
	}
	return out
}

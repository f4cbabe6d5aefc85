// Package notify keeps the notification list and unread badge of the
// signed-in user.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"synapse-digest/internal/detach"
	"synapse-digest/internal/model"
	"synapse-digest/internal/session"
)

// Source lists notifications and persists read flags.
type Source interface {
	Notifications(ctx context.Context, token string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, token, id string) error
}

// TokenSource yields the bearer token at call time.
type TokenSource interface {
	Token() string
}

// Inbox holds the last fetched notification list.
type Inbox struct {
	src    Source
	tokens TokenSource
	calls  *detach.Queue

	mu     sync.Mutex
	items  []model.Notification
	unread int
	closed bool
}

func NewInbox(src Source, tokens TokenSource, calls *detach.Queue) *Inbox {
	return &Inbox{src: src, tokens: tokens, calls: calls}
}

// Refresh fetches the list and replaces the local one verbatim, dropping
// any local read flags the server has not seen yet.
func (b *Inbox) Refresh(ctx context.Context) error {
	token := b.tokens.Token()
	if token == "" {
		return session.ErrUnauthenticated
	}
	items, err := b.src.Notifications(ctx, token)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.items = items
	b.unread = countUnread(items)
	return nil
}

// MarkRead flips id to read locally and persists it in the background.
// It reports whether anything changed; read or unknown ids are no-ops.
func (b *Inbox) MarkRead(ctx context.Context, id string) bool {
	b.mu.Lock()
	found := false
	for i := range b.items {
		if b.items[i].ID == id {
			if b.items[i].IsRead {
				break
			}
			b.items[i].IsRead = true
			if b.unread > 0 {
				b.unread--
			}
			found = true
			break
		}
	}
	b.mu.Unlock()
	if !found {
		return false
	}

	token := b.tokens.Token()
	send := func(ctx context.Context) {
		if err := b.src.MarkNotificationRead(ctx, token, id); err != nil {
			slog.Warn("notify: mark read failed", "id", id, "error", err)
		}
	}
	if b.calls == nil || !b.calls.Go(send) {
		send(ctx)
	}
	return true
}

// Items returns the displayed list.
func (b *Inbox) Items() []model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Notification(nil), b.items...)
}

// Unread is the badge count.
func (b *Inbox) Unread() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unread
}

// Close makes later responses no-ops.
func (b *Inbox) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

func countUnread(items []model.Notification) int {
	n := 0
	for _, it := range items {
		if !it.IsRead {
			n++
		}
	}
	return n
}

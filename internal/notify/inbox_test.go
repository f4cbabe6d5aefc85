package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"synapse-digest/internal/detach"
	"synapse-digest/internal/model"
	"synapse-digest/internal/session"
)

type fakeSource struct {
	mu    sync.Mutex
	list  []model.Notification
	marks []string
}

func (f *fakeSource) Notifications(context.Context, string) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Notification(nil), f.list...), nil
}

func (f *fakeSource) MarkNotificationRead(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marks = append(f.marks, id)
	return nil
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func sample() []model.Notification {
	return []model.Notification{
		{ID: "n1"},
		{ID: "n2"},
		{ID: "n3", IsRead: true},
	}
}

func TestRefreshCountsUnread(t *testing.T) {
	src := &fakeSource{list: sample()}
	b := NewInbox(src, staticToken("tok"), nil)
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if b.Unread() != 2 {
		t.Errorf("unread = %d, want 2", b.Unread())
	}
}

func TestMarkReadTwice(t *testing.T) {
	src := &fakeSource{list: sample()}
	q := detach.New(context.Background(), 0)
	defer q.Close()
	b := NewInbox(src, staticToken("tok"), q)
	ctx := context.Background()
	_ = b.Refresh(ctx)

	if !b.MarkRead(ctx, "n1") {
		t.Error("first mark should change state")
	}
	if b.Unread() != 1 {
		t.Errorf("unread = %d, want 1", b.Unread())
	}
	if b.MarkRead(ctx, "n1") {
		t.Error("second mark should be a no-op")
	}
	if b.Unread() != 1 {
		t.Errorf("unread after double mark = %d, want 1", b.Unread())
	}
	if b.MarkRead(ctx, "missing") {
		t.Error("unknown id should be a no-op")
	}
	q.Wait()
	if len(src.marks) != 1 || src.marks[0] != "n1" {
		t.Errorf("mark calls = %v", src.marks)
	}
}

func TestRefreshReplacesVerbatim(t *testing.T) {
	src := &fakeSource{list: sample()}
	b := NewInbox(src, staticToken("tok"), nil)
	ctx := context.Background()
	_ = b.Refresh(ctx)
	b.MarkRead(ctx, "n2")

	// the server has not caught up yet
	_ = b.Refresh(ctx)
	if b.Unread() != 2 {
		t.Errorf("unread = %d, want server value 2", b.Unread())
	}
}

func TestRefreshWithoutSession(t *testing.T) {
	b := NewInbox(&fakeSource{}, staticToken(""), nil)
	if err := b.Refresh(context.Background()); !errors.Is(err, session.ErrUnauthenticated) {
		t.Errorf("err = %v", err)
	}
}

func TestRefreshAfterCloseDropped(t *testing.T) {
	src := &fakeSource{list: sample()}
	b := NewInbox(src, staticToken("tok"), nil)
	b.Close()
	_ = b.Refresh(context.Background())
	if len(b.Items()) != 0 {
		t.Error("response applied after close")
	}
}

package comments

import (
	"context"
	"errors"
	"strings"
	"sync"

	"synapse-digest/internal/model"
	"synapse-digest/internal/session"
)

// ErrEmptyContent is returned for blank comment bodies.
var ErrEmptyContent = errors.New("comment is empty")

// Source lists and creates comments.
type Source interface {
	Comments(ctx context.Context, res model.Resource) ([]model.Comment, error)
	CreateComment(ctx context.Context, token string, res model.Resource, content string, parentID *string) (model.Comment, error)
}

// TokenSource yields the bearer token at call time.
type TokenSource interface {
	Token() string
}

// Thread is the comment list of one article or poll.
type Thread struct {
	res    model.Resource
	src    Source
	tokens TokenSource

	mu     sync.Mutex
	items  []model.Comment
	err    error
	loaded bool
	closed bool
}

func NewThread(res model.Resource, src Source, tokens TokenSource) *Thread {
	return &Thread{res: res, src: src, tokens: tokens}
}

func (t *Thread) Resource() model.Resource { return t.res }

// Load replaces the list with a fresh fetch. Nothing is cached between
// mounts. A response that lands after Close is dropped.
func (t *Thread) Load(ctx context.Context) error {
	items, err := t.src.Comments(ctx, t.res)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.loaded = true
	t.err = err
	if err != nil {
		return err
	}
	t.items = items
	return nil
}

// Submit posts a top-level comment, or a reply when parentID is set, and
// prepends the saved comment to the list.
func (t *Thread) Submit(ctx context.Context, content string, parentID *string) (model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return model.Comment{}, ErrEmptyContent
	}
	token := ""
	if t.tokens != nil {
		token = t.tokens.Token()
	}
	if token == "" {
		return model.Comment{}, session.ErrUnauthenticated
	}
	saved, err := t.src.CreateComment(ctx, token, t.res, content, parentID)
	if err != nil {
		return model.Comment{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.items = append([]model.Comment{saved}, t.items...)
	}
	return saved, nil
}

// Reply answers a top-level comment.
func (t *Thread) Reply(ctx context.Context, parentID, content string) (model.Comment, error) {
	return t.Submit(ctx, content, &parentID)
}

// Comments returns the flat list, newest submissions first.
func (t *Thread) Comments() []model.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.Comment(nil), t.items...)
}

// Grouped returns the list as rendered entries.
func (t *Thread) Grouped() []Entry {
	return Group(t.Comments())
}

// State is the render state of the list.
func (t *Thread) State() model.ListState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loaded {
		return model.StateLoading
	}
	return model.StateOf(len(t.items), t.err)
}

// Close stops the thread from applying further responses.
func (t *Thread) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
}

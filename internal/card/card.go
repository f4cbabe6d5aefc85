package card

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"synapse-digest/internal/api"
	"synapse-digest/internal/detach"
	"synapse-digest/internal/model"
	"synapse-digest/internal/session"
)

// ErrUnknownReaction is returned for tags outside fire/mindblown/skeptical.
var ErrUnknownReaction = errors.New("unknown reaction")

// Reactor persists reaction counter moves.
type Reactor interface {
	React(ctx context.Context, articleID string, tag model.Reaction, action api.ReactionAction) (model.ReactionCounts, error)
}

// Bookmarker persists bookmarks.
type Bookmarker interface {
	AddBookmark(ctx context.Context, token, articleID string) (model.Message, error)
}

// TokenSource yields the bearer token at call time.
type TokenSource interface {
	Token() string
}

// Counters are the locally displayed reaction counts.
type Counters struct {
	Fire      int
	Mindblown int
	Skeptical int
}

func (c *Counters) ptr(tag model.Reaction) *int {
	switch tag {
	case model.ReactionFire:
		return &c.Fire
	case model.ReactionMindblown:
		return &c.Mindblown
	case model.ReactionSkeptical:
		return &c.Skeptical
	}
	return nil
}

// Get returns the count for tag.
func (c Counters) Get(tag model.Reaction) int {
	if p := c.ptr(tag); p != nil {
		return *p
	}
	return 0
}

func (c *Counters) inc(tag model.Reaction) { *c.ptr(tag)++ }

func (c *Counters) dec(tag model.Reaction) {
	if p := c.ptr(tag); *p > 0 {
		*p--
	}
}

// Deps wires a card to its collaborators. Calls is optional; without it the
// card owns a queue that Close drains.
type Deps struct {
	Reactor   Reactor
	Bookmarks Bookmarker
	Session   TokenSource
	Nav       session.Navigator
	Calls     *detach.Queue
}

// Card is the interactive widget of one article: reactions, bookmark, share.
type Card struct {
	article model.Article
	deps    Deps
	ownsQ   bool

	mu     sync.Mutex
	counts Counters
	active model.Reaction // "" when neutral
}

func New(a model.Article, deps Deps) *Card {
	c := &Card{
		article: a,
		deps:    deps,
		counts: Counters{
			Fire:      a.ReactionsFire,
			Mindblown: a.ReactionsMindblown,
			Skeptical: a.ReactionsSkeptical,
		},
	}
	if c.deps.Calls == nil {
		c.deps.Calls = detach.New(context.Background(), 10*time.Second)
		c.ownsQ = true
	}
	return c
}

func (c *Card) Article() model.Article { return c.article }

// Counters returns the displayed counts.
func (c *Card) Counters() Counters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}

// Active returns the user's current reaction, if any.
func (c *Card) Active() (model.Reaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.active != ""
}

type move struct {
	tag    model.Reaction
	action api.ReactionAction
}

// Select applies a reaction click. Local counts change before any call is
// issued; the server calls run detached, decrement first, and are never
// rolled back.
func (c *Card) Select(tag model.Reaction) error {
	if !tag.Valid() {
		return ErrUnknownReaction
	}
	c.mu.Lock()
	var moves []move
	switch {
	case c.active == "":
		c.counts.inc(tag)
		c.active = tag
		moves = []move{{tag, api.Increment}}
	case c.active == tag:
		c.counts.dec(tag)
		c.active = ""
		moves = []move{{tag, api.Decrement}}
	default:
		prev := c.active
		c.counts.dec(prev)
		c.counts.inc(tag)
		c.active = tag
		moves = []move{{prev, api.Decrement}, {tag, api.Increment}}
	}
	c.mu.Unlock()

	if c.deps.Reactor == nil {
		return nil
	}
	id := c.article.ID
	c.deps.Calls.Go(func(ctx context.Context) {
		for _, m := range moves {
			if _, err := c.deps.Reactor.React(ctx, id, m.tag, m.action); err != nil {
				slog.Warn("card: reaction sync failed", "article", id, "reaction", m.tag, "action", m.action, "error", err)
			}
		}
	})
	return nil
}

// BookmarkResult is what the user sees after a bookmark click.
type BookmarkResult int

const (
	// BookmarkRedirected means there was no session and the user was sent
	// to login; no call was made.
	BookmarkRedirected BookmarkResult = iota
	BookmarkConfirmed
	BookmarkFailed
)

func (r BookmarkResult) String() string {
	switch r {
	case BookmarkRedirected:
		return "redirected to login"
	case BookmarkConfirmed:
		return "bookmarked"
	case BookmarkFailed:
		return "bookmark failed"
	}
	return "unknown"
}

// Bookmark saves the article for the signed-in user. The card keeps no
// bookmark state afterwards.
func (c *Card) Bookmark(ctx context.Context) BookmarkResult {
	token := ""
	if c.deps.Session != nil {
		token = c.deps.Session.Token()
	}
	if token == "" {
		if c.deps.Nav != nil {
			c.deps.Nav.ToLogin()
		}
		return BookmarkRedirected
	}
	if _, err := c.deps.Bookmarks.AddBookmark(ctx, token, c.article.ID); err != nil {
		slog.Error("card: bookmark failed", "article", c.article.ID, "error", err)
		return BookmarkFailed
	}
	return BookmarkConfirmed
}

// Close waits for outstanding reaction calls when the card owns its queue.
func (c *Card) Close() {
	if c.ownsQ {
		c.deps.Calls.Close()
	}
}

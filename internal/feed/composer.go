package feed

import (
	"context"
	"log/slog"
	"sync"

	"synapse-digest/internal/model"
)

// Source is the subset of the API client the composer reads from.
type Source interface {
	ArticlesToday(ctx context.Context, limit int) ([]model.Article, error)
	Trending(ctx context.Context, limit int) ([]model.Article, error)
	ByCategory(ctx context.Context, category string, skip, limit int) ([]model.Article, error)
	Archive(ctx context.Context, page, limit int) ([]model.Article, error)
	Personalized(ctx context.Context, token string, limit int) ([]model.Article, error)
}

// TokenSource yields the bearer token at call time.
type TokenSource interface {
	Token() string
}

// Section is the outcome of one query.
type Section struct {
	Query    Query
	Articles []model.Article
	// Err is set when the request failed; Articles is then empty.
	Err error
	// Locked is set for personalized queries issued without a session.
	Locked bool
	// Limit is the page size the query was issued with.
	Limit int
}

// State is the render state of the section.
func (s Section) State() model.ListState {
	return model.StateOf(len(s.Articles), s.Err)
}

// HasMore guesses that another page exists when this one came back full.
// A full last page yields a false positive.
func (s Section) HasMore() bool {
	return s.Limit > 0 && len(s.Articles) == s.Limit
}

// Page holds sections in the order their queries were given.
type Page struct {
	Sections []Section
}

// Section returns the section for q.
func (p Page) Section(q Query) (Section, bool) {
	for _, s := range p.Sections {
		if s.Query == q {
			return s, true
		}
	}
	return Section{}, false
}

// Options controls per-query limits.
type Options struct {
	PageSize      int
	TrendingLimit int
}

// Composer fetches independent feed queries concurrently.
type Composer struct {
	src    Source
	tokens TokenSource
	opts   Options
}

func NewComposer(src Source, tokens TokenSource, opts Options) *Composer {
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.TrendingLimit <= 0 {
		opts.TrendingLimit = 6
	}
	return &Composer{src: src, tokens: tokens, opts: opts}
}

// Compose issues every query at once. A failing query yields an empty
// section carrying its error; it never blanks the others.
func (c *Composer) Compose(ctx context.Context, queries ...Query) Page {
	page := Page{Sections: make([]Section, len(queries))}
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q Query) {
			defer wg.Done()
			page.Sections[i] = c.fetch(ctx, q)
		}(i, q)
	}
	wg.Wait()
	return page
}

func (c *Composer) fetch(ctx context.Context, q Query) Section {
	s := Section{Query: q, Limit: c.limit(q)}
	var (
		items []model.Article
		err   error
	)
	switch q.Kind {
	case Today:
		items, err = c.src.ArticlesToday(ctx, s.Limit)
	case Trending:
		items, err = c.src.Trending(ctx, s.Limit)
	case Category:
		items, err = c.src.ByCategory(ctx, q.Arg, 0, s.Limit)
	case Archive:
		items, err = c.src.Archive(ctx, q.Page(), s.Limit)
	case Personalized:
		token := ""
		if c.tokens != nil {
			token = c.tokens.Token()
		}
		if token == "" {
			s.Locked = true
			return s
		}
		items, err = c.src.Personalized(ctx, token, s.Limit)
	}
	if err != nil {
		slog.Warn("feed: query failed", "query", q.String(), "error", err)
		s.Err = err
		return s
	}
	s.Articles = items
	return s
}

func (c *Composer) limit(q Query) int {
	if q.Kind == Trending {
		return c.opts.TrendingLimit
	}
	return c.opts.PageSize
}

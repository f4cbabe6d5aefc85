// Package admin is the admin console: stats, users, content moderation,
// the email trigger and a polled server log view.
package admin

import (
	"context"
	"sync"

	"synapse-digest/internal/model"
	"synapse-digest/internal/session"
)

// Source is the admin part of the API client.
type Source interface {
	AdminDashboard(ctx context.Context, token string) (model.DashboardStats, error)
	AdminUsers(ctx context.Context, token string, skip, limit int) ([]model.AdminUser, error)
	PromoteUser(ctx context.Context, token, userID string) (model.Message, error)
	AuditLogs(ctx context.Context, token string, limit int) ([]model.AuditLog, error)
	AdminArticles(ctx context.Context, token string, skip, limit int) ([]model.AdminArticle, error)
	DeleteArticle(ctx context.Context, token, articleID string) (model.Message, error)
	TriggerEmail(ctx context.Context, token string) (model.Message, error)
	SystemLogs(ctx context.Context, token string, lines int) ([]string, error)
}

// TokenSource yields the bearer token at call time.
type TokenSource interface {
	Token() string
}

// Console issues admin calls with the current session token.
type Console struct {
	src    Source
	tokens TokenSource
}

func NewConsole(src Source, tokens TokenSource) *Console {
	return &Console{src: src, tokens: tokens}
}

func (c *Console) token() (string, error) {
	t := c.tokens.Token()
	if t == "" {
		return "", session.ErrUnauthenticated
	}
	return t, nil
}

func (c *Console) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	t, err := c.token()
	if err != nil {
		return model.DashboardStats{}, err
	}
	return c.src.AdminDashboard(ctx, t)
}

func (c *Console) Users(ctx context.Context, skip, limit int) ([]model.AdminUser, error) {
	t, err := c.token()
	if err != nil {
		return nil, err
	}
	return c.src.AdminUsers(ctx, t, skip, limit)
}

func (c *Console) Promote(ctx context.Context, userID string) (model.Message, error) {
	t, err := c.token()
	if err != nil {
		return model.Message{}, err
	}
	return c.src.PromoteUser(ctx, t, userID)
}

func (c *Console) AuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error) {
	t, err := c.token()
	if err != nil {
		return nil, err
	}
	return c.src.AuditLogs(ctx, t, limit)
}

func (c *Console) Articles(ctx context.Context, skip, limit int) ([]model.AdminArticle, error) {
	t, err := c.token()
	if err != nil {
		return nil, err
	}
	return c.src.AdminArticles(ctx, t, skip, limit)
}

func (c *Console) DeleteArticle(ctx context.Context, id string) (model.Message, error) {
	t, err := c.token()
	if err != nil {
		return model.Message{}, err
	}
	return c.src.DeleteArticle(ctx, t, id)
}

// TriggerEmail starts the digest email job on the server.
func (c *Console) TriggerEmail(ctx context.Context) (model.Message, error) {
	t, err := c.token()
	if err != nil {
		return model.Message{}, err
	}
	return c.src.TriggerEmail(ctx, t)
}

// LogTail holds the last fetched server log lines.
type LogTail struct {
	c     *Console
	lines int

	mu     sync.Mutex
	logs   []string
	closed bool
}

// NewLogTail tails n lines.
func (c *Console) NewLogTail(n int) *LogTail {
	if n <= 0 {
		n = 200
	}
	return &LogTail{c: c, lines: n}
}

// Refresh fetches the tail and applies it verbatim.
func (l *LogTail) Refresh(ctx context.Context) error {
	t, err := l.c.token()
	if err != nil {
		return err
	}
	logs, err := l.c.src.SystemLogs(ctx, t, l.lines)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.logs = logs
	}
	return nil
}

func (l *LogTail) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.logs...)
}

func (l *LogTail) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

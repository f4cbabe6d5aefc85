package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"synapse-digest/internal/model"
)

// All admin endpoints require an admin bearer token.

func (c *Client) AdminDashboard(ctx context.Context, token string) (model.DashboardStats, error) {
	var out model.DashboardStats
	err := c.Do(ctx, http.MethodGet, "/admin/dashboard", token, nil, &out)
	return out, err
}

func (c *Client) AdminUsers(ctx context.Context, token string, skip, limit int) ([]model.AdminUser, error) {
	var out []model.AdminUser
	q := url.Values{"skip": {strconv.Itoa(skip)}, "limit": {itoa(limit)}}
	err := c.Do(ctx, http.MethodGet, withQuery("/admin/users", q), token, nil, &out)
	return out, err
}

func (c *Client) PromoteUser(ctx context.Context, token, userID string) (model.Message, error) {
	var out model.Message
	err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%s/promote", url.PathEscape(userID)), token, nil, &out)
	return out, err
}

func (c *Client) AuditLogs(ctx context.Context, token string, limit int) ([]model.AuditLog, error) {
	var out []model.AuditLog
	err := c.Do(ctx, http.MethodGet, withQuery("/admin/audit-logs", url.Values{"limit": {itoa(limit)}}), token, nil, &out)
	return out, err
}

func (c *Client) AdminArticles(ctx context.Context, token string, skip, limit int) ([]model.AdminArticle, error) {
	var out []model.AdminArticle
	q := url.Values{"skip": {strconv.Itoa(skip)}, "limit": {itoa(limit)}}
	err := c.Do(ctx, http.MethodGet, withQuery("/admin/articles", q), token, nil, &out)
	return out, err
}

// DeleteArticle hides an article; the server soft-deletes it.
func (c *Client) DeleteArticle(ctx context.Context, token, articleID string) (model.Message, error) {
	var out model.Message
	err := c.Do(ctx, http.MethodDelete, "/admin/articles/"+url.PathEscape(articleID), token, nil, &out)
	return out, err
}

func (c *Client) TriggerEmail(ctx context.Context, token string) (model.Message, error) {
	var out model.Message
	err := c.Do(ctx, http.MethodPost, "/admin/email/trigger", token, nil, &out)
	return out, err
}

// SystemLogs returns the last lines of the server log.
func (c *Client) SystemLogs(ctx context.Context, token string, lines int) ([]string, error) {
	var out model.LogLines
	err := c.Do(ctx, http.MethodGet, withQuery("/admin/logs", url.Values{"lines": {itoa(lines)}}), token, nil, &out)
	return out.Logs, err
}

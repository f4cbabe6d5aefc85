package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"synapse-digest/internal/model"
)

// ArticlesToday lists articles published in the last 24 hours.
// API: GET /articles/today
func (c *Client) ArticlesToday(ctx context.Context, limit int) ([]model.Article, error) {
	var out []model.Article
	err := c.Do(ctx, http.MethodGet, withQuery("/articles/today", url.Values{"limit": {itoa(limit)}}), "", nil, &out)
	return out, err
}

// Trending lists articles ordered by discussion.
// API: GET /articles/trending?limit=
func (c *Client) Trending(ctx context.Context, limit int) ([]model.Article, error) {
	var out []model.Article
	err := c.Do(ctx, http.MethodGet, withQuery("/articles/trending", url.Values{"limit": {itoa(limit)}}), "", nil, &out)
	return out, err
}

// ByCategory lists a category page. The server maps short names such as
// "ai" or "cs" onto display categories.
// API: GET /articles/category/{name}?skip=&limit=
func (c *Client) ByCategory(ctx context.Context, category string, skip, limit int) ([]model.Article, error) {
	var out []model.Article
	path := fmt.Sprintf("/articles/category/%s", url.PathEscape(category))
	q := url.Values{"limit": {itoa(limit)}}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	err := c.Do(ctx, http.MethodGet, withQuery(path, q), "", nil, &out)
	return out, err
}

// Archive lists all articles, newest first, by 1-based page.
// API: GET /articles?skip=&limit=
func (c *Client) Archive(ctx context.Context, page, limit int) ([]model.Article, error) {
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * limit
	var out []model.Article
	q := url.Values{"skip": {strconv.Itoa(skip)}, "limit": {itoa(limit)}}
	err := c.Do(ctx, http.MethodGet, withQuery("/articles", q), "", nil, &out)
	return out, err
}

// Personalized lists articles matching the user's interests.
// API: GET /articles/for-you (auth)
func (c *Client) Personalized(ctx context.Context, token string, limit int) ([]model.Article, error) {
	var out []model.Article
	err := c.Do(ctx, http.MethodGet, withQuery("/articles/for-you", url.Values{"limit": {itoa(limit)}}), token, nil, &out)
	return out, err
}

// ArticleBySlug fetches one article.
// API: GET /articles/slug/{slug}
func (c *Client) ArticleBySlug(ctx context.Context, slug string) (model.Article, error) {
	var out model.Article
	err := c.Do(ctx, http.MethodGet, "/articles/slug/"+url.PathEscape(slug), "", nil, &out)
	return out, err
}

// RandomArticle fetches a random article.
// API: GET /articles/random
func (c *Client) RandomArticle(ctx context.Context) (model.Article, error) {
	var out model.Article
	err := c.Do(ctx, http.MethodGet, "/articles/random", "", nil, &out)
	return out, err
}

// ReactionAction is the direction of a reaction counter update.
type ReactionAction string

const (
	Increment ReactionAction = "increment"
	Decrement ReactionAction = "decrement"
)

// React moves one reaction counter by one.
// API: POST /articles/{id}/reaction?reaction_type=&action=
func (c *Client) React(ctx context.Context, articleID string, tag model.Reaction, action ReactionAction) (model.ReactionCounts, error) {
	var out model.ReactionCounts
	path := fmt.Sprintf("/articles/%s/reaction", url.PathEscape(articleID))
	q := url.Values{"reaction_type": {string(tag)}, "action": {string(action)}}
	err := c.Do(ctx, http.MethodPost, withQuery(path, q), "", nil, &out)
	return out, err
}

func itoa(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

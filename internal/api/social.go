package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"synapse-digest/internal/model"
)

// Bookmarks lists the current user's bookmarks.
// API: GET /bookmarks/ (auth)
func (c *Client) Bookmarks(ctx context.Context, token string) ([]model.Bookmark, error) {
	var out []model.Bookmark
	err := c.Do(ctx, http.MethodGet, "/bookmarks/", token, nil, &out)
	return out, err
}

// AddBookmark bookmarks an article. The server treats repeats as success.
// API: POST /bookmarks/{id} (auth)
func (c *Client) AddBookmark(ctx context.Context, token, articleID string) (model.Message, error) {
	var out model.Message
	err := c.Do(ctx, http.MethodPost, "/bookmarks/"+url.PathEscape(articleID), token, nil, &out)
	return out, err
}

// RemoveBookmark deletes a bookmark.
// API: DELETE /bookmarks/{id} (auth)
func (c *Client) RemoveBookmark(ctx context.Context, token, articleID string) error {
	return c.Do(ctx, http.MethodDelete, "/bookmarks/"+url.PathEscape(articleID), token, nil, nil)
}

// Comments lists all comments of a resource, flat, with parent references.
// API: GET /comments/list?article_id=|poll_id=
func (c *Client) Comments(ctx context.Context, res model.Resource) ([]model.Comment, error) {
	var out []model.Comment
	path := withQuery("/comments/list", url.Values{res.QueryKey(): {res.ID}})
	err := c.Do(ctx, http.MethodGet, path, "", nil, &out)
	return out, err
}

type createCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

// CreateComment posts a comment or, with a parent id, a reply.
// API: POST /comments/?article_id=|poll_id= (auth)
func (c *Client) CreateComment(ctx context.Context, token string, res model.Resource, content string, parentID *string) (model.Comment, error) {
	var out model.Comment
	path := withQuery("/comments/", url.Values{res.QueryKey(): {res.ID}})
	err := c.Do(ctx, http.MethodPost, path, token, createCommentRequest{Content: content, ParentID: parentID}, &out)
	return out, err
}

// Notifications lists the current user's notifications, newest first.
// API: GET /notifications/ (auth)
func (c *Client) Notifications(ctx context.Context, token string) ([]model.Notification, error) {
	var out []model.Notification
	err := c.Do(ctx, http.MethodGet, "/notifications/", token, nil, &out)
	return out, err
}

// MarkNotificationRead persists the read flag.
// API: POST /notifications/{id}/read (auth)
func (c *Client) MarkNotificationRead(ctx context.Context, token, id string) error {
	return c.Do(ctx, http.MethodPost, fmt.Sprintf("/notifications/%s/read", url.PathEscape(id)), token, nil, nil)
}

// DailyPoll fetches the active poll. It returns nil without error when the
// server has no active poll.
// API: GET /polls/daily
func (c *Client) DailyPoll(ctx context.Context) (*model.Poll, error) {
	var out *model.Poll
	if err := c.Do(ctx, http.MethodGet, "/polls/daily", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Vote records one vote for an option.
// API: POST /polls/{id}/vote?option_id=
func (c *Client) Vote(ctx context.Context, token, pollID, optionID string) error {
	path := withQuery(fmt.Sprintf("/polls/%s/vote", url.PathEscape(pollID)), url.Values{"option_id": {optionID}})
	return c.Do(ctx, http.MethodPost, path, token, nil, nil)
}

package api

import (
	"context"
	"net/http"

	"synapse-digest/internal/model"
)

// Me fetches the current user's profile.
// API: GET /users/me (auth)
func (c *Client) Me(ctx context.Context, token string) (model.User, error) {
	var out model.User
	err := c.Do(ctx, http.MethodGet, "/users/me", token, nil, &out)
	return out, err
}

// UpdateSubscription toggles the digest email.
// API: PATCH /users/me/subscription (auth)
func (c *Client) UpdateSubscription(ctx context.Context, token string, settings model.EmailSettings) (model.EmailSettings, error) {
	var out model.EmailSettings
	err := c.Do(ctx, http.MethodPatch, "/users/me/subscription", token, settings, &out)
	return out, err
}

// CompleteOnboarding saves interests and email preferences.
// API: POST /users/me/onboarding (auth)
func (c *Client) CompleteOnboarding(ctx context.Context, token string, in model.Onboarding) error {
	return c.Do(ctx, http.MethodPost, "/users/me/onboarding", token, in, nil)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe adds an email to the newsletter.
// API: POST /newsletter/subscribe
func (c *Client) Subscribe(ctx context.Context, email string) (model.Message, error) {
	var out model.Message
	err := c.Do(ctx, http.MethodPost, "/newsletter/subscribe", "", subscribeRequest{Email: email}, &out)
	return out, err
}

// DailyQuotes fetches the "voices" sidebar quotes.
// API: GET /quotes/daily
func (c *Client) DailyQuotes(ctx context.Context) ([]model.Quote, error) {
	var out []model.Quote
	err := c.Do(ctx, http.MethodGet, "/quotes/daily", "", nil, &out)
	return out, err
}

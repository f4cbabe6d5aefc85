package model

import "time"

// User is the profile returned by /users/me.
type User struct {
	ID                    string         `json:"id"`
	Email                 string         `json:"email"`
	FullName              string         `json:"full_name,omitempty"`
	Interests             []string       `json:"interests,omitempty"`
	Role                  string         `json:"role"`
	OnboardingCompletedAt *time.Time     `json:"onboarding_completed_at,omitempty"`
	EmailSettings         *EmailSettings `json:"email_settings,omitempty"`
}

// IsAdmin reports whether the user may open the admin console.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

// EmailSettings holds the digest subscription preferences.
type EmailSettings struct {
	IsSubscribed   bool `json:"is_subscribed"`
	MarketingOptIn bool `json:"marketing_opt_in"`
}

// Onboarding is the first-run interests and email preferences.
type Onboarding struct {
	Interests       []string `json:"interests"`
	SubscribeDigest bool     `json:"subscribe_digest"`
	MarketingOptIn  bool     `json:"marketing_opt_in"`
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalUsers        int `json:"total_users"`
	ArticlesToday     int `json:"articles_today"`
	ActiveSubscribers int `json:"active_subscribers"`
	ErrorsToday       int `json:"errors_today"`
}

// AdminUser is a user row on the admin users screen.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	FullName     string    `json:"full_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// AdminArticle is an article row on the admin content screen.
type AdminArticle struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Source         string    `json:"source"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"created_at"`
	ViabilityScore int       `json:"viability_score"`
}

// AuditLog is one admin action record.
type AuditLog struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource"`
	AdminID   string         `json:"admin_id"`
	CreatedAt time.Time      `json:"created_at"`
	Details   map[string]any `json:"details,omitempty"`
}

// LogLines is the body of the admin log endpoint.
type LogLines struct {
	Logs []string `json:"logs"`
}

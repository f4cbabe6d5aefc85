package model

import "time"

// Poll is the daily poll with its options in display order.
type Poll struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Options  []PollOption `json:"options"`
}

// PollOption is a single answer with its server-side vote count.
type PollOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Comment belongs to an article or a poll. Replies reference a top-level
// comment through ParentID.
type Comment struct {
	ID         string    `json:"id"`
	PollID     string    `json:"poll_id,omitempty"`
	ArticleID  string    `json:"article_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Content    string    `json:"content"`
	UserName   string    `json:"user_name"`
	VoteOption string    `json:"vote_option,omitempty"`
	ParentID   *string   `json:"parent_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TopLevel reports whether the comment has no parent.
func (c Comment) TopLevel() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// Notification tells the user someone interacted with their content.
type Notification struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	ActorName    string    `json:"actor_name,omitempty"`
	Content      string    `json:"content,omitempty"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}

// ResourceKind is what a comment thread hangs off.
type ResourceKind string

const (
	ResourceArticle ResourceKind = "article"
	ResourcePoll    ResourceKind = "poll"
)

// Resource identifies a commentable article or poll.
type Resource struct {
	Kind ResourceKind
	ID   string
}

// QueryKey is the query parameter the comment endpoints expect.
func (r Resource) QueryKey() string {
	if r.Kind == ResourcePoll {
		return "poll_id"
	}
	return "article_id"
}

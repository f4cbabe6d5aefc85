package model

import "time"

// Reaction is one of the three article reaction tags.
type Reaction string

const (
	ReactionFire      Reaction = "fire"
	ReactionMindblown Reaction = "mindblown"
	ReactionSkeptical Reaction = "skeptical"
)

// Reactions lists the tags in display order.
var Reactions = []Reaction{ReactionFire, ReactionMindblown, ReactionSkeptical}

// Valid reports whether r is a known reaction tag.
func (r Reaction) Valid() bool {
	switch r {
	case ReactionFire, ReactionMindblown, ReactionSkeptical:
		return true
	}
	return false
}

// Article is a single aggregated article as served by the API.
type Article struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Slug               string    `json:"slug,omitempty"`
	URL                string    `json:"url"`
	Source             string    `json:"source"`
	Summary            string    `json:"summary"`
	Category           string    `json:"category"`
	Tags               []string  `json:"tags,omitempty"`
	ViabilityScore     int       `json:"viability_score"`
	PublishedAt        time.Time `json:"published_at"`
	CreatedAt          time.Time `json:"created_at"`
	ReactionsFire      int       `json:"reactions_fire"`
	ReactionsMindblown int       `json:"reactions_mindblown"`
	ReactionsSkeptical int       `json:"reactions_skeptical"`
}

// Trending reports whether the article earns the trending badge.
func (a Article) Trending() bool {
	return a.ViabilityScore > 80
}

// ReactionCounts mirrors the body returned by the reaction endpoint.
type ReactionCounts struct {
	Fire      int `json:"fire"`
	Mindblown int `json:"mindblown"`
	Skeptical int `json:"skeptical"`
}

// Bookmark is a saved article of the current user.
type Bookmark struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Summary   string `json:"summary"`
}

// Quote is one of the daily "voices" quotes.
type Quote struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	Role     string `json:"role,omitempty"`
	Source   string `json:"source,omitempty"`
	Category string `json:"category,omitempty"`
}

// Message is the generic {"message": ...} acknowledgement body.
type Message struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"synapse-digest/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Summarizer writes the preface of an exported digest.
type Summarizer interface {
	// SummarizeDigest creates a short digest-level summary of the given articles.
	SummarizeDigest(ctx context.Context, articles []model.Article, language string) (string, error)
}

// OpenAIClient implements Summarizer using OpenAI Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

// ErrNoModel is returned when no chat model is configured.
var ErrNoModel = errors.New("openai model must be specified")

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, ErrNoModel
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	return &OpenAIClient{client: c, model: cfg.Model}, nil
}

func (o *OpenAIClient) SummarizeDigest(ctx context.Context, articles []model.Article, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	if len(articles) == 0 {
		return "", nil
	}
	sys := fmt.Sprintf(`
		You write the opening paragraph of a daily technology news digest, in %s.
		Return 2 ~ 4 sentences (60–160 words) that connect the main themes of the listed articles.
		Plain text only, no links, no lists.
		`, langOrDefault(language))
	out, err := o.create(ctx, sys, digestPrompt(articles))
	if err != nil {
		slog.Error("openai: summarize digest error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func digestPrompt(articles []model.Article) string {
	b := &strings.Builder{}
	b.WriteString("Today's articles (title, category, source):\n")
	for i, a := range articles {
		if i >= 12 {
			break
		}
		fmt.Fprintf(b, "- %s (%s, %s)\n", a.Title, a.Category, a.Source)
	}
	return b.String()
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}

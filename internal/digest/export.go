package digest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"synapse-digest/internal/ai"
	"synapse-digest/internal/card"
	"synapse-digest/internal/feed"
	"synapse-digest/internal/model"
)

// summaryRunes bounds per-article summaries in the digest body.
const summaryRunes = 280

// Exporter turns a feed page into a digest file.
type Exporter struct {
	OutputDir     string
	TitleTemplate string
	Language      string
	Summarizer    ai.Summarizer // optional
	Now           func() time.Time
}

// Build assembles render data from page. Empty sections are skipped and an
// article already listed under an earlier section is not repeated.
func (e *Exporter) Build(ctx context.Context, page feed.Page) Data {
	now := e.now()
	title := ExpandVars(e.TitleTemplate, now)
	if strings.TrimSpace(title) == "" {
		title = "SynapseDigest " + now.UTC().Format("2006-01-02")
	}
	d := Data{Frontmatter: Frontmatter{
		Title:    title,
		Slug:     "digest-" + now.UTC().Format("20060102"),
		Datetime: now.UTC().Format("2006-01-02 15:04"),
	}}

	seen := map[string]bool{}
	var all []model.Article
	for _, s := range page.Sections {
		sec := Section{Heading: heading(s.Query)}
		for _, a := range s.Articles {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			all = append(all, a)
			sec.Items = append(sec.Items, Item{
				Title:     a.Title,
				URL:       a.URL,
				Summary:   card.Preview(a.Summary, summaryRunes),
				Source:    a.Source,
				Category:  a.Category,
				Trending:  a.Trending(),
				Fire:      a.ReactionsFire,
				Mindblown: a.ReactionsMindblown,
				Skeptical: a.ReactionsSkeptical,
			})
		}
		if len(sec.Items) > 0 {
			d.Sections = append(d.Sections, sec)
		}
	}

	if e.Summarizer != nil && len(all) > 0 {
		preface, err := e.Summarizer.SummarizeDigest(ctx, all, e.Language)
		if err != nil {
			slog.Warn("digest: preface skipped", "error", err)
		} else {
			d.Preface = preface
			d.Summary = preface
		}
	}
	if d.Summary == "" && len(all) > 0 {
		d.Summary = fmt.Sprintf("%d articles across %d sections", len(all), len(d.Sections))
	}
	return d
}

// Export builds, renders and writes the digest, returning the file path.
func (e *Exporter) Export(ctx context.Context, page feed.Page) (string, error) {
	d := e.Build(ctx, page)
	if len(d.Sections) == 0 {
		return "", fmt.Errorf("digest: nothing to export")
	}
	out, err := Render(d)
	if err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.OutputDir, d.Slug+".md")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", err
	}
	slog.Info("digest: written", "path", path, "sections", len(d.Sections))
	return path, nil
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func heading(q feed.Query) string {
	switch q.Kind {
	case feed.Today:
		return "Today"
	case feed.Trending:
		return "Trending"
	case feed.Personalized:
		return "For You"
	case feed.Category:
		return categoryTitle(q.Arg)
	case feed.Archive:
		return "Archive, page " + q.Arg
	}
	return q.String()
}

func categoryTitle(c string) string {
	switch c {
	case "ai":
		return "Artificial Intelligence"
	case "cs":
		return "Computer Science"
	case "se":
		return "Software Engineering"
	case "research":
		return "Research"
	}
	if c == "" {
		return c
	}
	return strings.ToUpper(c[:1]) + c[1:]
}

package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"synapse-digest/internal/card"
	"synapse-digest/internal/feed"
	"synapse-digest/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printArticle(w io.Writer, a model.Article) {
	badge := ""
	if a.Trending() {
		badge = "  [Trending]"
	}
	fmt.Fprintf(w, "• %s%s\n", a.Title, badge)
	fmt.Fprintf(w, "  %s · %s · id=%s\n", a.Source, a.Category, a.ID)
	if s := card.Preview(a.Summary, 160); s != "" {
		fmt.Fprintf(w, "  %s\n", s)
	}
	fmt.Fprintf(w, "  🔥 %d  🤯 %d  🤨 %d  %s\n", a.ReactionsFire, a.ReactionsMindblown, a.ReactionsSkeptical, a.URL)
}

func printSection(w io.Writer, s feed.Section) {
	fmt.Fprintf(w, "== %s ==\n", s.Query)
	switch {
	case s.Locked:
		fmt.Fprintln(w, "  Sign in to see articles picked for your interests.")
		return
	case s.Err != nil:
		fmt.Fprintf(w, "  Could not load this section: %v\n", s.Err)
		return
	}
	if s.State() == model.StateEmpty {
		fmt.Fprintln(w, "  Nothing here yet.")
		return
	}
	for _, a := range s.Articles {
		printArticle(w, a)
	}
	if s.HasMore() {
		next := s.Query
		if next.Kind == feed.Archive {
			next.Arg = fmt.Sprint(next.Page() + 1)
			fmt.Fprintf(w, "  more: synapse-digest feed %s\n", next)
		} else {
			fmt.Fprintln(w, "  more results may be available")
		}
	}
}

func printPage(w io.Writer, p feed.Page) {
	for i, s := range p.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printSection(w, s)
	}
}

func printCounters(w io.Writer, c card.Counters, active model.Reaction) {
	parts := make([]string, 0, len(model.Reactions))
	for _, tag := range model.Reactions {
		mark := ""
		if tag == active {
			mark = "*"
		}
		parts = append(parts, fmt.Sprintf("%s%s=%d", mark, tag, c.Get(tag)))
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

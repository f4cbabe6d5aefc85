package feed

import "context"

// Home composes the landing page: today, trending, then one section per
// category. Sections are cut to preview items and empty ones are dropped.
func (c *Composer) Home(ctx context.Context, categories []string, preview int) Page {
	qs := []Query{{Kind: Today}, {Kind: Trending}}
	for _, cat := range categories {
		qs = append(qs, Query{Kind: Category, Arg: cat})
	}
	full := c.Compose(ctx, qs...)
	out := Page{}
	for _, s := range full.Sections {
		if len(s.Articles) == 0 {
			continue
		}
		if s.Query.Kind == Category && preview > 0 && len(s.Articles) > preview {
			s.Articles = s.Articles[:preview]
		}
		out.Sections = append(out.Sections, s)
	}
	return out
}

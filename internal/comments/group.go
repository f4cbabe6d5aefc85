// Package comments holds the comment thread of an article or poll and its
// one-level reply grouping.
package comments

import "synapse-digest/internal/model"

// Entry is a top-level comment followed by its direct replies.
type Entry struct {
	Comment model.Comment
	Replies []model.Comment
}

// Group arranges a flat list into entries. Top-level comments keep list
// order, as do replies beneath their parent. Replies whose parent is absent
// or is itself a reply are not rendered.
func Group(list []model.Comment) []Entry {
	idx := make(map[string]int)
	var out []Entry
	for _, c := range list {
		if !c.TopLevel() {
			continue
		}
		idx[c.ID] = len(out)
		out = append(out, Entry{Comment: c})
	}
	for _, c := range list {
		if c.TopLevel() {
			continue
		}
		if i, ok := idx[*c.ParentID]; ok {
			out[i].Replies = append(out[i].Replies, c)
		}
	}
	return out
}

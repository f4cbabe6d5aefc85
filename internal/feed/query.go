package feed

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind names a server-side article query.
type Kind string

const (
	Today        Kind = "today"
	Trending     Kind = "trending"
	Category     Kind = "category"
	Archive      Kind = "archive"
	Personalized Kind = "personalized"
)

// Query is one named feed query. Arg is the category name or the 1-based
// archive page.
type Query struct {
	Kind Kind
	Arg  string
}

func (q Query) String() string {
	if q.Arg == "" {
		return string(q.Kind)
	}
	return string(q.Kind) + ":" + q.Arg
}

// Page returns the archive page, 1 when unset.
func (q Query) Page() int {
	n, err := strconv.Atoi(q.Arg)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseQuery accepts today, trending, personalized, category:<name> and
// archive[:<page>].
func ParseQuery(s string) (Query, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	k := Kind(strings.ToLower(name))
	switch k {
	case Today, Trending, Personalized:
		if arg != "" {
			return Query{}, fmt.Errorf("query %q takes no argument", k)
		}
		return Query{Kind: k}, nil
	case Category:
		arg = strings.ToLower(strings.TrimSpace(arg))
		if arg == "" {
			return Query{}, fmt.Errorf("category query needs a name, e.g. category:ai")
		}
		return Query{Kind: k, Arg: arg}, nil
	case Archive:
		if arg == "" {
			return Query{Kind: k, Arg: "1"}, nil
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return Query{}, fmt.Errorf("archive page must be a positive integer, got %q", arg)
		}
		return Query{Kind: k, Arg: strconv.Itoa(n)}, nil
	}
	return Query{}, fmt.Errorf("unknown feed query %q", s)
}

// ParseQueries parses each argument in order.
func ParseQueries(args []string) ([]Query, error) {
	out := make([]Query, 0, len(args))
	for _, a := range args {
		q, err := ParseQuery(a)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

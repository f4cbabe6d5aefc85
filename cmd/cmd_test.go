package cmd

import (
	"testing"

	"synapse-digest/internal/model"
)

func TestParseResource(t *testing.T) {
	cases := []struct {
		in   string
		want model.Resource
		ok   bool
	}{
		{"abc", model.Resource{Kind: model.ResourceArticle, ID: "abc"}, true},
		{"article:abc", model.Resource{Kind: model.ResourceArticle, ID: "abc"}, true},
		{"poll:p1", model.Resource{Kind: model.ResourcePoll, ID: "p1"}, true},
		{"poll:", model.Resource{}, false},
		{"user:u1", model.Resource{}, false},
	}
	for _, tc := range cases {
		got, err := parseResource(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("parseResource(%q) err = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseResource(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseToggle(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "YES": true, "off": false, "false": false} {
		got, err := parseToggle(in)
		if err != nil || got != want {
			t.Errorf("parseToggle(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseToggle("maybe"); err == nil {
		t.Error("expected error")
	}
}

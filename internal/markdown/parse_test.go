package markdown

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseWithFrontmatter(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "digest.md")
	content := "" +
		"---\n" +
		"title: \"SynapseDigest 2026-03-04\"\n" +
		"slug: digest-20260304\n" +
		"datetime: 2026-03-04 08:30\n" +
		"summary: |-\n" +
		"  Some summary here.\n" +
		"---\n\n" +
		"## Today\n\n### [A Title](https://example.com)\n\nBody paragraph here.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	for _, k := range []string{"title", "slug", "datetime", "summary"} {
		if _, ok := doc.Frontmatter[k]; !ok {
			t.Errorf("missing %s in frontmatter", k)
		}
	}
	if got := doc.Field("slug"); got != "digest-20260304" {
		t.Errorf("slug = %q", got)
	}
	if got := doc.Field("missing"); got != "" {
		t.Errorf("missing field = %q", got)
	}
	if wantSub := "### [A Title](https://example.com)"; !strings.Contains(doc.Body, wantSub) {
		t.Errorf("body missing expected substring %q; got: %q", wantSub, doc.Body)
	}
	if h := doc.Headings(); len(h) != 2 || h[0] != "## Today" {
		t.Errorf("headings = %v", h)
	}
}

func TestParseWithoutFrontmatter(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "no_fm.md")
	body := "# Hello\n\nNo frontmatter here.\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if len(doc.Frontmatter) != 0 {
		t.Fatalf("expected empty frontmatter, got: %+v", doc.Frontmatter)
	}
	if doc.Body != body {
		t.Errorf("body mismatch.\nwant: %q\n got: %q", body, doc.Body)
	}
}

package markdown

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document represents a Markdown file with YAML frontmatter.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

// Field returns a frontmatter value as a string, empty when absent.
func (d Document) Field(key string) string {
	v, ok := d.Frontmatter[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Headings returns the level-two and level-three headings of the body in order.
func (d Document) Headings() []string {
	var out []string
	for _, l := range strings.Split(d.Body, "\n") {
		if strings.HasPrefix(l, "## ") || strings.HasPrefix(l, "### ") {
			out = append(out, strings.TrimSpace(l))
		}
	}
	return out
}

// ParseFile reads a Markdown file and extracts YAML frontmatter and body.
// Frontmatter is expected at the top of the file between two lines containing only "---".
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	peek, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return Document{}, err
	}
	var hasFM bool
	if string(peek) == "---" {
		hasFM = true
	}
	var fmBuf strings.Builder
	var bodyBuf strings.Builder

	if hasFM {
		// Consume first line '---' fully
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Document{}, err
		}
		_ = line // discard
		// Read until next line starting with '---' (exact match)
		for {
			l, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return Document{}, err
			}
			trim := strings.TrimSpace(l)
			if trim == "---" {
				break
			}
			fmBuf.WriteString(l)
			if errors.Is(err, io.EOF) {
				break
			}
		}
	}
	// The rest is body
	for {
		l, err := br.ReadString('\n')
		bodyBuf.WriteString(l)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Document{}, err
		}
	}

	d := Document{
		Frontmatter: map[string]any{},
		Body:        bodyBuf.String(),
	}

	if hasFM {
		m := map[string]any{}
		if err := yaml.Unmarshal([]byte(fmBuf.String()), &m); err != nil {
			return Document{}, err
		}
		d.Frontmatter = m
	}
	return d, nil
}

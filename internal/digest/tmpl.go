// Package digest renders a composed feed page into a markdown file with
// YAML frontmatter.
package digest

import (
	"bytes"
	_ "embed"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of a digest file.
type Frontmatter struct {
	Title    string `yaml:"title"`
	Slug     string `yaml:"slug"`
	Datetime string `yaml:"datetime"`
	Summary  string `yaml:"summary,omitempty"`
}

type Item struct {
	Title     string
	URL       string
	Summary   string
	Source    string
	Category  string
	Trending  bool
	Fire      int
	Mindblown int
	Skeptical int
}

type Section struct {
	Heading string
	Items   []Item
}

type Data struct {
	Frontmatter
	Preface  string
	Sections []Section
}

//go:embed digest.tmpl
var digestTpl string

var compiled = template.Must(template.New("digest").Parse(digestTpl))

// Render writes the frontmatter block followed by the templated body.
func Render(d Data) (string, error) {
	fm, err := yaml.Marshal(d.Frontmatter)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

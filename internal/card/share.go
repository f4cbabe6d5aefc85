package card

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"synapse-digest/internal/model"

	"github.com/microcosm-cc/bluemonday"
)

// Platform is a share target.
type Platform string

const (
	Twitter  Platform = "twitter"
	LinkedIn Platform = "linkedin"
)

// previewRunes bounds the summary excerpt in shared text.
const previewRunes = 100

var strict = bluemonday.StrictPolicy()

// ShareText is the prefilled post body.
func ShareText(a model.Article) string {
	return fmt.Sprintf("Check out this article: \"%s\" 🚀\n\n%s...\n\nvia SynapseDigest #AI #Tech", a.Title, Preview(a.Summary, previewRunes))
}

// Preview strips markup from s and truncates it to n runes.
func Preview(s string, n int) string {
	plain := strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
	r := []rune(plain)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// ShareURL builds the share link for platform. No network call is made.
func ShareURL(p Platform, a model.Article) (string, error) {
	switch p {
	case Twitter:
		q := url.Values{"text": {ShareText(a)}, "url": {a.URL}}
		return "https://twitter.com/intent/tweet?" + q.Encode(), nil
	case LinkedIn:
		q := url.Values{"url": {a.URL}}
		return "https://www.linkedin.com/sharing/share-offsite/?" + q.Encode(), nil
	}
	return "", fmt.Errorf("unsupported share platform %q", p)
}

package normalize

import (
	"fmt"
	"html"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// HTMLToMarkdown sanitises feed HTML and converts it to markdown. Scripts,
// styles and event handlers are dropped before conversion.
func HTMLToMarkdown(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	clean := ugcPolicy.Sanitize(raw)
	md, err := htmltomarkdown.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return md, nil
}

// PlainText strips all markup and entities and collapses whitespace.
func PlainText(raw string) string {
	if raw == "" {
		return ""
	}
	text := html.UnescapeString(strictPolicy.Sanitize(raw))
	return strings.Join(strings.Fields(text), " ")
}

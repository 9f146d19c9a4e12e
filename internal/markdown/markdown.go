// Package markdown renders GitHub flavored markdown to HTML so the widget can
// preview a submission the way GitHub will display it.
package markdown

import (
	"bytes"
	"sync"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// The goldmark instance is safe to share; each conversion keeps its own state.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// GitHub renders single newlines in issue bodies as line breaks.
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)
	})
	return markdownInstance
}

// Render converts markdown source into an HTML fragment. Raw HTML in the
// source is omitted from the output.
func Render(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	buf := &bytes.Buffer{}
	if err := getMarkdown().Convert([]byte(source), buf); err != nil {
		return "", errors.Wrap(err, "error rendering markdown")
	}
	return buf.String(), nil
}

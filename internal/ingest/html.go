package ingest

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

// HTMLExtractor reduces an HTML page to its visible text
type HTMLExtractor struct{}

func (e *HTMLExtractor) Name() string { return "html" }

func (e *HTMLExtractor) Extensions() []string { return []string{".html", ".htm"} }

func (e *HTMLExtractor) Document() bool { return true }

func (e *HTMLExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "read %s", path)
	}
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	if err != nil {
		return "", eris.Wrapf(err, "parse html %s", path)
	}
	return visibleText(doc), nil
}

// block-level elements end a line of text
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "table": true, "ul": true, "ol": true,
}

// visibleText extracts text nodes, skipping scripts and styles
func visibleText(n *html.Node) string {
	var buf strings.Builder
	atLineStart := true

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.Join(strings.Fields(n.Data), " ")
			if text != "" {
				if !atLineStart {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
				atLineStart = false
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			if !atLineStart {
				buf.WriteString("\n")
				atLineStart = true
			}
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}

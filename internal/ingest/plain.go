package ingest

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
)

// PlainExtractor reads text and Markdown files verbatim
type PlainExtractor struct{}

func (e *PlainExtractor) Name() string { return "plain" }

func (e *PlainExtractor) Extensions() []string { return []string{".txt", ".md"} }

func (e *PlainExtractor) Document() bool { return false }

func (e *PlainExtractor) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

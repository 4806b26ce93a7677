package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tsawler/tabula/docx"
	"github.com/tsawler/tabula/odt"
)

// OfficeExtractor reads Word and OpenDocument text files
type OfficeExtractor struct{}

func (e *OfficeExtractor) Name() string { return "office" }

func (e *OfficeExtractor) Extensions() []string { return []string{".docx", ".odt"} }

func (e *OfficeExtractor) Document() bool { return true }

func (e *OfficeExtractor) Extract(ctx context.Context, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".odt") {
		r, err := odt.Open(path)
		if err != nil {
			return "", eris.Wrapf(err, "open odt %s", path)
		}
		defer func() { _ = r.Close() }()

		text, err := r.Text()
		if err != nil {
			return "", eris.Wrapf(err, "read odt %s", path)
		}
		return text, nil
	}

	r, err := docx.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "open docx %s", path)
	}
	defer func() { _ = r.Close() }()

	text, err := r.Text()
	if err != nil {
		return "", eris.Wrapf(err, "read docx %s", path)
	}
	return text, nil
}

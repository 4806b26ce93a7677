package ingest

import (
	"context"
	"path/filepath"
	"strings"
)

// Extractor pulls raw text out of one family of file formats
type Extractor interface {
	// Name returns the extractor name
	Name() string

	// Extensions lists the lower-case extensions (with dot) it handles
	Extensions() []string

	// Document reports whether inputs are business documents that get the
	// analysis and metrics requests. Plain text does not.
	Document() bool

	// Extract returns the text of the file at path
	Extract(ctx context.Context, path string) (string, error)
}

// Registry maps file extensions to extractors
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry with the built-in extractors
func NewRegistry() *Registry {
	registry := &Registry{byExt: make(map[string]Extractor)}

	registry.Register(&PlainExtractor{})
	registry.Register(&PDFExtractor{})
	registry.Register(&OfficeExtractor{})
	registry.Register(&HTMLExtractor{})

	return registry
}

// Register adds an extractor; later registrations win for shared extensions
func (r *Registry) Register(e Extractor) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Find returns the extractor for path's extension, or nil
func (r *Registry) Find(path string) Extractor {
	return r.byExt[strings.ToLower(filepath.Ext(path))]
}

// Supported reports whether path has a registered extension
func (r *Registry) Supported(path string) bool {
	return r.Find(path) != nil
}

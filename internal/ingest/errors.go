package ingest

import (
	"errors"
	"fmt"
)

// UnsupportedFormatError is returned for an input extension no extractor handles
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("unsupported file type for %s: no extension (supported: .pdf, .docx, .odt, .html, .txt, .md)", e.Path)
	}
	return fmt.Sprintf("unsupported file type %q for %s (supported: .pdf, .docx, .odt, .html, .txt, .md)", e.Ext, e.Path)
}

// IsUnsupportedFormat reports whether err is an UnsupportedFormatError
func IsUnsupportedFormat(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}

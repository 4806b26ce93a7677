package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/cimbrief/internal/model"
)

// DeckFormat names an output deck format
type DeckFormat string

const (
	FormatPPTX DeckFormat = "pptx"
	FormatPDF  DeckFormat = "pdf"
)

// FormatForPath picks the deck format from the file extension.
// Anything other than .pdf is written as PPTX.
func FormatForPath(path string) DeckFormat {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return FormatPDF
	}
	return FormatPPTX
}

// WriteSummaryFile writes the executive summary Markdown to path
func WriteSummaryFile(summary model.SummaryMap, path string) error {
	return writeFile(path, []byte(FormatSummary(summary)))
}

// WriteDeckFile renders deck in the format implied by path
func WriteDeckFile(deck Deck, path string) error {
	var buf bytes.Buffer
	var err error
	switch FormatForPath(path) {
	case FormatPDF:
		err = WritePDF(deck, &buf)
	default:
		err = WritePPTX(deck, &buf)
	}
	if err != nil {
		return eris.Wrapf(err, "render deck %s", path)
	}
	return writeFile(path, buf.Bytes())
}

// WritePayload dumps the presentation payload as indented JSON
func WritePayload(payload model.PresentationPayload, path string) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal payload")
	}
	return writeFile(path, append(data, '\n'))
}

// ReadPayload loads a payload written by WritePayload
func ReadPayload(path string) (model.PresentationPayload, error) {
	var payload model.PresentationPayload
	data, err := os.ReadFile(path)
	if err != nil {
		return payload, eris.Wrapf(err, "read payload %s", path)
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, eris.Wrapf(err, "parse payload %s", path)
	}
	return payload, nil
}

// ReadSummaryFile parses an executive summary written by WriteSummaryFile
func ReadSummaryFile(path string) (model.SummaryMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read summary %s", path)
	}
	return ParseSummary(data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}

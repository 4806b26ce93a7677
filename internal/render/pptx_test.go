package render

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/tabula/pptx"

	"github.com/ppiankov/cimbrief/internal/model"
)

func writeDeck(t *testing.T, deck Deck) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	require.NoError(t, WriteDeckFile(deck, path))
	return path
}

func TestWritePPTX_ReadBack(t *testing.T) {
	deck := BuildDeck(acmePayload(), deckDate)

	r, err := pptx.Open(writeDeck(t, deck))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	require.Equal(t, len(deck.Slides), r.SlideCount())
	for i, want := range deck.Slides {
		s, err := r.Slide(i)
		require.NoError(t, err)
		assert.Equal(t, want.Title.Text, s.Title, "slide %d", i)
	}

	cover, err := r.Slide(0)
	require.NoError(t, err)
	var subtitle string
	for _, block := range cover.Content {
		if block.IsSubtitle {
			subtitle = block.Text
		}
	}
	assert.Equal(t, "Investment Overview\nMarch 2025", subtitle)

	rationale, err := r.Slide(3)
	require.NoError(t, err)
	var numbered []string
	for _, block := range rationale.Content {
		for _, p := range block.Paragraphs {
			if p.IsNumbered {
				numbered = append(numbered, p.Text)
			}
		}
	}
	assert.Equal(t, []string{"Recurring revenue base", "Category leader in logistics SaaS"}, numbered)
}

func TestWritePPTX_BulletsAndPlaceholder(t *testing.T) {
	r, err := pptx.Open(writeDeck(t, BuildDeck(model.EmptyPayload(), deckDate)))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	financials, err := r.Slide(2)
	require.NoError(t, err)
	require.Equal(t, "Key Financials", financials.Title)

	var found bool
	for _, block := range financials.Content {
		for _, p := range block.Paragraphs {
			if p.Text != FinancialPlaceholder {
				continue
			}
			found = true
			assert.True(t, p.IsBullet)
			require.NotEmpty(t, p.Runs)
			assert.True(t, p.Runs[0].Italic)
			assert.Equal(t, BodyFontSize*100, p.Runs[0].FontSize)
		}
	}
	assert.True(t, found, "placeholder bullet missing")
}

func TestWritePPTX_EscapesText(t *testing.T) {
	payload := model.EmptyPayload()
	payload.Analysis.CompanyInfo[model.KeyName] = "Smith & Sons <Holdings>"

	r, err := pptx.Open(writeDeck(t, BuildDeck(payload, deckDate)))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	cover, err := r.Slide(0)
	require.NoError(t, err)
	assert.Equal(t, "Smith & Sons <Holdings>", cover.Title)
}

func TestWritePPTX_PackageParts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePPTX(BuildDeck(acmePayload(), deckDate), &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
		assert.True(t, f.Modified.Equal(deckDate), f.Name)
	}
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide4.xml",
		"ppt/slides/_rels/slide4.xml.rels",
	} {
		assert.True(t, names[want], want)
	}
	assert.False(t, names["ppt/slides/slide5.xml"])
}

func TestWritePPTX_EmptyDeck(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WritePPTX(Deck{}, &buf))
}

func TestWriteDeckFile_FormatByExtension(t *testing.T) {
	dir := t.TempDir()
	deck := BuildDeck(acmePayload(), deckDate)

	pdfPath := filepath.Join(dir, "out", "deck.PDF")
	require.NoError(t, WriteDeckFile(deck, pdfPath))
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))

	pptxPath := filepath.Join(dir, "deck.pptx")
	require.NoError(t, WriteDeckFile(deck, pptxPath))
	data, err = os.ReadFile(pptxPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "PK"))
}

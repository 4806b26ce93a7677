package render

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/cimbrief/internal/model"
)

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatPDF, FormatForPath("deck.pdf"))
	assert.Equal(t, FormatPDF, FormatForPath("/tmp/Deck.PDF"))
	assert.Equal(t, FormatPPTX, FormatForPath("deck.pptx"))
	assert.Equal(t, FormatPPTX, FormatForPath("deck"))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(BuildDeck(acmePayload(), deckDate), &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestWritePDF_EmptyDeck(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WritePDF(Deck{}, &buf))
}

func TestPayloadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.json")
	want := acmePayload()

	require.NoError(t, WritePayload(want, path))
	got, err := ReadPayload(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadPayload_Missing(t *testing.T) {
	_, err := ReadPayload(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSummaryFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	want := model.SummaryMap{
		model.SectionCompanyOverview:   "Overview text.",
		model.SectionFinancials:        model.Sentinel,
		model.SectionMarketOpportunity: "Market text.",
		model.SectionRisks:             "Risk text.",
	}

	require.NoError(t, WriteSummaryFile(want, path))
	got, err := ReadSummaryFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/cimbrief/internal/llm/llmtest"
	"github.com/ppiankov/cimbrief/internal/model"
)

const (
	matchAnalysis = "key information from business documents"
	matchMetrics  = "key metrics from business documents"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeDOCX(t *testing.T, paragraphs ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cim.docx")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	w, _ := zw.Create("[Content_Types].xml")
	_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`))

	body := ""
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	w, _ = zw.Create("word/document.xml")
	_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`))

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestIngest_PlainTextSkipsAnalysis(t *testing.T) {
	fake := llmtest.New()
	ing := New(fake.Client(), Options{})

	path := writeFile(t, "cim.txt", "Acme Corp operates a SaaS platform.")
	doc, err := ing.Ingest(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp operates a SaaS platform.", doc.Text)
	assert.Nil(t, doc.Analysis)
	assert.Nil(t, doc.FinancialMetrics)
	assert.Empty(t, fake.Calls())
}

func TestIngest_MarkdownIsPlain(t *testing.T) {
	fake := llmtest.New()
	ing := New(fake.Client(), Options{})

	doc, err := ing.Ingest(context.Background(), writeFile(t, "CIM.MD", "# Acme"))
	require.NoError(t, err)
	assert.Equal(t, "# Acme", doc.Text)
	assert.Empty(t, fake.Calls())
}

func TestIngest_UnsupportedFormat(t *testing.T) {
	ing := New(llmtest.New().Client(), Options{})

	_, err := ing.Ingest(context.Background(), writeFile(t, "deck.xlsx", "x"))
	require.Error(t, err)
	assert.True(t, IsUnsupportedFormat(err))

	var ufe *UnsupportedFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, ".xlsx", ufe.Ext)
}

func TestIngest_MissingFile(t *testing.T) {
	ing := New(llmtest.New().Client(), Options{})

	missing := filepath.Join(t.TempDir(), "nope.txt")
	_, err := ing.Ingest(context.Background(), missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
	assert.False(t, IsUnsupportedFormat(err))
}

func TestIngest_SizeLimit(t *testing.T) {
	ing := New(llmtest.New().Client(), Options{MaxBytes: 4})

	_, err := ing.Ingest(context.Background(), writeFile(t, "big.txt", "more than four bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestIngest_HTMLDocumentAnalysis(t *testing.T) {
	fake := llmtest.New(
		llmtest.Rule{Match: matchAnalysis, Reply: `{
			"company_info": {"name": "Acme Corp", "sector": "  ", "location": null},
			"market_info": {"market_size": "$12B"},
			"key_highlights": ["Recurring revenue", "", "Low churn"]
		}`},
		llmtest.Rule{Match: matchMetrics, Reply: "```json\n{\"revenue\": \"2024: $45M\", \"ebitda\": null, \"ebitda_margin\": 20}\n```"},
	)
	ing := New(fake.Client(), Options{})

	path := writeFile(t, "cim.html", `<html><head><title>x</title><script>var a=1;</script></head>
<body><h1>Acme Corp</h1><p>Acme operates a SaaS platform.</p></body></html>`)

	doc, err := ing.Ingest(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp\nAcme operates a SaaS platform.", doc.Text)

	require.NotNil(t, doc.Analysis)
	assert.Equal(t, model.CompanyInfo{"name": "Acme Corp"}, doc.Analysis.CompanyInfo)
	assert.Equal(t, model.MarketInfo{"market_size": "$12B"}, doc.Analysis.MarketInfo)
	assert.Equal(t, []string{"Recurring revenue", "Low churn"}, doc.Analysis.KeyHighlights)

	require.NotNil(t, doc.FinancialMetrics)
	assert.Equal(t, "2024: $45M", doc.FinancialMetrics.Revenue)
	assert.Equal(t, "", doc.FinancialMetrics.EBITDA)
	assert.Equal(t, "20", doc.FinancialMetrics.EBITDAMargin)

	assert.Equal(t, 1, fake.CallsMatching(matchAnalysis))
	assert.Equal(t, 1, fake.CallsMatching(matchMetrics))
	for _, req := range fake.Calls() {
		assert.True(t, req.JSON)
		assert.Contains(t, req.Prompt, "Acme operates a SaaS platform.")
	}
}

func TestIngest_FailuresDegrade(t *testing.T) {
	fake := llmtest.New(
		llmtest.Rule{Match: matchAnalysis, Reply: "I am unable to help with that."},
		llmtest.Rule{Match: matchMetrics, Err: errors.New("connection refused")},
	)
	ing := New(fake.Client(), Options{})

	path := writeDOCX(t, "Acme Corp had revenue of $45.2 million in 2023.", "EBITDA margin of 18%.")
	doc, err := ing.Ingest(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, doc.Text, "Acme Corp had revenue")

	require.NotNil(t, doc.Analysis)
	assert.Empty(t, doc.Analysis.CompanyInfo)
	assert.Empty(t, doc.Analysis.KeyHighlights)

	require.NotNil(t, doc.FinancialMetrics)
	assert.Equal(t, "$45.2 million", doc.FinancialMetrics.Revenue)
	assert.Equal(t, "18%", doc.FinancialMetrics.EBITDAMargin)
}

func TestIngest_TruncatesPromptText(t *testing.T) {
	fake := llmtest.New(llmtest.Rule{Match: "business documents", Reply: "{}"})
	ing := New(fake.Client(), Options{MaxInputChars: 10})

	path := writeFile(t, "cim.htm", "<p>0123456789ABCDEFGHIJ</p>")
	doc, err := ing.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "0123456789ABCDEFGHIJ", doc.Text)

	for _, req := range fake.Calls() {
		assert.Contains(t, req.Prompt, "0123456789")
		assert.NotContains(t, req.Prompt, "ABCDEFGHIJ")
	}
}

func TestIngest_EmptyDocumentSkipsRequests(t *testing.T) {
	fake := llmtest.New()
	ing := New(fake.Client(), Options{})

	doc, err := ing.Ingest(context.Background(), writeFile(t, "blank.html", "<html><body>  </body></html>"))
	require.NoError(t, err)

	assert.Empty(t, fake.Calls())
	require.NotNil(t, doc.Analysis)
	require.NotNil(t, doc.FinancialMetrics)
	assert.True(t, doc.FinancialMetrics.IsEmpty())
}

func TestRegistry_Find(t *testing.T) {
	r := NewRegistry()

	tests := map[string]string{
		"a.pdf":  "pdf",
		"a.PDF":  "pdf",
		"a.docx": "office",
		"a.odt":  "office",
		"a.html": "html",
		"a.htm":  "html",
		"a.txt":  "plain",
		"a.md":   "plain",
	}
	for path, want := range tests {
		e := r.Find(path)
		require.NotNil(t, e, path)
		assert.Equal(t, want, e.Name(), path)
	}

	assert.Nil(t, r.Find("a.pptx"))
	assert.False(t, r.Supported("README"))
}

package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/cimbrief/internal/llm"
	"github.com/ppiankov/cimbrief/internal/model"
)

func TestGet_AllRequests(t *testing.T) {
	names := []string{Analysis, Metrics, SplitSections, CompanyIdentity, CompanyInfo, MarketInfo, FinancialMetrics, Highlights}
	for _, name := range names {
		p, err := Get(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, p.System, name)
		assert.Contains(t, p.Template, "{{.Text}}", name)
		assert.Positive(t, p.MaxTokens, name)
	}
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get("nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent")
	})
}

func TestSchemasCompile(t *testing.T) {
	// Every schema must accept an empty object
	for _, name := range []string{Analysis, Metrics, SplitSections, CompanyIdentity, CompanyInfo, MarketInfo, FinancialMetrics} {
		p := MustGet(name)
		if p.Schema == "" {
			continue
		}
		_, err := llm.DecodeObject(name, "{}", p.Schema)
		assert.NoError(t, err, name)
	}
}

func TestMetricsSchemaRejectsNestedValues(t *testing.T) {
	p := MustGet(Metrics)
	_, err := llm.DecodeObject(Metrics, `{"revenue": {"2024": "$10M"}}`, p.Schema)
	assert.True(t, llm.IsParseError(err))
}

func TestSectionTemplates_CoverCanonicalSections(t *testing.T) {
	table := SectionTemplates()
	require.Len(t, table, len(model.Sections))

	seen := make(map[string]bool)
	for _, name := range model.Sections {
		tmpl, ok := table[name]
		require.True(t, ok, name)
		assert.Len(t, tmpl.Focus, 4, name)
		assert.NotEmpty(t, tmpl.Closing, name)

		// Instructions must differ per section
		rendered := tmpl.Render("")
		assert.False(t, seen[rendered], name)
		seen[rendered] = true
	}
}

func TestSectionTemplate_Render(t *testing.T) {
	out := SectionTemplateFor(model.SectionFinancials).Render("Revenue grew 20%.")

	assert.Contains(t, out, "Analyze the financial section")
	assert.Contains(t, out, "1. Key financial metrics and their trends")
	assert.Contains(t, out, "Content to analyze:\n\nRevenue grew 20%.")
}

func TestSectionTemplateFor_Generic(t *testing.T) {
	out := SectionTemplateFor("Appendix").Render("body")
	assert.Equal(t, "Summarize the following section professionally:\n\nbody", out)
}

func TestSummarySystem(t *testing.T) {
	system, maxTokens := SummarySystem()
	assert.Contains(t, system, "expert investment analyst")
	assert.Equal(t, 500, maxTokens)
}

func TestFormat(t *testing.T) {
	out := Format("Hello {{.Name}}, {{.Name}}! {{.Missing}}", map[string]string{"Name": "Acme"})
	assert.Equal(t, "Hello Acme, Acme! {{.Missing}}", out)
}

func TestFormat_ValuesAreNotExpanded(t *testing.T) {
	data := map[string]string{
		"Shape":    `{"a": "b"}`,
		"Sections": "- A",
		"Text":     "doc mentions {{.Shape}} and {{.Sections}}",
	}
	want := "Sections:\n- A\nShape: {\"a\": \"b\"}\nText: doc mentions {{.Shape}} and {{.Sections}}"

	for i := 0; i < 20; i++ {
		out := Format("Sections:\n{{.Sections}}\nShape: {{.Shape}}\nText: {{.Text}}", data)
		assert.Equal(t, want, out)
	}
}

package sections

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/cimbrief/internal/llm/llmtest"
	"github.com/ppiankov/cimbrief/internal/model"
)

const (
	matchSplit    = "Extract and organize content precisely"
	matchIdentity = "Extract company information precisely"
)

func assertTotal(t *testing.T, set model.SectionSet) {
	t.Helper()
	require.Len(t, set, len(model.Sections))
	for _, name := range model.Sections {
		_, ok := set[name]
		assert.True(t, ok, "missing section %q", name)
	}
}

func TestSplit_ParsesSections(t *testing.T) {
	fake := llmtest.New(llmtest.Rule{Match: matchSplit, Reply: `{
		"Company Overview": "Acme Corp operates a SaaS platform.",
		"financials": "Revenue $45M.",
		"Market Opportunity": null,
		"Appendix": "ignored"
	}`})
	s := New(fake.Client(), 0, nil)

	set := s.Split(context.Background(), "Acme Corp operates a SaaS platform. Revenue $45M.")

	assertTotal(t, set)
	assert.Equal(t, "Acme Corp operates a SaaS platform.", set[model.SectionCompanyOverview])
	assert.Equal(t, "Revenue $45M.", set[model.SectionFinancials])
	assert.Equal(t, "", set[model.SectionMarketOpportunity])
	assert.Equal(t, "", set[model.SectionRisks])

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].JSON)
	assert.Equal(t, 3000, calls[0].MaxTokens)
	assert.Contains(t, calls[0].Prompt, "- Market Opportunity")
	assert.Contains(t, calls[0].Prompt, `"Risks": "extracted text..."`)
}

func TestSplit_TotalUnderMalformedReplies(t *testing.T) {
	replies := map[string]string{
		"prose":        "Sure! Here are the sections you asked for.",
		"array":        `["Company Overview", "Financials"]`,
		"nested":       `{"Company Overview": {"text": "x"}}`,
		"truncated":    `{"Company Overview": "Acme`,
		"empty":        "",
		"wrong keys":   `{"overview": "x", "money": "y"}`,
		"empty object": "{}",
	}

	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			fake := llmtest.New(llmtest.Rule{Match: matchSplit, Reply: reply})
			set := New(fake.Client(), 0, nil).Split(context.Background(), "some text")

			assertTotal(t, set)
			for _, section := range model.Sections {
				assert.Equal(t, "", set[section])
			}
		})
	}
}

func TestSplit_IgnoresExtraKeysOfAnyShape(t *testing.T) {
	fake := llmtest.New(llmtest.Rule{Match: matchSplit, Reply: `{
		"Company Overview": "Acme Corp operates a SaaS platform.",
		"Financials": "Revenue $10M",
		"notes": {"confidence": "high"},
		"pages": [1, 2, 3]
	}`})
	set := New(fake.Client(), 0, nil).Split(context.Background(), "some text")

	assertTotal(t, set)
	assert.Equal(t, "Acme Corp operates a SaaS platform.", set[model.SectionCompanyOverview])
	assert.Equal(t, "Revenue $10M", set[model.SectionFinancials])
}

func TestSplit_ListValuedSection(t *testing.T) {
	fake := llmtest.New(llmtest.Rule{Match: matchSplit, Reply: `{
		"Company Overview": "Acme Corp operates a SaaS platform.",
		"Risks": ["Customer concentration", "FX exposure"]
	}`})
	set := New(fake.Client(), 0, nil).Split(context.Background(), "some text")

	assertTotal(t, set)
	assert.Equal(t, "Acme Corp operates a SaaS platform.", set[model.SectionCompanyOverview])
	assert.Equal(t, "Customer concentration, FX exposure", set[model.SectionRisks])
}

func TestSplit_ServiceFailure(t *testing.T) {
	fake := llmtest.New(llmtest.Rule{Match: matchSplit, Err: errors.New("timeout")})
	set := New(fake.Client(), 0, nil).Split(context.Background(), "some text")
	assertTotal(t, set)
}

func TestSplit_BlankTextSkipsRequest(t *testing.T) {
	fake := llmtest.New()
	set := New(fake.Client(), 0, nil).Split(context.Background(), " \n ")
	assertTotal(t, set)
	assert.Empty(t, fake.Calls())
}

func TestSplit_TruncatesInput(t *testing.T) {
	fake := llmtest.New(llmtest.Rule{Match: matchSplit, Reply: "{}"})
	New(fake.Client(), 5, nil).Split(context.Background(), "ABCDEFGHIJ")

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "ABCDE")
	assert.NotContains(t, calls[0].Prompt, "ABCDEF")
}

func TestExtractCompanyInfo_DropsBlankValues(t *testing.T) {
	fake := llmtest.New(llmtest.Rule{Match: matchIdentity, Reply: `{
		"company_name": " Acme Corp ",
		"location": "   ",
		"industry": null
	}`})

	info := New(fake.Client(), 0, nil).ExtractCompanyInfo(context.Background(), "Acme Corp operates a SaaS platform.")

	assert.Equal(t, model.CompanyInfo{KeyCompanyName: "Acme Corp"}, info)
	for k, v := range info {
		assert.NotEmpty(t, v, k)
	}
}

func TestExtractCompanyInfo_Unparseable(t *testing.T) {
	fake := llmtest.New(llmtest.Rule{Match: matchIdentity, Reply: "no idea"})
	info := New(fake.Client(), 0, nil).ExtractCompanyInfo(context.Background(), "text")
	assert.NotNil(t, info)
	assert.Empty(t, info)
}

func TestParse_CombinesResults(t *testing.T) {
	fake := llmtest.New(
		llmtest.Rule{Match: matchSplit, Reply: `{"Company Overview": "Acme Corp operates a SaaS platform."}`},
		llmtest.Rule{Match: matchIdentity, Reply: `{"company_name": "Acme Corp", "industry": "Software"}`},
	)
	doc := &model.RawDocument{
		Text:             "Acme Corp operates a SaaS platform.",
		FinancialMetrics: &model.FinancialMetrics{Revenue: "$45M"},
	}

	parsed := New(fake.Client(), 0, nil).Parse(context.Background(), doc)

	assertTotal(t, parsed.Sections)
	assert.Equal(t, "Acme Corp operates a SaaS platform.", parsed.Sections[model.SectionCompanyOverview])
	assert.Equal(t, "Software", parsed.CompanyInfo[KeyIndustry])
	assert.Equal(t, "$45M", parsed.FinancialMetrics.Revenue)
}

func TestParse_PlainTextHasNoMetrics(t *testing.T) {
	fake := llmtest.New()
	fake.Default = "{}"

	parsed := New(fake.Client(), 0, nil).Parse(context.Background(), &model.RawDocument{Text: "x"})
	assertTotal(t, parsed.Sections)
	assert.True(t, parsed.FinancialMetrics.IsEmpty())
}

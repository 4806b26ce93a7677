package present

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/cimbrief/internal/llm/llmtest"
	"github.com/ppiankov/cimbrief/internal/model"
)

const (
	matchCompany    = "extracting company information in a structured format"
	matchMarket     = "extracting market information in a structured format"
	matchMetrics    = "extracting key metrics in a structured format"
	matchHighlights = "creating compelling investment highlights"
)

func fullSections() model.SectionSet {
	return model.NewSectionSet(map[string]string{
		model.SectionCompanyOverview:   "Acme Corp operates a SaaS platform in Austin.",
		model.SectionFinancials:        "Revenue of $45M, EBITDA of $9M.",
		model.SectionMarketOpportunity: "The market is $12B growing 15%.",
		model.SectionRisks:             "Customer concentration.",
	})
}

func TestBuild_AllFacets(t *testing.T) {
	fake := llmtest.New(
		llmtest.Rule{Match: matchCompany, Reply: `{"name": "Acme Corp", "sector": "Software", "location": "Austin, TX", "business_model": ""}`},
		llmtest.Rule{Match: matchMarket, Reply: `{"market_size": "$12B", "growth_rate": "15%", "competition": null}`},
		llmtest.Rule{Match: matchMetrics, Reply: `{"revenue": "$45M", "ebitda": "$9M"}`},
		llmtest.Rule{Match: matchHighlights, Reply: "1. Recurring revenue\n2. Market leader\n3. Expanding TAM\n4. Strong margins\n5. Proven team\n6. Extra"},
	)

	payload := New(fake.Client(), 4, nil).Build(context.Background(), fullSections())

	assert.Equal(t, model.CompanyInfo{"name": "Acme Corp", "sector": "Software", "location": "Austin, TX"}, payload.Analysis.CompanyInfo)
	assert.Equal(t, model.MarketInfo{"market_size": "$12B", "growth_rate": "15%"}, payload.Analysis.MarketInfo)
	assert.Equal(t, "$45M", payload.FinancialMetrics.Revenue)
	assert.Equal(t, "$9M", payload.FinancialMetrics.EBITDA)
	assert.Equal(t, []string{"Recurring revenue", "Market leader", "Expanding TAM", "Strong margins", "Proven team"}, payload.Analysis.KeyHighlights)

	require.Len(t, fake.Calls(), 4)
}

func TestBuild_FacetsReadOnlyTheirSection(t *testing.T) {
	fake := llmtest.New()
	fake.Default = "{}"

	New(fake.Client(), 4, nil).Build(context.Background(), fullSections())

	for _, c := range fake.Calls() {
		switch {
		case strings.Contains(c.System, matchCompany):
			assert.Contains(t, c.Prompt, "Acme Corp operates")
			assert.NotContains(t, c.Prompt, "Revenue of $45M")
		case strings.Contains(c.System, matchMarket):
			assert.Contains(t, c.Prompt, "The market is $12B")
			assert.NotContains(t, c.Prompt, "Acme Corp operates")
		case strings.Contains(c.System, matchMetrics):
			assert.Contains(t, c.Prompt, "Revenue of $45M")
			assert.NotContains(t, c.Prompt, "Customer concentration")
		case strings.Contains(c.System, matchHighlights):
			assert.False(t, c.JSON)
			assert.Contains(t, c.Prompt, "Acme Corp operates a SaaS platform in Austin.\n\nRevenue of $45M, EBITDA of $9M.\n\nThe market is $12B growing 15%.\n\nCustomer concentration.")
		default:
			t.Errorf("unexpected request: %q", c.System)
		}
	}
}

func TestBuild_FailuresAreIsolated(t *testing.T) {
	fake := llmtest.New(
		llmtest.Rule{Match: matchCompany, Err: errors.New("timeout")},
		llmtest.Rule{Match: matchMarket, Reply: "not json"},
		llmtest.Rule{Match: matchMetrics, Reply: `{"revenue": "$45M"}`},
		llmtest.Rule{Match: matchHighlights, Reply: "1. Recurring revenue"},
	)

	payload := New(fake.Client(), 2, nil).Build(context.Background(), fullSections())

	assert.NotNil(t, payload.Analysis.CompanyInfo)
	assert.Empty(t, payload.Analysis.CompanyInfo)
	assert.NotNil(t, payload.Analysis.MarketInfo)
	assert.Empty(t, payload.Analysis.MarketInfo)
	assert.Equal(t, "$45M", payload.FinancialMetrics.Revenue)
	assert.Equal(t, []string{"Recurring revenue"}, payload.Analysis.KeyHighlights)
}

func TestBuild_BlankSectionsSkipRequests(t *testing.T) {
	fake := llmtest.New(
		llmtest.Rule{Match: matchCompany, Reply: `{"name": "Acme Corp", "business_model": "SaaS platform"}`},
		llmtest.Rule{Match: matchHighlights, Reply: ""},
	)
	sections := model.NewSectionSet(map[string]string{
		model.SectionCompanyOverview: "Acme Corp operates a SaaS platform.",
	})

	payload := New(fake.Client(), 4, nil).Build(context.Background(), sections)

	assert.Equal(t, 1, fake.CallsMatching(matchCompany))
	assert.Equal(t, 0, fake.CallsMatching(matchMarket))
	assert.Equal(t, 0, fake.CallsMatching(matchMetrics))
	assert.Equal(t, 1, fake.CallsMatching(matchHighlights))

	assert.Equal(t, "Acme Corp", payload.Analysis.CompanyInfo[model.KeyName])
	assert.Empty(t, payload.Analysis.MarketInfo)
	assert.True(t, payload.FinancialMetrics.IsEmpty())
	assert.Empty(t, payload.Analysis.KeyHighlights)
}

func TestBuild_NoBlankValues(t *testing.T) {
	fake := llmtest.New(
		llmtest.Rule{Match: matchCompany, Reply: `{"name": "  ", "sector": null, "location": "", "business_model": "\t"}`},
		llmtest.Rule{Match: matchMarket, Reply: `{"market_size": " ", "growth_rate": null, "competition": "Fragmented"}`},
	)
	fake.Default = "{}"

	payload := New(fake.Client(), 4, nil).Build(context.Background(), fullSections())

	for k, v := range payload.Analysis.CompanyInfo {
		assert.NotEmpty(t, v, k)
	}
	for k, v := range payload.Analysis.MarketInfo {
		assert.NotEmpty(t, v, k)
	}
	assert.Equal(t, model.MarketInfo{"competition": "Fragmented"}, payload.Analysis.MarketInfo)
}

func TestBuild_AllBlank(t *testing.T) {
	fake := llmtest.New()
	payload := New(fake.Client(), 4, nil).Build(context.Background(), model.EmptySectionSet())

	assert.Empty(t, fake.Calls())
	assert.Equal(t, model.EmptyPayload(), payload)
}

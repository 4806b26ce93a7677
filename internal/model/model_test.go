package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSectionSet_Total(t *testing.T) {
	set := NewSectionSet(map[string]string{
		SectionFinancials: "Revenue grew 20%.",
		"Appendix":        "ignored",
	})

	require.Len(t, set, len(Sections))
	assert.Equal(t, "Revenue grew 20%.", set[SectionFinancials])
	assert.Equal(t, "", set[SectionCompanyOverview])
	assert.NotContains(t, set, "Appendix")
}

func TestSectionSet_BlankAndJoined(t *testing.T) {
	set := NewSectionSet(map[string]string{
		SectionCompanyOverview: "A",
		SectionRisks:           "  \n ",
	})

	assert.False(t, set.Blank(SectionCompanyOverview))
	assert.True(t, set.Blank(SectionRisks))
	assert.True(t, set.Blank(SectionFinancials))
	assert.Equal(t, "A\n\n\n\n\n\n  \n ", set.Joined("\n\n"))
}

func TestCompact_DropsBlankValues(t *testing.T) {
	got := Compact(map[string]any{
		"name":     "  Acme Corp ",
		"location": "   ",
		"sector":   nil,
		"size":     float64(250),
		"tags":     []any{"saas", "", nil},
		"nested":   map[string]any{"x": "y"},
	})

	assert.Equal(t, map[string]string{
		"name": "Acme Corp",
		"size": "250",
		"tags": "saas",
	}, got)
}

func TestFinancialMetricsFromMap(t *testing.T) {
	m := FinancialMetricsFromMap(map[string]any{
		"revenue":       "2024: $100M",
		"ebitda":        nil,
		"ebitda_margin": " ",
	})

	assert.Equal(t, "2024: $100M", m.Revenue)
	assert.Empty(t, m.EBITDA)
	assert.Empty(t, m.EBITDAMargin)
	assert.False(t, m.IsEmpty())
	assert.True(t, FinancialMetrics{}.IsEmpty())
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.LLM.Timeout)
	assert.Equal(t, "pptx_data.json", cfg.Pipeline.PayloadPath)
}

func TestConfig_ValidateRejectsUnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "mystery"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Pipeline.Parallelism = 0
	assert.Error(t, cfg.Validate())
}

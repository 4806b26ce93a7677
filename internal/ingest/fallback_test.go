package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/cimbrief/internal/model"
)

func TestFallbackMetrics(t *testing.T) {
	text := `Revenue of $45.2 million in 2023, with revenue growth of 12%.
EBITDA of $9.1M and an EBITDA margin of 20.1%.
The total addressable market is estimated at $12 billion.`

	got := FallbackMetrics(text)

	assert.Equal(t, model.FinancialMetrics{
		Revenue:       "$45.2 million",
		RevenueGrowth: "12%",
		EBITDA:        "$9.1M",
		EBITDAMargin:  "20.1%",
		MarketSize:    "$12 billion",
	}, got)
}

func TestFallbackMetrics_NoMatches(t *testing.T) {
	got := FallbackMetrics("Acme Corp operates a SaaS platform.")
	assert.True(t, got.IsEmpty())
}

func TestFallbackMetrics_Partial(t *testing.T) {
	got := FallbackMetrics("Net sales reached 1,250 in FY2023.")
	assert.Equal(t, "1,250", got.Revenue)
	assert.Empty(t, got.EBITDA)
	assert.Empty(t, got.RevenueGrowth)
}

func TestFallbackMetrics_TAMWordBoundary(t *testing.T) {
	got := FallbackMetrics("Our team in Amsterdam grew to 40 people.")
	assert.Empty(t, got.MarketSize)

	got = FallbackMetrics("TAM: $3.5B")
	assert.Equal(t, "$3.5B", got.MarketSize)
}

package ingest

import (
	"github.com/ppiankov/cimbrief/internal/model"
)

// analysisFromMap converts a decoded analysis reply. Missing or mistyped
// facets become empty values.
func analysisFromMap(obj map[string]any) model.StructuredAnalysis {
	analysis := model.StructuredAnalysis{
		CompanyInfo: model.CompanyInfo{},
		MarketInfo:  model.MarketInfo{},
	}

	if m, ok := obj["company_info"].(map[string]any); ok {
		analysis.CompanyInfo = model.Compact(m)
	}
	if m, ok := obj["market_info"].(map[string]any); ok {
		analysis.MarketInfo = model.Compact(m)
	}
	if m, ok := obj["financial_metrics"].(map[string]any); ok {
		analysis.FinancialMetrics = model.FinancialMetricsFromMap(m)
	}
	if items, ok := obj["key_highlights"].([]any); ok {
		for _, item := range items {
			if s := model.StringValue(item); s != "" {
				analysis.KeyHighlights = append(analysis.KeyHighlights, s)
			}
		}
	}

	return analysis
}

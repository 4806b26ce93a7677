package model

import (
	"strconv"
	"strings"
)

// RawDocument is the Ingestor's output bundle.
// Analysis and FinancialMetrics are nil for plain-text inputs.
type RawDocument struct {
	Path             string              `json:"path"`
	Text             string              `json:"text"`
	Analysis         *StructuredAnalysis `json:"analysis,omitempty"`
	FinancialMetrics *FinancialMetrics   `json:"financial_metrics,omitempty"`
}

// FinancialMetrics carries opaque metric strings such as "2024: $100M".
// An empty field means the metric was not found.
type FinancialMetrics struct {
	Revenue       string `json:"revenue,omitempty"`
	RevenueGrowth string `json:"revenue_growth,omitempty"`
	EBITDA        string `json:"ebitda,omitempty"`
	EBITDAMargin  string `json:"ebitda_margin,omitempty"`
	MarketSize    string `json:"market_size,omitempty"`
}

// IsEmpty reports whether no metric is present
func (m FinancialMetrics) IsEmpty() bool {
	return strings.TrimSpace(m.Revenue) == "" &&
		strings.TrimSpace(m.RevenueGrowth) == "" &&
		strings.TrimSpace(m.EBITDA) == "" &&
		strings.TrimSpace(m.EBITDAMargin) == "" &&
		strings.TrimSpace(m.MarketSize) == ""
}

// FinancialMetricsFromMap converts a decoded JSON object into FinancialMetrics.
// Non-string values are stringified; null and blank values stay empty.
func FinancialMetricsFromMap(m map[string]any) FinancialMetrics {
	return FinancialMetrics{
		Revenue:       StringValue(m["revenue"]),
		RevenueGrowth: StringValue(m["revenue_growth"]),
		EBITDA:        StringValue(m["ebitda"]),
		EBITDAMargin:  StringValue(m["ebitda_margin"]),
		MarketSize:    StringValue(m["market_size"]),
	}
}

// StructuredAnalysis is the qualitative analysis extracted at ingest time
type StructuredAnalysis struct {
	CompanyInfo      CompanyInfo      `json:"company_info,omitempty"`
	FinancialMetrics FinancialMetrics `json:"financial_metrics"`
	MarketInfo       MarketInfo       `json:"market_info,omitempty"`
	KeyHighlights    []string         `json:"key_highlights,omitempty"`
}

// CompanyInfo is a sparse map of company fields (name, sector, location, ...)
type CompanyInfo map[string]string

// MarketInfo is a sparse map of market fields (market_size, growth_rate, competition)
type MarketInfo map[string]string

// ParsedDocument is the Sectionizer's output
type ParsedDocument struct {
	Sections         SectionSet       `json:"sections"`
	CompanyInfo      CompanyInfo      `json:"company_info"`
	FinancialMetrics FinancialMetrics `json:"financial_metrics"`
}

// Compact returns a copy of m without null, empty or whitespace-only values.
// Surviving values are trimmed.
func Compact(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		s := StringValue(v)
		if s == "" {
			continue
		}
		out[k] = s
	}
	return out
}

// StringValue renders a decoded JSON scalar as trimmed text.
// Nil, objects and arrays of non-scalars collapse to "".
func StringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := StringValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

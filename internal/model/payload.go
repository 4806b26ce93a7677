package model

// PresentationPayload is the deck renderer's input.
// It is derived from SectionSet independently of SummaryMap.
type PresentationPayload struct {
	Analysis         PresentationAnalysis `json:"analysis"`
	FinancialMetrics FinancialMetrics     `json:"financial_metrics"`
}

// PresentationAnalysis holds the qualitative facets of the payload
type PresentationAnalysis struct {
	CompanyInfo   CompanyInfo `json:"company_info"`
	MarketInfo    MarketInfo  `json:"market_info"`
	KeyHighlights []string    `json:"key_highlights"`
}

// EmptyPayload returns a payload whose facets are all empty but non-nil
func EmptyPayload() PresentationPayload {
	return PresentationPayload{
		Analysis: PresentationAnalysis{
			CompanyInfo:   CompanyInfo{},
			MarketInfo:    MarketInfo{},
			KeyHighlights: []string{},
		},
	}
}

// Company info keys produced by the presentation builder
const (
	KeyName          = "name"
	KeySector        = "sector"
	KeyLocation      = "location"
	KeyBusinessModel = "business_model"
)

// Market info keys produced by the presentation builder
const (
	KeyMarketSize  = "market_size"
	KeyGrowthRate  = "growth_rate"
	KeyCompetition = "competition"
)

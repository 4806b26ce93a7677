package ingest

import (
	"regexp"
	"strings"

	"github.com/ppiankov/cimbrief/internal/model"
)

// Amount patterns capture an optional dollar sign, the figure, and a unit
var (
	revenuePattern       = regexp.MustCompile(`(?i)(?:revenue|sales).*?(\$?)(\d[\d,.]*)(?:\s*(million|billion|mm|bn|m|b)\b)?`)
	ebitdaPattern        = regexp.MustCompile(`(?i)ebitda.*?(\$?)(\d[\d,.]*)(?:\s*(million|billion|mm|bn|m|b)\b)?`)
	marketSizePattern    = regexp.MustCompile(`(?i)(?:market size|\btam\b|total addressable market).*?(\$?)(\d[\d,.]*)(?:\s*(million|billion|mm|bn|m|b)\b)?`)
	revenueGrowthPattern = regexp.MustCompile(`(?i)(?:revenue growth|sales growth).*?(\d+(?:\.\d+)?)\s*%`)
	ebitdaMarginPattern  = regexp.MustCompile(`(?i)ebitda margin.*?(\d+(?:\.\d+)?)\s*%`)
)

// FallbackMetrics extracts financial metrics with regular expressions.
// It runs when the metrics request fails and returns the first match per
// metric; unmatched metrics stay empty.
func FallbackMetrics(text string) model.FinancialMetrics {
	return model.FinancialMetrics{
		Revenue:       matchAmount(revenuePattern, text),
		RevenueGrowth: matchPercent(revenueGrowthPattern, text),
		EBITDA:        matchAmount(ebitdaPattern, text),
		EBITDAMargin:  matchPercent(ebitdaMarginPattern, text),
		MarketSize:    matchAmount(marketSizePattern, text),
	}
}

func matchAmount(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	figure := strings.TrimRight(m[2], ".,")
	if figure == "" {
		return ""
	}

	out := m[1] + figure
	if unit := m[3]; unit != "" {
		if len(unit) <= 2 {
			out += strings.ToUpper(unit)
		} else {
			out += " " + strings.ToLower(unit)
		}
	}
	return out
}

func matchPercent(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + "%"
}

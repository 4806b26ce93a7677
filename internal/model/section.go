package model

import "strings"

// Canonical section names used by every stage
const (
	SectionCompanyOverview   = "Company Overview"
	SectionFinancials        = "Financials"
	SectionMarketOpportunity = "Market Opportunity"
	SectionRisks             = "Risks"
)

// Sentinel replaces the summary of a section with no source text
const Sentinel = "Information not available in the document."

// Sections lists the canonical section names in rendering order
var Sections = []string{
	SectionCompanyOverview,
	SectionFinancials,
	SectionMarketOpportunity,
	SectionRisks,
}

// SectionSet maps every canonical section name to its extracted text.
// A section with no content maps to the empty string; keys are never missing.
type SectionSet map[string]string

// NewSectionSet builds a total SectionSet from a possibly partial map.
// Unknown keys are ignored and missing keys become "".
func NewSectionSet(src map[string]string) SectionSet {
	set := make(SectionSet, len(Sections))
	for _, name := range Sections {
		set[name] = src[name]
	}
	return set
}

// EmptySectionSet returns a SectionSet with every section blank
func EmptySectionSet() SectionSet {
	return NewSectionSet(nil)
}

// Blank reports whether the named section has no usable text
func (s SectionSet) Blank(name string) bool {
	return strings.TrimSpace(s[name]) == ""
}

// Joined concatenates all section texts in canonical order
func (s SectionSet) Joined(sep string) string {
	parts := make([]string, 0, len(Sections))
	for _, name := range Sections {
		parts = append(parts, s[name])
	}
	return strings.Join(parts, sep)
}

// SummaryMap maps every canonical section name to a prose summary or Sentinel
type SummaryMap map[string]string

// IsCanonicalSection reports whether name is one of the four section names
func IsCanonicalSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}

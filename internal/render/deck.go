// Package render turns pipeline results into output files: the Markdown
// executive summary, the slide deck (PPTX or PDF) and the JSON payload dump.
package render

import (
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/cimbrief/internal/model"
)

// Font sizes in points
const (
	TitleFontSize      = 32
	SubtitleFontSize   = 24
	BodyFontSize       = 18
	CoverTitleFontSize = 44
	CoverSubFontSize   = 28
)

// Fixed slide text
const (
	DefaultDeckTitle     = "Investment Opportunity"
	FinancialPlaceholder = "Financial information not available in the document"
	maxRationalePoints   = 5
)

// ParagraphKind selects how a paragraph is laid out
type ParagraphKind int

const (
	ParagraphText ParagraphKind = iota
	ParagraphHeading
	ParagraphBullet
	ParagraphNumbered
	ParagraphBlank
)

// Paragraph is one line of slide text
type Paragraph struct {
	Kind   ParagraphKind
	Text   string
	Size   int // points; 0 inherits
	Bold   bool
	Italic bool
}

// SlideKind distinguishes the cover from content slides
type SlideKind int

const (
	SlideCover SlideKind = iota
	SlideContent
)

// Slide is a renderer-independent slide
type Slide struct {
	Kind     SlideKind
	Title    Paragraph
	Subtitle []Paragraph
	Body     []Paragraph
}

// Deck is an ordered list of slides
type Deck struct {
	Title       string
	GeneratedAt time.Time
	Slides      []Slide
}

// Bullets returns the slide's bullet and numbered paragraphs in order
func (s Slide) Bullets() []Paragraph {
	var out []Paragraph
	for _, p := range s.Body {
		if p.Kind == ParagraphBullet || p.Kind == ParagraphNumbered {
			out = append(out, p)
		}
	}
	return out
}

// Slide returns the first slide titled title
func (d Deck) Slide(title string) (Slide, bool) {
	for _, s := range d.Slides {
		if s.Title.Text == title {
			return s, true
		}
	}
	return Slide{}, false
}

var boldMarkup = regexp.MustCompile(`\*\*(.*?)\*\*`)

// StripMarkup removes **bold** markers so slides never show raw Markdown
func StripMarkup(s string) string {
	return strings.TrimSpace(boldMarkup.ReplaceAllString(s, "$1"))
}

// BuildDeck lays out the deck for payload. now sets the cover date.
func BuildDeck(payload model.PresentationPayload, now time.Time) Deck {
	company := payload.Analysis.CompanyInfo
	market := payload.Analysis.MarketInfo
	metrics := payload.FinancialMetrics

	title := StripMarkup(company[model.KeyName])
	if title == "" {
		title = DefaultDeckTitle
	}

	deck := Deck{Title: title, GeneratedAt: now}
	deck.Slides = append(deck.Slides,
		coverSlide(title, now),
		overviewSlide(company, market),
		financialsSlide(metrics),
		rationaleSlide(payload),
	)
	if field(market, model.KeyMarketSize) != "" || field(market, model.KeyCompetition) != "" {
		deck.Slides = append(deck.Slides, marketSlide(market))
	}
	return deck
}

func coverSlide(title string, now time.Time) Slide {
	return Slide{
		Kind:  SlideCover,
		Title: Paragraph{Kind: ParagraphText, Text: title, Size: CoverTitleFontSize, Bold: true},
		Subtitle: []Paragraph{
			{Kind: ParagraphText, Text: "Investment Overview", Size: CoverSubFontSize},
			{Kind: ParagraphText, Text: now.Format("January 2006")},
		},
	}
}

func overviewSlide(company model.CompanyInfo, market model.MarketInfo) Slide {
	s := contentSlide("Company Overview")
	s.Body = append(s.Body, heading("Company Overview"))
	s.Body = appendBullet(s.Body, "Headquarters", field(company, model.KeyLocation))
	s.Body = appendBullet(s.Body, "Market Size", field(market, model.KeyMarketSize))
	s.Body = appendBullet(s.Body, "Market Growth", field(market, model.KeyGrowthRate))

	s.Body = append(s.Body, blank(), heading("Business Model"))
	if bm := field(company, model.KeyBusinessModel); bm != "" {
		s.Body = append(s.Body, Paragraph{Kind: ParagraphText, Text: StripMarkup(bm), Size: BodyFontSize})
	}
	return s
}

func financialsSlide(metrics model.FinancialMetrics) Slide {
	s := contentSlide("Key Financials")

	rows := []struct{ label, value string }{
		{"Revenue", metrics.Revenue},
		{"EBITDA", metrics.EBITDA},
		{"Revenue Growth", metrics.RevenueGrowth},
		{"EBITDA Margin", metrics.EBITDAMargin},
	}
	for _, row := range rows {
		s.Body = appendBullet(s.Body, row.label, strings.TrimSpace(row.value))
	}

	if len(s.Body) == 0 {
		s.Body = append(s.Body, Paragraph{
			Kind:   ParagraphBullet,
			Text:   FinancialPlaceholder,
			Size:   BodyFontSize,
			Italic: true,
		})
	}
	return s
}

func rationaleSlide(payload model.PresentationPayload) Slide {
	s := contentSlide("Investment Rationale")

	points := make([]string, 0, maxRationalePoints)
	for _, h := range payload.Analysis.KeyHighlights {
		if h = StripMarkup(h); h != "" {
			points = append(points, h)
		}
	}
	if len(points) == 0 {
		points = fallbackRationale(payload)
	}
	if len(points) > maxRationalePoints {
		points = points[:maxRationalePoints]
	}

	for _, p := range points {
		s.Body = append(s.Body, Paragraph{Kind: ParagraphNumbered, Text: p, Size: BodyFontSize})
	}
	return s
}

// fallbackRationale synthesizes points from the structured facets, in a
// fixed priority order
func fallbackRationale(payload model.PresentationPayload) []string {
	company := payload.Analysis.CompanyInfo
	market := payload.Analysis.MarketInfo

	var points []string
	add := func(prefix, value, suffix string) {
		if value = StripMarkup(value); value != "" {
			points = append(points, prefix+value+suffix)
		}
	}

	add("", field(company, model.KeyBusinessModel), "")
	add("Strong market presence in a ", field(market, model.KeyMarketSize), " industry")
	add("Operating in a high-growth market (", field(market, model.KeyGrowthRate), " growth)")
	add("", field(market, model.KeyCompetition), "")
	add("Demonstrated strong growth with ", payload.FinancialMetrics.RevenueGrowth, " revenue increase")

	return points
}

func marketSlide(market model.MarketInfo) Slide {
	s := contentSlide("Market Position")

	if size := field(market, model.KeyMarketSize); size != "" {
		s.Body = append(s.Body, heading("Market Opportunity"))
		s.Body = appendBullet(s.Body, "Total Addressable Market", size)
		s.Body = appendBullet(s.Body, "Market Growth Rate", field(market, model.KeyGrowthRate))
	}

	if competition := field(market, model.KeyCompetition); competition != "" {
		if len(s.Body) > 0 {
			s.Body = append(s.Body, blank())
		}
		s.Body = append(s.Body, heading("Competitive Position"))
		s.Body = append(s.Body, Paragraph{Kind: ParagraphBullet, Text: StripMarkup(competition), Size: BodyFontSize})
	}
	return s
}

func contentSlide(title string) Slide {
	return Slide{
		Kind:  SlideContent,
		Title: Paragraph{Kind: ParagraphText, Text: title, Size: TitleFontSize, Bold: true},
	}
}

func heading(text string) Paragraph {
	return Paragraph{Kind: ParagraphHeading, Text: text, Size: SubtitleFontSize, Bold: true}
}

func blank() Paragraph {
	return Paragraph{Kind: ParagraphBlank, Size: BodyFontSize}
}

// appendBullet adds "label: value" when value is non-empty
func appendBullet(body []Paragraph, label, value string) []Paragraph {
	if value = StripMarkup(value); value == "" {
		return body
	}
	return append(body, Paragraph{Kind: ParagraphBullet, Text: label + ": " + value, Size: BodyFontSize})
}

func field(m map[string]string, key string) string {
	return strings.TrimSpace(m[key])
}

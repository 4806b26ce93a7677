package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ppiankov/cimbrief/internal/model"
)

// SummaryTitle is the level-1 heading of the executive summary
const SummaryTitle = "Investment Memorandum Executive Summary"

// SummaryHeadings maps each canonical section to its summary heading
var SummaryHeadings = map[string]string{
	model.SectionCompanyOverview:   "Business Overview & Value Proposition",
	model.SectionFinancials:        "Financial Performance Analysis",
	model.SectionMarketOpportunity: "Market Opportunity & Competitive Position",
	model.SectionRisks:             "Investment Considerations & Risk Factors",
}

// Body lines that would parse as level-1 or level-2 headings are escaped
// with one extra backslash on the way out and unescaped on the way in.
var (
	bodyHeading        = regexp.MustCompile(`(?m)^( {0,3})(\\*#{1,2}(?:[ \t]|$))`)
	escapedBodyHeading = regexp.MustCompile(`(?m)^( {0,3})\\(\\*#{1,2}(?:[ \t]|$))`)
)

// FormatSummary renders the executive summary. Sections missing from
// summary are omitted.
func FormatSummary(summary model.SummaryMap) string {
	var b strings.Builder
	b.WriteString("# " + SummaryTitle + "\n\n")

	for _, name := range model.Sections {
		body, ok := summary[name]
		if !ok {
			continue
		}
		b.WriteString("## " + SummaryHeadings[name] + "\n")
		b.WriteString(bodyHeading.ReplaceAllString(body, `${1}\${2}`))
		b.WriteString("\n\n")
	}

	return b.String()
}

// ParseSummary recovers the SummaryMap from a formatted summary. Section
// bodies are taken verbatim from the source between known headings, so
// Markdown inside a summary survives the round trip.
func ParseSummary(source []byte) (model.SummaryMap, error) {
	byHeading := make(map[string]string, len(SummaryHeadings))
	for name, heading := range SummaryHeadings {
		byHeading[heading] = name
	}

	type mark struct {
		section   string
		lineStart int
		bodyStart int
	}

	var marks []mark
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		h := n.(*ast.Heading)
		if h.Level > 2 || h.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		seg := h.Lines().At(0)
		title := strings.TrimSpace(string(seg.Value(source)))
		lineStart := bytes.LastIndexByte(source[:seg.Start], '\n') + 1

		section, known := byHeading[title]
		if h.Level == 1 || !known {
			// A level-1 heading closes the previous section
			if h.Level == 1 {
				marks = append(marks, mark{lineStart: lineStart, bodyStart: -1})
			}
			return ast.WalkSkipChildren, nil
		}

		bodyStart := len(source)
		if i := bytes.IndexByte(source[seg.Stop:], '\n'); i >= 0 {
			bodyStart = seg.Stop + i + 1
		}
		marks = append(marks, mark{section: section, lineStart: lineStart, bodyStart: bodyStart})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "walk summary")
	}

	summary := make(model.SummaryMap)
	for i, m := range marks {
		if m.section == "" {
			continue
		}
		end := len(source)
		if i+1 < len(marks) {
			end = marks[i+1].lineStart
		}
		if end < m.bodyStart {
			end = m.bodyStart
		}
		body := strings.TrimSpace(string(source[m.bodyStart:end]))
		summary[m.section] = escapedBodyHeading.ReplaceAllString(body, "${1}${2}")
	}

	if len(summary) == 0 {
		return nil, eris.New("no summary sections found")
	}
	return summary, nil
}

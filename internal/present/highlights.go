package present

import (
	"regexp"
	"strings"
)

// MaxHighlights caps the investment highlights shown on the deck
const MaxHighlights = 5

var (
	enumPrefix   = regexp.MustCompile(`^[\d.\s]+`)
	bulletPrefix = regexp.MustCompile(`^[-*•)]\s+`)

	// "**1.** text" or "**1. text**"
	boldEnum = regexp.MustCompile(`^(\*\*|__)\s*\d+[.)]\s*(\*\*|__)?\s*`)
)

// NormalizeHighlights turns a free-text model reply into at most
// MaxHighlights entries: one per non-blank line, with any leading
// enumeration ("1.", "2)") or list bullet removed.
func NormalizeHighlights(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	out := make([]string, 0, MaxHighlights)
	for _, line := range strings.Split(raw, "\n") {
		line = stripMarkers(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == MaxHighlights {
			break
		}
	}
	return out
}

func stripMarkers(line string) string {
	for {
		before := line
		if m := boldEnum.FindStringSubmatch(line); m != nil {
			rest := line[len(m[0]):]
			if m[2] == "" {
				rest = m[1] + rest
			}
			line = rest
		}
		line = enumPrefix.ReplaceAllString(line, "")
		line = bulletPrefix.ReplaceAllString(line, "")
		if line == before {
			return strings.TrimSpace(line)
		}
	}
}

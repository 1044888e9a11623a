package extraction

import (
	"strings"
	"unicode"

	"github.com/spigell/ats-scanner/internal/resume"
	"github.com/spigell/ats-scanner/internal/vocabulary"
)

const headingDecorations = "#*•-=_|>~ \t"

// heading describes a line that opens a resume section.
type heading struct {
	section string
	inline  string
}

// matchHeading reports whether line is a section heading. Accepted shapes:
// "EDUCATION", "Work Experience:", "## Skills", "Skills: Go, SQL" (inline content),
// "Education & Training".
func matchHeading(headings []vocabulary.Heading, line string) (heading, bool) {
	trimmed := strings.Trim(line, headingDecorations)
	if trimmed == "" {
		return heading{}, false
	}
	lower := strings.ToLower(trimmed)
	source := trimmed
	if len(lower) != len(trimmed) {
		source = lower
	}

	for _, h := range headings {
		if !strings.HasPrefix(lower, h.Keyword) {
			continue
		}

		rest := source[len(h.Keyword):]
		if rest != "" {
			if r := []rune(rest)[0]; unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
		}

		rest = strings.TrimSpace(rest)
		switch {
		case rest == "" || strings.Trim(rest, headingDecorations+":") == "":
			return heading{section: h.Section}, true
		case strings.HasPrefix(rest, ":"):
			return heading{section: h.Section, inline: strings.TrimSpace(rest[1:])}, true
		case isConnectorTail(rest):
			return heading{section: h.Section}, true
		}
	}

	return heading{}, false
}

// isConnectorTail accepts "& Training" or "and Certifications:" after a heading keyword.
func isConnectorTail(rest string) bool {
	rest = strings.TrimRight(rest, ": ")
	words := strings.Fields(strings.ToLower(rest))
	if len(words) < 2 || len(words) > 3 {
		return false
	}
	if words[0] != "&" && words[0] != "and" && words[0] != "/" {
		return false
	}
	for _, w := range words[1:] {
		for _, r := range w {
			if unicode.IsDigit(r) {
				return false
			}
		}
	}
	return true
}

// sections splits text into per-section chunks. Content under a heading runs to the next
// heading; blank lines separate chunks and the lines of a chunk are joined with a space.
func sections(headings []vocabulary.Heading, text string) map[string][]string {
	out := make(map[string][]string)

	current := ""
	var chunk []string

	flush := func() {
		if current != "" && len(chunk) > 0 {
			out[current] = append(out[current], resume.AsList(strings.Join(chunk, " "))...)
		}
		chunk = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if h, ok := matchHeading(headings, line); ok {
			flush()
			current = h.section
			if h.inline != "" {
				chunk = append(chunk, h.inline)
			}
			continue
		}

		if line == "" {
			flush()
			continue
		}

		if current != "" {
			chunk = append(chunk, strings.TrimLeft(line, "•*- \t"))
		}
	}
	flush()

	return out
}

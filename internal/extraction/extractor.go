// Package extraction reads structured resume fields out of plain document text.
package extraction

import (
	"regexp"
	"strings"

	"github.com/spigell/ats-scanner/internal/resume"
	"github.com/spigell/ats-scanner/internal/vocabulary"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+?\d{1,3}[\s.\-]?)?(?:\(\d{3}\)|\d{3})[\s.\-]?\d{3}[\s.\-]?\d{4}`)
)

// Extractor finds contact details, known skills and the education and experience
// sections of a resume.
type Extractor struct {
	skills   []skillMatcher
	headings []vocabulary.Heading
}

type skillMatcher struct {
	term    string
	pattern *regexp.Regexp
}

// New compiles the vocabulary into an extractor.
func New(vocab *vocabulary.Vocabulary) *Extractor {
	e := &Extractor{}
	if vocab == nil {
		return e
	}

	for _, term := range vocab.Skills {
		e.skills = append(e.skills, skillMatcher{term: term, pattern: termPattern(term)})
	}
	e.headings = vocab.Headings()

	return e
}

// termPattern matches term case-insensitively when it is not glued to other word characters,
// so "Go" does not hit "good" while "C++" and "Node.js" still match.
func termPattern(term string) *regexp.Regexp {
	const word = `\p{L}\p{N}_+#`
	return regexp.MustCompile(`(?i)(?:^|[^` + word + `])` + regexp.QuoteMeta(term) + `(?:$|[^` + word + `])`)
}

// Extract builds a record for filename from text. Fields that cannot be found are left empty
// and reported as warnings. The record's score is zero until the caller scores it.
func (e *Extractor) Extract(filename, text string) (resume.Record, []Warning) {
	sections := sections(e.headings, text)

	fields := resume.Fields{
		Name:       e.Name(text),
		Email:      Email(text),
		Phone:      Phone(text),
		Skills:     e.Skills(text),
		Education:  sections[vocabulary.SectionEducation],
		Experience: sections[vocabulary.SectionExperience],
	}

	record := resume.NewRecord(filename, fields, 0)

	var warnings []Warning
	for _, check := range []struct {
		field string
		empty bool
	}{
		{FieldName, record.Name == ""},
		{FieldEmail, record.Email == ""},
		{FieldPhone, record.Phone == ""},
		{FieldSkills, len(record.Skills) == 0},
		{FieldEducation, len(record.Education) == 0},
		{FieldExperience, len(record.Experience) == 0},
	} {
		if check.empty {
			warnings = append(warnings, Warning{Filename: filename, Field: check.field})
		}
	}

	return record, warnings
}

// Email returns the first email address in text.
func Email(text string) string {
	return emailPattern.FindString(text)
}

// Phone returns the first phone number in text, as written.
func Phone(text string) string {
	return strings.TrimSpace(phonePattern.FindString(text))
}

// Name returns the first non-empty line that holds no email or phone number and is not a
// section heading. Resumes that open with a title line such as "Curriculum Vitae" get that
// line back.
func (e *Extractor) Name(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if emailPattern.MatchString(line) || phonePattern.MatchString(line) {
			continue
		}
		if _, ok := matchHeading(e.headings, line); ok {
			continue
		}
		return line
	}
	return ""
}

// Skills returns every vocabulary term present in text, in vocabulary order.
func (e *Extractor) Skills(text string) []string {
	found := make([]string, 0)
	for _, s := range e.skills {
		if s.pattern.MatchString(text) {
			found = append(found, s.term)
		}
	}
	return found
}

// Package scoring computes the textual similarity between a resume and a job description.
package scoring

import (
	"math"
	"strings"
	"unicode"
)

// Scorer turns two texts into term-frequency vectors and compares them with cosine similarity.
type Scorer struct {
	stopwords map[string]struct{}
}

// Default uses the built-in English stopword list.
var Default = New(englishStopwords)

// New returns a scorer ignoring the given stopwords (case-insensitive).
func New(stopwords []string) *Scorer {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &Scorer{stopwords: set}
}

// Score is Default.Score.
func Score(resumeText, jobText string) int {
	return Default.Score(resumeText, jobText)
}

// Tokenize is Default.Tokenize.
func Tokenize(text string) []string {
	return Default.Tokenize(text)
}

// Score returns the cosine similarity of the two texts scaled to 0..100 and rounded.
// The job description is the reference query; the metric itself is symmetric.
// Either text without terms scores 0.
func (s *Scorer) Score(resumeText, jobText string) int {
	query := termFrequencies(s.Tokenize(jobText))
	doc := termFrequencies(s.Tokenize(resumeText))
	if len(query) == 0 || len(doc) == 0 {
		return 0
	}

	similarity := Cosine(query, doc)
	score := int(math.Round(similarity * 100))

	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// Tokenize lowercases text and splits it on anything that is not a letter or digit.
// Stopwords, single characters and purely numeric tokens are dropped.
func (s *Scorer) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 || isNumeric(f) {
			continue
		}
		if _, stop := s.stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Cosine returns the cosine of the angle between two term-frequency vectors, in [0, 1].
func Cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, wa := range a {
		normA += wa * wa
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Min(1, math.Max(0, cos))
}

func termFrequencies(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

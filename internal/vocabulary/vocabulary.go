// Package vocabulary loads the skill terms and section headings used to read resumes.
package vocabulary

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

const (
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionSkills     = "skills"
)

//go:embed default.yaml
var defaultVocabulary []byte

// Vocabulary is the list of known skills plus the heading keywords of every resume section.
type Vocabulary struct {
	Skills   []string            `mapstructure:"skills" json:"skills"`
	Sections map[string][]string `mapstructure:"sections" json:"sections"`
}

// Default returns the vocabulary shipped with the binary.
func Default() (*Vocabulary, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultVocabulary)); err != nil {
		return nil, fmt.Errorf("reading default vocabulary: %w", err)
	}
	return decode(v)
}

// Load reads a vocabulary file (yaml, json or toml, by extension). An empty path returns
// the default vocabulary. Sections missing from the file are taken from the default.
func Load(path string) (*Vocabulary, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return base, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading vocabulary %q: %w", path, err)
	}

	loaded, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %q: %w", path, err)
	}

	if len(loaded.Skills) == 0 {
		return nil, fmt.Errorf("vocabulary %q: no skills defined", path)
	}

	for name, headings := range base.Sections {
		if _, ok := loaded.Sections[name]; !ok {
			loaded.Sections[name] = headings
		}
	}

	return loaded, nil
}

func decode(v *viper.Viper) (*Vocabulary, error) {
	var raw Vocabulary
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decoding vocabulary: %w", err)
	}

	out := &Vocabulary{
		Skills:   dedupe(raw.Skills, false),
		Sections: make(map[string][]string, len(raw.Sections)),
	}
	for name, headings := range raw.Sections {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		out.Sections[name] = dedupe(headings, true)
	}

	return out, nil
}

// dedupe trims entries and drops blanks and case-insensitive duplicates, keeping the first spelling.
func dedupe(in []string, lower bool) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, item := range in {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if lower {
			item = key
		}
		out = append(out, item)
	}
	return out
}

// Heading pairs a section name with one of its keywords.
type Heading struct {
	Section string
	Keyword string
}

// Headings returns every section keyword, longest first so "work experience" wins over "experience".
func (v *Vocabulary) Headings() []Heading {
	var headings []Heading
	for section, keywords := range v.Sections {
		for _, kw := range keywords {
			headings = append(headings, Heading{Section: section, Keyword: kw})
		}
	}

	sort.Slice(headings, func(i, j int) bool {
		if len(headings[i].Keyword) != len(headings[j].Keyword) {
			return len(headings[i].Keyword) > len(headings[j].Keyword)
		}
		if headings[i].Keyword != headings[j].Keyword {
			return headings[i].Keyword < headings[j].Keyword
		}
		return headings[i].Section < headings[j].Section
	})

	return headings
}

package extraction

import (
	"reflect"
	"testing"

	"github.com/spigell/ats-scanner/internal/vocabulary"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()

	vocab, err := vocabulary.Default()
	if err != nil {
		t.Fatalf("default vocabulary: %v", err)
	}
	return New(vocab)
}

func TestExtractScenario(t *testing.T) {
	e := newTestExtractor(t)
	text := "John Doe\njohn.doe@example.com\n555-123-4567\nSkills: Python, SQL"

	record, warnings := e.Extract("john.pdf", text)

	if record.Filename != "john.pdf" {
		t.Fatalf("unexpected filename: %q", record.Filename)
	}
	if record.Name != "John Doe" {
		t.Fatalf("unexpected name: %q", record.Name)
	}
	if record.Email != "john.doe@example.com" {
		t.Fatalf("unexpected email: %q", record.Email)
	}
	if record.Phone != "555-123-4567" {
		t.Fatalf("unexpected phone: %q", record.Phone)
	}
	if !reflect.DeepEqual(record.Skills, []string{"Python", "SQL"}) {
		t.Fatalf("unexpected skills: %v", record.Skills)
	}

	if got := Fields(warnings); !reflect.DeepEqual(got, []string{FieldEducation, FieldExperience}) {
		t.Fatalf("unexpected warnings: %v", got)
	}
}

func TestExtractEmptyTextDefaults(t *testing.T) {
	e := newTestExtractor(t)

	record, warnings := e.Extract("blank.docx", "")

	if record.Name != "" || record.Email != "" || record.Phone != "" {
		t.Fatalf("expected empty strings, got %+v", record)
	}
	if record.Skills == nil || record.Education == nil || record.Experience == nil {
		t.Fatalf("expected non-nil lists, got %+v", record)
	}
	if record.SimilarityScore != 0 {
		t.Fatalf("expected zero score, got %d", record.SimilarityScore)
	}
	if len(warnings) != 6 {
		t.Fatalf("expected a warning per field, got %v", Fields(warnings))
	}
	for _, w := range warnings {
		if w.Filename != "blank.docx" {
			t.Fatalf("warning without filename: %+v", w)
		}
	}
}

func TestExtractNilVocabulary(t *testing.T) {
	record, _ := New(nil).Extract("x.pdf", "Jane\nSkills: Go")
	if record.Name != "Jane" {
		t.Fatalf("unexpected name: %q", record.Name)
	}
	if len(record.Skills) != 0 {
		t.Fatalf("expected no skills without vocabulary, got %v", record.Skills)
	}
}

func TestExtractSections(t *testing.T) {
	e := newTestExtractor(t)
	text := `JANE ROE
jane@example.org | +1 (555) 987-6543

SUMMARY
Backend engineer who enjoys Go and PostgreSQL.

Work Experience:
Senior Engineer, Acme Corp
2019 - 2023
• Built billing services in Go

Engineer, Globex
2016 - 2019

Education
BSc Computer Science
State University, 2016

Skills: Go, Docker, Kubernetes`

	record, warnings := e.Extract("jane.pdf", text)

	if record.Name != "JANE ROE" {
		t.Fatalf("unexpected name: %q", record.Name)
	}
	if record.Phone != "+1 (555) 987-6543" {
		t.Fatalf("unexpected phone: %q", record.Phone)
	}

	wantExperience := []string{
		"Senior Engineer, Acme Corp 2019 - 2023 Built billing services in Go",
		"Engineer, Globex 2016 - 2019",
	}
	if !reflect.DeepEqual(record.Experience, wantExperience) {
		t.Fatalf("unexpected experience:\n got %q\nwant %q", record.Experience, wantExperience)
	}

	wantEducation := []string{"BSc Computer Science State University, 2016"}
	if !reflect.DeepEqual(record.Education, wantEducation) {
		t.Fatalf("unexpected education: %q", record.Education)
	}

	wantSkills := []string{"Go", "PostgreSQL", "Docker", "Kubernetes"}
	if !reflect.DeepEqual(record.Skills, wantSkills) {
		t.Fatalf("unexpected skills: %v", record.Skills)
	}

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", Fields(warnings))
	}
}

func TestExtractInlineSection(t *testing.T) {
	e := newTestExtractor(t)

	record, _ := e.Extract("a.docx", "Sam\nEducation: MSc Data Science\nExperience: Analyst at Initech")

	if !reflect.DeepEqual(record.Education, []string{"MSc Data Science"}) {
		t.Fatalf("unexpected education: %q", record.Education)
	}
	if !reflect.DeepEqual(record.Experience, []string{"Analyst at Initech"}) {
		t.Fatalf("unexpected experience: %q", record.Experience)
	}
}

func TestSkillsTokenBoundaries(t *testing.T) {
	t.Parallel()

	vocab := &vocabulary.Vocabulary{Skills: []string{"Go", "C++", "Node.js", "SQL", "Java", "CI/CD"}}
	e := New(vocab)

	tests := []struct {
		text string
		want []string
	}{
		{text: "good googling", want: []string{}},
		{text: "golang and GO", want: []string{"Go"}},
		{text: "Modern c++ and node.js", want: []string{"C++", "Node.js"}},
		{text: "PostgreSQL, NoSQL", want: []string{}},
		{text: "sql", want: []string{"SQL"}},
		{text: "JavaScript only", want: []string{}},
		{text: "Built CI/CD pipelines", want: []string{"CI/CD"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			if got := e.Skills(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSkillsVocabularyOrder(t *testing.T) {
	e := New(&vocabulary.Vocabulary{Skills: []string{"SQL", "Python"}})

	got := e.Skills("Python first, then SQL, then python again")
	if !reflect.DeepEqual(got, []string{"SQL", "Python"}) {
		t.Fatalf("expected vocabulary order without duplicates, got %v", got)
	}
}

func TestEmailAndPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text  string
		email string
		phone string
	}{
		{text: "contact: a.b+c@mail.example.co.uk", email: "a.b+c@mail.example.co.uk"},
		{text: "call 555.123.4567 or 555-000-1111", phone: "555.123.4567"},
		{text: "(555) 123 4567", phone: "(555) 123 4567"},
		{text: "+44 555 123 4567", phone: "+44 555 123 4567"},
		{text: "5551234567", phone: "5551234567"},
		{text: "no contact data 2019-2023"},
	}

	for _, tt := range tests {
		if got := Email(tt.text); got != tt.email {
			t.Fatalf("%q: expected email %q, got %q", tt.text, tt.email, got)
		}
		if got := Phone(tt.text); got != tt.phone {
			t.Fatalf("%q: expected phone %q, got %q", tt.text, tt.phone, got)
		}
	}
}

func TestNameSkipsContactAndHeadings(t *testing.T) {
	e := newTestExtractor(t)

	text := "\n  \nEXPERIENCE\njohn@example.com\n555-123-4567\nJohn Smith\n"
	if got := e.Name(text); got != "John Smith" {
		t.Fatalf("unexpected name: %q", got)
	}

	if got := e.Name("Curriculum Vitae\nJohn Smith"); got != "Curriculum Vitae" {
		t.Fatalf("expected first qualifying line to be kept, got %q", got)
	}
}

func TestMatchHeading(t *testing.T) {
	t.Parallel()

	vocab, err := vocabulary.Default()
	if err != nil {
		t.Fatal(err)
	}
	headings := vocab.Headings()

	tests := []struct {
		line    string
		ok      bool
		section string
		inline  string
	}{
		{line: "EDUCATION", ok: true, section: vocabulary.SectionEducation},
		{line: "## Work Experience:", ok: true, section: vocabulary.SectionExperience},
		{line: "Skills: Go, SQL", ok: true, section: vocabulary.SectionSkills, inline: "Go, SQL"},
		{line: "Education & Training", ok: true, section: vocabulary.SectionEducation},
		{line: "Experienced Python developer", ok: false},
		{line: "Experience with Python and SQL", ok: false},
		{line: "John Doe", ok: false},
		{line: "---", ok: false},
	}

	for _, tt := range tests {
		h, ok := matchHeading(headings, tt.line)
		if ok != tt.ok {
			t.Fatalf("%q: expected heading=%v, got %v", tt.line, tt.ok, ok)
		}
		if !ok {
			continue
		}
		if h.section != tt.section || h.inline != tt.inline {
			t.Fatalf("%q: unexpected heading %+v", tt.line, h)
		}
	}
}

package scoring

import (
	"math"
	"reflect"
	"testing"
)

const johnDoe = "John Doe\njohn.doe@example.com\n555-123-4567\nSkills: Python, SQL"

func TestTokenize(t *testing.T) {
	t.Parallel()

	got := Tokenize("Looking for a Python developer, with SQL experience! (2019) C# x")
	want := []string{"looking", "python", "developer", "sql", "experience"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestScoreIdenticalText(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		johnDoe,
		"Go Go Go kubernetes",
		"Senior backend engineer building distributed systems in Go and Rust",
	} {
		if got := Score(text, text); got != 100 {
			t.Fatalf("%q: expected 100, got %d", text, got)
		}
	}
}

func TestScoreDisjointText(t *testing.T) {
	t.Parallel()

	if got := Score("gardening botany horticulture", "python developer sql"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestScoreEmptyTexts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, resume, job string
	}{
		{name: "empty resume", resume: "", job: "python"},
		{name: "empty job", resume: "python", job: ""},
		{name: "stopwords only", resume: "the and of", job: "python"},
		{name: "numbers only", resume: "python", job: "2020 2021 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.resume, tt.job); got != 0 {
				t.Fatalf("expected 0, got %d", got)
			}
		})
	}
}

func TestScoreScenario(t *testing.T) {
	t.Parallel()

	job := "Looking for a Python developer with SQL experience"
	unrelated := "Jane Roe\nPastry chef\nSkills: baking, decorating, chocolate"

	matching := Score(johnDoe, job)
	other := Score(unrelated, job)

	if other != 0 {
		t.Fatalf("expected unrelated resume to score 0, got %d", other)
	}
	// python and sql shared out of 5 job terms; the contact tokens weigh on the resume side
	if matching != 25 {
		t.Fatalf("expected the matching resume to score 25, got %d", matching)
	}
	if matching <= other {
		t.Fatalf("expected matching (%d) > unrelated (%d)", matching, other)
	}
}

func TestScoreSymmetricAndBounded(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{johnDoe, "python sql"},
		{"go kubernetes docker aws", "aws go terraform"},
		{"a b c", "python"},
	}

	for _, p := range pairs {
		ab := Score(p[0], p[1])
		ba := Score(p[1], p[0])
		if ab != ba {
			t.Fatalf("expected symmetric score for %q / %q: %d vs %d", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 100 {
			t.Fatalf("score out of range: %d", ab)
		}
	}
}

func TestCosine(t *testing.T) {
	t.Parallel()

	a := map[string]float64{"go": 1, "sql": 1}
	b := map[string]float64{"go": 1}

	if got := Cosine(a, b); math.Abs(got-1/math.Sqrt2) > 1e-9 {
		t.Fatalf("unexpected cosine: %v", got)
	}
	if got := Cosine(a, map[string]float64{}); got != 0 {
		t.Fatalf("expected 0 for empty vector, got %v", got)
	}
}

func TestCustomStopwords(t *testing.T) {
	t.Parallel()

	s := New([]string{" Python "})
	if got := s.Tokenize("python and go"); !reflect.DeepEqual(got, []string{"and", "go"}) {
		t.Fatalf("unexpected tokens: %v", got)
	}
}

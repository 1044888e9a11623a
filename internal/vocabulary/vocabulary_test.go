package vocabulary

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	v, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(v.Skills) == 0 {
		t.Fatal("expected default skills")
	}
	if v.Skills[0] != "Python" {
		t.Fatalf("expected file order to be kept, first skill is %q", v.Skills[0])
	}

	for _, section := range []string{SectionEducation, SectionExperience, SectionSkills} {
		if len(v.Sections[section]) == 0 {
			t.Fatalf("expected headings for %s", section)
		}
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	loaded, err := Load("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def, _ := Default()
	if !reflect.DeepEqual(loaded, def) {
		t.Fatal("expected default vocabulary for empty path")
	}
}

func TestLoadFileMergesSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skills.yaml")
	content := `skills:
  - Go
  - " SQL "
  - go
  - ""
sections:
  Education:
    - Studies
    - STUDIES
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(v.Skills, []string{"Go", "SQL"}) {
		t.Fatalf("unexpected skills: %v", v.Skills)
	}
	if !reflect.DeepEqual(v.Sections[SectionEducation], []string{"studies"}) {
		t.Fatalf("unexpected education headings: %v", v.Sections[SectionEducation])
	}
	if len(v.Sections[SectionExperience]) == 0 {
		t.Fatal("expected experience headings to fall back to default")
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.json")
	if err := os.WriteFile(path, []byte(`{"skills": ["Rust", "Zig"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(v.Skills, []string{"Rust", "Zig"}) {
		t.Fatalf("unexpected skills: %v", v.Skills)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	noSkills := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(noSkills, []byte("sections: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for name, path := range map[string]string{
		"missing":   filepath.Join(dir, "missing.yaml"),
		"no skills": noSkills,
	} {
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestHeadingsLongestFirst(t *testing.T) {
	v := &Vocabulary{Sections: map[string][]string{
		SectionExperience: {"experience", "work experience"},
		SectionSkills:     {"skills"},
	}}

	got := v.Headings()
	want := []Heading{
		{Section: SectionExperience, Keyword: "work experience"},
		{Section: SectionExperience, Keyword: "experience"},
		{Section: SectionSkills, Keyword: "skills"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: %+v", got)
	}
}

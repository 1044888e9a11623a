package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/spigell/ats-scanner/internal/document/documenttest"
)

func TestTypeFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Type
		wantErr bool
	}{
		{path: "cv.pdf", want: TypePDF},
		{path: "CV.PDF", want: TypePDF},
		{path: "/tmp/resumes/jane.docx", want: TypeDOCX},
		{path: "notes.txt", wantErr: true},
		{path: "resume.doc", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := TypeFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrDocumentRead) {
					t.Fatalf("expected document read error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractDOCX(t *testing.T) {
	dir := t.TempDir()
	path := documenttest.WriteDOCX(t, dir, "jane.docx",
		"Jane Roe",
		"jane@example.com",
		"Skills: Go & SQL",
		"",
		"Experience",
		"Backend engineer at Acme",
	)

	text, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(text, "\n")
	if lines[0] != "Jane Roe" {
		t.Fatalf("expected first line to be the name, got %q", lines[0])
	}
	if !strings.Contains(text, "Skills: Go & SQL") {
		t.Fatalf("expected unescaped entities, got %q", text)
	}
	if !strings.Contains(text, "Experience\nBackend engineer at Acme") {
		t.Fatalf("expected paragraphs on separate lines, got %q", text)
	}
}

func TestExtractPDF(t *testing.T) {
	dir := t.TempDir()
	path := documenttest.WritePDF(t, dir, "john.pdf", "John Doe", "john.doe@example.com")

	text, err := Extract(path, TypePDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "John Doe") {
		t.Fatalf("expected name in text, got %q", text)
	}
}

func TestExtractPDFKeepsWordBoundaries(t *testing.T) {
	dir := t.TempDir()
	path := documenttest.WritePDFRows(t, dir, "john.pdf",
		[]string{"John", "Doe"},
		[]string{"Python", "SQL"},
	)

	text, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "John Doe\nPython SQL" {
		t.Fatalf("expected words to stay separated, got %q", text)
	}
}

func TestJoinRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []pdf.Text
		want  string
	}{
		{
			name:  "glyphs of one word",
			items: []pdf.Text{{S: "G", X: 72, W: 6, FontSize: 12}, {S: "o", X: 78, W: 6, FontSize: 12}},
			want:  "Go",
		},
		{
			name:  "gap between words",
			items: []pdf.Text{{S: "Go", X: 72, W: 12, FontSize: 12}, {S: "SQL", X: 96, W: 18, FontSize: 12}},
			want:  "Go SQL",
		},
		{
			name:  "spans without width",
			items: []pdf.Text{{S: "John", X: 72}, {S: "Doe", X: 110}},
			want:  "John Doe",
		},
		{
			name:  "pieces drawn at the same position",
			items: []pdf.Text{{S: "Kuber", X: 72}, {S: "netes", X: 72}},
			want:  "Kubernetes",
		},
		{
			name:  "existing space is not doubled",
			items: []pdf.Text{{S: "John ", X: 72}, {S: "Doe", X: 110}},
			want:  "John Doe",
		},
		{
			name:  "empty spans from text moves are skipped",
			items: []pdf.Text{{S: "John", X: 72}, {S: "", X: 80}, {S: "Doe", X: 110}},
			want:  "John Doe",
		},
		{
			name:  "empty row",
			items: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := joinRow(tt.items); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractFailures(t *testing.T) {
	dir := t.TempDir()
	corruptPDF := documenttest.WriteFile(t, dir, "broken.pdf", []byte("definitely not a pdf"))
	corruptDOCX := documenttest.WriteFile(t, dir, "broken.docx", []byte("PK not really a zip"))
	unsupported := documenttest.WriteFile(t, dir, "notes.txt", []byte("plain text"))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(dir, "missing.pdf")},
		{name: "corrupt pdf", path: corruptPDF},
		{name: "corrupt docx", path: corruptDOCX},
		{name: "unsupported", path: unsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractFile(tt.path)
			if err == nil {
				t.Fatalf("expected error, got text %q", text)
			}
			if !errors.Is(err, ErrDocumentRead) {
				t.Fatalf("expected ErrDocumentRead, got %v", err)
			}

			var readErr *ReadError
			if !errors.As(err, &readErr) {
				t.Fatalf("expected *ReadError, got %T", err)
			}
			if readErr.Path != tt.path {
				t.Fatalf("expected path %q in error, got %q", tt.path, readErr.Path)
			}
		})
	}
}

func TestExtractMissingFileKeepsCause(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "nope.docx"), TypeDOCX)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestDocxToText(t *testing.T) {
	t.Parallel()

	xml := `<w:body><w:p><w:r><w:t>A &amp; B</w:t></w:r></w:p><w:p><w:r><w:t>one</w:t><w:tab/><w:t>two</w:t><w:br/><w:t>three</w:t></w:r></w:p></w:body>`
	got := normalizeText(docxToText(xml))
	want := "A & B\none two\nthree"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	in := "  John   Doe \r\n\r\n\r\n\r\nSkills:\tGo \n"
	want := "John Doe\n\nSkills: Go"
	if got := normalizeText(in); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

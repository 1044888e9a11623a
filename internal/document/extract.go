// Package document turns resume files on disk into plain text.
package document

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Type is a supported document format.
type Type string

const (
	TypeUnknown Type = ""
	TypePDF     Type = "pdf"
	TypeDOCX    Type = "docx"
)

var (
	errUnsupportedType = errors.New("unsupported file type: only pdf and docx are allowed")

	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:cr/>`)
	docxTab          = regexp.MustCompile(`<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
	inlineSpaces     = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankRuns        = regexp.MustCompile(`\n{3,}`)
)

// TypeFromPath derives the document type from the file extension.
func TypeFromPath(path string) (Type, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return TypePDF, nil
	case ".docx":
		return TypeDOCX, nil
	default:
		return TypeUnknown, &ReadError{Path: path, Err: errUnsupportedType}
	}
}

// ExtractFile reads the document at path, guessing its type from the extension.
func ExtractFile(path string) (string, error) {
	typ, err := TypeFromPath(path)
	if err != nil {
		return "", err
	}
	return Extract(path, typ)
}

// Extract returns the plain text of the document at path. Line breaks are kept where the
// format exposes them: one line per PDF text line, one line per DOCX paragraph.
func Extract(path string, typ Type) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &ReadError{Path: path, Type: typ, Err: err}
	}

	var (
		text string
		err  error
	)

	switch typ {
	case TypePDF:
		text, err = extractPDF(path)
	case TypeDOCX:
		text, err = extractDOCX(path)
	default:
		err = errUnsupportedType
	}
	if err != nil {
		return "", &ReadError{Path: path, Type: typ, Err: err}
	}

	return normalizeText(text), nil
}

func extractPDF(path string) (text string, err error) {
	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("corrupt pdf: %v", r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := pageText(page)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}
		builder.WriteString(content)
		builder.WriteString("\n\n")
	}

	return builder.String(), nil
}

// pageText joins the page text row by row; pages without positioned text fall back to
// the plain content stream.
func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for _, row := range rows {
		builder.WriteString(joinRow(row.Content))
		builder.WriteString("\n")
	}

	if strings.TrimSpace(builder.String()) != "" {
		return builder.String(), nil
	}

	return page.GetPlainText(nil)
}

// wordGap is the horizontal gap, as a share of the font size, that separates two words.
const wordGap = 0.2

// joinRow concatenates the text spans of one row. Each span is a separate text-show
// operation; a space is inserted where a span starts clear of the previous one.
func joinRow(items []pdf.Text) string {
	var builder strings.Builder
	var prev *pdf.Text
	for i := range items {
		item := &items[i]
		if item.S == "" {
			continue
		}
		if prev != nil && needsSpace(*prev, *item) {
			builder.WriteByte(' ')
		}
		builder.WriteString(item.S)
		prev = item
	}
	return builder.String()
}

// needsSpace reports a word break between two spans. Spans read by row carry no width,
// so any gap counts; with a known width the gap has to exceed a share of the font size.
func needsSpace(prev, next pdf.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(next.S, " ") {
		return false
	}

	size := prev.FontSize
	if size <= 0 {
		size = next.FontSize
	}
	if size <= 0 {
		size = 1
	}
	return next.X-(prev.X+prev.W) > size*wordGap
}

func extractDOCX(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return docxToText(doc.Editable().GetContent()), nil
}

// docxToText strips the WordprocessingML markup, keeping paragraphs as lines.
func docxToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaces.ReplaceAllString(line, " "))
	}

	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

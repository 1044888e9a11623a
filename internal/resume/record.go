// Package resume holds the screened resume record and the ordered result table.
package resume

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ListSeparator joins multi-valued fields when a record is rendered as a row.
const ListSeparator = ", "

// Record is the normalized result of screening one resume file.
// Every field is always present: strings default to "" and lists to an empty slice.
type Record struct {
	Filename        string   `json:"filename"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Skills          []string `json:"skills"`
	Education       []string `json:"education"`
	Experience      []string `json:"experience"`
	SimilarityScore int      `json:"similarity_score"`
}

// Fields holds the raw values a record is built from.
type Fields struct {
	Name       string
	Email      string
	Phone      string
	Skills     []string
	Education  []string
	Experience []string
}

// NewRecord builds a record with trimmed strings, non-nil lists and a score clamped to [0, 100].
func NewRecord(filename string, f Fields, score int) Record {
	return Record{
		Filename:        filename,
		Name:            strings.TrimSpace(f.Name),
		Email:           strings.TrimSpace(f.Email),
		Phone:           strings.TrimSpace(f.Phone),
		Skills:          normalizeList(f.Skills),
		Education:       normalizeList(f.Education),
		Experience:      normalizeList(f.Experience),
		SimilarityScore: clampScore(score),
	}
}

// AsList represents a single scalar value as a list: empty input gives an empty list,
// anything else a one-element list.
func AsList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{}
	}
	return []string{value}
}

// WithScore returns a copy of the record carrying the given score.
func (r Record) WithScore(score int) Record {
	out := r
	out.Skills = append([]string{}, r.Skills...)
	out.Education = append([]string{}, r.Education...)
	out.Experience = append([]string{}, r.Experience...)
	out.SimilarityScore = clampScore(score)
	return out
}

// Row renders the record in export column order.
func (r Record) Row() []string {
	return []string{
		r.Filename,
		r.Name,
		r.Email,
		r.Phone,
		strings.Join(r.Skills, ListSeparator),
		strings.TrimSpace(strings.Join(r.Education, ListSeparator)),
		strings.TrimSpace(strings.Join(r.Experience, ListSeparator)),
		fmt.Sprintf("%d", r.SimilarityScore),
	}
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// Table is an ordered collection of records.
type Table struct {
	Items []Record
}

// NewTable copies the given records into a new table.
func NewTable(records []Record) *Table {
	items := make([]Record, len(records))
	copy(items, records)
	return &Table{Items: items}
}

func (t *Table) Len() int {
	return len(t.Items)
}

func (t *Table) Filenames() []string {
	names := make([]string, 0, len(t.Items))
	for _, r := range t.Items {
		names = append(names, r.Filename)
	}
	return names
}

func (t *Table) FindByFilename(filename string) *Record {
	for i := range t.Items {
		if t.Items[i].Filename == filename {
			return &t.Items[i]
		}
	}
	return nil
}

// Keep returns a new table with the records accepted by keep, in their original order.
// The dropped filenames are returned alongside.
func (t *Table) Keep(keep func(Record) bool) (*Table, []string) {
	kept := make([]Record, 0, len(t.Items))
	var dropped []string
	for _, r := range t.Items {
		if keep(r) {
			kept = append(kept, r)
			continue
		}
		dropped = append(dropped, r.Filename)
	}
	return &Table{Items: kept}, dropped
}

// Exclude drops the records whose filename is listed in filenames.
func (t *Table) Exclude(filenames []string) (*Table, []string) {
	set := make(map[string]struct{}, len(filenames))
	for _, name := range filenames {
		set[name] = struct{}{}
	}
	return t.Keep(func(r Record) bool {
		_, found := set[r.Filename]
		return !found
	})
}

// ReportByScore groups filenames by score band ("90-100", "80-89", ...), best band first.
func (t *Table) ReportByScore() []map[string][]string {
	bands := make(map[int][]string)
	for _, r := range t.Items {
		band := r.SimilarityScore / 10 * 10
		if band == 100 {
			band = 90
		}
		bands[band] = append(bands[band], fmt.Sprintf("%s (%d)", r.Filename, r.SimilarityScore))
	}

	keys := make([]int, 0, len(bands))
	for k := range bands {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	report := make([]map[string][]string, 0, len(keys))
	for _, k := range keys {
		upper := k + 9
		if k == 90 {
			upper = 100
		}
		report = append(report, map[string][]string{
			fmt.Sprintf("%d-%d", k, upper): bands[k],
		})
	}
	return report
}

// DumpToTmpFile writes the table as indented JSON to a new temporary file and returns its name.
func (t *Table) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "resumes_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Package export writes screening results as a CSV artifact.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spigell/ats-scanner/internal/resume"
)

// DefaultPath is where results are written when no output path is configured.
var DefaultPath = filepath.Join("output", "matched_results.csv")

// Header is the first row of every artifact.
var Header = []string{
	"Filename",
	"Name",
	"Email",
	"Phone",
	"Skills",
	"Education",
	"Experience",
	"Similarity Score",
}

// Row is one parsed artifact line keyed by header column.
type Row map[string]string

// Score returns the row's similarity score.
func (r Row) Score() (int, error) {
	return strconv.Atoi(r["Similarity Score"])
}

// WriteCSV writes records to path in their given order. The file is written next to its
// destination and renamed into place, so a failed export leaves no partial file.
// Missing parent directories are created.
func WriteCSV(path string, records []resume.Record) error {
	if path == "" {
		path = DefaultPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &Error{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &Error{Path: path, Err: err}
	}

	if err := writeTo(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &Error{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &Error{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &Error{Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return &Error{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return &Error{Path: path, Err: err}
	}

	return nil
}

func writeTo(w io.Writer, records []resume.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("writing %s: %w", r.Filename, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses an artifact written by WriteCSV.
func ReadCSV(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cr := csv.NewReader(file)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: missing header", path)
		}
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	var rows []Row
	for {
		line, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		row := make(Row, len(header))
		for i, column := range header {
			row[column] = line[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

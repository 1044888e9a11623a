package filtering

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-scanner/internal/resume"
)

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes resumes listed in an exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, t *resume.Table) (*resume.Table, Step, error) {
	initial := t.Len()
	if f.path == "" {
		return t, Step{Initial: initial, Dropped: 0, Left: t.Len()}, nil
	}

	names, err := ReadExcludeFile(f.path)
	if err != nil {
		return t, Step{}, fmt.Errorf("getting excluded resumes from file: %w", err)
	}

	kept, removed := t.Keep(func(r resume.Record) bool {
		_, found := names[r.Filename]
		if !found {
			_, found = names[filepath.Base(r.Filename)]
		}
		return !found
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding resumes based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_resumes", removed),
			zap.Int("resumes_left", kept.Len()),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(removed), Left: kept.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

// ReadExcludeFile returns the filenames listed one per line in path. An entry given with
// a directory is also indexed by its base name, since screened records carry base names.
// Blank lines and lines starting with # are ignored.
func ReadExcludeFile(path string) (map[string]struct{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	names := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names[line] = struct{}{}
		names[filepath.Base(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return names, nil
}

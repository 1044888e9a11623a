package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/ats-scanner/internal/resume"
)

const (
	minScoreLimit = 0
	maxScoreLimit = 100
)

// ByMinScore returns the records scoring at least threshold, in their original order.
func ByMinScore(records []resume.Record, threshold int) []resume.Record {
	kept, _ := (&resume.Table{Items: records}).Keep(atLeast(threshold))
	return kept.Items
}

func atLeast(threshold int) func(resume.Record) bool {
	return func(r resume.Record) bool { return r.SimilarityScore >= threshold }
}

// ValidateThreshold rejects thresholds outside the score range.
func ValidateThreshold(threshold int) error {
	if threshold < minScoreLimit || threshold > maxScoreLimit {
		return fmt.Errorf("minimum score %d is out of range [%d, %d]", threshold, minScoreLimit, maxScoreLimit)
	}
	return nil
}

type minScoreFilter struct {
	threshold int
}

// NewMinScore creates a filter that drops resumes scoring below the configured threshold.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(string) {}

func (f *minScoreFilter) IsEnabled() bool { return true }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.threshold = 0
	if cfg != nil {
		f.threshold = cfg.MinScore
	}
	return ValidateThreshold(f.threshold)
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, t *resume.Table) (*resume.Table, Step, error) {
	initial := t.Len()
	kept, dropped := t.Keep(atLeast(f.threshold))

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding resumes below the minimum score",
			zap.Int("min_score", f.threshold),
			zap.Strings("excluded_resumes", dropped),
			zap.Int("resumes_left", kept.Len()),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: kept.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"min_score": strconv.Itoa(f.threshold)},
	}
}

// Package screening runs a batch of resumes through text extraction, field extraction and
// scoring against one job description.
package screening

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/ats-scanner/internal/document"
	"github.com/spigell/ats-scanner/internal/extraction"
	"github.com/spigell/ats-scanner/internal/resume"
	"github.com/spigell/ats-scanner/internal/scoring"
)

// Request is one screening batch.
type Request struct {
	JobDescription string
	Paths          []string
}

// Result holds the scored records in input order, the files that could not be read and the
// fields that could not be extracted.
type Result struct {
	Table    *resume.Table
	Failures []Failure
	Warnings []extraction.Warning
}

// Pipeline screens resumes. The zero value is usable: it extracts nothing beyond contact
// details, scores with the default stopword list, logs nowhere and works sequentially.
type Pipeline struct {
	Extractor *extraction.Extractor
	Scorer    *scoring.Scorer
	Logger    *zap.Logger
	Workers   int
}

type outcome struct {
	record   resume.Record
	failure  *Failure
	warnings []extraction.Warning
}

// Validate checks a request the way the batch is checked before processing.
func Validate(req Request) error {
	if len(req.Paths) == 0 {
		return &ValidationError{Field: "resumes", Message: msgNoResumes}
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return &ValidationError{Field: "job_description", Message: msgNoJob}
	}
	return nil
}

// Run screens every resume in req. Unreadable files are reported in Result.Failures and do not
// stop the batch. Only invalid input or a cancelled context fail the whole run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	extractor := p.Extractor
	if extractor == nil {
		extractor = extraction.New(nil)
	}
	scorer := p.Scorer
	if scorer == nil {
		scorer = scoring.Default
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]outcome, len(req.Paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range req.Paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = screen(logger, extractor, scorer, path, req.JobDescription)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Table: &resume.Table{Items: make([]resume.Record, 0, len(outcomes))}}
	for _, o := range outcomes {
		if o.failure != nil {
			result.Failures = append(result.Failures, *o.failure)
			continue
		}
		result.Table.Items = append(result.Table.Items, o.record)
		result.Warnings = append(result.Warnings, o.warnings...)
	}

	logger.Info("screening finished",
		zap.Int("resumes", len(req.Paths)),
		zap.Int("scored", result.Table.Len()),
		zap.Int("failed", len(result.Failures)),
	)

	return result, nil
}

func screen(logger *zap.Logger, extractor *extraction.Extractor, scorer *scoring.Scorer, path, job string) outcome {
	filename := filepath.Base(path)

	text, err := document.ExtractFile(path)
	if err != nil {
		logger.Warn("skipping unreadable resume",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return outcome{failure: &Failure{Filename: filename, Err: err}}
	}

	record, warnings := extractor.Extract(filename, text)
	record = record.WithScore(scorer.Score(text, job))

	for _, w := range warnings {
		logger.Debug("field not found", zap.String("filename", w.Filename), zap.String("field", w.Field))
	}
	logger.Debug("extracted data",
		zap.String("filename", filename),
		zap.String("name", record.Name),
		zap.String("email", record.Email),
		zap.String("phone", record.Phone),
		zap.Strings("skills", record.Skills),
		zap.Strings("education", record.Education),
		zap.Strings("experience", record.Experience),
	)
	logger.Info("resume scored",
		zap.String("filename", filename),
		zap.Int("similarity_score", record.SimilarityScore),
	)

	return outcome{record: record, warnings: warnings}
}

package ai

import (
	"context"

	"github.com/spigell/ats-scanner/internal/resume"
)

// FitAssessment is a provider's verdict on how well a resume fits a job description.
type FitAssessment struct {
	Fit    bool
	Score  float64
	Reason string
	Raw    string
}

type Matcher interface {
	Evaluate(ctx context.Context, record resume.Record, jobDescription string) (*FitAssessment, error)
}

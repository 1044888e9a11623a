package filtering

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-scanner/internal/ai"
	"github.com/spigell/ats-scanner/internal/resume"
)

type aiFitFilter struct {
	disabled    bool
	reason      string
	config      *AIConfig
	assessments map[string]*ai.FitAssessment
}

// NewAIFit creates the AI-based filtering step.
func NewAIFit() Filter {
	return &aiFitFilter{}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *aiFitFilter) IsEnabled() bool { return !f.disabled }

func (f *aiFitFilter) Validate(cfg *Config) error {
	f.config = nil
	if cfg != nil {
		f.config = cfg.AI
	}
	if !f.IsEnabled() {
		return nil
	}
	if cfg == nil || cfg.AI == nil {
		return fmt.Errorf("ai configuration is required when ai filter is enabled")
	}
	if cfg.AI.Gemini == nil {
		return fmt.Errorf("gemini configuration is required when ai filter is enabled")
	}
	if strings.TrimSpace(cfg.AI.Gemini.Model) == "" {
		return fmt.Errorf("gemini model is required when ai filter is enabled")
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, deps Deps, t *resume.Table) (*resume.Table, Step, error) {
	initial := t.Len()
	if deps.Matcher == nil {
		if deps.Logger != nil {
			deps.Logger.Info("ai matcher is not configured; skipping ai_fit filter")
		}
		return t, Step{Initial: initial, Dropped: 0, Left: t.Len()}, nil
	}
	if strings.TrimSpace(deps.JobDescription) == "" {
		return t, Step{}, fmt.Errorf("job description is required for AI evaluation")
	}

	kept, assessments, err := evaluateWithMatcher(ctx, deps.Logger, deps.Matcher, deps.JobDescription, t)
	if err != nil {
		return t, Step{}, err
	}

	f.assessments = make(map[string]*ai.FitAssessment, len(assessments))
	maps.Copy(f.assessments, assessments)

	left := kept.Len()
	return kept, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *aiFitFilter) Assessments() map[string]*ai.FitAssessment {
	if f.assessments == nil {
		return map[string]*ai.FitAssessment{}
	}
	return f.assessments
}

func (f *aiFitFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["minimum_fit_score"] = fmt.Sprintf("%.2f", f.config.MinimumFitScore)
		if f.config.Gemini != nil {
			details["model"] = f.config.Gemini.Model
			details["max_retries"] = strconv.Itoa(f.config.Gemini.MaxRetries)
			details["max_log_length"] = strconv.Itoa(f.config.Gemini.MaxLogLength)
		}
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// evaluateWithMatcher asks the matcher about every record. Records the provider rejects are
// dropped; records it could not evaluate are kept.
func evaluateWithMatcher(ctx context.Context, logger *zap.Logger, matcher ai.Matcher, job string, t *resume.Table) (*resume.Table, map[string]*ai.FitAssessment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	approved := make([]resume.Record, 0, t.Len())
	assessments := make(map[string]*ai.FitAssessment)

	for _, record := range t.Items {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		assessment, err := matcher.Evaluate(ctx, record, job)
		if err != nil {
			logger.Warn("AI evaluation failed",
				zap.String("filename", record.Filename),
				zap.Error(err),
			)
			approved = append(approved, record)
			continue
		}

		if !assessment.Fit {
			logger.Info("resume rejected by AI provider",
				zap.String("filename", record.Filename),
				zap.Float64("ai_score", assessment.Score),
				zap.String("reason", assessment.Reason),
			)
			continue
		}

		logger.Info("resume approved by AI",
			zap.String("filename", record.Filename),
			zap.Float64("ai_score", assessment.Score),
		)
		approved = append(approved, record)
		assessments[record.Filename] = assessment
	}

	if t.Len() != len(approved) {
		logger.Info("AI filtering completed",
			zap.Int("initial_resumes", t.Len()),
			zap.Int("approved_resumes", len(approved)),
		)
	}

	return &resume.Table{Items: approved}, assessments, nil
}

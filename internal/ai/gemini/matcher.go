package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/ats-scanner/internal/ai"
	"github.com/spigell/ats-scanner/internal/resume"
	"github.com/spigell/ats-scanner/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, systemInstruction, message string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength     = 200
	maxUserInstructionRunes = 500

	systemInstruction = "You are a recruiting assistant screening resumes against a job description. " +
		"Follow the template and answer strictly with the requested JSON schema."
)

// PromptOverrides are optional screening preferences rendered into the prompt.
type PromptOverrides struct {
	ExtraCriteria    string
	DealBreakers     string
	MustHaveSkills   string
	UserInstructions string
}

// Matcher asks Gemini whether a screened resume fits the job description.
type Matcher struct {
	generator contentGenerator
	minScore  float64
	logger    *zap.Logger
	maxLogLen int
	overrides PromptOverrides
}

type verdict struct {
	Fit    bool    `mapstructure:"fit"`
	Score  float64 `mapstructure:"score"`
	Reason string  `mapstructure:"reason"`
}

// NewMatcher wraps generator. Assessments scoring below minScore are marked as not fit.
func NewMatcher(generator contentGenerator, minScore float64, maxLogLength int, logger *zap.Logger) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		generator: generator,
		minScore:  minScore,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (m *Matcher) SetPromptOverrides(overrides PromptOverrides) {
	m.overrides = overrides
}

func (m *Matcher) Evaluate(ctx context.Context, record resume.Record, jobDescription string) (*ai.FitAssessment, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("job description is required")
	}

	resumeJSON, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resume payload: %w", err)
	}

	prompt := m.buildPrompt(string(resumeJSON), strings.TrimSpace(jobDescription))

	m.logger.Debug("gemini generate content request",
		zap.String("filename", record.Filename),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini generate content response",
		zap.String("filename", record.Filename),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if m.minScore > 0 && assessment.Score < m.minScore {
		m.logger.Debug("set fit to false by score threshold",
			zap.String("filename", record.Filename),
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", m.minScore),
		)
		assessment.Fit = false
	}

	assessment.Raw = raw
	return assessment, nil
}

func (m *Matcher) buildPrompt(resumeJSON, job string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume:\n{{RESUME_JSON}}\n\nJob description:\n{{JOB_DESCRIPTION}}\n\nJSON Response:"
	}

	replacer := strings.NewReplacer(
		"{{EXTRA_CRITERIA}}", singleLine(m.overrides.ExtraCriteria),
		"{{DEAL_BREAKERS}}", singleLine(m.overrides.DealBreakers),
		"{{MUST_HAVE_SKILLS}}", keywordList(m.overrides.MustHaveSkills),
		"{{USER_INSTRUCTIONS}}", userInstructions(m.overrides.UserInstructions),
		"{{RESUME_JSON}}", resumeJSON,
		"{{JOB_DESCRIPTION}}", job,
	)
	return replacer.Replace(template)
}

// neutralizeBrackets keeps user text from opening its own prompt sections.
var neutralizeBrackets = strings.NewReplacer("[", "(", "]", ")")

func singleLine(s string) string {
	s = strings.Join(strings.Fields(neutralizeBrackets.Replace(s)), " ")
	if s == "" {
		return "none"
	}
	return s
}

func keywordList(s string) string {
	var keywords []string
	for _, k := range strings.Split(s, ",") {
		if k = singleLine(k); k != "none" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return "none"
	}
	return strings.Join(keywords, ", ")
}

func userInstructions(s string) string {
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > maxUserInstructionRunes {
		s = string(runes[:maxUserInstructionRunes])
	}

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(neutralizeBrackets.Replace(line)), " ")
		if line != "" {
			lines = append(lines, "  - "+line)
		}
	}
	if len(lines) == 0 {
		return "  - none"
	}
	return strings.Join(lines, "\n")
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if fit, ok := data["fit"].(string); ok {
		switch strings.ToLower(strings.TrimSpace(fit)) {
		case "yes":
			data["fit"] = true
		case "no":
			data["fit"] = false
		}
	}

	var v verdict
	if err := mapstructure.WeakDecode(data, &v); err != nil {
		return nil, fmt.Errorf("decode gemini verdict: %w", err)
	}

	score := v.Score
	if math.IsNaN(score) || math.IsInf(score, 0) {
		score = 0
	}

	return &ai.FitAssessment{
		Fit:    v.Fit,
		Score:  score,
		Reason: strings.TrimSpace(v.Reason),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

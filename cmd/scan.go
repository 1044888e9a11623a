package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-scanner/internal/ai"
	"github.com/spigell/ats-scanner/internal/ai/gemini"
	"github.com/spigell/ats-scanner/internal/export"
	"github.com/spigell/ats-scanner/internal/extraction"
	"github.com/spigell/ats-scanner/internal/filtering"
	"github.com/spigell/ats-scanner/internal/logger"
	"github.com/spigell/ats-scanner/internal/resume"
	"github.com/spigell/ats-scanner/internal/scoring"
	"github.com/spigell/ats-scanner/internal/screening"
	"github.com/spigell/ats-scanner/internal/secrets"
	"github.com/spigell/ats-scanner/internal/vocabulary"
)

const (
	PromptYes           = "Export to CSV and exit"
	PromptNo            = "Exit without export"
	PromptShowTable     = "Show results table"
	PromptReportByScore = "Report by score"
	PromptShowFilters   = "Show filters"
	PromptResultsToFile = "Dump results to JSON file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptShowTable, PromptReportByScore, PromptShowFilters, PromptResultsToFile},
}

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <resume files or directories...>",
	Short: "Screen resumes against a job description and export the matches",
	Run: func(cmd *cobra.Command, args []string) {
		scan(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("job", "", "job description text")
	scanCmd.Flags().String("job-file", "", "file with the job description")
	scanCmd.Flags().Int("min-score", 0, "minimum similarity score (0-100) a resume needs to be exported")
	scanCmd.Flags().StringP("output", "o", export.DefaultPath, "csv file to write the matched resumes to")
	scanCmd.Flags().IntP("workers", "w", 1, "number of resumes processed concurrently")
	scanCmd.Flags().String("vocabulary", "", "skills and section headings file (yaml, json or toml). Default is the built-in list.")
	scanCmd.Flags().StringP("exclude-file", "e", "", "file with resume filenames to exclude, one per line. Default is unset.")
	scanCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation, export right away")

	for _, name := range []string{"job", "job-file", "min-score", "output", "workers", "vocabulary", "exclude-file"} {
		viper.BindPFlag(name, scanCmd.Flags().Lookup(name))
	}
}

// scan is the main command for the cli.
func scan(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer base.Sync()

	runID := uuid.NewString()
	logger := logger.WithRunID(base, runID)

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the ats-scanner", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	paths, err := screening.CollectFiles(args)
	if err != nil {
		logger.Fatal("collecting resume files", zap.Error(err))
	}

	job, err := resolveJobDescription(config)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	vocab, err := vocabulary.Load(config.Vocabulary)
	if err != nil {
		logger.Fatal("loading the vocabulary", zap.Error(err), zap.String("path", config.Vocabulary))
	}

	pipeline := &screening.Pipeline{
		Extractor: extraction.New(vocab),
		Scorer:    scoring.Default,
		Logger:    logger,
		Workers:   config.Workers,
	}

	result, err := pipeline.Run(ctx, screening.Request{JobDescription: job, Paths: paths})
	if err != nil {
		var invalid *screening.ValidationError
		if errors.As(err, &invalid) {
			logger.Fatal("invalid input", zap.String("reason", invalid.Message))
		}
		logger.Fatal("screening failed", zap.Error(err))
	}

	if len(result.Warnings) > 0 {
		logger.Info("some fields could not be extracted", zap.Int("warnings", len(result.Warnings)))
	}

	steps, deps := prepareFilters(ctx, config, job, logger)

	filtered, assessments, err := filtering.Run(ctx, filterConfig(config), deps, steps, result.Table)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	logger.Info(fmt.Sprintf("Processed %d resumes successfully", filtered.Len()),
		zap.Int("scanned", len(paths)),
		zap.Int("failed", len(result.Failures)),
		zap.Int("filtered_out", result.Table.Len()-filtered.Len()),
	)

	yes, _ := cmd.Flags().GetBool("yes")

	action := PromptYes
	for {
		var err error
		if !yes {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(cmd.OutOrStdout(), action, logger, config, steps, filtered, assessments); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(out io.Writer, action string, logger *zap.Logger, config *Config, steps []filtering.Filter, table *resume.Table, assessments map[string]*ai.FitAssessment) error {
	switch action {
	case PromptYes:
		if err := export.WriteCSV(outputPath(config), table.Items); err != nil {
			return err
		}
		logger.Info("results exported", zap.String("filename", outputPath(config)), zap.Int("count", table.Len()))
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptShowTable:
		return printTable(out, table, assessments)
	case PromptReportByScore:
		pretty, _ := json.MarshalIndent(table.ReportByScore(), "", "  ")
		logger.Info(string(pretty), zap.Int("resumes count", table.Len()))
		return nil
	case PromptShowFilters:
		pretty, _ := json.MarshalIndent(filtering.Describe(steps), "", "  ")
		logger.Info(string(pretty))
		return nil
	case PromptResultsToFile:
		filename, err := table.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printTable(out io.Writer, table *resume.Table, assessments map[string]*ai.FitAssessment) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := append([]string{}, export.Header...)
	if len(assessments) > 0 {
		header = append(header, "AI Score")
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, r := range table.Items {
		row := r.Row()
		for i, cell := range row {
			row[i] = strings.ReplaceAll(cell, "\t", " ")
		}
		if len(assessments) > 0 {
			aiScore := "-"
			if a, ok := assessments[r.Filename]; ok {
				aiScore = strconv.FormatFloat(a.Score, 'f', 2, 64)
			}
			row = append(row, aiScore)
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return w.Flush()
}

func outputPath(config *Config) string {
	if strings.TrimSpace(config.Output) == "" {
		return export.DefaultPath
	}
	return config.Output
}

// resolveJobDescription prefers the inline text over the job file.
func resolveJobDescription(config *Config) (string, error) {
	if job := strings.TrimSpace(config.Job); job != "" {
		return job, nil
	}

	path := strings.TrimSpace(config.JobFile)
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading job file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func filterConfig(config *Config) *filtering.Config {
	cfg := &filtering.Config{
		MinScore:    config.MinScore,
		ExcludeFile: config.ExcludeFile,
	}

	if config.AI != nil {
		cfg.AI = &filtering.AIConfig{
			Enabled:         config.AI.Enabled,
			Provider:        config.AI.Provider,
			MinimumFitScore: config.AI.MinimumFitScore,
		}
		if config.AI.Gemini != nil {
			cfg.AI.Gemini = &filtering.GeminiConfig{
				Model:        config.AI.Gemini.Model,
				MaxRetries:   config.AI.Gemini.MaxRetries,
				MaxLogLength: config.AI.Gemini.MaxLogLength,
			}
		}
	}

	return cfg
}

func prepareFilters(ctx context.Context, config *Config, job string, logger *zap.Logger) ([]filtering.Filter, filtering.Deps) {
	steps := filtering.Default()
	deps := filtering.Deps{Logger: logger, JobDescription: job}

	if config.AI == nil || !config.AI.Enabled {
		filtering.DisableByName(steps, "ai_fit", "disabled in config")
		return steps, deps
	}

	matcher, err := newAIMatcher(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping AI filter", zap.Error(err))
		filtering.DisableByName(steps, "ai_fit", err.Error())
		return steps, deps
	}

	deps.Matcher = matcher
	return steps, deps
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, baseLogger *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai filter is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	aiLogger := logger.WithCommonFields(baseLogger, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		aiLogger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)))
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcher := gemini.NewMatcher(generator, minScore, cfg.Gemini.MaxLogLength,
		aiLogger.With(zap.Float64("minimum_fit_score", minScore)))

	if p := cfg.Gemini.Prompt; p != nil {
		matcher.SetPromptOverrides(gemini.PromptOverrides{
			ExtraCriteria:    p.ExtraCriteria,
			DealBreakers:     p.DealBreakers,
			MustHaveSkills:   p.MustHaveSkills,
			UserInstructions: p.UserInstructions,
		})
	}

	return matcher, nil
}

// redacted hides the inline api key before the config is logged.
func redacted(config *Config) *Config {
	if config.AI == nil || config.AI.Gemini == nil || config.AI.Gemini.APIKey == "" {
		return config
	}
	copied := *config
	aiCfg := *config.AI
	gem := *config.AI.Gemini
	gem.APIKey = "***"
	aiCfg.Gemini = &gem
	copied.AI = &aiCfg
	return &copied
}

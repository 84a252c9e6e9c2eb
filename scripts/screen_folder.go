package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type screenFolderOptions struct {
	dir         string
	jdPath      string
	hiringType  string
	level       string
	recruiterID string
	noPersist   bool
	debug       bool
}

func main() {
	opts := &screenFolderOptions{}

	cmd := &cobra.Command{
		Use:   "screen-folder",
		Short: "Screen every resume in a folder against a job description and print the results as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "./resumes", "folder holding the resumes")
	cmd.Flags().StringVar(&opts.jdPath, "jd", "", "job description file (txt, pdf or docx)")
	cmd.Flags().StringVar(&opts.hiringType, "hiring-type", "1", "role category: 1-4 or Sales, IT, Non-Sales, Sales-Support")
	cmd.Flags().StringVar(&opts.level, "level", "1", "seniority level: 1, 2, Fresher or Experienced")
	cmd.Flags().StringVar(&opts.recruiterID, "recruiter", "cli", "recruiter the batch is recorded for")
	cmd.Flags().BoolVar(&opts.noPersist, "no-persist", false, "do not record the batch in the database")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	_ = cmd.MarkFlagRequired("jd")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *screenFolderOptions) error {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug || opts.debug)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	role, err := models.ParseRoleCategory(opts.hiringType)
	if err != nil {
		return err
	}
	level, err := models.ParseSeniorityLevel(opts.level)
	if err != nil {
		return err
	}

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.VisionModel, log)
	if err != nil {
		return err
	}

	extractor := services.NewTextExtractor(
		services.NewPDFParserService(),
		services.NewDOCXParserService(),
		geminiService,
		log,
	)

	jobDescription, err := readJobDescription(ctx, extractor, opts.jdPath)
	if err != nil {
		return err
	}

	documents, err := readFolder(opts.dir)
	if err != nil {
		return err
	}
	log.Info("📂 Resumes found", zap.String("dir", opts.dir), zap.Int("count", len(documents)))

	var recorder services.BatchRecorder
	if !opts.noPersist {
		db, err := config.InitDatabase(cfg, log)
		if err != nil {
			return err
		}
		recorder = repositories.NewBatchRepository(db)
	}

	screener := services.NewScreenerService(
		geminiService,
		extractor,
		services.NewPromptBuilder(),
		services.NewStorageService(cfg.Storage.UploadPath, ""),
		nil,
		recorder,
		services.ScreenerOptions{
			Temperature: cfg.Screening.Temperature,
			MaxTokens:   cfg.Screening.MaxTokens,
			Concurrency: cfg.Screening.Concurrency,
		},
		log,
	)

	results, summary, screenErr := screener.Screen(ctx, services.ScreeningRequest{
		RecruiterID:    opts.recruiterID,
		JobDescription: jobDescription,
		Role:           role,
		Level:          level,
		Documents:      documents,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	log.Info("📊 Screening summary",
		zap.Int("total", summary.TotalCount),
		zap.Int("shortlisted", summary.ShortlistedCount),
		zap.Int("rejected", summary.RejectedCount),
	)

	return screenErr
}

// readJobDescription accepts a plain text file or any format the extractor
// understands.
func readJobDescription(ctx context.Context, extractor services.TextExtractor, path string) (string, error) {
	format, mimeType := models.DetectFormat(path)
	if format == models.FormatUnsupported {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading job description: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	extracted := extractor.Extract(ctx, path, format, mimeType)
	if extracted.Failed() {
		return "", fmt.Errorf("reading job description: %s", extracted.Failure)
	}
	return extracted.Text, nil
}

// readFolder loads every regular file in dir in name order. Unsupported files
// are kept so they show up as per-file errors.
func readFolder(dir string) ([]models.ResumeDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading resume folder: %w", err)
	}

	documents := make([]models.ResumeDocument, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		documents = append(documents, models.ResumeDocument{Filename: entry.Name(), Data: data})
	}
	return documents, nil
}

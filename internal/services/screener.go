package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/metrics"
	"alfredoptarigan/resume-screener/internal/models"
)

const (
	unsupportedFormatMessage = "Unsupported file type. Only PDF, DOCX and image files (PNG, JPG, JPEG, GIF, BMP, TIFF, WEBP) are allowed."
	invalidSelectorMessage   = "Invalid hiring or level choice provided"
	judgeFailedMessage       = "LLM evaluation failed"
)

// Judge scores a prompt. GeminiService satisfies it.
type Judge interface {
	GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (*Completion, error)
}

// BatchRecorder receives every finished batch. repositories.BatchRepository
// satisfies it.
type BatchRecorder interface {
	Create(summary *models.BatchSummary) error
}

type ScreeningRequest struct {
	RecruiterID    string
	JobDescription string
	Role           models.RoleCategory
	Level          models.SeniorityLevel
	Documents      []models.ResumeDocument
}

type ScreenerOptions struct {
	Temperature float32
	MaxTokens   int32
	Concurrency int
}

type ScreenerService interface {
	// Screen returns one result per document in input order. The error is
	// non-nil only when the finished batch could not be recorded; results
	// and summary are still returned then.
	Screen(ctx context.Context, req ScreeningRequest) ([]models.FileResult, *models.BatchSummary, error)
}

type screenerService struct {
	judge     Judge
	extractor TextExtractor
	prompts   *PromptBuilder
	storage   StorageService
	archive   BlobStore
	recorder  BatchRecorder
	opts      ScreenerOptions
	logger    *zap.Logger
	now       func() time.Time
}

// NewScreenerService wires the pipeline. archive may be nil to skip keeping
// durable copies of uploads.
func NewScreenerService(
	judge Judge,
	extractor TextExtractor,
	prompts *PromptBuilder,
	storage StorageService,
	archive BlobStore,
	recorder BatchRecorder,
	opts ScreenerOptions,
	log *zap.Logger,
) ScreenerService {
	if opts.Temperature < 0 {
		opts.Temperature = 0.3
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 800
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if prompts == nil {
		prompts = NewPromptBuilder()
	}

	return &screenerService{
		judge:     judge,
		extractor: extractor,
		prompts:   prompts,
		storage:   storage,
		archive:   archive,
		recorder:  recorder,
		opts:      opts,
		logger:    logger.OrNop(log),
		now:       time.Now,
	}
}

type documentOutcome struct {
	result models.FileResult
	entry  models.HistoryEntry
}

func (s *screenerService) Screen(ctx context.Context, req ScreeningRequest) ([]models.FileResult, *models.BatchSummary, error) {
	log := s.logger.With(
		zap.String("recruiter_id", req.RecruiterID),
		zap.String("role_category", string(req.Role)),
		zap.String("seniority_level", string(req.Level)),
	)
	log.Info("🔄 Screening batch started", zap.Int("documents", len(req.Documents)))

	_, tmplErr := s.prompts.Lookup(req.Role, req.Level)
	if tmplErr != nil {
		log.Warn("⚠️ No evaluation template for selector", zap.Error(tmplErr))
	}

	outcomes := runOrdered(ctx, len(req.Documents), s.opts.Concurrency,
		func(ctx context.Context, i int) documentOutcome {
			return s.screenDocument(ctx, req, i, tmplErr)
		},
		func(i int, recovered any) documentOutcome {
			log.Error("❌ Panic while screening document",
				zap.String("filename", req.Documents[i].Filename),
				zap.Any("panic", recovered),
			)
			return s.errorOutcome(req, i, "",
				newScreeningError(ErrCodeDocumentPanic, "Internal error while screening document", fmt.Errorf("%v", recovered)))
		},
	)

	summary := &models.BatchSummary{
		ID:             uuid.New(),
		RecruiterID:    req.RecruiterID,
		RoleCategory:   req.Role,
		SeniorityLevel: req.Level,
		TotalCount:     len(req.Documents),
		History:        make([]models.HistoryEntry, 0, len(outcomes)),
		CreatedAt:      s.now(),
	}
	results := make([]models.FileResult, len(outcomes))

	for i, outcome := range outcomes {
		results[i] = outcome.result

		entry := outcome.entry
		entry.BatchID = summary.ID
		entry.Position = i
		switch entry.Decision {
		case models.DecisionShortlisted:
			summary.ShortlistedCount++
		case models.DecisionRejected:
			summary.RejectedCount++
		}
		summary.History = append(summary.History, entry)
	}

	metrics.BatchesProcessed.Inc()
	log.Info("✅ Screening batch finished",
		zap.String("batch_id", summary.ID.String()),
		zap.Int("total", summary.TotalCount),
		zap.Int("shortlisted", summary.ShortlistedCount),
		zap.Int("rejected", summary.RejectedCount),
	)

	if s.recorder != nil {
		if err := s.recorder.Create(summary); err != nil {
			log.Error("❌ Failed to record batch summary", zap.Error(err))
			return results, summary, fmt.Errorf("failed to record batch summary: %w", err)
		}
	}

	return results, summary, nil
}

func (s *screenerService) screenDocument(
	ctx context.Context,
	req ScreeningRequest,
	i int,
	tmplErr error,
) documentOutcome {
	doc := req.Documents[i]
	log := s.logger.With(zap.String("filename", doc.Filename), zap.Int("position", i))

	format, mimeType := models.DetectFormat(doc.Filename)
	if format == models.FormatUnsupported {
		log.Info("⏭️ Skipping unsupported file")
		return s.errorOutcome(req, i, "", newScreeningError(ErrCodeUnsupportedFormat, unsupportedFormatMessage, nil))
	}

	if tmplErr != nil {
		return s.errorOutcome(req, i, "", newScreeningError(ErrCodeTemplateNotFound, invalidSelectorMessage, tmplErr))
	}

	documentID := s.archiveDocument(ctx, req, doc, format, log)

	path, release, err := s.storage.CreateTemp(doc.Filename, doc.Data)
	defer release()

	var extracted models.ExtractedText
	if err != nil {
		extracted = models.ExtractionFailed("could not stage upload: %v", err)
	} else {
		log.Debug("📄 Extracting text", zap.String("format", string(format)))
		extracted = s.extractor.Extract(ctx, path, format, mimeType)
	}

	prompt, err := s.prompts.BuildScreeningPrompt(req.JobDescription, extracted.Content(), req.Role, req.Level)
	if err != nil {
		return s.errorOutcome(req, i, documentID, newScreeningError(ErrCodeTemplateNotFound, invalidSelectorMessage, err))
	}
	log.Debug("📝 Screening prompt built", zap.Int("prompt_length", len(prompt)))

	completion, err := s.judge.GenerateText(ctx, prompt, s.opts.Temperature, s.opts.MaxTokens)
	if err != nil {
		log.Error("❌ Judge invocation failed", zap.Error(err))
		return s.errorOutcome(req, i, documentID, newScreeningError(ErrCodeJudgeFailed, judgeFailedMessage, err))
	}
	if completion == nil {
		completion = &Completion{}
	}

	analysis := NormalizeJudgeOutput(completion.Text, completion.Usage)
	metrics.ResumesScreened.WithLabelValues(string(req.Role), string(req.Level), string(analysis.Decision)).Inc()
	log.Info("✅ Resume screened",
		zap.Int("match_percent", analysis.MatchPercent),
		zap.String("decision", string(analysis.Decision)),
	)

	percent := analysis.MatchPercent
	result := models.FileResult{
		Filename:     doc.Filename,
		ResultText:   analysis.ResultText,
		MatchPercent: &percent,
		Decision:     analysis.Decision,
		Usage:        analysis.Usage,
		DocumentID:   documentID,
	}

	details := analysis.ResultText
	if extracted.Failed() {
		result.Warning = extracted.Content()
		details = extracted.Content() + "\n" + details
	}

	entry := s.historyEntry(req, doc.Filename, documentID)
	entry.MatchPercent = &percent
	entry.Decision = analysis.Decision
	entry.Details = details

	return documentOutcome{result: result, entry: entry}
}

// archiveDocument keeps a durable copy when an archive is configured. Failure
// is logged and otherwise ignored.
func (s *screenerService) archiveDocument(ctx context.Context, req ScreeningRequest, doc models.ResumeDocument, format models.DocumentFormat, log *zap.Logger) string {
	if s.archive == nil {
		return ""
	}
	id, err := s.archive.Put(ctx, doc.Data, BlobMetadata{
		OriginalName: doc.Filename,
		Format:       format,
		RecruiterID:  req.RecruiterID,
	})
	if err != nil {
		log.Warn("⚠️ Failed to archive upload", zap.Error(err))
		return ""
	}
	return id
}

func (s *screenerService) errorOutcome(req ScreeningRequest, i int, documentID string, screeningErr *ScreeningError) documentOutcome {
	filename := req.Documents[i].Filename
	metrics.ResumesScreened.WithLabelValues(string(req.Role), string(req.Level), string(models.DecisionError)).Inc()

	entry := s.historyEntry(req, filename, documentID)
	entry.Decision = models.DecisionError
	entry.Details = fmt.Sprintf("[%s] %s", screeningErr.Code, screeningErr.Error())

	return documentOutcome{
		result: models.FileResult{
			Filename:   filename,
			Decision:   models.DecisionError,
			DocumentID: documentID,
			Error:      screeningErr.Error(),
		},
		entry: entry,
	}
}

func (s *screenerService) historyEntry(req ScreeningRequest, filename, documentID string) models.HistoryEntry {
	entry := models.HistoryEntry{
		ID:             uuid.New(),
		Filename:       filename,
		RoleCategory:   req.Role,
		SeniorityLevel: req.Level,
		CreatedAt:      s.now(),
	}
	if id, err := uuid.Parse(documentID); err == nil {
		entry.DocumentID = &id
	}
	return entry
}

package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

const (
	recruiterHeader    = "X-Recruiter-ID"
	anonymousRecruiter = "anonymous"
)

type AnalyzeHandler struct {
	screener    services.ScreenerService
	maxFileSize int64
	logger      *zap.Logger
}

func NewAnalyzeHandler(screener services.ScreenerService, maxFileSize int64, log *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		screener:    screener,
		maxFileSize: maxFileSize,
		logger:      logger.OrNop(log),
	}
}

// HandleAnalyze handles POST /analyze-resumes
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	jobDescription := strings.TrimSpace(formValue(form, "job_description"))
	if jobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	role, err := models.ParseRoleCategory(formValue(form, "hiring_type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid hiring or level choice provided",
		})
	}
	level, err := models.ParseSeniorityLevel(formValue(form, "level"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid hiring or level choice provided",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files uploaded. Please upload one or more resumes as 'files'.",
		})
	}

	documents := make([]models.ResumeDocument, 0, len(files))
	for _, fh := range files {
		if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s is too large. Max size: %d bytes", fh.Filename, h.maxFileSize),
			})
		}

		data, err := readFormFile(fh)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read %s: %v", fh.Filename, err),
			})
		}
		documents = append(documents, models.ResumeDocument{Filename: fh.Filename, Data: data})
	}

	req := services.ScreeningRequest{
		RecruiterID:    recruiterID(c, formValue(form, "recruiter_id")),
		JobDescription: jobDescription,
		Role:           role,
		Level:          level,
		Documents:      documents,
	}

	results, summary, err := h.screener.Screen(c.UserContext(), req)
	response := models.AnalyzeResponse{
		Results: results,
		Summary: summaryResponse(summary),
	}
	if err != nil {
		h.logger.Error("❌ Screening batch could not be recorded",
			zap.String("recruiter_id", req.RecruiterID),
			zap.Error(err),
		)
		response.Error = "Failed to record screening batch"
		return c.Status(fiber.StatusInternalServerError).JSON(response)
	}

	return c.JSON(response)
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// recruiterID prefers the header over the form field.
func recruiterID(c *fiber.Ctx, fallback string) string {
	if id := strings.TrimSpace(c.Get(recruiterHeader)); id != "" {
		return id
	}
	if id := strings.TrimSpace(fallback); id != "" {
		return id
	}
	return anonymousRecruiter
}

func summaryResponse(summary *models.BatchSummary) *models.BatchSummaryResponse {
	if summary == nil {
		return nil
	}
	return &models.BatchSummaryResponse{
		ID:          summary.ID.String(),
		Total:       summary.TotalCount,
		Shortlisted: summary.ShortlistedCount,
		Rejected:    summary.RejectedCount,
		Timestamp:   summary.CreatedAt.Format(time.RFC3339),
	}
}

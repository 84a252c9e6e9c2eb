package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type DocumentFinder interface {
	FindForRecruiter(id uuid.UUID, recruiterID string) (*models.Document, error)
}

type DocumentHandler struct {
	docs DocumentFinder
}

func NewDocumentHandler(docs DocumentFinder) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// HandleDownload handles GET /documents/:id and streams the archived resume
// back under its original name.
func (h *DocumentHandler) HandleDownload(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID format",
		})
	}

	doc, err := h.docs.FindForRecruiter(id, recruiterID(c, c.Query("recruiter_id")))
	if errors.Is(err, repositories.ErrDocumentNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load document",
		})
	}

	return c.Download(doc.FilePath, doc.OriginalFileName)
}

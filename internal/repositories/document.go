package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository tracks archived uploads. Lookups are scoped to the
// recruiter who uploaded the file.
type DocumentRepository interface {
	Create(document *models.Document) error
	FindForRecruiter(id uuid.UUID, recruiterID string) (*models.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(document *models.Document) error {
	if err := r.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to archive document %s: %w", document.OriginalFileName, err)
	}
	return nil
}

func (r *documentRepository) FindForRecruiter(id uuid.UUID, recruiterID string) (*models.Document, error) {
	var doc models.Document
	err := r.db.
		Where("id = ? AND recruiter_id = ?", id, recruiterID).
		Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return &doc, nil
}

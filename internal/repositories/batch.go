package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

// BatchRepository stores screening batches. Batches are only ever appended;
// nothing here updates or deletes a stored batch.
type BatchRepository interface {
	Create(summary *models.BatchSummary) error
	// Stats aggregates a recruiter's batches created at or after since.
	// A zero since means all time.
	Stats(recruiterID string, since time.Time) (*models.RecruiterStats, error)
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(summary *models.BatchSummary) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(summary).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create batch summary: %w", err)
	}
	return nil
}

type statsRow struct {
	Uploads     int64
	Resumes     int64
	Shortlisted int64
	Rejected    int64
}

func (r *batchRepository) Stats(recruiterID string, since time.Time) (*models.RecruiterStats, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("recruiter_id = ?", recruiterID)
		if !since.IsZero() {
			db = db.Where("created_at >= ?", since)
		}
		return db
	}

	var row statsRow
	err := r.db.Model(&models.BatchSummary{}).
		Scopes(scope).
		Select("COUNT(*) AS uploads, " +
			"COALESCE(SUM(total_count), 0) AS resumes, " +
			"COALESCE(SUM(shortlisted_count), 0) AS shortlisted, " +
			"COALESCE(SUM(rejected_count), 0) AS rejected").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate batches: %w", err)
	}

	var batches []models.BatchSummary
	err = r.db.Scopes(scope).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at ASC").
		Find(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load batch history: %w", err)
	}

	history := make([]models.HistoryEntry, 0, row.Resumes)
	for _, batch := range batches {
		history = append(history, batch.History...)
	}

	return &models.RecruiterStats{
		RecruiterID: recruiterID,
		Uploads:     row.Uploads,
		Resumes:     row.Resumes,
		Shortlisted: row.Shortlisted,
		Rejected:    row.Rejected,
		History:     history,
	}, nil
}

// StartOfDay returns midnight of t in t's location, the lower bound of the
// same-day stats window.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

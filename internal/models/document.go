package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is the archived copy of an uploaded resume.
type Document struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RecruiterID      string         `gorm:"type:text;index" json:"recruiter_id"`
	Filename         string         `gorm:"type:text" json:"filename"`
	OriginalFileName string         `gorm:"type:text" json:"original_filename"`
	Format           DocumentFormat `gorm:"type:text" json:"format"`
	FilePath         string         `gorm:"type:text" json:"file_path"`
	Size             int64          `json:"size"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (d *Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

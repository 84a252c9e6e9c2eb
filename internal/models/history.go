package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchSummary is the append-only record of one screening call.
type BatchSummary struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RecruiterID      string         `gorm:"type:text;index;not null" json:"recruiter_id"`
	RoleCategory     RoleCategory   `gorm:"type:text" json:"role_category"`
	SeniorityLevel   SeniorityLevel `gorm:"type:text" json:"seniority_level"`
	TotalCount       int            `gorm:"not null" json:"total"`
	ShortlistedCount int            `gorm:"not null" json:"shortlisted"`
	RejectedCount    int            `gorm:"not null" json:"rejected"`
	History          []HistoryEntry `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE" json:"history"`
	CreatedAt        time.Time      `gorm:"index" json:"timestamp"`
}

func (BatchSummary) TableName() string {
	return "batch_summaries"
}

type HistoryEntry struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BatchID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"batch_id"`
	Position       int            `gorm:"not null" json:"position"`
	Filename       string         `gorm:"type:text" json:"filename"`
	RoleCategory   RoleCategory   `gorm:"type:text" json:"role_category"`
	SeniorityLevel SeniorityLevel `gorm:"type:text" json:"seniority_level"`
	MatchPercent   *int           `json:"match_percent"`
	Decision       Decision       `gorm:"type:text;not null" json:"decision"`
	Details        string         `gorm:"type:text" json:"details"`
	DocumentID     *uuid.UUID     `gorm:"type:uuid" json:"document_id,omitempty"`
	CreatedAt      time.Time      `json:"timestamp"`
}

func (HistoryEntry) TableName() string {
	return "history_entries"
}

// RecruiterStats is the aggregation over a recruiter's batches in a window.
type RecruiterStats struct {
	RecruiterID string         `json:"recruiter_id"`
	Uploads     int64          `json:"uploads"`
	Resumes     int64          `json:"resumes"`
	Shortlisted int64          `json:"shortlisted"`
	Rejected    int64          `json:"rejected"`
	History     []HistoryEntry `json:"history"`
}

func (b *BatchSummary) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (h *HistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

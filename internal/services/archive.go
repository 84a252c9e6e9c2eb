package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type BlobMetadata struct {
	OriginalName string
	Format       models.DocumentFormat
	RecruiterID  string
}

// BlobStore keeps a durable copy of an upload and returns its id.
type BlobStore interface {
	Put(ctx context.Context, data []byte, meta BlobMetadata) (string, error)
}

type documentArchive struct {
	storage StorageService
	docRepo repositories.DocumentRepository
}

func NewDocumentArchive(storage StorageService, docRepo repositories.DocumentRepository) BlobStore {
	return &documentArchive{storage: storage, docRepo: docRepo}
}

func (a *documentArchive) Put(ctx context.Context, data []byte, meta BlobMetadata) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filename, filePath, err := a.storage.SaveFile(data, meta.OriginalName, "resume")
	if err != nil {
		return "", err
	}

	doc := models.Document{
		ID:               uuid.New(),
		RecruiterID:      meta.RecruiterID,
		Filename:         filename,
		OriginalFileName: meta.OriginalName,
		Format:           meta.Format,
		FilePath:         filePath,
		Size:             int64(len(data)),
		CreatedAt:        time.Now(),
	}

	if err := a.docRepo.Create(&doc); err != nil {
		// Cleanup stored file if database insert fails
		_ = a.storage.DeleteFile(filename)
		return "", fmt.Errorf("failed to save document record: %w", err)
	}

	return doc.ID.String(), nil
}

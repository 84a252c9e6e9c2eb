package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type fakeDocumentRepository struct {
	created []models.Document
	err     error
}

func (f *fakeDocumentRepository) Create(document *models.Document) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *document)
	return nil
}

func (f *fakeDocumentRepository) FindForRecruiter(id uuid.UUID, recruiterID string) (*models.Document, error) {
	for _, d := range f.created {
		if d.ID == id && d.RecruiterID == recruiterID {
			return &d, nil
		}
	}
	return nil, repositories.ErrDocumentNotFound
}

func TestDocumentArchivePut(t *testing.T) {
	dir := t.TempDir()
	repo := &fakeDocumentRepository{}
	archive := NewDocumentArchive(NewStorageService(dir, ""), repo)

	id, err := archive.Put(context.Background(), []byte("%PDF-1.4"), BlobMetadata{
		OriginalName: "Resume.PDF",
		Format:       models.FormatPDF,
		RecruiterID:  "hr@example.com",
	})
	require.NoError(t, err)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)

	doc, err := repo.FindForRecruiter(parsed, "hr@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Resume.PDF", doc.OriginalFileName)
	assert.Equal(t, "hr@example.com", doc.RecruiterID)
	assert.Equal(t, int64(8), doc.Size)
	assert.Regexp(t, `^resume_.+\.pdf$`, doc.Filename)

	data, err := os.ReadFile(doc.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestDocumentArchiveRemovesFileWhenRecordFails(t *testing.T) {
	dir := t.TempDir()
	archive := NewDocumentArchive(NewStorageService(dir, ""), &fakeDocumentRepository{err: errors.New("db down")})

	id, err := archive.Put(context.Background(), []byte("x"), BlobMetadata{OriginalName: "a.docx", Format: models.FormatDOCX})

	assert.Empty(t, id)
	assert.ErrorContains(t, err, "db down")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDocumentArchiveCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	archive := NewDocumentArchive(NewStorageService(t.TempDir(), ""), &fakeDocumentRepository{})
	_, err := archive.Put(ctx, []byte("x"), BlobMetadata{OriginalName: "a.pdf"})

	assert.ErrorIs(t, err, context.Canceled)
}

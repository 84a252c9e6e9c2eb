package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type StorageService interface {
	SaveFile(data []byte, originalName, prefix string) (string, string, error)
	// CreateTemp writes data to a scratch file keeping the original extension.
	// The returned release func removes it and is safe to call more than once.
	CreateTemp(originalName string, data []byte) (string, func(), error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
	tempDir    string
}

// NewStorageService stores archived uploads under uploadPath. An empty
// tempDir means os.TempDir().
func NewStorageService(uploadPath, tempDir string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
		tempDir:    tempDir,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *storageService) SaveFile(data []byte, originalName, prefix string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))

	// Generate the unique filename
	uniqueFilename := fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) CreateTemp(originalName string, data []byte) (string, func(), error) {
	ext := strings.ToLower(filepath.Ext(originalName))

	f, err := os.CreateTemp(s.tempDir, "resume-*"+ext)
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	release := func() { _ = os.Remove(path) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		release()
		return "", func() {}, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		release()
		return "", func() {}, fmt.Errorf("failed to close temp file: %w", err)
	}

	return path, release, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

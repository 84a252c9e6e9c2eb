package services

import (
	"context"
	"errors"
	"os"
	"sync"

	"alfredoptarigan/resume-screener/internal/models"
)

type fakeJudge struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (*Completion, error)
}

func (f *fakeJudge) GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (*Completion, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.reply == nil {
		return &Completion{Text: "Match %: 80%\nDecision: ✅ Shortlist"}, nil
	}
	return f.reply(prompt)
}

func (f *fakeJudge) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeTranscriber struct {
	mu           sync.Mutex
	instructions []string
	mimeTypes    []string
	payloads     []string
	reply        func(data []byte, instruction string) (string, error)
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, data []byte, mimeType, instruction string) (string, error) {
	f.mu.Lock()
	f.instructions = append(f.instructions, instruction)
	f.mimeTypes = append(f.mimeTypes, mimeType)
	f.payloads = append(f.payloads, string(data))
	f.mu.Unlock()
	if f.reply == nil {
		return "", errors.New("no reply configured")
	}
	return f.reply(data, instruction)
}

type fakePDFParser struct {
	text     string
	err      error
	pages    []string
	splitErr error
}

func (f *fakePDFParser) ExtractText(filePath string) (string, error) {
	return f.text, f.err
}

func (f *fakePDFParser) SplitPages(filePath string) ([][]byte, error) {
	if f.splitErr != nil {
		return nil, f.splitErr
	}
	pages := make([][]byte, len(f.pages))
	for i, p := range f.pages {
		pages[i] = []byte(p)
	}
	return pages, nil
}

// fakeExtractor returns text keyed by the staged file's content and records
// whether the staged file existed during extraction.
type fakeExtractor struct {
	mu      sync.Mutex
	paths   []string
	formats []models.DocumentFormat
	result  func(content string) models.ExtractedText
}

func (f *fakeExtractor) Extract(ctx context.Context, filePath string, format models.DocumentFormat, mimeType string) models.ExtractedText {
	data, err := os.ReadFile(filePath)
	f.mu.Lock()
	f.paths = append(f.paths, filePath)
	f.formats = append(f.formats, format)
	f.mu.Unlock()
	if err != nil {
		return models.ExtractionFailed("staged file missing: %v", err)
	}
	if f.result != nil {
		return f.result(string(data))
	}
	return models.ExtractedText{Text: string(data)}
}

type fakeRecorder struct {
	summaries []*models.BatchSummary
	err       error
}

func (f *fakeRecorder) Create(summary *models.BatchSummary) error {
	f.summaries = append(f.summaries, summary)
	return f.err
}

type fakeBlobStore struct {
	mu    sync.Mutex
	names []string
	id    string
	err   error
}

func (f *fakeBlobStore) Put(ctx context.Context, data []byte, meta BlobMetadata) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, meta.OriginalName)
	return f.id, f.err
}

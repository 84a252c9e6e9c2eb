package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"alfredoptarigan/resume-screener/internal/models"
)

func TestUsageFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     812,
			CandidatesTokenCount: 143,
			TotalTokenCount:      955,
		},
	}

	assert.Equal(t, &models.TokenUsage{PromptTokens: 812, CompletionTokens: 143, TotalTokens: 955}, usageFromResponse(resp))
	assert.Nil(t, usageFromResponse(&genai.GenerateContentResponse{}))
}

func TestNewGeminiServiceRequiresKey(t *testing.T) {
	svc, err := NewGeminiService(context.Background(), "  ", "", "", nil)

	require.Error(t, err)
	assert.Nil(t, svc)
}

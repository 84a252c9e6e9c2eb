package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/metrics"
	"alfredoptarigan/resume-screener/internal/models"
)

// Completion is the judge's answer. Text may be empty when the model returned
// no content; that is not an error.
type Completion struct {
	Text  string
	Usage *models.TokenUsage
}

type GeminiService interface {
	GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (*Completion, error)
	Transcribe(ctx context.Context, data []byte, mimeType, instruction string) (string, error)
}

type geminiService struct {
	client      *genai.Client
	modelName   string
	visionModel string
	logger      *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, model, visionModel string, log *zap.Logger) (GeminiService, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = "gemini-2.5-flash"
	}
	if visionModel = strings.TrimSpace(visionModel); visionModel == "" {
		visionModel = model
	}

	return &geminiService{
		client:      client,
		modelName:   model,
		visionModel: visionModel,
		logger:      logger.OrNop(log).With(zap.String("ai_provider", "gemini")),
	}, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (*Completion, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}
	// Thinking tokens are billed against MaxOutputTokens on 2.5 flash.
	if strings.Contains(g.modelName, "flash") {
		budget := int32(0)
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	metrics.JudgeDuration.WithLabelValues(g.modelName).Observe(time.Since(start).Seconds())
	if err != nil {
		g.logger.Error("❌ Gemini API error", zap.String("ai_model", g.modelName), zap.Error(err))
		return nil, fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		g.logger.Warn("⚠️ Gemini API returned nil response", zap.String("ai_model", g.modelName))
		return &Completion{}, nil
	}

	completion := &Completion{
		Text:  strings.TrimSpace(resp.Text()),
		Usage: usageFromResponse(resp),
	}

	g.logger.Debug("📊 Gemini response received",
		zap.String("ai_model", g.modelName),
		zap.Int("response_length", len(completion.Text)),
		zap.String("response_preview", logger.Preview(completion.Text, 120)),
	)

	return completion, nil
}

// Transcribe implements GeminiService. It sends the raw bytes inline next to
// the instruction and returns the model's text verbatim (trimmed).
func (g *geminiService) Transcribe(ctx context.Context, data []byte, mimeType, instruction string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("no data to transcribe")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	temperature := float32(0)
	resp, err := g.client.Models.GenerateContent(ctx, g.visionModel, contents, &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		g.logger.Error("❌ Gemini vision error",
			zap.String("ai_model", g.visionModel),
			zap.String("mime_type", mimeType),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to transcribe %s: %w", mimeType, err)
	}
	if resp == nil {
		return "", nil
	}

	return strings.TrimSpace(resp.Text()), nil
}

func usageFromResponse(resp *genai.GenerateContentResponse) *models.TokenUsage {
	if resp.UsageMetadata == nil {
		return nil
	}
	return &models.TokenUsage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
}

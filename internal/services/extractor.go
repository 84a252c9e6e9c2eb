package services

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/metrics"
	"alfredoptarigan/resume-screener/internal/models"
)

const (
	// Structured DOCX output shorter than this falls back to the raw dump.
	minStructuredDOCXLength = 30

	imageTranscriptionInstruction = "Extract all readable text from this resume image. " +
		"Return only the transcribed text, preserving line breaks. Do not summarize or add commentary."

	pdfPageTranscriptionInstruction = "This PDF is one page of a scanned resume. Transcribe all readable text on it. " +
		"Return only the transcribed text, preserving line breaks. Do not summarize or add commentary."

	pdfDocumentTranscriptionInstruction = "This PDF is a scanned resume. Transcribe all readable text on every page, in page order. " +
		"Return only the transcribed text, preserving line breaks. Do not summarize or add commentary."
)

// Transcriber is the vision half of the judge service.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, mimeType, instruction string) (string, error)
}

// TextExtractor never returns an error: failures come back as an
// ExtractedText carrying the diagnostic.
type TextExtractor interface {
	Extract(ctx context.Context, filePath string, format models.DocumentFormat, mimeType string) models.ExtractedText
}

type textExtractor struct {
	pdfParser   PDFParserService
	docxParser  DOCXParserService
	transcriber Transcriber
	logger      *zap.Logger
}

func NewTextExtractor(pdfParser PDFParserService, docxParser DOCXParserService, transcriber Transcriber, log *zap.Logger) TextExtractor {
	return &textExtractor{
		pdfParser:   pdfParser,
		docxParser:  docxParser,
		transcriber: transcriber,
		logger:      logger.OrNop(log),
	}
}

func (e *textExtractor) Extract(ctx context.Context, filePath string, format models.DocumentFormat, mimeType string) models.ExtractedText {
	var out models.ExtractedText
	switch format {
	case models.FormatPDF:
		out = e.extractPDF(ctx, filePath)
	case models.FormatDOCX:
		out = e.extractDOCX(filePath)
	case models.FormatImage:
		out = e.extractImage(ctx, filePath, mimeType)
	default:
		out = models.ExtractionFailed("unsupported format %q", format)
	}

	if out.Failed() {
		metrics.ExtractionFailures.WithLabelValues(string(format)).Inc()
		e.logger.Warn("⚠️ Text extraction failed",
			zap.String("format", string(format)),
			zap.String("reason", out.Failure),
		)
	}
	return out
}

func (e *textExtractor) extractPDF(ctx context.Context, filePath string) models.ExtractedText {
	text, err := e.pdfParser.ExtractText(filePath)
	if err == nil && strings.TrimSpace(text) != "" {
		return models.ExtractedText{Text: text}
	}

	e.logger.Info("📄 PDF has no text layer, falling back to OCR", zap.NamedError("parse_error", err))
	metrics.ExtractionFallbacks.WithLabelValues(string(models.FormatPDF), "ocr").Inc()

	return e.ocrPDF(ctx, filePath)
}

// ocrPDF sends each page to the transcriber as its own single-page PDF and
// concatenates the non-empty transcriptions in page order. A document that
// cannot be split goes over whole in one call.
func (e *textExtractor) ocrPDF(ctx context.Context, filePath string) models.ExtractedText {
	pages, err := e.pdfParser.SplitPages(filePath)
	instruction := pdfPageTranscriptionInstruction
	if err != nil || len(pages) == 0 {
		e.logger.Info("📄 Could not split PDF into pages, transcribing whole document", zap.Error(err))

		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return models.ExtractionFailed("PDF OCR fallback could not read file: %v", readErr)
		}
		pages = [][]byte{data}
		instruction = pdfDocumentTranscriptionInstruction
	}

	var (
		transcribed []string
		lastErr     error
	)
	for i, page := range pages {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		text, err := e.transcriber.Transcribe(ctx, page, "application/pdf", instruction)
		if err != nil {
			lastErr = err
			e.logger.Warn("⚠️ OCR failed for PDF page", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			transcribed = append(transcribed, text)
		}
	}

	if len(transcribed) == 0 {
		if lastErr != nil {
			return models.ExtractionFailed("PDF OCR fallback failed: %v", lastErr)
		}
		return models.ExtractionFailed("PDF OCR fallback found no readable text")
	}

	return models.ExtractedText{Text: strings.Join(transcribed, "\n")}
}

func (e *textExtractor) extractDOCX(filePath string) models.ExtractedText {
	text, err := e.docxParser.ExtractText(filePath)
	if err != nil {
		e.logger.Info("📄 Structured DOCX extraction failed", zap.Error(err))
	}

	if len(strings.TrimSpace(text)) < minStructuredDOCXLength {
		metrics.ExtractionFallbacks.WithLabelValues(string(models.FormatDOCX), "raw_dump").Inc()

		raw, rawErr := e.docxParser.ExtractRawText(filePath)
		if rawErr != nil {
			e.logger.Info("📄 Raw DOCX dump failed", zap.Error(rawErr))
		}
		if len(strings.TrimSpace(raw)) > len(strings.TrimSpace(text)) {
			text = raw
		}
	}

	text = DedupeLines(text)
	if text == "" {
		if err != nil {
			return models.ExtractionFailed("DOCX extraction failed: %v", err)
		}
		return models.ExtractionFailed("DOCX contains no readable text")
	}
	return models.ExtractedText{Text: text}
}

func (e *textExtractor) extractImage(ctx context.Context, filePath, mimeType string) models.ExtractedText {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.ExtractionFailed("could not read image: %v", err)
	}

	text, err := e.transcriber.Transcribe(ctx, data, mimeType, imageTranscriptionInstruction)
	if err != nil {
		return models.ExtractionFailed("image OCR failed: %v", err)
	}
	if text = strings.TrimSpace(text); text == "" {
		return models.ExtractionFailed("image OCR returned no text")
	}
	return models.ExtractedText{Text: text}
}

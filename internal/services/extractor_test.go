package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"alfredoptarigan/resume-screener/internal/models"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestExtractPDFUsesTextLayer(t *testing.T) {
	transcriber := &fakeTranscriber{}
	extractor := NewTextExtractor(&fakePDFParser{text: "Page one\nPage two"}, NewDOCXParserService(), transcriber, zaptest.NewLogger(t))

	out := extractor.Extract(context.Background(), "unused.pdf", models.FormatPDF, "application/pdf")

	assert.False(t, out.Failed())
	assert.Equal(t, "Page one\nPage two", out.Text)
	assert.Empty(t, transcriber.instructions)
}

func TestExtractPDFFallsBackToPerPageOCR(t *testing.T) {
	transcriber := &fakeTranscriber{reply: func(data []byte, instruction string) (string, error) {
		switch string(data) {
		case "page-1":
			return "  Meera Iyer\nMumbai  ", nil
		case "page-2":
			return "", nil
		default:
			return "B.Com 2019", nil
		}
	}}
	parser := &fakePDFParser{err: errNoPDFText, pages: []string{"page-1", "page-2", "page-3"}}
	extractor := NewTextExtractor(parser, NewDOCXParserService(), transcriber, nil)

	out := extractor.Extract(context.Background(), "unused.pdf", models.FormatPDF, "application/pdf")

	require.False(t, out.Failed(), out.Failure)
	assert.Equal(t, "Meera Iyer\nMumbai\nB.Com 2019", out.Text)
	assert.Equal(t, []string{"page-1", "page-2", "page-3"}, transcriber.payloads)
	assert.Equal(t, []string{"application/pdf", "application/pdf", "application/pdf"}, transcriber.mimeTypes)
	for _, instruction := range transcriber.instructions {
		assert.Equal(t, pdfPageTranscriptionInstruction, instruction)
	}
}

func TestExtractPDFOCRSendsWholeDocumentWhenSplitFails(t *testing.T) {
	path := writeTempFile(t, "scan.pdf", []byte("%PDF-1.4 scanned"))
	transcriber := &fakeTranscriber{reply: func([]byte, string) (string, error) { return "Rohit Nair", nil }}
	parser := &fakePDFParser{err: errNoPDFText, splitErr: errors.New("broken xref")}
	extractor := NewTextExtractor(parser, NewDOCXParserService(), transcriber, nil)

	out := extractor.Extract(context.Background(), path, models.FormatPDF, "application/pdf")

	require.False(t, out.Failed(), out.Failure)
	assert.Equal(t, "Rohit Nair", out.Text)
	assert.Equal(t, []string{"%PDF-1.4 scanned"}, transcriber.payloads)
	assert.Equal(t, []string{pdfDocumentTranscriptionInstruction}, transcriber.instructions)
}

func TestExtractPDFOCRFailureIsDiagnostic(t *testing.T) {
	path := writeTempFile(t, "scan.pdf", []byte("%PDF-1.4 scanned"))
	transcriber := &fakeTranscriber{reply: func([]byte, string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	extractor := NewTextExtractor(&fakePDFParser{err: errNoPDFText, splitErr: errors.New("broken xref")}, NewDOCXParserService(), transcriber, nil)

	out := extractor.Extract(context.Background(), path, models.FormatPDF, "application/pdf")

	assert.True(t, out.Failed())
	assert.Contains(t, out.Failure, "quota exceeded")
	assert.Len(t, transcriber.instructions, 1)
}

func TestExtractPDFOCRFindsNothing(t *testing.T) {
	transcriber := &fakeTranscriber{reply: func([]byte, string) (string, error) { return " ", nil }}
	extractor := NewTextExtractor(&fakePDFParser{text: "  ", pages: []string{"a", "b"}}, NewDOCXParserService(), transcriber, nil)

	out := extractor.Extract(context.Background(), "unused.pdf", models.FormatPDF, "application/pdf")

	assert.True(t, out.Failed())
	assert.Equal(t, "PDF OCR fallback found no readable text", out.Failure)
	assert.Len(t, transcriber.payloads, 2)
}

func TestExtractDOCXStructured(t *testing.T) {
	body := para("Arjun Mehta, Bengaluru") + para("Full stack developer with 4 years of Go and React")
	path := writeDOCX(t, map[string]string{"word/document.xml": wordDocument(body)})
	extractor := NewTextExtractor(&fakePDFParser{}, NewDOCXParserService(), &fakeTranscriber{}, nil)

	out := extractor.Extract(context.Background(), path, models.FormatDOCX, "")

	require.False(t, out.Failed())
	assert.Equal(t, "Arjun Mehta, Bengaluru\nFull stack developer with 4 years of Go and React", out.Text)
}

func TestExtractDOCXShortBodyFallsBackToRawDump(t *testing.T) {
	path := writeDOCX(t, map[string]string{
		"word/document.xml": wordDocument(para("CV")),
		"word/header1.xml":  `<w:hdr ` + wordNS + `>` + para("Sneha Kulkarni, Nagpur, MBA Marketing 2021") + `</w:hdr>`,
	})
	extractor := NewTextExtractor(&fakePDFParser{}, NewDOCXParserService(), &fakeTranscriber{}, nil)

	out := extractor.Extract(context.Background(), path, models.FormatDOCX, "")

	require.False(t, out.Failed())
	assert.Equal(t, "CV\nSneha Kulkarni, Nagpur, MBA Marketing 2021", out.Text)
}

func TestExtractDOCXCorrupt(t *testing.T) {
	path := writeTempFile(t, "broken.docx", []byte("garbage"))
	extractor := NewTextExtractor(&fakePDFParser{}, NewDOCXParserService(), &fakeTranscriber{}, nil)

	out := extractor.Extract(context.Background(), path, models.FormatDOCX, "")

	assert.True(t, out.Failed())
	assert.Contains(t, out.Failure, "DOCX extraction failed")
}

func TestExtractImage(t *testing.T) {
	path := writeTempFile(t, "cv.png", []byte{0x89, 'P', 'N', 'G'})

	transcriber := &fakeTranscriber{reply: func([]byte, string) (string, error) { return "\n Kiran Rao \n", nil }}
	extractor := NewTextExtractor(&fakePDFParser{}, NewDOCXParserService(), transcriber, nil)
	out := extractor.Extract(context.Background(), path, models.FormatImage, "image/png")

	require.False(t, out.Failed())
	assert.Equal(t, "Kiran Rao", out.Text)
	assert.Equal(t, []string{"image/png"}, transcriber.mimeTypes)
	assert.Equal(t, imageTranscriptionInstruction, transcriber.instructions[0])

	for _, reply := range []func([]byte, string) (string, error){
		func([]byte, string) (string, error) { return "   ", nil },
		func([]byte, string) (string, error) { return "", fmt.Errorf("model overloaded") },
	} {
		extractor := NewTextExtractor(&fakePDFParser{}, NewDOCXParserService(), &fakeTranscriber{reply: reply}, nil)
		out := extractor.Extract(context.Background(), path, models.FormatImage, "image/png")
		assert.True(t, out.Failed())
	}
}

func TestExtractUnknownFormat(t *testing.T) {
	extractor := NewTextExtractor(&fakePDFParser{}, NewDOCXParserService(), &fakeTranscriber{}, nil)

	out := extractor.Extract(context.Background(), "x.xyz", models.FormatUnsupported, "")

	assert.True(t, out.Failed())
}

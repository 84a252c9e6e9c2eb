package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

type RoleCategory string

const (
	RoleSales        RoleCategory = "Sales"
	RoleIT           RoleCategory = "IT"
	RoleNonSales     RoleCategory = "Non-Sales"
	RoleSalesSupport RoleCategory = "Sales-Support"
)

type SeniorityLevel string

const (
	LevelFresher     SeniorityLevel = "Fresher"
	LevelExperienced SeniorityLevel = "Experienced"
)

type Decision string

const (
	DecisionShortlisted Decision = "Shortlisted"
	DecisionRejected    Decision = "Rejected"
	DecisionError       Decision = "Error"
	DecisionUnknown     Decision = "Unknown"
)

// ParseRoleCategory accepts either the numeric code used by the screening form
// ("1".."4") or the category name, case-insensitively.
func ParseRoleCategory(s string) (RoleCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "sales":
		return RoleSales, nil
	case "2", "it":
		return RoleIT, nil
	case "3", "non-sales", "nonsales", "non_sales":
		return RoleNonSales, nil
	case "4", "sales-support", "salessupport", "sales_support":
		return RoleSalesSupport, nil
	}
	return "", fmt.Errorf("unknown role category %q", s)
}

// ParseSeniorityLevel accepts "1"/"2" or "Fresher"/"Experienced".
func ParseSeniorityLevel(s string) (SeniorityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "fresher":
		return LevelFresher, nil
	case "2", "experienced":
		return LevelExperienced, nil
	}
	return "", fmt.Errorf("unknown seniority level %q", s)
}

type DocumentFormat string

const (
	FormatPDF         DocumentFormat = "pdf"
	FormatDOCX        DocumentFormat = "docx"
	FormatImage       DocumentFormat = "image"
	FormatUnsupported DocumentFormat = ""
)

var imageMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// DetectFormat maps a filename extension (case-insensitive) to a document
// format and the MIME type sent to the vision model.
func DetectFormat(filename string) (DocumentFormat, string) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FormatPDF, "application/pdf"
	case ".docx":
		return FormatDOCX, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	if mime, ok := imageMIMETypes[ext]; ok {
		return FormatImage, mime
	}
	return FormatUnsupported, ""
}

// ResumeDocument is one uploaded file. It lives only for the duration of a
// screening call.
type ResumeDocument struct {
	Filename string
	Data     []byte
}

// ExtractedText holds either the plain text of a document or the reason it
// could not be produced.
type ExtractedText struct {
	Text    string
	Failure string
}

func ExtractionFailed(format string, args ...any) ExtractedText {
	return ExtractedText{Failure: fmt.Sprintf(format, args...)}
}

func (e ExtractedText) Failed() bool {
	return e.Failure != ""
}

// Content is what gets interpolated into the prompt: the text itself, or a
// labeled diagnostic when extraction failed.
func (e ExtractedText) Content() string {
	if e.Failed() {
		return "[Text extraction failed: " + e.Failure + "]"
	}
	return e.Text
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type AnalysisResult struct {
	ResultText   string      `json:"result_text"`
	MatchPercent int         `json:"match_percent"`
	Decision     Decision    `json:"decision"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

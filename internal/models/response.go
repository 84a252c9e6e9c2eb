package models

// FileResult is one entry of the analyze response. Error results carry only
// Filename, Decision and Error.
type FileResult struct {
	Filename     string      `json:"filename"`
	ResultText   string      `json:"result_text,omitempty"`
	MatchPercent *int        `json:"match_percent,omitempty"`
	Decision     Decision    `json:"decision"`
	Usage        *TokenUsage `json:"usage,omitempty"`
	Warning      string      `json:"warning,omitempty"`
	DocumentID   string      `json:"document_id,omitempty"`
	Error        string      `json:"error,omitempty"`
}

type BatchSummaryResponse struct {
	ID          string `json:"id"`
	Total       int    `json:"total"`
	Shortlisted int    `json:"shortlisted"`
	Rejected    int    `json:"rejected"`
	Timestamp   string `json:"timestamp"`
}

type AnalyzeResponse struct {
	Results []FileResult          `json:"results"`
	Summary *BatchSummaryResponse `json:"summary,omitempty"`
	Error   string                `json:"error,omitempty"`
}

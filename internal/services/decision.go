package services

import (
	"regexp"
	"strconv"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	// MatchThreshold is the lowest match percentage that may be shortlisted.
	MatchThreshold = 72

	ShortlistMarker = "✅ Shortlist"
	RejectMarker    = "❌ Reject"

	ThresholdReason  = "Match % below 72% threshold."
	NoResponseReason = "No response from model."

	rejectDecisionLine  = "Decision: " + RejectMarker
	thresholdReasonLine = "Reason (if Rejected): " + ThresholdReason
)

var (
	matchPercentPattern = regexp.MustCompile(`(?i)match\s*%\s*\**\s*:\s*\**\s*(\d+)`)
	decisionLinePattern = regexp.MustCompile(`(?im)^[ \t*#>-]*decision\s*\**\s*:[^\n]*$`)
	reasonLinePattern   = regexp.MustCompile(`(?im)^[ \t*#>-]*reason\s*\(\s*if\s+rejected\s*\)\s*\**\s*:[^\n]*$`)

	noResponseText = "Match %: 0\nCons:\n- " + NoResponseReason + "\n" + rejectDecisionLine + "\nReason (if Rejected): " + NoResponseReason
)

// NormalizeJudgeOutput turns the judge's free text into an AnalysisResult.
// Below MatchThreshold the Decision and Reason lines are rewritten to a
// threshold rejection whatever the judge concluded. Feeding ResultText back
// in yields the same result.
func NormalizeJudgeOutput(raw string, usage *models.TokenUsage) models.AnalysisResult {
	text := strings.TrimSpace(raw)
	if text == "" {
		text = noResponseText
	}

	percent := parseMatchPercent(text)

	if percent < MatchThreshold {
		text = forceLine(text, decisionLinePattern, rejectDecisionLine)
		text = forceLine(text, reasonLinePattern, thresholdReasonLine)
	}

	return models.AnalysisResult{
		ResultText:   text,
		MatchPercent: percent,
		Decision:     parseDecision(text),
		Usage:        usage,
	}
}

func parseMatchPercent(text string) int {
	m := matchPercentPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	percent, err := strconv.Atoi(m[1])
	if err != nil {
		return 100
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// parseDecision reads the first Decision line. The emoji markers decide; the
// bare words are consulted only when neither emoji is present. A line with
// both emojis is an echoed format template and yields Unknown.
func parseDecision(text string) models.Decision {
	line := decisionLinePattern.FindString(text)
	if line == "" {
		return models.DecisionUnknown
	}
	value := strings.ToLower(line[strings.Index(line, ":")+1:])

	if d, ok := markerDecision(strings.Contains(value, "✅"), strings.Contains(value, "❌")); ok {
		return d
	}
	if d, ok := markerDecision(strings.Contains(value, "shortlist"), strings.Contains(value, "reject")); ok {
		return d
	}
	return models.DecisionUnknown
}

// markerDecision reports ok=false when neither marker is present.
func markerDecision(shortlist, reject bool) (models.Decision, bool) {
	switch {
	case shortlist && reject:
		return models.DecisionUnknown, true
	case shortlist:
		return models.DecisionShortlisted, true
	case reject:
		return models.DecisionRejected, true
	}
	return "", false
}

func forceLine(text string, pattern *regexp.Regexp, line string) string {
	if pattern.MatchString(text) {
		return pattern.ReplaceAllLiteralString(text, line)
	}
	return text + "\n" + line
}

package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/resume-screener/internal/models"
)

func TestNormalizeJudgeOutputShortlist(t *testing.T) {
	usage := &models.TokenUsage{PromptTokens: 900, CompletionTokens: 120, TotalTokens: 1020}
	raw := "Match %: 85%\nPros:\n- Local candidate\nCons:\n- None\nDecision: ✅ Shortlist\n"

	got := NormalizeJudgeOutput(raw, usage)

	assert.Equal(t, 85, got.MatchPercent)
	assert.Equal(t, models.DecisionShortlisted, got.Decision)
	assert.Equal(t, strings.TrimSpace(raw), got.ResultText)
	assert.Same(t, usage, got.Usage)
}

func TestNormalizeJudgeOutputThresholdOverride(t *testing.T) {
	raw := "Match %: 60%\nPros:\n- Good skills\nCons:\n- Not local\nDecision: ✅ Shortlist\nReason (if Rejected): \n"

	got := NormalizeJudgeOutput(raw, nil)

	assert.Equal(t, 60, got.MatchPercent)
	assert.Equal(t, models.DecisionRejected, got.Decision)
	assert.Contains(t, got.ResultText, "Decision: ❌ Reject")
	assert.Contains(t, got.ResultText, "Reason (if Rejected): Match % below 72% threshold.")
	assert.NotContains(t, got.ResultText, "✅ Shortlist")
	assert.Nil(t, got.Usage)
}

func TestNormalizeJudgeOutputAppendsMissingLines(t *testing.T) {
	got := NormalizeJudgeOutput("Match %: 40%\nPros:\n- Eager", nil)

	assert.Equal(t, models.DecisionRejected, got.Decision)
	assert.True(t, strings.HasSuffix(got.ResultText,
		"Decision: ❌ Reject\nReason (if Rejected): Match % below 72% threshold."))
}

func TestNormalizeJudgeOutputToleratesFormattingDrift(t *testing.T) {
	raw := "**Match %:** 65%\n**Decision:** ✅ Shortlist\n**reason (If Rejected):** n/a"

	got := NormalizeJudgeOutput(raw, nil)

	assert.Equal(t, 65, got.MatchPercent)
	assert.Equal(t, models.DecisionRejected, got.Decision)
	assert.Contains(t, got.ResultText, "Reason (if Rejected): Match % below 72% threshold.")
	assert.Equal(t, 1, strings.Count(got.ResultText, "Decision:"))
}

func TestNormalizeJudgeOutputEmptyResponse(t *testing.T) {
	for _, raw := range []string{"", "   \n "} {
		got := NormalizeJudgeOutput(raw, nil)

		assert.Equal(t, 0, got.MatchPercent)
		assert.Equal(t, models.DecisionRejected, got.Decision)
		assert.Contains(t, got.ResultText, NoResponseReason)
		assert.Contains(t, got.ResultText, ThresholdReason)
	}
}

func TestNormalizeJudgeOutputMalformed(t *testing.T) {
	got := NormalizeJudgeOutput("The candidate looks fine to me.", nil)

	// No match line means 0%, which the threshold turns into a rejection.
	assert.Equal(t, 0, got.MatchPercent)
	assert.Equal(t, models.DecisionRejected, got.Decision)

	got = NormalizeJudgeOutput("Match %: 90%\nPros:\n- Strong", nil)
	assert.Equal(t, 90, got.MatchPercent)
	assert.Equal(t, models.DecisionUnknown, got.Decision)

	got = NormalizeJudgeOutput("Match %: 90%\nDecision: ✅ Shortlist or ❌ Reject", nil)
	assert.Equal(t, models.DecisionUnknown, got.Decision)

	got = NormalizeJudgeOutput("Match %: 95%\nDecision: ❌ Reject\nReason (if Rejected): Not local", nil)
	assert.Equal(t, models.DecisionRejected, got.Decision)
	assert.Contains(t, got.ResultText, "Not local")
}

func TestNormalizeJudgeOutputEmojiMarkerWins(t *testing.T) {
	cases := []struct {
		raw  string
		want models.Decision
	}{
		{"Match %: 80%\nCons:\n- Frequent job changes\nDecision: ❌ Reject (not shortlisted)\nReason (if Rejected): Stability", models.DecisionRejected},
		{"Match %: 85%\nDecision: ✅ Shortlist (no reason to reject)", models.DecisionShortlisted},
		{"Match %: 85%\nDecision: Shortlist", models.DecisionShortlisted},
		{"Match %: 85%\nDecision: Reject", models.DecisionRejected},
		{"Match %: 85%\nDecision: shortlist? reject?", models.DecisionUnknown},
		{"Match %: 85%\nDecision: ✅ or ❌", models.DecisionUnknown},
	}

	for _, tc := range cases {
		got := NormalizeJudgeOutput(tc.raw, nil)
		assert.Equal(t, tc.want, got.Decision, tc.raw)
	}
}

func TestNormalizeJudgeOutputClampsPercent(t *testing.T) {
	got := NormalizeJudgeOutput("Match %: 250%\nDecision: ✅ Shortlist", nil)
	assert.Equal(t, 100, got.MatchPercent)

	got = NormalizeJudgeOutput("Match %: 99999999999999999999999%\nDecision: ✅ Shortlist", nil)
	assert.Equal(t, 100, got.MatchPercent)
}

func TestNormalizeJudgeOutputInvariants(t *testing.T) {
	decisions := []string{"✅ Shortlist", "❌ Reject", "maybe", ""}
	for percent := 0; percent <= 100; percent += 3 {
		for _, decision := range decisions {
			raw := fmt.Sprintf("Match %%: %d%%\nPros:\n- x\nCons:\n- y\nDecision: %s\nReason (if Rejected): something", percent, decision)

			got := NormalizeJudgeOutput(raw, nil)

			assert.GreaterOrEqual(t, got.MatchPercent, 0)
			assert.LessOrEqual(t, got.MatchPercent, 100)
			if got.MatchPercent < MatchThreshold {
				assert.Equal(t, models.DecisionRejected, got.Decision, raw)
				assert.Contains(t, got.ResultText, RejectMarker)
				assert.Contains(t, got.ResultText, ThresholdReason)
			}

			again := NormalizeJudgeOutput(got.ResultText, nil)
			assert.Equal(t, got, again, raw)
		}
	}
}

package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskmesh/riskmesh/core"
)

var (
	_ core.AnalyzerSpec = (*LegalSpec)(nil)
	_ core.AnalyzerSpec = (*BusinessSpec)(nil)
)

const validPayload = `{
	"summary": "one-sided penalty clause",
	"risk_score": 7.5,
	"findings": [
		{"category": "义务平衡", "severity": "high", "description": "义务不对等：违约金仅约束乙方"},
		{"category": "payment", "severity": "medium", "description": "full prepayment", "metric": "100%"}
	],
	"critical_risks": ["one-sided default penalty"],
	"key_findings": ["asymmetric obligations"],
	"recommendations": ["add reciprocal penalty clause"]
}`

func TestParsePayload_Valid(t *testing.T) {
	a, err := parsePayload(validPayload)
	require.NoError(t, err)

	assert.Equal(t, 7.5, a.RiskScore)
	require.Len(t, a.Findings, 2)
	assert.Equal(t, core.SeverityHigh, a.Findings[0].Severity)
	assert.Equal(t, "100%", a.Findings[1].Metric)
	assert.Equal(t, []string{"one-sided default penalty"}, a.CriticalRisks)
}

func TestParsePayload_CodeFence(t *testing.T) {
	fenced := "```json\n" + validPayload + "\n```"

	a, err := parsePayload(fenced)
	require.NoError(t, err)
	assert.Equal(t, 7.5, a.RiskScore)
}

func TestParsePayload_RepairsTrailingComma(t *testing.T) {
	damaged := `{"summary": "s", "risk_score": 4, "findings": [],}`

	a, err := parsePayload(damaged)
	require.NoError(t, err)
	assert.Equal(t, 4.0, a.RiskScore)
}

func TestParsePayload_SeverityAliases(t *testing.T) {
	cases := map[string]core.Severity{
		"high":     core.SeverityHigh,
		"HIGH":     core.SeverityHigh,
		"critical": core.SeverityHigh,
		"高":        core.SeverityHigh,
		"中":        core.SeverityMedium,
		"低":        core.SeverityLow,
	}

	for alias, want := range cases {
		raw := `{"risk_score": 5, "findings": [{"category": "c", "severity": "` + alias + `", "description": "d"}]}`
		a, err := parsePayload(raw)
		require.NoError(t, err, "alias %q", alias)
		assert.Equal(t, want, a.Findings[0].Severity, "alias %q", alias)
	}
}

func TestParsePayload_Rejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", "   "},
		{"prose", "I am sorry, I cannot analyze this document."},
		{"missing score", `{"summary": "s", "findings": []}`},
		{"score too high", `{"risk_score": 12, "findings": []}`},
		{"score negative", `{"risk_score": -1, "findings": []}`},
		{"unknown severity", `{"risk_score": 5, "findings": [{"category": "c", "severity": "fatal", "description": "d"}]}`},
		{"missing description", `{"risk_score": 5, "findings": [{"category": "c", "severity": "high", "description": " "}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parsePayload(tc.raw)
			assert.Error(t, err)
		})
	}
}

func TestPrompts_EmbedSchema(t *testing.T) {
	legal := NewLegalSpec().Prompt("contract text")
	business := NewBusinessSpec().Prompt("contract text")

	for _, prompt := range []string{legal, business} {
		assert.Contains(t, prompt, `"risk_score"`)
		assert.Contains(t, prompt, "contract text")
	}
	assert.Contains(t, legal, "legal compliance analyst")
	assert.Contains(t, business, "commercial risk analyst")
}

func TestRepairPrompt_CarriesPreviousOutput(t *testing.T) {
	p := NewLegalSpec().RepairPrompt("previous broken output")

	assert.Contains(t, p, "previous broken output")
	assert.Contains(t, p, `"risk_score"`)
	assert.Contains(t, p, "ONLY a single JSON object")
}

func TestSpecIdentities(t *testing.T) {
	assert.Equal(t, "legal", NewLegalSpec().Name())
	assert.Equal(t, "legal/v1", NewLegalSpec().SchemaVersion())
	assert.Equal(t, "business", NewBusinessSpec().Name())
	assert.Equal(t, "business/v1", NewBusinessSpec().SchemaVersion())
}

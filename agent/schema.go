package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/riskmesh/riskmesh/core"
)

// wireFinding is the schema shape of one finding as produced by the model.
type wireFinding struct {
	Category       string `json:"category"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation,omitempty"`
	Metric         string `json:"metric,omitempty"`
}

// wirePayload is the JSON schema every analyzer instructs the model to emit.
// RiskScore is a pointer so a missing field is distinguishable from zero.
type wirePayload struct {
	Summary         string        `json:"summary"`
	RiskScore       *float64      `json:"risk_score"`
	Findings        []wireFinding `json:"findings"`
	CriticalRisks   []string      `json:"critical_risks"`
	KeyFindings     []string      `json:"key_findings"`
	Recommendations []string      `json:"recommendations"`
	Detail          string        `json:"detail,omitempty"`
}

// schemaBlock is the schema description embedded in every prompt. Kept as one
// literal so prompt and parser cannot drift apart silently.
const schemaBlock = `{
  "summary": "<one-paragraph assessment>",
  "risk_score": <number 0-10>,
  "findings": [
    {
      "category": "<risk category>",
      "severity": "low" | "medium" | "high",
      "description": "<what is wrong and where>",
      "recommendation": "<optional: how to fix it>",
      "metric": "<optional: quantitative flag, e.g. a rate or ratio>"
    }
  ],
  "critical_risks": ["<short description of each blocking risk>"],
  "key_findings": ["<most important observations>"],
  "recommendations": ["<concrete improvement suggestions>"],
  "detail": "<optional free-form analysis>"
}`

// severityAliases maps model output variants to the canonical severity tags.
// The upstream corpus is partly Chinese, so the CJK grade labels are accepted.
var severityAliases = map[string]core.Severity{
	"low":      core.SeverityLow,
	"medium":   core.SeverityMedium,
	"high":     core.SeverityHigh,
	"critical": core.SeverityHigh,
	"低":        core.SeverityLow,
	"中":        core.SeverityMedium,
	"高":        core.SeverityHigh,
}

// parsePayload validates raw against the shared payload schema. It tolerates
// markdown code fences and minor JSON damage (repaired locally before the
// runtime spends a capability call on its repair pass), but rejects missing
// or out-of-range scores and unknown severity tags.
func parsePayload(raw string) (*core.Analysis, error) {
	text := stripCodeFence(raw)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty output")
	}

	var wire wirePayload
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &wire); err != nil {
			return nil, fmt.Errorf("invalid JSON after repair: %w", err)
		}
	}

	if wire.RiskScore == nil {
		return nil, fmt.Errorf("missing required field risk_score")
	}
	if *wire.RiskScore < 0 || *wire.RiskScore > 10 {
		return nil, fmt.Errorf("risk_score %v outside [0,10]", *wire.RiskScore)
	}

	findings := make([]core.Finding, 0, len(wire.Findings))
	for i, f := range wire.Findings {
		sev, ok := severityAliases[strings.ToLower(strings.TrimSpace(f.Severity))]
		if !ok {
			return nil, fmt.Errorf("finding %d: unknown severity %q", i, f.Severity)
		}
		if strings.TrimSpace(f.Description) == "" {
			return nil, fmt.Errorf("finding %d: missing description", i)
		}
		findings = append(findings, core.Finding{
			Category:       f.Category,
			Severity:       sev,
			Description:    f.Description,
			Recommendation: f.Recommendation,
			Metric:         f.Metric,
		})
	}

	return &core.Analysis{
		Summary:         wire.Summary,
		RiskScore:       *wire.RiskScore,
		Findings:        findings,
		CriticalRisks:   wire.CriticalRisks,
		KeyFindings:     wire.KeyFindings,
		Recommendations: wire.Recommendations,
		Detail:          wire.Detail,
	}, nil
}

// stripCodeFence unwraps ```json ... ``` style fences models like to add.
func stripCodeFence(s string) string {
	text := strings.TrimSpace(s)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		text = text[idx+1:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// repairPrompt builds the amended re-invocation instruction shared by all
// specs: same schema, explicit JSON-only demand, previous output attached.
func repairPrompt(raw string) string {
	var b strings.Builder
	b.WriteString("Your previous response could not be parsed against the required schema.\n")
	b.WriteString("Respond again with ONLY a single JSON object, no prose and no code fences, matching exactly:\n\n")
	b.WriteString(schemaBlock)
	b.WriteString("\n\nPrevious response:\n")
	b.WriteString(raw)
	return b.String()
}

package core

import (
	"encoding/json"
	"time"
)

// Status tags the overall outcome of a report.
type Status string

const (
	// StatusSuccess means every dispatched agent contributed a validated result.
	StatusSuccess Status = "success"
	// StatusPartial means the report was assembled from fewer than all
	// expected agent contributions.
	StatusPartial Status = "partial"
	// StatusError means no report content could be produced.
	StatusError Status = "error"
)

// ExecutiveSummary is the narrative field group of a report. List order is
// agent-of-origin order; entries are deduplicated by exact string equality
// only.
type ExecutiveSummary struct {
	OverallAssessment      string   `json:"overall_assessment"`
	CriticalRisks          []string `json:"critical_risks"`
	KeyFindings            []string `json:"key_findings"`
	Recommendations        []string `json:"recommendations"`
	DecisionRecommendation string   `json:"decision_recommendation,omitempty"`
}

// HighRiskItem is one high-severity finding tagged with its source agent.
type HighRiskItem struct {
	Category    string   `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
}

// RiskDistribution counts findings per severity across all usable results.
type RiskDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// RiskAssessment is the numeric field group of a report. OverallRiskScore is
// always within [0,10].
type RiskAssessment struct {
	OverallRiskScore     float64          `json:"overall_risk_score"`
	RiskDistribution     RiskDistribution `json:"risk_distribution"`
	HighRiskItems        []HighRiskItem   `json:"high_risk_items"`
	MitigationStrategies []string         `json:"mitigation_strategies,omitempty"`
}

// DomainSection is one agent's free-form contribution to the detailed
// analysis. Degraded agents keep their raw text here for audit.
type DomainSection struct {
	Status  string `json:"status"` // "completed", "degraded", "failed"
	Summary string `json:"summary,omitempty"`
	Detail  string `json:"detail,omitempty"`
	RawText string `json:"raw_text,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReportMetadata carries trace fields for debugging; not part of the
// deterministic report content.
type ReportMetadata struct {
	JobID         string    `json:"job_id"`
	GeneratedAt   time.Time `json:"generated_at"`
	TotalFindings int       `json:"total_findings"`
	Sources       []string  `json:"sources"`
}

// Report is the final aggregate produced once per job by the integration
// agent. Immutable after creation.
type Report struct {
	ExecutiveSummary ExecutiveSummary         `json:"executive_summary"`
	RiskAssessment   RiskAssessment           `json:"risk_assessment"`
	DetailedAnalysis map[string]DomainSection `json:"detailed_analysis"`
	Metadata         ReportMetadata           `json:"metadata"`
	Status           Status                   `json:"status"`
	Message          string                   `json:"message,omitempty"`
}

// JSON serializes the report as one JSON document.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// NewErrorReport builds the terminal error report for a job that produced no
// usable content. Message is human-readable, never a stack trace.
func NewErrorReport(jobID, message string) *Report {
	return &Report{
		DetailedAnalysis: map[string]DomainSection{},
		Metadata: ReportMetadata{
			JobID:       jobID,
			GeneratedAt: time.Now().UTC(),
			Sources:     []string{},
		},
		Status:  StatusError,
		Message: message,
	}
}

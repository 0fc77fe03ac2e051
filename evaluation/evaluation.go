// Package evaluation provides post-integration report checks. Evaluators are
// advisory: the coordinator logs the issues they find but never fails a job
// over them.
package evaluation

import (
	"fmt"

	"github.com/riskmesh/riskmesh/core"
)

// Issue is one problem an evaluator found in a report.
type Issue struct {
	Field  string
	Detail string
}

func (i Issue) String() string { return fmt.Sprintf("%s: %s", i.Field, i.Detail) }

// Evaluator inspects a finished report and returns the issues it found. A nil
// or empty slice means the report passed.
type Evaluator interface {
	Name() string
	Evaluate(report *core.Report) []Issue
}

// CompletenessEvaluator verifies the structural integrity of a report: the
// required sections are populated, the score is in range and the status is
// consistent with the per-agent sections.
type CompletenessEvaluator struct{}

// NewCompletenessEvaluator returns the structural report check.
func NewCompletenessEvaluator() *CompletenessEvaluator { return &CompletenessEvaluator{} }

// Name implements Evaluator.
func (e *CompletenessEvaluator) Name() string { return "completeness" }

// Evaluate implements Evaluator.
func (e *CompletenessEvaluator) Evaluate(report *core.Report) []Issue {
	var issues []Issue

	if report == nil {
		return []Issue{{Field: "report", Detail: "report is nil"}}
	}

	if report.ExecutiveSummary.OverallAssessment == "" {
		issues = append(issues, Issue{Field: "executive_summary.overall_assessment", Detail: "empty"})
	}
	if report.ExecutiveSummary.DecisionRecommendation == "" {
		issues = append(issues, Issue{Field: "executive_summary.decision_recommendation", Detail: "empty"})
	}

	score := report.RiskAssessment.OverallRiskScore
	if score < 0 || score > 10 {
		issues = append(issues, Issue{
			Field:  "risk_assessment.overall_risk_score",
			Detail: fmt.Sprintf("%v outside [0,10]", score),
		})
	}

	dist := report.RiskAssessment.RiskDistribution
	if dist.High != len(report.RiskAssessment.HighRiskItems) {
		issues = append(issues, Issue{
			Field:  "risk_assessment.high_risk_items",
			Detail: fmt.Sprintf("%d item(s) but distribution counts %d high finding(s)", len(report.RiskAssessment.HighRiskItems), dist.High),
		})
	}

	if len(report.DetailedAnalysis) == 0 {
		issues = append(issues, Issue{Field: "detailed_analysis", Detail: "no agent sections"})
	}
	if report.Status == core.StatusSuccess {
		for agent, section := range report.DetailedAnalysis {
			if section.Status != "completed" {
				issues = append(issues, Issue{
					Field:  "status",
					Detail: fmt.Sprintf("report marked success but agent %q section is %q", agent, section.Status),
				})
			}
		}
	}

	if report.Metadata.JobID == "" {
		issues = append(issues, Issue{Field: "metadata.job_id", Detail: "empty"})
	}
	if len(report.Metadata.Sources) == 0 {
		issues = append(issues, Issue{Field: "metadata.sources", Detail: "empty"})
	}

	return issues
}

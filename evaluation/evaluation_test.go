package evaluation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/riskmesh/riskmesh/core"
)

var _ Evaluator = (*CompletenessEvaluator)(nil)

func validReport() *core.Report {
	return &core.Report{
		ExecutiveSummary: core.ExecutiveSummary{
			OverallAssessment:      "acceptable overall",
			DecisionRecommendation: "may sign - risk under control",
		},
		RiskAssessment: core.RiskAssessment{
			OverallRiskScore: 3.5,
		},
		DetailedAnalysis: map[string]core.DomainSection{
			"legal":    {Status: "completed", Summary: "ok"},
			"business": {Status: "completed", Summary: "ok"},
		},
		Metadata: core.ReportMetadata{
			JobID:       "job-1",
			GeneratedAt: time.Now().UTC(),
			Sources:     []string{"legal", "business"},
		},
		Status: core.StatusSuccess,
	}
}

func TestCompleteness_ValidReport(t *testing.T) {
	assert.Empty(t, NewCompletenessEvaluator().Evaluate(validReport()))
}

func TestCompleteness_ScoreOutOfRange(t *testing.T) {
	r := validReport()
	r.RiskAssessment.OverallRiskScore = 11

	issues := NewCompletenessEvaluator().Evaluate(r)
	assert.Len(t, issues, 1)
	assert.Equal(t, "risk_assessment.overall_risk_score", issues[0].Field)
}

func TestCompleteness_StatusInconsistent(t *testing.T) {
	r := validReport()
	r.DetailedAnalysis["business"] = core.DomainSection{Status: "failed", Error: "timeout"}

	issues := NewCompletenessEvaluator().Evaluate(r)
	assert.Len(t, issues, 1)
	assert.Contains(t, issues[0].Detail, `agent "business"`)
}

func TestCompleteness_DistributionMismatch(t *testing.T) {
	r := validReport()
	r.RiskAssessment.RiskDistribution.High = 2

	issues := NewCompletenessEvaluator().Evaluate(r)
	assert.Len(t, issues, 1)
	assert.Equal(t, "risk_assessment.high_risk_items", issues[0].Field)
}

func TestCompleteness_NilReport(t *testing.T) {
	issues := NewCompletenessEvaluator().Evaluate(nil)
	assert.Len(t, issues, 1)
}

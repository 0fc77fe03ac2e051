package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskmesh/riskmesh/core"
)

func successResult(agent string, score float64, findings ...core.Finding) core.AgentResult {
	return core.NewSuccessResult(agent, agent+"/v1", &core.Analysis{
		Summary:   "summary from " + agent,
		RiskScore: score,
		Findings:  findings,
	}, 1)
}

func TestIntegrate_AllSuccess(t *testing.T) {
	ig := New()

	results := []core.AgentResult{
		successResult("legal", 8),
		successResult("business", 4),
	}

	report, err := ig.Integrate(context.Background(), "job-1", results)
	require.NoError(t, err)

	assert.Equal(t, core.StatusSuccess, report.Status)
	// 0.6*8 + 0.4*4 = 6.4
	assert.InDelta(t, 6.4, report.RiskAssessment.OverallRiskScore, 0.001)
	assert.Equal(t, "job-1", report.Metadata.JobID)
	assert.Equal(t, []string{"legal", "business"}, report.Metadata.Sources)
}

func TestIntegrate_SurvivorDeterminesScore(t *testing.T) {
	ig := New()

	results := []core.AgentResult{
		successResult("legal", 8),
		core.NewFailedResult("business", core.ErrorKindTransient, "capability unavailable", 3),
	}

	report, err := ig.Integrate(context.Background(), "job-2", results)
	require.NoError(t, err)

	assert.Equal(t, core.StatusPartial, report.Status)
	// Weights renormalize over succeeding agents only.
	assert.InDelta(t, 8.0, report.RiskAssessment.OverallRiskScore, 0.001)
	assert.Equal(t, "failed", report.DetailedAnalysis["business"].Status)
	assert.Contains(t, report.DetailedAnalysis["business"].Error, "capability unavailable")
}

func TestIntegrate_DegradedPreservesRawText(t *testing.T) {
	ig := New()

	results := []core.AgentResult{
		successResult("legal", 5),
		core.NewDegradedResult("business", "not json at all", errors.New("invalid JSON"), 2),
	}

	report, err := ig.Integrate(context.Background(), "job-3", results)
	require.NoError(t, err)

	assert.Equal(t, core.StatusPartial, report.Status)
	section := report.DetailedAnalysis["business"]
	assert.Equal(t, "degraded", section.Status)
	assert.Equal(t, "not json at all", section.RawText)
	// Degraded output carries no score, so legal alone decides.
	assert.InDelta(t, 5.0, report.RiskAssessment.OverallRiskScore, 0.001)
}

func TestIntegrate_NoUsableResults(t *testing.T) {
	ig := New()

	results := []core.AgentResult{
		core.NewFailedResult("legal", core.ErrorKindTimeout, "deadline exceeded", 1),
		core.NewFailedResult("business", core.ErrorKindTimeout, "deadline exceeded", 1),
	}

	report, err := ig.Integrate(context.Background(), "job-4", results)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, core.ErrNoUsableResults)
}

func TestIntegrate_HighRiskItemsTagSource(t *testing.T) {
	ig := New()

	results := []core.AgentResult{
		successResult("legal", 7, core.Finding{
			Category:    "义务平衡",
			Severity:    core.SeverityHigh,
			Description: "义务不对等：违约金条款仅约束乙方",
		}),
		successResult("business", 6, core.Finding{
			Category:    "payment",
			Severity:    core.SeverityMedium,
			Description: "prepayment ratio of 30% with no milestone gate",
		}),
	}

	report, err := ig.Integrate(context.Background(), "job-5", results)
	require.NoError(t, err)

	require.Len(t, report.RiskAssessment.HighRiskItems, 1)
	item := report.RiskAssessment.HighRiskItems[0]
	assert.Equal(t, "legal", item.Source)
	assert.Contains(t, item.Description, "义务不对等")
	assert.Equal(t, core.RiskDistribution{High: 1, Medium: 1, Low: 0}, report.RiskAssessment.RiskDistribution)
	assert.NotEmpty(t, report.RiskAssessment.MitigationStrategies)
}

func TestIntegrate_ListUnionDedupesExactStrings(t *testing.T) {
	ig := New()

	legal := successResult("legal", 5)
	legal.Analysis.KeyFindings = []string{"shared finding", "legal only"}
	business := successResult("business", 5)
	business.Analysis.KeyFindings = []string{"shared finding", "business only"}

	report, err := ig.Integrate(context.Background(), "job-6", []core.AgentResult{legal, business})
	require.NoError(t, err)

	assert.Equal(t, []string{"shared finding", "legal only", "business only"}, report.ExecutiveSummary.KeyFindings)
}

func TestIntegrate_Deterministic(t *testing.T) {
	ig := New()

	results := []core.AgentResult{
		successResult("legal", 9, core.Finding{Category: "compliance", Severity: core.SeverityHigh, Description: "missing governing law clause"}),
		successResult("business", 3),
	}

	first, err := ig.Integrate(context.Background(), "job-7", results)
	require.NoError(t, err)
	second, err := ig.Integrate(context.Background(), "job-7", results)
	require.NoError(t, err)

	assert.Equal(t, first.ExecutiveSummary, second.ExecutiveSummary)
	assert.Equal(t, first.RiskAssessment, second.RiskAssessment)
	assert.Equal(t, first.DetailedAnalysis, second.DetailedAnalysis)
	assert.Equal(t, first.Status, second.Status)
}

func TestIntegrate_DecisionThresholds(t *testing.T) {
	ig := New()

	cases := []struct {
		score float64
		want  string
	}{
		{9, "do not sign"},
		{6.5, "sign with caution"},
		{4.5, "clarify flagged clauses"},
		{2, "risk under control"},
	}

	for _, tc := range cases {
		report, err := ig.Integrate(context.Background(), "job-8", []core.AgentResult{
			successResult("legal", tc.score),
			successResult("business", tc.score),
		})
		require.NoError(t, err)
		assert.Contains(t, report.ExecutiveSummary.DecisionRecommendation, tc.want, "score %v", tc.score)
	}
}

func TestIntegrate_CustomWeights(t *testing.T) {
	ig := New(func(o *Options) {
		o.Weights = map[string]float64{"legal": 1, "business": 0}
	})

	report, err := ig.Integrate(context.Background(), "job-9", []core.AgentResult{
		successResult("legal", 2),
		successResult("business", 10),
	})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, report.RiskAssessment.OverallRiskScore, 0.001)
}

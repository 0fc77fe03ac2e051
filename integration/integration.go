// Package integration merges the heterogeneous partial results of a review
// job into one Report. The merge is deterministic and order-insensitive by
// construction: it consumes the result set keyed by agent, applies a fixed
// per-agent weight table to the risk score, unions the narrative lists in
// agent-of-origin order and templates the executive summary without a model
// call, so the numeric and structural fields are reproducible and testable.
package integration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskmesh/riskmesh/core"
	"github.com/riskmesh/riskmesh/internal/util"
	"github.com/riskmesh/riskmesh/logging"
)

// DefaultWeights is the fixed per-agent weight table used for risk score
// aggregation. Weights are renormalized over the agents that actually
// produced a Success result, so a surviving agent fully determines the score
// when its sibling fails.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"legal":    0.6,
		"business": 0.4,
	}
}

// defaultWeight applies to agents missing from the weight table.
const defaultWeight = 0.5

const maxFindingLength = 100

// Options configure the integrator.
type Options struct {
	// Weights is the per-agent weight table; nil selects DefaultWeights.
	Weights map[string]float64
	// Narrator optionally rewrites the overall assessment narrative via a
	// capability call. The numeric and structural report fields stay
	// deterministic regardless; any narrator failure falls back to the
	// template.
	Narrator core.Capability
	// Logger for integration diagnostics.
	Logger logging.Logger
}

// Integrator produces the final Report for a job from its AgentResult set.
type Integrator struct {
	weights  map[string]float64
	narrator core.Capability
	logger   logging.Logger
}

// New constructs an Integrator with optional overrides.
func New(optFns ...func(o *Options)) *Integrator {
	opts := Options{
		Weights: DefaultWeights(),
		Logger:  logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Weights == nil {
		opts.Weights = DefaultWeights()
	}

	return &Integrator{weights: opts.Weights, narrator: opts.Narrator, logger: opts.Logger}
}

// Integrate merges the result set for a job into one immutable Report.
// Missing and failed entries must be present as Failed results, not omitted.
// Returns core.ErrNoUsableResults when not a single Success or Degraded entry
// exists; the caller surfaces that as a terminal job error.
func (ig *Integrator) Integrate(ctx context.Context, jobID string, results []core.AgentResult) (*core.Report, error) {
	usable := 0
	for _, r := range results {
		if r.Usable() {
			usable++
		}
	}
	if usable == 0 {
		return nil, fmt.Errorf("%w: %d agent task(s), none produced output", core.ErrNoUsableResults, len(results))
	}

	score := ig.aggregateScore(results)
	status := core.StatusSuccess
	for _, r := range results {
		if !r.IsSuccess() {
			status = core.StatusPartial
			break
		}
	}

	summary := ig.buildExecutiveSummary(ctx, results, score)
	assessment := ig.buildRiskAssessment(results, score)
	detailed := buildDetailedAnalysis(results)

	totalFindings := 0
	sources := make([]string, 0, len(results))
	for _, r := range results {
		sources = append(sources, r.Agent)
		if r.IsSuccess() {
			totalFindings += len(r.Analysis.Findings)
		}
	}

	report := &core.Report{
		ExecutiveSummary: summary,
		RiskAssessment:   assessment,
		DetailedAnalysis: detailed,
		Metadata: core.ReportMetadata{
			JobID:         jobID,
			GeneratedAt:   time.Now().UTC(),
			TotalFindings: totalFindings,
			Sources:       sources,
		},
		Status: status,
	}

	ig.logger.Info("integration complete job=%s status=%s score=%.1f findings=%d", jobID, status, score, totalFindings)
	return report, nil
}

// aggregateScore computes the weighted mean of Success scores, renormalized
// over the weights of the agents that succeeded, clamped to [0,10]. Degraded
// and Failed entries contribute zero weight.
func (ig *Integrator) aggregateScore(results []core.AgentResult) float64 {
	var weightedSum, weightTotal float64
	for _, r := range results {
		if !r.IsSuccess() {
			continue
		}
		w, ok := ig.weights[r.Agent]
		if !ok {
			w = defaultWeight
		}
		weightedSum += w * r.Analysis.RiskScore
		weightTotal += w
	}
	if weightTotal == 0 {
		return 0
	}
	return util.Clamp(weightedSum/weightTotal, 0, 10)
}

func (ig *Integrator) buildExecutiveSummary(ctx context.Context, results []core.AgentResult, score float64) core.ExecutiveSummary {
	var critical, findings, recommendations []string
	for _, r := range results {
		if !r.IsSuccess() {
			continue
		}
		critical = appendUnique(critical, r.Analysis.CriticalRisks)
		findings = appendUnique(findings, r.Analysis.KeyFindings)
		recommendations = appendUnique(recommendations, r.Analysis.Recommendations)
	}

	totalFindings := 0
	for _, r := range results {
		if r.IsSuccess() {
			totalFindings += len(r.Analysis.Findings)
		}
	}

	assessment := overallAssessment(score, totalFindings)
	if ig.narrator != nil {
		if narrated := ig.narrate(ctx, assessment, findings); narrated != "" {
			assessment = narrated
		}
	}

	return core.ExecutiveSummary{
		OverallAssessment:      assessment,
		CriticalRisks:          critical,
		KeyFindings:            findings,
		Recommendations:        recommendations,
		DecisionRecommendation: decisionRecommendation(score),
	}
}

func (ig *Integrator) buildRiskAssessment(results []core.AgentResult, score float64) core.RiskAssessment {
	var dist core.RiskDistribution
	var highItems []core.HighRiskItem

	for _, r := range results {
		if !r.IsSuccess() {
			continue
		}
		for _, f := range r.Analysis.Findings {
			switch f.Severity {
			case core.SeverityHigh:
				dist.High++
				highItems = append(highItems, core.HighRiskItem{
					Category:    f.Category,
					Severity:    core.SeverityHigh,
					Description: util.Truncate(f.Description, maxFindingLength),
					Source:      r.Agent,
				})
			case core.SeverityMedium:
				dist.Medium++
			case core.SeverityLow:
				dist.Low++
			}
		}
	}

	return core.RiskAssessment{
		OverallRiskScore:     score,
		RiskDistribution:     dist,
		HighRiskItems:        highItems,
		MitigationStrategies: mitigationStrategies(highItems),
	}
}

func buildDetailedAnalysis(results []core.AgentResult) map[string]core.DomainSection {
	sections := make(map[string]core.DomainSection, len(results))
	for _, r := range results {
		switch r.Kind {
		case core.ResultSuccess:
			sections[r.Agent] = core.DomainSection{
				Status:  "completed",
				Summary: r.Analysis.Summary,
				Detail:  r.Analysis.Detail,
			}
		case core.ResultDegraded:
			// Raw text preserved for audit, never discarded silently.
			sections[r.Agent] = core.DomainSection{
				Status:  "degraded",
				RawText: r.RawText,
				Error:   r.ParseError,
			}
		case core.ResultFailed:
			sections[r.Agent] = core.DomainSection{
				Status: "failed",
				Error:  fmt.Sprintf("%s: %s", r.ErrorKind, r.Message),
			}
		}
	}
	return sections
}

// appendUnique appends items preserving order, skipping exact-string
// duplicates already present in dst.
func appendUnique(dst []string, items []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}

// overallAssessment templates the narrative from the aggregated score and
// finding count. Thresholds follow the upstream review rubric.
func overallAssessment(score float64, totalFindings int) string {
	switch {
	case score >= 8:
		return fmt.Sprintf("The document carries severe risk (%d finding(s) identified). Signing without revision is not advisable; high-risk clauses should be amended and re-reviewed first.", totalFindings)
	case score >= 6:
		return fmt.Sprintf("The document carries substantial risk (%d finding(s) identified). Key clauses should be renegotiated before signing.", totalFindings)
	case score >= 4:
		return fmt.Sprintf("The document is acceptable overall but has points requiring attention (%d finding(s) identified). Clarify the flagged clauses before signing.", totalFindings)
	default:
		return fmt.Sprintf("The document's risk is controllable (%d finding(s) identified). Standard review procedures apply.", totalFindings)
	}
}

func decisionRecommendation(score float64) string {
	switch {
	case score >= 8:
		return "do not sign - major revision required"
	case score >= 6:
		return "sign with caution - key clauses need amendment"
	case score >= 4:
		return "may sign - clarify flagged clauses"
	default:
		return "may sign - risk under control"
	}
}

// mitigationStrategies derives one strategy per high-risk category class.
// The keyword sets cover both English and Chinese category labels since the
// analyzed documents are frequently Chinese-language contracts.
func mitigationStrategies(items []core.HighRiskItem) []string {
	var strategies []string
	for _, item := range items {
		category := strings.ToLower(item.Category)
		var s string
		switch {
		case containsAny(category, "compliance", "legal", "合规", "法律"):
			s = "Supplement the missing compliance clauses to satisfy the applicable statutes and mandatory procedure rules."
		case containsAny(category, "payment", "financial", "支付", "付款", "财务"):
			s = "Renegotiate the payment terms to secure cash flow and a reasonable settlement schedule."
		case containsAny(category, "default", "penalty", "obligation", "违约", "义务"):
			s = "Rebalance the default liabilities so penalty exposure is symmetric between the parties."
		default:
			s = fmt.Sprintf("Define a dedicated response plan for the %q risk.", item.Category)
		}
		strategies = appendUnique(strategies, []string{s})
	}
	return strategies
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// narrate asks the configured narrator capability for a richer overall
// assessment. Best effort: any failure returns "" and the template stands.
func (ig *Integrator) narrate(ctx context.Context, assessment string, keyFindings []string) string {
	prompt := fmt.Sprintf(
		"Rewrite the following review assessment as a concise executive narrative. Keep every factual claim, add nothing.\n\nAssessment: %s\nKey findings:\n- %s",
		assessment, strings.Join(keyFindings, "\n- "),
	)
	out, err := ig.narrator.Invoke(ctx, prompt)
	if err != nil {
		ig.logger.Warn("narrator capability failed, keeping templated assessment: %v", err)
		return ""
	}
	return strings.TrimSpace(out)
}

package riskmesh

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskmesh/riskmesh/core"
	"github.com/riskmesh/riskmesh/model"
)

func cannedCapability() *model.MockCapability {
	capability := model.NewMockCapability("canned")
	capability.AddResponse("legal compliance analyst", `{
		"summary": "one-sided default penalty",
		"risk_score": 8,
		"findings": [
			{"category": "obligation balance", "severity": "high", "description": "义务不对等：违约金仅约束乙方"}
		],
		"critical_risks": ["one-sided penalty"],
		"key_findings": ["asymmetric obligations"],
		"recommendations": ["add reciprocal clause"]
	}`)
	capability.AddResponse("commercial risk analyst", `{
		"summary": "steep daily penalty",
		"risk_score": 6,
		"findings": [
			{"category": "penalty", "severity": "medium", "description": "0.5% daily penalty", "metric": "0.5%/day"}
		],
		"critical_risks": [],
		"key_findings": ["high penalty rate"],
		"recommendations": ["cap the penalty"]
	}`)
	return capability
}

func TestNew_RequiresCapability(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestEngine_ReviewEndToEnd(t *testing.T) {
	events := core.NewCollectorSink()
	engine, err := New(cannedCapability(), func(o *Options) {
		o.Events = events
	})
	require.NoError(t, err)

	report, err := engine.Review(context.Background(), "乙方逾期交付的，每日按合同总价的0.5%支付违约金；甲方逾期付款不承担责任。")
	require.NoError(t, err)

	assert.Equal(t, core.StatusSuccess, report.Status)
	// legal 8 * 0.6 + business 6 * 0.4
	assert.InDelta(t, 7.2, report.RiskAssessment.OverallRiskScore, 0.001)
	assert.Equal(t, []string{"legal", "business"}, report.Metadata.Sources)
	require.Len(t, report.RiskAssessment.HighRiskItems, 1)
	assert.Contains(t, report.RiskAssessment.HighRiskItems[0].Description, "义务不对等")

	// Lifecycle is archived and queryable through the façade.
	archived, err := engine.Job(report.Metadata.JobID)
	require.NoError(t, err)
	assert.Equal(t, core.StateDone, archived.State)
	require.NotNil(t, archived.Report)

	assert.NotEmpty(t, events.ByKind(core.EventJobTransition))
	assert.NotEmpty(t, events.ByKind(core.EventAttempt))
}

func TestEngine_RepeatReviewServedFromCache(t *testing.T) {
	capability := cannedCapability()
	engine, err := New(capability)
	require.NoError(t, err)

	text := "合同条款：付款与违约责任。"
	_, err = engine.Review(context.Background(), text)
	require.NoError(t, err)
	calls := capability.Calls()

	_, err = engine.Review(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, calls, capability.Calls())
	assert.Equal(t, 2, engine.Cache().Len())
}

func TestEngine_SubmitAndCancel(t *testing.T) {
	capability := model.NewMockCapability("slow")
	// No canned responses: fallback text fails schema parse, but the job is
	// cancelled before the repair round matters.
	engine, err := New(capability, func(o *Options) {
		o.JobTimeout = 5 * time.Second
	})
	require.NoError(t, err)

	h, err := engine.Submit(context.Background(), "contract text with obligations")
	require.NoError(t, err)

	// Cancel may race job completion with the instant mock; accept either a
	// cancelled error or a finished job, but never a hang.
	_ = engine.Cancel(h.ID)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _ = h.Wait(ctx)
	assert.NoError(t, ctx.Err())
}

func TestEngine_InvalidInput(t *testing.T) {
	engine, err := New(cannedCapability())
	require.NoError(t, err)

	_, err = engine.Review(context.Background(), "   ")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

package agent

import (
	"fmt"

	"github.com/riskmesh/riskmesh/core"
	"github.com/riskmesh/riskmesh/runtime"
)

// BusinessName is the stable identity of the business analysis agent.
const BusinessName = "business"

const businessSchemaVersion = "business/v1"

const businessInstructions = `You are a commercial risk analyst reviewing an extracted document text.

Focus areas:
- Payment terms: prepayment ratios, milestones, settlement deadlines, cash
  flow exposure
- Performance risk: delivery schedules, acceptance criteria, quality
  standards, warranty periods
- Price and cost risk: price adjustment mechanisms, cost pass-through,
  currency exposure
- Default economics: penalty rates, liability caps, compensation asymmetry
- Counterparty risk signals present in the text

Tag every finding with a severity: "high" blocks signing without changes,
"medium" needs attention before signing, "low" is informational. Quantify
findings where the text allows it and put the number in the "metric" field
(for example a penalty rate of "0.1%/day" or a prepayment ratio of "30%").`

// BusinessSpec is the AnalyzerSpec for commercial risk review.
type BusinessSpec struct{}

// NewBusinessSpec returns the business analysis specialization.
func NewBusinessSpec() *BusinessSpec { return &BusinessSpec{} }

// Name implements core.AnalyzerSpec.
func (s *BusinessSpec) Name() string { return BusinessName }

// SchemaVersion implements core.AnalyzerSpec.
func (s *BusinessSpec) SchemaVersion() string { return businessSchemaVersion }

// Prompt implements core.AnalyzerSpec.
func (s *BusinessSpec) Prompt(text string) string {
	return fmt.Sprintf("%s\n\nRespond with a single JSON object matching exactly this schema:\n\n%s\n\nDocument text:\n%s",
		businessInstructions, schemaBlock, text)
}

// RepairPrompt implements core.AnalyzerSpec.
func (s *BusinessSpec) RepairPrompt(raw string) string { return repairPrompt(raw) }

// Parse implements core.AnalyzerSpec.
func (s *BusinessSpec) Parse(raw string) (*core.Analysis, error) { return parsePayload(raw) }

// NewBusinessAnalyzer wraps the business spec in a runtime with the given
// capability and options.
func NewBusinessAnalyzer(capability core.Capability, optFns ...func(o *runtime.Options)) *runtime.Runtime {
	return runtime.New(NewBusinessSpec(), capability, optFns...)
}

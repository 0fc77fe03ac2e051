package agent

import (
	"fmt"

	"github.com/riskmesh/riskmesh/core"
	"github.com/riskmesh/riskmesh/runtime"
)

// LegalName is the stable identity of the legal analysis agent, used as cache
// key component and per-agent weight lookup.
const LegalName = "legal"

const legalSchemaVersion = "legal/v1"

const legalInstructions = `You are a legal compliance analyst reviewing an extracted document text.

Focus areas:
- Completeness of mandatory clauses (liability, termination, dispute resolution, governing law)
- Balance of rights and obligations between the parties, including asymmetric
  penalty or liability clauses
- Compliance with applicable statutes and mandatory procedure rules
- Qualification requirements, review standards and remedy mechanisms
- Ambiguous or contradictory wording that creates legal exposure

Tag every finding with a severity: "high" blocks signing without changes,
"medium" needs attention before signing, "low" is informational. Where one
party carries an obligation the other does not (for example a one-sided
default penalty), report it as a high severity finding on obligation balance.`

// LegalSpec is the AnalyzerSpec for legal compliance review.
type LegalSpec struct{}

// NewLegalSpec returns the legal analysis specialization.
func NewLegalSpec() *LegalSpec { return &LegalSpec{} }

// Name implements core.AnalyzerSpec.
func (s *LegalSpec) Name() string { return LegalName }

// SchemaVersion implements core.AnalyzerSpec.
func (s *LegalSpec) SchemaVersion() string { return legalSchemaVersion }

// Prompt implements core.AnalyzerSpec.
func (s *LegalSpec) Prompt(text string) string {
	return fmt.Sprintf("%s\n\nRespond with a single JSON object matching exactly this schema:\n\n%s\n\nDocument text:\n%s",
		legalInstructions, schemaBlock, text)
}

// RepairPrompt implements core.AnalyzerSpec.
func (s *LegalSpec) RepairPrompt(raw string) string { return repairPrompt(raw) }

// Parse implements core.AnalyzerSpec.
func (s *LegalSpec) Parse(raw string) (*core.Analysis, error) { return parsePayload(raw) }

// NewLegalAnalyzer wraps the legal spec in a runtime with the given
// capability and options.
func NewLegalAnalyzer(capability core.Capability, optFns ...func(o *runtime.Options)) *runtime.Runtime {
	return runtime.New(NewLegalSpec(), capability, optFns...)
}

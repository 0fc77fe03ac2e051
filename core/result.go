package core

// Severity grades a finding.
type Severity string

const (
	// SeverityLow marks an informational finding.
	SeverityLow Severity = "low"
	// SeverityMedium marks a finding that needs attention before signing.
	SeverityMedium Severity = "medium"
	// SeverityHigh marks a finding that blocks signing without changes.
	SeverityHigh Severity = "high"
)

// Rank returns an ordinal for severity comparison (higher is worse). Unknown
// severities rank as medium.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 2
	}
}

// Finding is a single tagged risk identified by an analyzer.
type Finding struct {
	Category       string   `json:"category"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation,omitempty"`
	// Metric carries an optional quantitative flag (e.g. a penalty rate or
	// payment ratio) for business findings.
	Metric string `json:"metric,omitempty"`
}

// Analysis is the structured payload every analyzer schema parses into. The
// list fields feed the report's executive summary union; Findings feed the
// high-risk item concatenation.
type Analysis struct {
	Summary         string    `json:"summary"`
	RiskScore       float64   `json:"risk_score"`
	Findings        []Finding `json:"findings"`
	CriticalRisks   []string  `json:"critical_risks"`
	KeyFindings     []string  `json:"key_findings"`
	Recommendations []string  `json:"recommendations"`
	Detail          string    `json:"detail,omitempty"`
}

// FindingsBySeverity returns the findings tagged with the given severity,
// preserving order.
func (a *Analysis) FindingsBySeverity(s Severity) []Finding {
	var out []Finding
	for _, f := range a.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// ResultKind discriminates the AgentResult variant.
type ResultKind string

const (
	// ResultSuccess carries a validated structured payload.
	ResultSuccess ResultKind = "success"
	// ResultDegraded carries raw text that failed schema validation after the
	// repair attempt. Retained for audit, never discarded.
	ResultDegraded ResultKind = "degraded"
	// ResultFailed carries a typed error; no payload was produced.
	ResultFailed ResultKind = "failed"
)

// AgentResult is the immutable outcome of one agent task. Exactly one variant
// applies; the ambiguity of "did the model return something usable" is
// resolved once, here, not at every consumer.
type AgentResult struct {
	Agent         string     `json:"agent"`
	Kind          ResultKind `json:"kind"`
	SchemaVersion string     `json:"schema_version,omitempty"`

	// Success variant.
	Analysis *Analysis `json:"analysis,omitempty"`

	// Degraded variant.
	RawText    string `json:"raw_text,omitempty"`
	ParseError string `json:"parse_error,omitempty"`

	// Failed variant.
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Message   string    `json:"message,omitempty"`

	// Attempts counts capability invocations made for this result. Zero for
	// cache hits.
	Attempts int `json:"attempts"`
	// FromCache marks a result served from the result cache.
	FromCache bool `json:"from_cache,omitempty"`
}

// NewSuccessResult constructs the Success variant.
func NewSuccessResult(agent, schemaVersion string, a *Analysis, attempts int) AgentResult {
	return AgentResult{
		Agent:         agent,
		Kind:          ResultSuccess,
		SchemaVersion: schemaVersion,
		Analysis:      a,
		Attempts:      attempts,
	}
}

// NewDegradedResult constructs the Degraded variant carrying the raw model
// output and the parse error that rejected it.
func NewDegradedResult(agent, rawText string, parseErr error, attempts int) AgentResult {
	msg := ""
	if parseErr != nil {
		msg = parseErr.Error()
	}
	return AgentResult{
		Agent:      agent,
		Kind:       ResultDegraded,
		RawText:    rawText,
		ParseError: msg,
		Attempts:   attempts,
	}
}

// NewFailedResult constructs the Failed variant.
func NewFailedResult(agent string, kind ErrorKind, message string, attempts int) AgentResult {
	return AgentResult{
		Agent:     agent,
		Kind:      ResultFailed,
		ErrorKind: kind,
		Message:   message,
		Attempts:  attempts,
	}
}

// IsSuccess reports whether the result carries a validated payload.
func (r AgentResult) IsSuccess() bool { return r.Kind == ResultSuccess }

// Usable reports whether the result contributes any content to a report
// (Success or Degraded).
func (r AgentResult) Usable() bool {
	return r.Kind == ResultSuccess || r.Kind == ResultDegraded
}

package model

// FindingCategory classifies a validation finding
type FindingCategory string

const (
	CategoryQuotationMarks   FindingCategory = "quotation_marks"
	CategoryNonBreakingSpace FindingCategory = "non_breaking_space"
	CategoryParenthetical    FindingCategory = "parenthetical_capitalization"
	CategoryRuleViolation    FindingCategory = "rule_violation"
	CategoryStructure        FindingCategory = "structure"
)

// ValidationFinding is one reported formatting or support problem.
// When RuleID is set, EvidenceQuote must be a literal substring of the
// body text of a rule that was retrieved for the citation; the evidence
// validator rejects whole reasoner payloads that break this.
type ValidationFinding struct {
	Category      FindingCategory `json:"category"`
	Description   string          `json:"description"`
	Confidence    float64         `json:"confidence"` // [0,1]; deterministic checks report 1.0
	Corpus        Corpus          `json:"corpus,omitempty"`
	RuleID        string          `json:"rule_id,omitempty"`
	EvidenceQuote string          `json:"evidence_quote,omitempty"`
	CurrentText   string          `json:"current_text,omitempty"`
	SuggestedText string          `json:"suggested_text,omitempty"`
}

// Usage tracks reasoner token and cost consumption for one validation
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	CostUSD          float64 `json:"cost_usd,omitempty"`
}

// ValidationResult is the merged outcome of validating one citation
type ValidationResult struct {
	Citation *Citation `json:"citation"`

	IsCorrect bool                `json:"is_correct"` // False iff any finding present
	Findings  []ValidationFinding `json:"findings"`   // Deterministic ∪ accepted reasoner findings

	Coverage Coverage `json:"coverage"` // Rule retrieval accounting

	// EvidenceValidationFailed is set when the reasoner reported violations
	// whose evidence quotes could not be traced to a retrieved rule.
	EvidenceValidationFailed bool `json:"evidence_validation_failed,omitempty"`

	// DegradedValidation is set when the reasoning call failed outright and
	// the result was built from deterministic checks alone.
	DegradedValidation bool   `json:"degraded_validation,omitempty"`
	DegradedReason     string `json:"degraded_reason,omitempty"`

	Usage Usage `json:"usage"`
}

// PreValidation is the structural pre-validator's triage verdict.
// It is informational context for downstream stages, never merged into
// ValidationResult.Findings.
type PreValidation struct {
	IsValid         bool         `json:"is_valid"`
	Confidence      float64      `json:"confidence"` // [0,1]
	DetectedType    CitationType `json:"detected_type"`
	Errors          []string     `json:"errors,omitempty"`
	Warnings        []string     `json:"warnings,omitempty"`
	MatchedPatterns []string     `json:"matched_patterns,omitempty"`
}

// FootnoteReport aggregates the validation of every citation in one footnote
type FootnoteReport struct {
	FootnoteNumber int                 `json:"footnote_number"`
	FootnoteText   string              `json:"footnote_text"`
	Citations      []Citation          `json:"citations"`
	PreValidation  []PreValidation     `json:"pre_validation"`
	Results        []*ValidationResult `json:"results"`
	Error          string              `json:"error,omitempty"`
}

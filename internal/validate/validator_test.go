package validate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bluepencil/citecheck/internal/cache"
	"github.com/bluepencil/citecheck/internal/llm"
	"github.com/bluepencil/citecheck/internal/model"
	"github.com/bluepencil/citecheck/internal/rules"
)

// The rule body text the reasoner is expected to quote from.
const caseRuleBody = "Use v. and not vs. between the parties of a case name. The reporter volume precedes the reporter abbreviation."

func testRetriever(t *testing.T) *rules.Retriever {
	t.Helper()
	primary := []model.RuleNode{
		{ID: "B10", Title: "Cases", Text: caseRuleBody},
		{ID: "B12", Title: "Statutes", Text: "Cite the official code where the statute appears, with a section symbol."},
	}
	secondary := []model.RuleNode{
		{ID: "S1", Title: "Case names", Text: "Abbreviate the parties of a case name per the style table."},
	}
	cfg := model.DefaultConfig().Retrieval
	idx, err := rules.NewIndex(primary, secondary, cfg)
	if err != nil {
		t.Fatalf("Expected index to build, got %v", err)
	}
	return rules.NewRetriever(idx, cfg)
}

// fixedProvider always returns the same response.
type fixedProvider struct {
	resp  *llm.ReviewResponse
	err   error
	calls int
}

func (p *fixedProvider) Name() string                         { return "fixed" }
func (p *fixedProvider) IsAvailable(ctx context.Context) bool { return true }
func (p *fixedProvider) Review(ctx context.Context, req llm.ReviewRequest) (*llm.ReviewResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.resp, nil
}

func testCitation() model.Citation {
	return model.Citation{
		FootnoteNumber: 1,
		CitationNumber: 1,
		FullText:       `Smith vs. Jones, 123 F.3d 456 (1999) ("the rule controls")`,
		DetectedType:   model.CitationTypeCase,
	}
}

func newCaller(p llm.Provider) *ReasonerCaller {
	return NewReasonerCaller(p, 1, time.Millisecond, 0, 0)
}

func TestValidator_DeterministicOnlyWithoutReasoner(t *testing.T) {
	v := NewValidator(testRetriever(t), nil, nil)

	result := v.Validate(context.Background(), testCitation())

	// The straight quotes always yield a quotation-mark finding.
	if len(result.Findings) == 0 {
		t.Fatal("Expected deterministic findings")
	}
	for _, f := range result.Findings {
		if f.Category == model.CategoryRuleViolation {
			t.Errorf("Expected no rule violations without a reasoner, got %v", f)
		}
		if f.Confidence != 1.0 {
			t.Errorf("Expected deterministic confidence 1.0, got %f", f.Confidence)
		}
	}
	if result.IsCorrect {
		t.Error("Expected IsCorrect false with findings present")
	}
}

func TestValidator_AcceptsTraceableEvidence(t *testing.T) {
	provider := &fixedProvider{resp: &llm.ReviewResponse{
		IsCorrect: false,
		Errors: []llm.ReviewError{{
			Description:   "case citation uses vs. between the parties",
			RuleID:        "B10",
			Corpus:        model.CorpusPrimary,
			EvidenceQuote: "Use v. and not vs. between the parties",
			CurrentText:   "Smith vs. Jones",
			SuggestedText: "Smith v. Jones",
		}},
	}}
	v := NewValidator(testRetriever(t), newCaller(provider), nil)

	result := v.Validate(context.Background(), testCitation())

	if result.EvidenceValidationFailed {
		t.Fatal("Expected evidence to trace to the retrieved rule")
	}
	violations := findingsByCategory(result.Findings, model.CategoryRuleViolation)
	if len(violations) != 1 {
		t.Fatalf("Expected 1 rule violation, got %d", len(violations))
	}
	f := violations[0]
	if f.RuleID != "B10" {
		t.Errorf("Expected rule id B10, got %q", f.RuleID)
	}
	if f.Corpus != model.CorpusPrimary {
		t.Errorf("Expected primary corpus, got %q", f.Corpus)
	}
	if f.Confidence != reasonerConfidence {
		t.Errorf("Expected reasoner confidence %f, got %f", reasonerConfidence, f.Confidence)
	}
}

func TestValidator_RejectsUntraceableEvidence(t *testing.T) {
	provider := &fixedProvider{resp: &llm.ReviewResponse{
		IsCorrect: false,
		Errors: []llm.ReviewError{
			{
				Description:   "real violation",
				EvidenceQuote: "Use v. and not vs. between the parties",
			},
			{
				Description:   "fabricated violation",
				EvidenceQuote: "this sentence appears in no retrieved rule",
			},
		},
	}}
	v := NewValidator(testRetriever(t), newCaller(provider), nil)

	result := v.Validate(context.Background(), testCitation())

	if !result.EvidenceValidationFailed {
		t.Fatal("Expected the whole payload rejected for one bad quote")
	}
	// The good entry must not survive the rejection, but deterministic
	// findings still do.
	if len(findingsByCategory(result.Findings, model.CategoryRuleViolation)) != 0 {
		t.Error("Expected no rule violations after payload rejection")
	}
	if len(result.Findings) == 0 {
		t.Error("Expected deterministic findings preserved")
	}
	if result.IsCorrect {
		t.Error("Expected IsCorrect false: findings are present")
	}
}

func TestValidator_FillsRuleIDFromTrace(t *testing.T) {
	provider := &fixedProvider{resp: &llm.ReviewResponse{
		IsCorrect: false,
		Errors: []llm.ReviewError{{
			Description:   "violation without explicit rule id",
			EvidenceQuote: "The reporter volume precedes the reporter abbreviation.",
		}},
	}}
	v := NewValidator(testRetriever(t), newCaller(provider), nil)

	result := v.Validate(context.Background(), testCitation())

	violations := findingsByCategory(result.Findings, model.CategoryRuleViolation)
	if len(violations) != 1 {
		t.Fatalf("Expected 1 rule violation, got %d", len(violations))
	}
	if violations[0].RuleID != "B10" {
		t.Errorf("Expected rule id filled from the traced rule, got %q", violations[0].RuleID)
	}
	if violations[0].Corpus != model.CorpusPrimary {
		t.Errorf("Expected corpus filled from the traced rule, got %q", violations[0].Corpus)
	}
}

func TestValidator_DegradesOnReasonerFailure(t *testing.T) {
	provider := &fixedProvider{err: fmt.Errorf("%w: down", llm.ErrUnavailable)}
	v := NewValidator(testRetriever(t), newCaller(provider), nil)

	result := v.Validate(context.Background(), testCitation())

	if !result.DegradedValidation {
		t.Fatal("Expected degraded validation")
	}
	if result.DegradedReason == "" {
		t.Error("Expected a degradation reason")
	}
	if result.EvidenceValidationFailed {
		t.Error("Expected degradation, not an evidence failure")
	}
	if len(result.Findings) == 0 {
		t.Error("Expected deterministic findings despite degradation")
	}
}

func TestValidator_CachesReviewResponses(t *testing.T) {
	provider := &fixedProvider{resp: &llm.ReviewResponse{IsCorrect: true}}
	responseCache := cache.NewMemoryCache(time.Minute, time.Minute)
	v := NewValidator(testRetriever(t), newCaller(provider), responseCache)

	first := v.Validate(context.Background(), testCitation())
	second := v.Validate(context.Background(), testCitation())

	if provider.calls != 1 {
		t.Errorf("Expected 1 provider call with caching, got %d", provider.calls)
	}
	if first.EvidenceValidationFailed || second.EvidenceValidationFailed {
		t.Error("Expected clean verdicts")
	}
}

func TestValidator_CoverageAccounting(t *testing.T) {
	v := NewValidator(testRetriever(t), nil, nil)

	result := v.Validate(context.Background(), testCitation())

	if result.Coverage.Primary.Scanned != 2 {
		t.Errorf("Expected 2 primary rules scanned, got %d", result.Coverage.Primary.Scanned)
	}
	if result.Coverage.Secondary.Scanned != 1 {
		t.Errorf("Expected 1 secondary rule scanned, got %d", result.Coverage.Secondary.Scanned)
	}
	if result.Coverage.Primary.Returned == 0 {
		t.Error("Expected the case rule retrieved for a case citation")
	}
}

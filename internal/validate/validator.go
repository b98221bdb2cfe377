// Package validate holds the three validation layers: the structural
// pre-validator, the always-on deterministic pattern checks, and the
// evidence-bound validator that composes retrieved rules with the
// external reasoning collaborator.
package validate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/bluepencil/citecheck/internal/cache"
	"github.com/bluepencil/citecheck/internal/llm"
	"github.com/bluepencil/citecheck/internal/model"
	"github.com/bluepencil/citecheck/internal/rules"
	"github.com/rs/zerolog/log"
)

// reasonerConfidence is assigned to findings accepted from the reasoning
// collaborator; deterministic checks always report 1.0.
const reasonerConfidence = 0.9

// Validator runs the full per-citation validation: deterministic checks,
// rule retrieval, the evidence-bound reasoning call, and the merge.
type Validator struct {
	retriever *rules.Retriever
	caller    *ReasonerCaller // nil when reasoning is disabled
	cache     cache.Cache     // nil when caching is disabled
}

// NewValidator creates a validator. caller and responseCache may be nil.
func NewValidator(retriever *rules.Retriever, caller *ReasonerCaller, responseCache cache.Cache) *Validator {
	return &Validator{
		retriever: retriever,
		caller:    caller,
		cache:     responseCache,
	}
}

// Validate validates one citation. It always returns a structured
// result: reasoner failure degrades to deterministic findings only, and
// an evidence-contract violation rejects the whole reasoner payload
// while the deterministic findings are still honored.
func (v *Validator) Validate(ctx context.Context, citation model.Citation) *model.ValidationResult {
	deterministic := RunChecks(citation)
	matches, coverage := v.retriever.Retrieve(citation.FullText)

	result := &model.ValidationResult{
		Citation: &citation,
		Coverage: coverage,
		Findings: deterministic,
	}

	if v.caller != nil {
		v.runReasoner(ctx, citation, matches, result)
	}

	result.Findings = dedupeFindings(result.Findings)
	result.IsCorrect = len(result.Findings) == 0
	return result
}

// runReasoner performs the reasoning call (through the cache when
// enabled) and merges accepted findings into the result.
func (v *Validator) runReasoner(ctx context.Context, citation model.Citation, matches []model.RuleMatch, result *model.ValidationResult) {
	req := llm.ReviewRequest{
		CitationText:   citation.FullText,
		CitationType:   citation.DetectedType,
		FootnoteNumber: citation.FootnoteNumber,
		CitationNumber: citation.CitationNumber,
		Rules:          matches,
	}

	resp, cached := v.cachedResponse(req)
	if !cached {
		outcome := v.caller.Call(ctx, req)
		if outcome.Err != nil {
			log.Warn().
				Err(outcome.Err).
				Int("footnote", citation.FootnoteNumber).
				Int("citation", citation.CitationNumber).
				Int("attempts", outcome.Attempts).
				Msg("reasoning call failed; validation degraded to deterministic checks")
			result.DegradedValidation = true
			result.DegradedReason = outcome.Err.Error()
			return
		}
		resp = outcome.Response
		v.storeResponse(req, resp)
	}

	result.Usage = resp.Usage

	accepted, ok := v.bindEvidence(resp.Errors, matches)
	if !ok {
		result.EvidenceValidationFailed = true
		log.Warn().
			Int("footnote", citation.FootnoteNumber).
			Int("citation", citation.CitationNumber).
			Msg("reasoner payload rejected: evidence quote not traceable to a retrieved rule")
		return
	}
	result.Findings = append(result.Findings, accepted...)
}

// bindEvidence enforces the fail-closed contract: every reported
// violation must quote verbatim text found inside the body of a rule
// that was actually supplied. One bad quote rejects the whole payload.
func (v *Validator) bindEvidence(errors []llm.ReviewError, matches []model.RuleMatch) ([]model.ValidationFinding, bool) {
	var findings []model.ValidationFinding
	for _, e := range errors {
		rule, found := traceQuote(e.EvidenceQuote, matches)
		if !found {
			return nil, false
		}

		corpus := e.Corpus
		ruleID := e.RuleID
		if ruleID == "" {
			ruleID = rule.RuleID
		}
		if corpus == model.CorpusNone {
			corpus = rule.Corpus
		}
		findings = append(findings, model.ValidationFinding{
			Category:      model.CategoryRuleViolation,
			Description:   e.Description,
			Confidence:    reasonerConfidence,
			Corpus:        corpus,
			RuleID:        ruleID,
			EvidenceQuote: e.EvidenceQuote,
			CurrentText:   e.CurrentText,
			SuggestedText: e.SuggestedText,
		})
	}
	return findings, true
}

// traceQuote finds the supplied rule whose body contains the quote
// verbatim.
func traceQuote(quote string, matches []model.RuleMatch) (model.RuleMatch, bool) {
	if quote == "" {
		return model.RuleMatch{}, false
	}
	for _, m := range matches {
		if strings.Contains(m.BodyText, quote) {
			return m, true
		}
	}
	return model.RuleMatch{}, false
}

// reviewCacheKey hashes the citation text and the retrieved rule ids so
// a corpus change invalidates cached verdicts.
func reviewCacheKey(req llm.ReviewRequest) string {
	h := sha256.New()
	h.Write([]byte(req.CitationText))
	for _, r := range req.Rules {
		h.Write([]byte{0})
		h.Write([]byte(string(r.Corpus) + ":" + r.RuleID))
	}
	return "citecheck:review:v1:" + hex.EncodeToString(h.Sum(nil))
}

func (v *Validator) cachedResponse(req llm.ReviewRequest) (*llm.ReviewResponse, bool) {
	if v.cache == nil {
		return nil, false
	}
	data, found := v.cache.Get(reviewCacheKey(req))
	if !found {
		return nil, false
	}
	var resp llm.ReviewResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (v *Validator) storeResponse(req llm.ReviewRequest, resp *llm.ReviewResponse) {
	if v.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := v.cache.Set(reviewCacheKey(req), data, 0); err != nil {
		log.Debug().Err(err).Msg("review cache store failed")
	}
}

// Package pipeline orchestrates the per-citation validation sequence:
// extraction, structural pre-validation, deterministic checks, rule
// retrieval, the reasoning call, and the merge.
package pipeline

import (
	"context"
	"fmt"

	"github.com/bluepencil/citecheck/internal/cache"
	"github.com/bluepencil/citecheck/internal/docproc"
	"github.com/bluepencil/citecheck/internal/extract"
	"github.com/bluepencil/citecheck/internal/llm"
	"github.com/bluepencil/citecheck/internal/model"
	"github.com/bluepencil/citecheck/internal/quote"
	"github.com/bluepencil/citecheck/internal/rules"
	"github.com/bluepencil/citecheck/internal/validate"
	"github.com/rs/zerolog/log"
)

// Pipeline wires the validation stages together. The rule index is the
// only shared state and is read-only after construction, so one
// pipeline is safe for concurrent footnotes.
type Pipeline struct {
	extractor *extract.Extractor
	pre       *validate.PreValidator
	validator *validate.Validator
	verifier  *quote.Verifier
	processor *docproc.Processor
	config    *model.Config
}

// NewPipeline creates a pipeline over a built rule index
func NewPipeline(cfg *model.Config, index *rules.Index) *Pipeline {
	retriever := rules.NewRetriever(index, cfg.Retrieval)

	var caller *validate.ReasonerCaller
	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize reasoner provider; validation will use deterministic checks only")
	} else if provider != nil {
		caller = validate.NewReasonerCaller(provider, cfg.LLM.MaxRetries, cfg.LLM.Backoff, cfg.LLM.RateLimit, cfg.LLM.RateBurst)
	}

	var responseCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			responseCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			responseCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
		}
	}

	return &Pipeline{
		extractor: extract.NewExtractor(),
		pre:       validate.NewPreValidator(cfg.Structural),
		validator: validate.NewValidator(retriever, caller, responseCache),
		verifier:  quote.NewVerifier(cfg.Quote),
		processor: docproc.NewProcessor(cfg.Quality),
		config:    cfg,
	}
}

// CheckFootnote validates every citation in one footnote. Stages within
// one citation run strictly sequentially; a failure in one citation is
// recorded in its result and never blocks the others.
func (p *Pipeline) CheckFootnote(ctx context.Context, footnoteNumber int, text string) *model.FootnoteReport {
	report := &model.FootnoteReport{
		FootnoteNumber: footnoteNumber,
		FootnoteText:   text,
	}

	report.Citations = p.extractor.Citations(footnoteNumber, text)
	for _, citation := range report.Citations {
		pre := p.pre.Validate(citation)
		report.PreValidation = append(report.PreValidation, pre)

		log.Debug().
			Int("footnote", footnoteNumber).
			Int("citation", citation.CitationNumber).
			Str("type", string(citation.DetectedType)).
			Float64("pre_confidence", pre.Confidence).
			Msg("validating citation")

		report.Results = append(report.Results, p.validator.Validate(ctx, citation))
	}
	return report
}

// VerifyQuotes checks every quoted span of a citation against the
// processed source documents.
func (p *Pipeline) VerifyQuotes(citation model.Citation, docs []*model.SourceDocumentExtraction) []model.QuoteVerification {
	var results []model.QuoteVerification
	for _, quoted := range citation.QuotedSpans() {
		results = append(results, p.verifier.Verify(quoted, docs))
	}
	return results
}

// VerifyQuote checks one quote string against the processed documents.
func (p *Pipeline) VerifyQuote(quoteText string, docs []*model.SourceDocumentExtraction) model.QuoteVerification {
	return p.verifier.Verify(quoteText, docs)
}

// ProcessDocument extracts blocks, annotations, and marked regions from
// one rendering.
func (p *Pipeline) ProcessDocument(rendering docproc.Rendering) (*model.SourceDocumentExtraction, error) {
	extraction, err := p.processor.Process(rendering)
	if err != nil {
		return nil, fmt.Errorf("process document %s: %w", rendering.SourceID(), err)
	}
	return extraction, nil
}

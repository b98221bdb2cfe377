package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bluepencil/citecheck/internal/model"
)

// Typed failures at the reasoner boundary. Transient errors are retried
// with backoff; terminal errors degrade the validation to deterministic
// findings only.
var (
	// ErrUnavailable marks transient failures: timeouts, rate limits,
	// connection errors.
	ErrUnavailable = errors.New("reasoner unavailable")

	// ErrMalformedResponse marks a response that could not be decoded
	// into the review schema.
	ErrMalformedResponse = errors.New("malformed reasoner response")
)

// IsTransient reports whether the error is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Provider defines the interface for reasoning collaborators
type Provider interface {
	// Name returns the provider name
	Name() string

	// Review asks the collaborator to validate one citation against the
	// supplied rule excerpts.
	Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// NewProvider creates the configured provider, or nil when reasoning is
// disabled.
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown reasoner provider: %q", cfg.Provider)
	}
}

// ReviewRequest carries one citation and the rules retrieved for it.
// Rules arrive primary corpus first; the prompt renders them in that
// order.
type ReviewRequest struct {
	CitationText   string
	CitationType   model.CitationType
	FootnoteNumber int
	CitationNumber int
	Rules          []model.RuleMatch
}

// ReviewError is one violation the collaborator reports. The evidence
// quote is required by the schema itself: an error entry without one
// fails decoding, so the invalid state cannot be constructed downstream.
// Whether the quote actually appears in a supplied rule is checked later
// against the retrieval results.
type ReviewError struct {
	Description   string       `json:"description"`
	RuleID        string       `json:"rule_id,omitempty"`
	Corpus        model.Corpus `json:"corpus,omitempty"`
	EvidenceQuote string       `json:"evidence_quote"`
	CurrentText   string       `json:"current_text,omitempty"`
	SuggestedText string       `json:"suggested_text,omitempty"`
}

// UnmarshalJSON enforces the evidence contract at parse time.
func (e *ReviewError) UnmarshalJSON(data []byte) error {
	type raw ReviewError
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if r.Description == "" {
		return fmt.Errorf("%w: error entry missing description", ErrMalformedResponse)
	}
	if r.EvidenceQuote == "" {
		return fmt.Errorf("%w: error entry %q missing evidence quote", ErrMalformedResponse, r.Description)
	}
	*e = ReviewError(r)
	return nil
}

// ReviewResponse is the collaborator's structured verdict
type ReviewResponse struct {
	IsCorrect bool          `json:"is_correct"`
	Errors    []ReviewError `json:"errors"`
	Model     string        `json:"-"`
	Usage     model.Usage   `json:"-"`
}

// DecodeReviewResponse parses the collaborator's JSON payload, applying
// the schema-level evidence contract.
func DecodeReviewResponse(payload string) (*ReviewResponse, error) {
	var resp ReviewResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		if errors.Is(err, ErrMalformedResponse) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !resp.IsCorrect && len(resp.Errors) == 0 {
		return nil, fmt.Errorf("%w: incorrect verdict with no errors", ErrMalformedResponse)
	}
	return &resp, nil
}

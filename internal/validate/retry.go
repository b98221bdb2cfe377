package validate

import (
	"context"
	"time"

	"github.com/bluepencil/citecheck/internal/llm"
	"golang.org/x/time/rate"
)

// retrySleepFunc is the sleep function used between retries (injectable for tests)
var retrySleepFunc = time.Sleep

// CallState is one state of the reasoner call state machine
type CallState string

const (
	StateIdle      CallState = "idle"
	StateCalling   CallState = "calling"
	StateRetrying  CallState = "retrying"
	StateSucceeded CallState = "succeeded"
	StateFailed    CallState = "failed"
)

// CallOutcome records how one reasoner call ended, including the state
// trail for auditing retry behavior.
type CallOutcome struct {
	Response *llm.ReviewResponse
	Attempts int
	States   []CallState
	Err      error
}

// ReasonerCaller drives the retry state machine
// Idle -> Calling -> Retrying(n) -> Succeeded | Failed around one
// provider call. Transient failures retry with exponential backoff;
// terminal failures (malformed responses, non-retryable API errors) fail
// immediately.
type ReasonerCaller struct {
	provider   llm.Provider
	maxRetries int
	backoff    time.Duration
	limiter    *rate.Limiter
}

// NewReasonerCaller creates a caller around a provider. A non-positive
// rate limit disables throttling.
func NewReasonerCaller(provider llm.Provider, maxRetries int, backoff time.Duration, rateLimit float64, burst int) *ReasonerCaller {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	var limiter *rate.Limiter
	if rateLimit > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rateLimit), burst)
	}
	return &ReasonerCaller{
		provider:   provider,
		maxRetries: maxRetries,
		backoff:    backoff,
		limiter:    limiter,
	}
}

// Call runs the state machine to completion. It never panics across the
// citation boundary; the terminal state and error are in the outcome.
func (c *ReasonerCaller) Call(ctx context.Context, req llm.ReviewRequest) CallOutcome {
	outcome := CallOutcome{States: []CallState{StateIdle}}

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				outcome.Err = err
				outcome.States = append(outcome.States, StateFailed)
				return outcome
			}
		}

		outcome.States = append(outcome.States, StateCalling)
		outcome.Attempts = attempt + 1

		resp, err := c.provider.Review(ctx, req)
		if err == nil {
			outcome.Response = resp
			outcome.Err = nil
			outcome.States = append(outcome.States, StateSucceeded)
			return outcome
		}
		outcome.Err = err

		if !llm.IsTransient(err) || attempt == c.maxRetries-1 {
			break
		}

		outcome.States = append(outcome.States, StateRetrying)
		retrySleepFunc(c.backoff * time.Duration(1<<uint(attempt)))
	}

	outcome.States = append(outcome.States, StateFailed)
	return outcome
}

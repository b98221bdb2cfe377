// Package worker runs footnote validations concurrently. Footnotes are
// independent of each other, so the pool imposes no ordering; callers
// re-sort results when they need a stable report.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Job is one schedulable unit of validation work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is a completed job's outcome
type Result interface {
	GetError() error
}

// Pool fans jobs out across a fixed set of workers. A pool is single
// use: Start it, Submit jobs, then Wait once for the results.
type Pool struct {
	workers int
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup
	done    chan struct{}
	stop    sync.Once
	drain   sync.Once
}

// NewPool creates a pool with the given worker count
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers),
		results: make(chan Result, workers),
		done:    make(chan struct{}),
	}
}

// Start launches the workers under ctx. Cancelling ctx stops the pool
// after at most one in-flight job per worker.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		// Stop signals win over queued jobs.
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			res := job.Execute(ctx)
			if err := res.GetError(); err != nil {
				log.Debug().Err(err).Int("worker", id).Msg("validation job failed")
			}
			select {
			case p.results <- res:
			case <-ctx.Done():
				return
			case <-p.done:
				return
			}
		}
	}
}

// Submit queues one job. Submitting after Shutdown is a no-op.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.done:
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for the workers to drain it, and returns
// every result in completion order.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for res := range p.results {
		results = append(results, res)
	}
	return results
}

// Shutdown stops the pool without draining the queue. In-flight jobs
// finish; queued jobs are discarded.
func (p *Pool) Shutdown() {
	p.stop.Do(func() { close(p.done) })
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.drain.Do(func() { close(p.results) })
}

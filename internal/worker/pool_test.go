package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countResult struct {
	err error
}

func (r *countResult) GetError() error { return r.err }

type countJob struct {
	executed *int32
	err      error
	duration time.Duration
}

func (j *countJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &countResult{err: ctx.Err()}
		}
	}
	return &countResult{err: j.err}
}

func TestNewPool_WorkerFloor(t *testing.T) {
	for _, workers := range []int{0, -3} {
		if p := NewPool(workers); p.workers != 1 {
			t.Errorf("Expected worker count floored to 1 for %d, got %d", workers, p.workers)
		}
	}
	if p := NewPool(5); p.workers != 5 {
		t.Errorf("Expected 5 workers, got %d", p.workers)
	}
}

func TestPool_RunsEveryJob(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())

	var executed int32
	const count = 10
	for i := 0; i < count; i++ {
		pool.Submit(&countJob{executed: &executed})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Errorf("Expected %d results, got %d", count, len(results))
	}
	if got := atomic.LoadInt32(&executed); got != count {
		t.Errorf("Expected %d executions, got %d", count, got)
	}
}

func TestPool_ErrorsSurfaceInResults(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())

	pool.Submit(&countJob{err: errors.New("validation failed")})
	pool.Submit(&countJob{})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	failed := 0
	for _, res := range results {
		if res.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("Expected exactly 1 failed result, got %d", failed)
	}
}

func TestPool_ConcurrencyBounded(t *testing.T) {
	const workers = 4
	pool := NewPool(workers)
	pool.Start(context.Background())

	var current, peak int32
	var mu sync.Mutex

	for i := 0; i < 20; i++ {
		pool.Submit(jobFunc(func(ctx context.Context) Result {
			n := atomic.AddInt32(&current, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return &countResult{}
		}))
	}
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	if peak > workers {
		t.Errorf("Expected at most %d concurrent jobs, got %d", workers, peak)
	}
}

// jobFunc adapts a function to the Job interface
type jobFunc func(ctx context.Context) Result

func (f jobFunc) Execute(ctx context.Context) Result { return f(ctx) }

func TestPool_SubmitAfterShutdownDoesNotBlock(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())
	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		pool.Submit(&countJob{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

func TestPool_ContextCancellationStopsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(1)
	pool.Start(ctx)

	started := make(chan struct{})
	pool.Submit(jobFunc(func(ctx context.Context) Result {
		close(started)
		<-ctx.Done()
		return &countResult{err: ctx.Err()}
	}))
	<-started
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after context cancellation")
	}
}

func TestPool_ShutdownDdiscardsQueued(t *testing.T) {
	pool := NewPool(1)
	pool.Start(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	var executed int32
	pool.Submit(jobFunc(func(ctx context.Context) Result {
		close(started)
		<-release
		return &countResult{}
	}))
	<-started
	pool.Submit(&countJob{executed: &executed})

	shutdownDone := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(shutdownDone)
	}()
	<-pool.done // stop signal visible before the worker frees up
	close(release)
	<-shutdownDone

	if got := atomic.LoadInt32(&executed); got != 0 {
		t.Errorf("Expected queued job discarded on shutdown, got %d executions", got)
	}
}

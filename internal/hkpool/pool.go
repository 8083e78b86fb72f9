// Package hkpool implements the bounded worker pool of spec.md §4.M:
// a fixed-concurrency executor for fan-out work (directory scans,
// per-module prologue parses, remote fetches) that still propagates the
// first error and supports cancellation.
//
// Grounded on golang-dep's parallel project-analysis fan-out in
// internal/gps/solver.go (bounded goroutines feeding a shared errgroup),
// rebuilt directly on golang.org/x/sync's errgroup and semaphore
// packages rather than hand-rolled channels, since those are exactly the
// primitives golang-dep itself reaches for there.
package hkpool

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool runs work items with at most N concurrently active at once.
type Pool struct {
	sem *semaphore.Weighted
	n   int64
}

// New returns a pool that runs at most n goroutines concurrently. n <= 0
// is treated as 1.
func New(n int) *Pool {
	if n <= 0 {
		n = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(n)), n: int64(n)}
}

// Run executes each of fns with bounded concurrency, returning the first
// error any of them returned (tasks already started still run to
// completion; once one has failed, tasks not yet started may be skipped).
// Run blocks until every started fn has completed.
func (p *Pool) Run(ctx context.Context, fns []func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		fn := fn
		if err := p.sem.Acquire(ctx, 1); err != nil {
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return err
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			return fn(ctx)
		})
	}
	return g.Wait()
}

// Future is a handle to one submitted unit of work whose result can be
// retrieved once; used where callers need each item's individual result
// rather than just the pool's first error (spec.md §4.M "per-item
// futures").
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Submit runs fn in the pool and returns a Future for its result. The
// pool's concurrency limit is still honored: Submit blocks until a slot
// is free before starting fn in its own goroutine.
func Submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		f.err = err
		close(f.done)
		return f
	}
	go func() {
		defer p.sem.Release(1)
		defer close(f.done)
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Wait blocks until f's work has completed and returns its result.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.val, f.err
}

package hkpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunExecutesAllTasks(t *testing.T) {
	p := New(2)
	var n int32
	fns := make([]func(ctx context.Context) error, 10)
	for i := range fns {
		fns[i] = func(ctx context.Context) error {
			atomic.AddInt32(&n, 1)
			return nil
		}
	}
	if err := p.Run(context.Background(), fns); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if n != 10 {
		t.Fatalf("tasks executed = %d, want 10", n)
	}
}

func TestRunPropagatesFirstError(t *testing.T) {
	p := New(4)
	want := errors.New("boom")
	fns := []func(ctx context.Context) error{
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return want },
		func(ctx context.Context) error { return nil },
	}
	err := p.Run(context.Background(), fns)
	if !errors.Is(err, want) {
		t.Fatalf("Run() error = %v, want %v", err, want)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	p := New(2)
	var cur, max int32
	fns := make([]func(ctx context.Context) error, 20)
	for i := range fns {
		fns[i] = func(ctx context.Context) error {
			n := atomic.AddInt32(&cur, 1)
			for {
				m := atomic.LoadInt32(&max)
				if n <= m || atomic.CompareAndSwapInt32(&max, m, n) {
					break
				}
			}
			atomic.AddInt32(&cur, -1)
			return nil
		}
	}
	if err := p.Run(context.Background(), fns); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if max > 2 {
		t.Fatalf("observed concurrency %d, want <= 2", max)
	}
}

func TestNewTreatsNonPositiveAsOne(t *testing.T) {
	p := New(0)
	if p.n != 1 {
		t.Fatalf("New(0).n = %d, want 1", p.n)
	}
}

func TestSubmitFutureReturnsValueAndError(t *testing.T) {
	p := New(1)
	f := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	v, err := f.Wait()
	if err != nil || v != 42 {
		t.Fatalf("Wait() = (%d, %v), want (42, nil)", v, err)
	}
}

func TestSubmitFuturePropagatesError(t *testing.T) {
	p := New(1)
	want := errors.New("failed")
	f := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
		return 0, want
	})
	_, err := f.Wait()
	if !errors.Is(err, want) {
		t.Fatalf("Wait() error = %v, want %v", err, want)
	}
}

func TestSubmitRespectsConcurrencyLimit(t *testing.T) {
	p := New(1)
	var cur, max int32
	futures := make([]*Future[struct{}], 5)
	for i := range futures {
		futures[i] = Submit(context.Background(), p, func(ctx context.Context) (struct{}, error) {
			n := atomic.AddInt32(&cur, 1)
			for {
				m := atomic.LoadInt32(&max)
				if n <= m || atomic.CompareAndSwapInt32(&max, m, n) {
					break
				}
			}
			atomic.AddInt32(&cur, -1)
			return struct{}{}, nil
		})
	}
	for _, f := range futures {
		f.Wait()
	}
	if max > 1 {
		t.Fatalf("observed concurrency %d, want <= 1", max)
	}
}

// Package engine provides an asynchronous Future/Promise primitive.
// internal/client builds its non-blocking call path on it: the producer
// completes the promise from a background goroutine and the caller awaits
// the future under its own context deadline.
package engine

import (
	"context"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Future represents the result of an asynchronous computation.
type Future[T any] interface {
	// Await blocks until the result is available or ctx is cancelled.
	Await(ctx context.Context) fn.Result[T]
}

// Promise allows a producer to complete the associated Future exactly
// once.
type Promise[T any] interface {
	// Complete fulfills the promise with the given result. Subsequent
	// calls are no-ops.
	Complete(result fn.Result[T])

	// Future returns the Future associated with this promise.
	Future() Future[T]
}

// chanPromise implements Promise/Future over a one-slot buffered channel.
// A sync.Once keeps Complete idempotent, so the channel receives exactly
// one value. The channel is never closed, so only one Await receives the
// result.
type chanPromise[T any] struct {
	ch   chan fn.Result[T]
	once sync.Once
}

// NewPromise creates a new, uncompleted Promise.
func NewPromise[T any]() Promise[T] {
	return &chanPromise[T]{
		ch: make(chan fn.Result[T], 1),
	}
}

// Complete implements Promise. Only the first call takes effect.
func (p *chanPromise[T]) Complete(result fn.Result[T]) {
	p.once.Do(func() {
		p.ch <- result
	})
}

// Future implements Promise.
func (p *chanPromise[T]) Future() Future[T] {
	return (*chanFuture[T])(p)
}

type chanFuture[T any] chanPromise[T]

// Await implements Future.
func (f *chanFuture[T]) Await(ctx context.Context) fn.Result[T] {
	select {
	case result := <-f.ch:
		return result
	case <-ctx.Done():
		return fn.Err[T](ctx.Err())
	}
}

//go:build !solution

// Package sharedres holds a single value guarded by a fair reader/writer lock.
package sharedres

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Rogov-KS/readwrite/eventlog"
	"github.com/Rogov-KS/readwrite/metrics"
	"github.com/Rogov-KS/readwrite/rwmutex"
)

// Resource is shared by every agent and owned by none of them.
// Readers observe the value under shared access, writers replace it under
// exclusive access. The lock is not re-entrant: a View or Update body must not
// call back into the same Resource.
type Resource[T any] struct {
	mu    *rwmutex.RWMutex
	value T

	sink      eventlog.Sink
	clock     clockwork.Clock
	readHold  time.Duration
	writeHold time.Duration
	metrics   *metrics.Lock
}

// Option configures a Resource created by New.
type Option func(*options)

type options struct {
	sink      eventlog.Sink
	clock     clockwork.Clock
	readHold  time.Duration
	writeHold time.Duration
	metrics   *metrics.Lock
}

// WithSink reports every read and write to sink. The default drops events.
func WithSink(sink eventlog.Sink) Option {
	return func(o *options) { o.sink = sink }
}

// WithClock sets the clock used for hold times and wait measurements.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithHold makes Read and Write keep the lock for the given durations,
// simulating slow work inside the critical section.
func WithHold(read, write time.Duration) Option {
	return func(o *options) {
		o.readHold = read
		o.writeHold = write
	}
}

// WithMetrics counts admissions and wait times in m.
func WithMetrics(m *metrics.Lock) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a Resource holding initial.
func New[T any](initial T, opts ...Option) *Resource[T] {
	o := options{
		sink:  eventlog.Nop(),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Resource[T]{
		mu:        rwmutex.New(),
		value:     initial,
		sink:      o.sink,
		clock:     o.clock,
		readHold:  o.readHold,
		writeHold: o.writeHold,
		metrics:   o.metrics,
	}
}

// Read acquires shared access and returns the current value.
func (r *Resource[T]) Read(readerID int) T {
	var out T
	r.View(readerID, func(v T) {
		r.sink.Record(eventlog.Event{Kind: eventlog.KindRead, AgentID: readerID, Value: v})
		r.hold(r.readHold)
		out = v
	})
	return out
}

// Write acquires exclusive access and replaces the value with v.
func (r *Resource[T]) Write(writerID int, v T) {
	r.Update(writerID, func(T) T {
		r.sink.Record(eventlog.Event{Kind: eventlog.KindWrite, AgentID: writerID, Value: v})
		r.hold(r.writeHold)
		return v
	})
}

// View runs fn with the current value under shared access.
// The lock is released even if fn panics.
func (r *Resource[T]) View(readerID int, fn func(v T)) {
	start := r.clock.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.metrics.ObserveAcquire("read", r.clock.Since(start))

	fn(r.value)
}

// Update replaces the value with the result of fn under exclusive access.
// If fn panics the value is left unchanged and the lock is released.
func (r *Resource[T]) Update(writerID int, fn func(v T) T) {
	start := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.ObserveAcquire("write", r.clock.Since(start))

	r.value = fn(r.value)
}

// Stats returns the state of the underlying lock.
func (r *Resource[T]) Stats() rwmutex.Stats {
	return r.mu.Stats()
}

func (r *Resource[T]) hold(d time.Duration) {
	if d > 0 {
		r.clock.Sleep(d)
	}
}

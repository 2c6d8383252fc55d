// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package corochan

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/0x5a17ed/corochan/coro"
	"github.com/0x5a17ed/corochan/internal/waitq"
)

// Channel is an unbuffered rendezvous channel. Every value written
// is handed to exactly one read; reads and writes parked on the
// channel are paired in arrival order.
//
// A Channel must not be copied after first use.
type Channel[T any] struct {
	mu sync.Mutex

	// At most one of the queues is non-empty at any time: an arriving
	// operation always takes a parked counterpart before parking.
	readers waitq.Queue[*ReadOp[T]]
	writers waitq.Queue[*WriteOp[T]]

	closing     bool
	outstanding int
	drained     chan struct{}

	name string
	log  logrus.Ext1FieldLogger
	obs  Observer

	paired    atomic.Uint64
	suspended atomic.Uint64
	poisoned  atomic.Uint64
}

// New returns an empty channel.
func New[T any](opts ...Option) *Channel[T] {
	cfg := defaultConfig()
	for _, f := range opts {
		f(&cfg)
	}

	return &Channel[T]{
		drained: make(chan struct{}),
		name:    cfg.name,
		log:     cfg.logger.WithField("channel", cfg.name),
		obs:     cfg.observer,
	}
}

// Name returns the name of the channel.
func (c *Channel[T]) Name() string {
	return c.name
}

// Write returns an operation writing v to the channel. Nothing
// happens until the operation is awaited.
func (c *Channel[T]) Write(v T) *WriteOp[T] {
	return &WriteOp[T]{ch: c, value: v}
}

// Read returns an operation reading from the channel. Nothing
// happens until the operation is awaited.
func (c *Channel[T]) Read() *ReadOp[T] {
	return &ReadOp[T]{ch: c}
}

// Send writes v on behalf of the task s, suspending it until a
// reader takes the value. Send reports false if the channel closed
// before that happened.
func (c *Channel[T]) Send(s coro.Suspender, v T) bool {
	return coro.Await[bool](s, c.Write(v))
}

// Recv reads a value on behalf of the task s, suspending it until
// a writer shows up. Recv reports false if the channel closed
// before that happened.
func (c *Channel[T]) Recv(s coro.Suspender) (T, bool) {
	return coro.Await[Result[T]](s, c.Read()).Get()
}

// Close closes the channel and waits until every outstanding
// operation took its result. See [Channel.CloseContext].
func (c *Channel[T]) Close() error {
	return c.CloseContext(context.Background())
}

// CloseContext closes the channel. Every parked operation is resumed
// with a failed result and every operation evaluated afterwards
// fails right away. CloseContext then waits until all operations
// started before the close took their results, or until ctx is done.
// The channel stays closed either way.
//
// Closing resumes parked tasks on the calling task. CloseContext
// returns [ErrClosed] if the channel was already closed.
func (c *Channel[T]) CloseContext(ctx context.Context) error {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closing = true
	readers, writers := c.readers.Drain(), c.writers.Drain()
	outstanding := c.outstanding
	if outstanding == 0 {
		close(c.drained)
	}
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"drained_readers": len(readers),
		"drained_writers": len(writers),
		"outstanding":     outstanding,
	}).Debug("closing channel")

	ks := make([]*coro.Continuation, 0, len(writers)+len(readers))
	for _, w := range writers {
		c.poison(Write)
		w.outcome = outcomeClosed
		ks = append(ks, w.takeContinuation())
	}
	for _, r := range readers {
		c.poison(Read)
		r.outcome = outcomeClosed
		ks = append(ks, r.takeContinuation())
	}
	resumeAll(ks)
	c.obs.Closed(c.name)

	select {
	case <-c.drained:
		c.log.Debug("channel drained")
		return nil
	default:
	}

	select {
	case <-c.drained:
		c.log.Debug("channel drained")
		return nil
	case <-ctx.Done():
		c.log.WithError(ctx.Err()).Warn("channel closed with operations outstanding")
		return ctx.Err()
	}
}

// resumeAll resumes every continuation in ks. A panic raised by a
// resumed task is raised again once the remaining ones were resumed.
func resumeAll(ks []*coro.Continuation) {
	i := 0
	defer func() {
		if i < len(ks) {
			resumeAll(ks[i+1:])
		}
	}()
	for ; i < len(ks); i++ {
		ks[i].Resume()
	}
}

// Stats is a snapshot of the state of a channel.
type Stats struct {
	Name string

	// QueuedReaders and QueuedWriters count the parked operations.
	QueuedReaders int
	QueuedWriters int

	// Outstanding counts operations admitted but not yet completed.
	Outstanding int

	Closed bool

	// Paired counts operations completing without suspending,
	// Suspended operations that parked and Poisoned operations
	// failing because of the close.
	Paired    uint64
	Suspended uint64
	Poisoned  uint64
}

// Stats returns a snapshot of the channel state.
func (c *Channel[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Name:          c.name,
		QueuedReaders: c.readers.Len(),
		QueuedWriters: c.writers.Len(),
		Outstanding:   c.outstanding,
		Closed:        c.closing,
		Paired:        c.paired.Load(),
		Suspended:     c.suspended.Load(),
		Poisoned:      c.poisoned.Load(),
	}
}

// acquire registers an operation being evaluated. It reports false
// once the channel is closing. c.mu must be held.
func (c *Channel[T]) acquire() bool {
	if c.closing {
		return false
	}
	c.outstanding++
	return true
}

// release unregisters an operation that took its result.
func (c *Channel[T]) release() {
	c.mu.Lock()
	c.outstanding--
	if c.closing && c.outstanding == 0 {
		close(c.drained)
	}
	c.mu.Unlock()
}

func (c *Channel[T]) pair(s Side) {
	c.paired.Add(1)
	c.obs.Paired(c.name, s)
	c.log.Tracef("%s paired with parked counterpart", s)
}

func (c *Channel[T]) park(s Side) {
	c.suspended.Add(1)
	c.obs.Suspended(c.name, s)
	c.log.Tracef("%s parked", s)
}

func (c *Channel[T]) poison(s Side) {
	c.poisoned.Add(1)
	c.obs.Poisoned(c.name, s)
}

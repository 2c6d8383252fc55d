// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package corochan

import "github.com/0x5a17ed/corochan/coro"

type opState uint8

const (
	probing opState = iota

	// locked: Ready reported false and the channel lock is held
	// until Suspend parks the operation.
	locked

	suspended
	ready
	resumed
)

type outcome uint8

const (
	outcomePending outcome = iota
	outcomeOK
	outcomeClosed
)

// Result is the outcome of a read. OK is false if the channel
// closed before a value arrived.
type Result[T any] struct {
	Value T
	OK    bool
}

// Get returns the value and whether it was received.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.OK
}

// ReadOp is a pending read. It implements [coro.Awaiter] and is
// meant to be awaited exactly once with [coro.Await].
type ReadOp[T any] struct {
	ch *Channel[T]

	state   opState
	outcome outcome
	tracked bool

	// value is filled in by the writer resuming a parked read.
	value T

	// k is the continuation of the task while the read is parked.
	k *coro.Continuation

	// peer is the parked write a ready read took its value from.
	peer *WriteOp[T]
}

// Ready pairs the read with the oldest parked write, if any, and
// reports whether the read completed without suspending. When Ready
// reports false the channel stays locked until [ReadOp.Suspend]
// parks the read, so Suspend must follow immediately.
func (op *ReadOp[T]) Ready() bool {
	if op.state != probing {
		panic(ErrOpReused)
	}

	c := op.ch
	c.mu.Lock()
	if !c.acquire() {
		c.mu.Unlock()
		op.state, op.outcome = ready, outcomeClosed
		c.poison(Read)
		c.log.Trace("read rejected by closed channel")
		return true
	}
	op.tracked = true

	w, ok := c.writers.Pop()
	if !ok {
		op.state = locked
		return false
	}
	c.mu.Unlock()

	op.peer = w
	op.state, op.outcome = ready, outcomeOK
	c.pair(Read)
	return true
}

// Suspend parks the read with the continuation k of the awaiting
// task and unlocks the channel.
func (op *ReadOp[T]) Suspend(k *coro.Continuation) {
	if op.state != locked {
		panic(ErrOpReused)
	}

	c := op.ch
	op.k = k
	op.state = suspended
	c.readers.Push(op)
	c.mu.Unlock()

	c.park(Read)
}

// Resume returns the result of the read. A read that took its value
// from a parked write resumes that write before returning.
func (op *ReadOp[T]) Resume() Result[T] {
	op.finish()
	if op.outcome == outcomeClosed {
		op.release()
		return Result[T]{}
	}

	v := op.value
	var zero T
	op.value = zero

	var next *coro.Continuation
	if w := op.peer; w != nil {
		op.peer = nil
		v = w.value
		w.outcome = outcomeOK
		next = w.takeContinuation()
	}

	op.release()
	if next != nil {
		next.Resume()
	}
	return Result[T]{Value: v, OK: true}
}

func (op *ReadOp[T]) finish() {
	switch {
	case op.state == resumed:
		panic(ErrOpReused)
	case op.outcome == outcomePending:
		panic(ErrNotResumed)
	}
	op.state = resumed
}

func (op *ReadOp[T]) release() {
	if op.tracked {
		op.tracked = false
		op.ch.release()
	}
}

func (op *ReadOp[T]) takeContinuation() *coro.Continuation {
	k := op.k
	op.k = nil
	return k
}

// WriteOp is a pending write. It implements [coro.Awaiter] and is
// meant to be awaited exactly once with [coro.Await].
type WriteOp[T any] struct {
	ch *Channel[T]

	state   opState
	outcome outcome
	tracked bool

	value T

	// k is the continuation of the task while the write is parked.
	k *coro.Continuation

	// peer is the parked read a ready write hands its value to.
	peer *ReadOp[T]
}

// Ready pairs the write with the oldest parked read, if any, and
// reports whether the write completed without suspending. When
// Ready reports false the channel stays locked until
// [WriteOp.Suspend] parks the write, so Suspend must follow
// immediately.
func (op *WriteOp[T]) Ready() bool {
	if op.state != probing {
		panic(ErrOpReused)
	}

	c := op.ch
	c.mu.Lock()
	if !c.acquire() {
		c.mu.Unlock()
		op.state, op.outcome = ready, outcomeClosed
		c.poison(Write)
		c.log.Trace("write rejected by closed channel")
		return true
	}
	op.tracked = true

	r, ok := c.readers.Pop()
	if !ok {
		op.state = locked
		return false
	}
	c.mu.Unlock()

	op.peer = r
	op.state, op.outcome = ready, outcomeOK
	c.pair(Write)
	return true
}

// Suspend parks the write with the continuation k of the awaiting
// task and unlocks the channel.
func (op *WriteOp[T]) Suspend(k *coro.Continuation) {
	if op.state != locked {
		panic(ErrOpReused)
	}

	c := op.ch
	op.k = k
	op.state = suspended
	c.writers.Push(op)
	c.mu.Unlock()

	c.park(Write)
}

// Resume reports whether a reader took the value. A write that
// handed its value to a parked read resumes that read before
// returning.
func (op *WriteOp[T]) Resume() bool {
	op.finish()
	if op.outcome == outcomeClosed {
		op.release()
		return false
	}

	var next *coro.Continuation
	if r := op.peer; r != nil {
		op.peer = nil
		r.value = op.value
		r.outcome = outcomeOK
		next = r.takeContinuation()
	}

	var zero T
	op.value = zero

	op.release()
	if next != nil {
		next.Resume()
	}
	return true
}

func (op *WriteOp[T]) finish() {
	switch {
	case op.state == resumed:
		panic(ErrOpReused)
	case op.outcome == outcomePending:
		panic(ErrNotResumed)
	}
	op.state = resumed
}

func (op *WriteOp[T]) release() {
	if op.tracked {
		op.tracked = false
		op.ch.release()
	}
}

func (op *WriteOp[T]) takeContinuation() *coro.Continuation {
	k := op.k
	op.k = nil
	return k
}

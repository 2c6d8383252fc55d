// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package coro

import (
	"errors"
	"sync/atomic"
)

// ErrStopped is the panic value a pending yield raises inside a
// coroutine that is being stopped with [C.Stop]. Coroutines must not
// swallow it.
var ErrStopped = errors.New("coro: coroutine stopped")

type msg[T any] struct {
	panic any
	value T
	ok    bool
}

// C is a coroutine receiving an I on every resume and handing back
// an O on every yield.
type C[I, O any] struct {
	fn func(in I, yield func(O) I) (O, bool)

	cin      chan msg[I]
	cout     chan msg[O]
	finished chan struct{}

	started atomic.Bool
	done    atomic.Bool
}

func newC[I, O any](fn func(in I, yield func(O) I) (O, bool)) *C[I, O] {
	return &C[I, O]{
		fn:       fn,
		cin:      make(chan msg[I]),
		cout:     make(chan msg[O]),
		finished: make(chan struct{}),
	}
}

// NewSub returns a coroutine running the subroutine fn. The resume
// that observes fn returning reports false.
func NewSub[I, O any](fn func(in I, yield func(O) I)) *C[I, O] {
	return newC(func(in I, yield func(O) I) (out O, ok bool) {
		fn(in, yield)
		return
	})
}

// NewFn returns a coroutine running the function fn. The value fn
// returns is handed to the resume that observes its completion.
func NewFn[I, O any](fn func(in I, yield func(O) I) O) *C[I, O] {
	return newC(func(in I, yield func(O) I) (O, bool) {
		return fn(in, yield), true
	})
}

// Resume passes in to the coroutine and blocks until the coroutine
// yields the next value or returns. Once the coroutine finished,
// Resume reports false. A panic inside the coroutine is raised
// again in the caller of Resume.
//
// Resume may be called from another goroutine than the previous
// resume as long as the coroutine is parked in a yield by then.
func (c *C[I, O]) Resume(in I) (out O, ok bool) {
	if c.done.Load() {
		return out, false
	}
	if c.started.CompareAndSwap(false, true) {
		go c.run()
	}

	select {
	case c.cin <- msg[I]{value: in}:
	case <-c.finished:
		return out, false
	}

	m := <-c.cout
	if m.panic != nil {
		panic(m.panic)
	}
	return m.value, m.ok
}

// Stop unwinds a suspended coroutine by making its pending yield
// panic with [ErrStopped]. Deferred calls inside the coroutine run
// before Stop returns. Stopping a coroutine that never started or
// already finished does nothing.
func (c *C[I, O]) Stop() {
	if c.started.CompareAndSwap(false, true) {
		c.done.Store(true)
		close(c.finished)
		return
	}
	if c.done.Load() {
		return
	}

	select {
	case c.cin <- msg[I]{panic: ErrStopped}:
	case <-c.finished:
		return
	}

	m := <-c.cout
	if m.panic != nil {
		panic(m.panic)
	}
}

// Done reports whether the coroutine has finished.
func (c *C[I, O]) Done() bool {
	return c.done.Load()
}

func (c *C[I, O]) yield(out O) I {
	c.cout <- msg[O]{value: out, ok: true}

	m := <-c.cin
	if m.panic != nil {
		panic(m.panic)
	}
	return m.value
}

func (c *C[I, O]) run() {
	var last msg[O]
	defer func() {
		if p := recover(); p != nil && p != ErrStopped {
			last = msg[O]{panic: p}
		}
		c.done.Store(true)
		c.cout <- last
		close(c.finished)
	}()

	m := <-c.cin
	if m.panic != nil {
		panic(m.panic)
	}

	out, ok := c.fn(m.value, c.yield)
	last = msg[O]{value: out, ok: ok}
}

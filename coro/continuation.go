// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package coro

import (
	"errors"
	"sync/atomic"
)

// ErrResumed is the panic value raised when a [Continuation] is
// resumed a second time.
var ErrResumed = errors.New("coro: continuation already resumed")

// Continuation is a single-use handle to a suspended task. Whoever
// holds it resumes the task exactly once.
type Continuation struct {
	resume  func()
	resumed atomic.Bool
}

// NewContinuation returns a Continuation calling resume once it is
// resumed. It lets task runtimes other than [Task] and [Blocking]
// plug into awaitable values.
func NewContinuation(resume func()) *Continuation {
	return &Continuation{resume: resume}
}

// Resume wakes the suspended task. Depending on the runtime the
// call returns right away or only once the task suspends again.
// Resume panics with [ErrResumed] when called twice.
func (k *Continuation) Resume() {
	if !k.resumed.CompareAndSwap(false, true) {
		panic(ErrResumed)
	}
	resume := k.resume
	k.resume = nil
	resume()
}

// Resumed reports whether Resume was called.
func (k *Continuation) Resumed() bool {
	return k.resumed.Load()
}

// Suspender is implemented by cooperative tasks able to park
// themselves.
type Suspender interface {
	// Suspend hands a fresh continuation of the calling task to
	// park and blocks the task until the continuation is resumed.
	// park runs on the calling task before it gives up control.
	Suspend(park func(k *Continuation))
}

type blocking struct{}

// Blocking returns a Suspender parking the calling goroutine. Its
// continuations do not block the goroutine resuming them.
func Blocking() Suspender {
	return blocking{}
}

func (blocking) Suspend(park func(k *Continuation)) {
	wake := make(chan struct{})
	park(NewContinuation(func() { close(wake) }))
	<-wake
}

// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package coro

// Task is a cooperative task backed by a coroutine. A task runs
// only while somebody resumes it: resuming the continuation of a
// suspended task blocks the resumer until the task suspends again
// or finishes.
type Task struct {
	c     *C[struct{}, struct{}]
	yield func(struct{}) struct{}
}

// Spawn starts a task running fn and returns once fn suspends for
// the first time or returns.
func Spawn(fn func(t *Task)) *Task {
	t := &Task{}
	t.c = NewSub(func(_ struct{}, yield func(struct{}) struct{}) {
		t.yield = yield
		fn(t)
	})
	t.c.Resume(struct{}{})
	return t
}

// Suspend implements [Suspender]. It must only be called from
// within the task itself.
func (t *Task) Suspend(park func(k *Continuation)) {
	park(NewContinuation(t.resume))
	t.yield(struct{}{})
}

// Done reports whether the task function returned.
func (t *Task) Done() bool {
	return t.c.Done()
}

// Stop unwinds a suspended task. A continuation of the task that is
// still held somewhere becomes a no-op.
func (t *Task) Stop() {
	t.c.Stop()
}

func (t *Task) resume() {
	t.c.Resume(struct{}{})
}

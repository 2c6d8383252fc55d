// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package coro

// Awaiter is a value a task can wait on, producing an R.
//
// Ready is evaluated first. When it reports false the awaiting task
// suspends and the continuation of the task is handed to Suspend.
// Resume then produces the result, either right after a true Ready
// or once the continuation was resumed.
type Awaiter[R any] interface {
	Ready() bool
	Suspend(k *Continuation)
	Resume() R
}

// Await drives a through its Ready, Suspend and Resume steps on
// behalf of the task s and returns the result.
func Await[R any](s Suspender, a Awaiter[R]) R {
	if !a.Ready() {
		s.Suspend(a.Suspend)
	}
	return a.Resume()
}

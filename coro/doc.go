// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package coro provides an implementation of coroutines built on
// top of Go's goroutines for the execution, suspension and resuming
// of generalized subroutines and functions for cooperative multitasking.
//
// Only one side of a coroutine runs at any time: [C.Resume] blocks
// the caller until the coroutine yields, finishes or panics, and the
// coroutine stays parked until the next resume. On top of [C] the
// package offers [Task], a coroutine that suspends itself by handing
// out a single-use [Continuation], and the [Awaiter] contract used by
// awaitable values such as rendezvous channel operations.
//
// Based on the wonderful [blog post] shared by Rus Cox.
//
// [blog post]: https://research.swtch.com/coro
package coro

// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package corochan provides an unbuffered rendezvous channel for
// cooperatively scheduled tasks.
//
// A [Channel] pairs one pending write with one pending read. Whichever
// side arrives first parks its task until a counterpart shows up; the
// counterpart completes the transfer without suspending and resumes
// the parked task itself. Nothing is ever buffered.
//
// Operations are awaitable values following the [coro.Awaiter]
// contract, so any task runtime able to hand out a [coro.Continuation]
// can drive them:
//
//	ch := corochan.New[int]()
//	coro.Spawn(func(t *coro.Task) {
//		for v, ok := ch.Recv(t); ok; v, ok = ch.Recv(t) {
//			fmt.Println(v)
//		}
//	})
//	coro.Spawn(func(t *coro.Task) {
//		ch.Send(t, 42)
//	})
//
// [Channel.Close] resumes every parked operation with a failed result
// and rejects operations arriving afterwards, then waits until all
// outstanding operations have taken their results.
package corochan

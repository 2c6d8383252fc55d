// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package waitq implements the FIFO queues parked channel operations
// wait in.
package waitq

import "sync"

type node[T any] struct {
	value T
	next  *node[T]
}

func (n *node[T]) zero() {
	var v T
	n.value = v
	n.next = nil
}

// Queue is a FIFO of values. Nodes are owned by the queue and
// recycled once popped, the queued values never link to each
// other. The zero value is an empty queue.
//
// A Queue is not safe for concurrent use.
type Queue[T any] struct {
	head *node[T]
	tail *node[T]
	len  int

	nodes sync.Pool
}

// Push appends v at the tail.
func (q *Queue[T]) Push(v T) {
	n, _ := q.nodes.Get().(*node[T])
	if n == nil {
		n = &node[T]{}
	}
	n.value = v

	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.len++
}

// Pop removes and returns the value at the head.
func (q *Queue[T]) Pop() (v T, ok bool) {
	n := q.head
	if n == nil {
		return v, false
	}

	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.len--

	v = n.value
	n.zero()
	q.nodes.Put(n)
	return v, true
}

// Empty reports whether the queue holds no values.
func (q *Queue[T]) Empty() bool {
	return q.head == nil
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	return q.len
}

// Drain removes all values and returns them in arrival order.
func (q *Queue[T]) Drain() []T {
	if q.len == 0 {
		return nil
	}
	out := make([]T, 0, q.len)
	for {
		v, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

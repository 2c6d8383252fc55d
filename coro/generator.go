// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package coro

import "iter"

// Generator produces a sequence of values from a function yielding
// them one at a time.
type Generator[T any] struct {
	c *C[struct{}, T]
}

// NewGenerator returns a Generator for the values fn yields. fn does
// not start running before the first call to Next.
func NewGenerator[T any](fn func(yield func(T))) *Generator[T] {
	return &Generator[T]{
		c: NewSub(func(_ struct{}, yield func(T) struct{}) {
			fn(func(v T) { yield(v) })
		}),
	}
}

// Next returns the next value, or false once fn returned.
func (g *Generator[T]) Next() (T, bool) {
	return g.c.Resume(struct{}{})
}

// Stop abandons the remaining values.
func (g *Generator[T]) Stop() {
	g.c.Stop()
}

// All returns an iterator over the remaining values. Leaving the
// range loop early stops the generator.
func (g *Generator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer g.Stop()
		for {
			v, ok := g.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

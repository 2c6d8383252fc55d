// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package corochan_test

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/0x5a17ed/corochan"
	"github.com/0x5a17ed/corochan/coro"
)

// countingSuspender parks goroutines and counts how often their
// continuations get resumed.
type countingSuspender struct {
	resumes *atomic.Int64
}

func (s countingSuspender) Suspend(park func(k *coro.Continuation)) {
	coro.Blocking().Suspend(func(k *coro.Continuation) {
		park(coro.NewContinuation(func() {
			s.resumes.Add(1)
			k.Resume()
		}))
	})
}

func TestConcurrentTransfers(t *testing.T) {
	defer goleak.VerifyNone(t)

	const (
		producers   = 4
		consumers   = 4
		perProducer = 250
	)

	ch := corochan.New[int]()
	var resumes atomic.Int64
	s := countingSuspender{&resumes}

	var cg errgroup.Group
	got := make([][]int, consumers)
	for i := 0; i < consumers; i++ {
		i := i
		cg.Go(func() error {
			for v, ok := ch.Recv(s); ok; v, ok = ch.Recv(s) {
				got[i] = append(got[i], v)
			}
			return nil
		})
	}

	var pg errgroup.Group
	for p := 0; p < producers; p++ {
		p := p
		pg.Go(func() error {
			for n := 0; n < perProducer; n++ {
				assert.True(t, ch.Send(s, p*perProducer+n))
			}
			return nil
		})
	}
	require.NoError(t, pg.Wait())
	require.NoError(t, ch.Close())
	require.NoError(t, cg.Wait())

	var all []int
	for _, values := range got {
		// Writes of one producer reach every consumer in order.
		last := map[int]int{}
		for _, v := range values {
			p := v / perProducer
			if prev, seen := last[p]; seen {
				assert.Greater(t, v, prev)
			}
			last[p] = v
		}
		all = append(all, values...)
	}

	sort.Ints(all)
	require.Len(t, all, producers*perProducer)
	for i, v := range all {
		require.Equal(t, i, v, "every value is received exactly once")
	}

	st := ch.Stats()
	assert.Zero(t, st.Outstanding)
	assert.Equal(t, st.Suspended, uint64(resumes.Load()), "every parked operation is resumed exactly once")
}

func TestCloseRacingReaders(t *testing.T) {
	defer goleak.VerifyNone(t)

	const k = 200

	ch := corochan.New[int]()
	var resumes atomic.Int64
	s := countingSuspender{&resumes}

	var g errgroup.Group
	var failed atomic.Int64
	for i := 0; i < k; i++ {
		g.Go(func() error {
			if _, ok := ch.Recv(s); !ok {
				failed.Add(1)
			}
			return nil
		})
	}

	require.Eventually(t, func() bool {
		return ch.Stats().QueuedReaders >= k/2
	}, 5*time.Second, time.Millisecond)
	require.NoError(t, ch.Close())
	require.NoError(t, g.Wait())

	st := ch.Stats()
	assert.Equal(t, int64(k), failed.Load())
	assert.Equal(t, uint64(k), st.Poisoned)
	assert.Zero(t, st.Outstanding)
	assert.Equal(t, st.Suspended, uint64(resumes.Load()))
}

func TestCloseWaitsForOutstanding(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := corochan.New[int]()

	r := ch.Read()
	require.False(t, r.Ready())
	var resumed bool
	r.Suspend(coro.NewContinuation(func() { resumed = true }))

	// Paired with the parked read, but neither side took its result.
	w := ch.Write(5)
	require.True(t, w.Ready())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, ch.CloseContext(ctx), context.DeadlineExceeded)
	assert.Equal(t, 2, ch.Stats().Outstanding)
	assert.False(t, resumed, "a paired read is not drained")

	assert.False(t, ch.Send(coro.Blocking(), 1))

	assert.True(t, w.Resume())
	assert.True(t, resumed)
	assert.Equal(t, 1, ch.Stats().Outstanding)

	assert.Equal(t, corochan.Result[int]{Value: 5, OK: true}, r.Resume())
	assert.Zero(t, ch.Stats().Outstanding)
}

func TestCloseReturnsOnceDrained(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := corochan.New[int]()

	w := ch.Write(1)
	require.False(t, w.Ready())
	w.Suspend(coro.NewContinuation(func() {}))

	r := ch.Read()
	require.True(t, r.Ready())

	closed := make(chan error, 1)
	go func() { closed <- ch.Close() }()

	select {
	case err := <-closed:
		t.Fatalf("close returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	res := r.Resume()
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.Value)
	assert.True(t, w.Resume())

	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return")
	}
}

func TestCloseContextAfterDrain(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 100; i++ {
		ch := corochan.New[int]()
		require.NoError(t, ch.CloseContext(ctx), "idle channel %d", i)
	}

	// Parked tasks are resumed and done before the wait starts.
	ch := corochan.New[int]()
	coro.Spawn(func(tk *coro.Task) { ch.Recv(tk) })
	coro.Spawn(func(tk *coro.Task) { ch.Recv(tk) })
	require.Equal(t, 2, ch.Stats().QueuedReaders)
	assert.NoError(t, ch.CloseContext(ctx))
	assert.Zero(t, ch.Stats().Outstanding)
}

func TestClosePanickingReader(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := corochan.New[int]()

	coro.Spawn(func(tk *coro.Task) {
		ch.Recv(tk)
		panic("boom")
	})

	var second *received
	coro.Spawn(func(tk *coro.Task) {
		v, ok := ch.Recv(tk)
		second = &received{v, ok}
	})
	require.Equal(t, 2, ch.Stats().QueuedReaders)

	assert.PanicsWithValue(t, "boom", func() { _ = ch.Close() })

	require.NotNil(t, second, "the reader parked behind the panicking one was not resumed")
	assert.False(t, second.OK)

	st := ch.Stats()
	assert.True(t, st.Closed)
	assert.Zero(t, st.Outstanding)
	assert.Equal(t, uint64(2), st.Poisoned)
}

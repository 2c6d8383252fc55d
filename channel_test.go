// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package corochan_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/0x5a17ed/corochan"
	"github.com/0x5a17ed/corochan/coro"
)

type received struct {
	Value int
	OK    bool
}

const bye = 0

func TestConsumerOwnedChannel(t *testing.T) {
	defer goleak.VerifyNone(t)

	var (
		reads       []received
		writes      []bool
		producerEnd bool
	)

	producer := func(ch *corochan.Channel[int]) *coro.Task {
		return coro.Spawn(func(tk *coro.Task) {
			for _, msg := range []int{1, 2, 3, bye} {
				writes = append(writes, ch.Send(tk, msg))
			}
			// The consumer is gone by now, this one has to fail.
			writes = append(writes, ch.Send(tk, -1))
			producerEnd = true
		})
	}

	owner := coro.Spawn(func(tk *coro.Task) {
		ch := corochan.New[int]()
		p := producer(ch)
		assert.False(t, p.Done())

		for v, ok := ch.Recv(tk); ok; v, ok = ch.Recv(tk) {
			reads = append(reads, received{v, ok})
			if v == bye {
				break
			}
		}
		assert.NoError(t, ch.Close())
		assert.True(t, p.Done())
	})

	assert.True(t, owner.Done())
	assert.True(t, producerEnd)
	assert.Equal(t, []received{{1, true}, {2, true}, {3, true}, {bye, true}}, reads)
	assert.Equal(t, []bool{true, true, true, true, false}, writes)
}

func TestProducerOwnedChannel(t *testing.T) {
	defer goleak.VerifyNone(t)

	var (
		reads       []received
		consumerEnd bool
	)

	consumer := func(ch *corochan.Channel[int]) *coro.Task {
		return coro.Spawn(func(tk *coro.Task) {
			for v, ok := ch.Recv(tk); ok; v, ok = ch.Recv(tk) {
				reads = append(reads, received{v, ok})
				if v == bye {
					break
				}
			}
			// Read once more: the producer closes the channel.
			v, ok := ch.Recv(tk)
			reads = append(reads, received{v, ok})
			consumerEnd = true
		})
	}

	var writes []bool
	owner := coro.Spawn(func(tk *coro.Task) {
		ch := corochan.New[int]()
		c := consumer(ch)
		assert.False(t, c.Done())

		for _, msg := range []int{1, 2, 3, bye} {
			writes = append(writes, ch.Send(tk, msg))
		}
		assert.False(t, c.Done())

		assert.NoError(t, ch.Close())
		assert.True(t, c.Done())
	})

	assert.True(t, owner.Done())
	assert.True(t, consumerEnd)
	assert.Equal(t, []bool{true, true, true, true}, writes)
	assert.Equal(t, []received{{1, true}, {2, true}, {3, true}, {bye, true}, {0, false}}, reads)
}

func TestFirstArrivalSuspends(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := corochan.New[string]()

	var (
		value string
		ok    bool
	)
	reader := coro.Spawn(func(tk *coro.Task) {
		value, ok = ch.Recv(tk)
	})

	require.False(t, reader.Done())
	assert.Equal(t, 1, ch.Stats().QueuedReaders)

	w := ch.Write("hello")
	require.True(t, w.Ready(), "a parked reader completes the write synchronously")
	assert.False(t, reader.Done(), "the reader runs once the writer resumes it")

	assert.True(t, w.Resume())
	assert.True(t, reader.Done())
	assert.True(t, ok)
	assert.Equal(t, "hello", value)

	st := ch.Stats()
	assert.Zero(t, st.QueuedReaders)
	assert.Zero(t, st.Outstanding)
	assert.Equal(t, uint64(1), st.Paired)
	assert.Equal(t, uint64(1), st.Suspended)

	assert.NoError(t, ch.Close())
}

func TestDirectHandOff(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := corochan.New[int]()
	var trace []string

	coro.Spawn(func(tk *coro.Task) {
		for {
			v, ok := ch.Recv(tk)
			if !ok {
				trace = append(trace, "reader closed")
				return
			}
			trace = append(trace, fmt.Sprint("reader got ", v))
		}
	})

	coro.Spawn(func(tk *coro.Task) {
		for i := 1; i <= 2; i++ {
			trace = append(trace, fmt.Sprint("writer send ", i))
			ch.Send(tk, i)
			trace = append(trace, fmt.Sprint("writer sent ", i))
		}
	})

	require.NoError(t, ch.Close())
	assert.Equal(t, []string{
		"writer send 1",
		"reader got 1",
		"writer sent 1",
		"writer send 2",
		"reader got 2",
		"writer sent 2",
		"reader closed",
	}, trace)
}

func TestFairness(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := corochan.New[int]()
	got := map[string]received{}

	for _, name := range []string{"A", "B", "C"} {
		name := name
		coro.Spawn(func(tk *coro.Task) {
			v, ok := ch.Recv(tk)
			got[name] = received{v, ok}
		})
	}
	require.Equal(t, 3, ch.Stats().QueuedReaders)

	coro.Spawn(func(tk *coro.Task) {
		assert.True(t, ch.Send(tk, 7))
	})

	assert.Equal(t, map[string]received{"A": {7, true}}, got)
	assert.Equal(t, 2, ch.Stats().QueuedReaders)

	require.NoError(t, ch.Close())
	assert.Equal(t, map[string]received{
		"A": {7, true},
		"B": {0, false},
		"C": {0, false},
	}, got)
}

func TestWritersFIFO(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := corochan.New[int]()
	for i := 1; i <= 5; i++ {
		i := i
		coro.Spawn(func(tk *coro.Task) {
			ch.Send(tk, i)
		})
	}
	require.Equal(t, 5, ch.Stats().QueuedWriters)
	require.Zero(t, ch.Stats().QueuedReaders)

	var got []int
	coro.Spawn(func(tk *coro.Task) {
		for i := 0; i < 5; i++ {
			v, ok := ch.Recv(tk)
			assert.True(t, ok)
			got = append(got, v)
		}
	})

	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	require.NoError(t, ch.Close())
}

func TestCloseDrainsParked(t *testing.T) {
	defer goleak.VerifyNone(t)

	const k = 64

	ch := corochan.New[int]()
	results := make([]*received, k)
	for i := 0; i < k; i++ {
		i := i
		coro.Spawn(func(tk *coro.Task) {
			v, ok := ch.Recv(tk)
			results[i] = &received{v, ok}
		})
	}
	require.Equal(t, k, ch.Stats().QueuedReaders)

	require.NoError(t, ch.Close())
	for i, r := range results {
		require.NotNil(t, r, "reader %d was not resumed", i)
		assert.False(t, r.OK)
	}

	st := ch.Stats()
	assert.True(t, st.Closed)
	assert.Zero(t, st.QueuedReaders)
	assert.Zero(t, st.Outstanding)
	assert.Equal(t, uint64(k), st.Poisoned)
}

func TestCloseTwice(t *testing.T) {
	ch := corochan.New[int]()
	require.NoError(t, ch.Close())
	assert.ErrorIs(t, ch.Close(), corochan.ErrClosed)
}

func TestOperationsAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := corochan.New[int]()
	require.NoError(t, ch.Close())

	task := coro.Spawn(func(tk *coro.Task) {
		assert.False(t, ch.Send(tk, 1))
		_, ok := ch.Recv(tk)
		assert.False(t, ok)
	})

	assert.True(t, task.Done(), "operations on a closed channel never suspend")
	st := ch.Stats()
	assert.Equal(t, uint64(2), st.Poisoned)
	assert.Zero(t, st.Suspended)
	assert.Zero(t, st.Outstanding)
}

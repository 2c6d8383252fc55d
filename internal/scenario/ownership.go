// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package scenario

import (
	"github.com/sirupsen/logrus"

	"github.com/0x5a17ed/corochan"
	"github.com/0x5a17ed/corochan/coro"
)

// Bye ends a conversation.
const Bye = 0

var messages = []int{1, 2, 3, Bye}

// Owner names the task owning the channel.
type Owner string

const (
	ConsumerOwner Owner = "consumer"
	ProducerOwner Owner = "producer"
)

// OwnershipReport is what both sides of an ownership run observed.
type OwnershipReport struct {
	Owner  Owner
	Reads  []corochan.Result[int]
	Writes []bool

	// ClosedDetected is set when the task not owning the channel saw
	// its last operation fail after the owner went away.
	ClosedDetected bool
}

// Ownership runs a producer task and a consumer task exchanging
// 1, 2, 3 and Bye over a channel created and closed by owner. The
// other task issues one more operation after Bye, which has to fail
// once the owner closed the channel.
func Ownership(owner Owner, log logrus.Ext1FieldLogger, opts ...corochan.Option) OwnershipReport {
	rep := OwnershipReport{Owner: owner}
	opts = append([]corochan.Option{corochan.WithLogger(log)}, opts...)

	consume := func(t *coro.Task, ch *corochan.Channel[int]) {
		for {
			v, ok := ch.Recv(t)
			rep.Reads = append(rep.Reads, corochan.Result[int]{Value: v, OK: ok})
			if !ok || v == Bye {
				log.Info("consumer loop exit")
				return
			}
		}
	}

	produce := func(t *coro.Task, ch *corochan.Channel[int]) {
		for _, msg := range messages {
			rep.Writes = append(rep.Writes, ch.Send(t, msg))
		}
		log.Info("producer loop exit")
	}

	switch owner {
	case ConsumerOwner:
		coro.Spawn(func(t *coro.Task) {
			ch := corochan.New[int](opts...)
			coro.Spawn(func(t *coro.Task) {
				produce(t, ch)
				ok := ch.Send(t, -1)
				rep.Writes = append(rep.Writes, ok)
				if !ok {
					log.Info("channel destruction detected")
					rep.ClosedDetected = true
				}
			})
			consume(t, ch)
			log.Info("consumer is going to return")
			closeChannel(ch, log)
		})

	case ProducerOwner:
		coro.Spawn(func(t *coro.Task) {
			ch := corochan.New[int](opts...)
			coro.Spawn(func(t *coro.Task) {
				consume(t, ch)
				v, ok := ch.Recv(t)
				rep.Reads = append(rep.Reads, corochan.Result[int]{Value: v, OK: ok})
				if !ok {
					log.Info("channel destruction detected")
					rep.ClosedDetected = true
				}
			})
			produce(t, ch)
			log.Info("producer is going to return")
			closeChannel(ch, log)
		})
	}

	return rep
}

func closeChannel[T any](ch *corochan.Channel[T], log logrus.Ext1FieldLogger) {
	if err := ch.Close(); err != nil {
		log.WithError(err).Error("closing channel")
	}
}

// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package scenario

import (
	"github.com/sirupsen/logrus"

	"github.com/0x5a17ed/corochan"
	"github.com/0x5a17ed/corochan/coro"
)

// FairnessReport lists what each parked reader got, in the order the
// readers were parked.
type FairnessReport struct {
	Readers []string
	Results map[string]corochan.Result[int]
}

// Winner returns the reader that received the value.
func (r FairnessReport) Winner() string {
	for _, name := range r.Readers {
		if r.Results[name].OK {
			return name
		}
	}
	return ""
}

// Fairness parks one read per name, in order, then issues a single
// write of value and closes the channel.
func Fairness(names []string, value int, log logrus.Ext1FieldLogger, opts ...corochan.Option) FairnessReport {
	rep := FairnessReport{
		Readers: names,
		Results: make(map[string]corochan.Result[int], len(names)),
	}
	opts = append([]corochan.Option{corochan.WithLogger(log)}, opts...)
	ch := corochan.New[int](opts...)

	for _, name := range names {
		name := name
		coro.Spawn(func(t *coro.Task) {
			v, ok := ch.Recv(t)
			rep.Results[name] = corochan.Result[int]{Value: v, OK: ok}
		})
		log.WithField("reader", name).Debug("reader parked")
	}

	coro.Spawn(func(t *coro.Task) {
		ch.Send(t, value)
	})
	closeChannel(ch, log)

	return rep
}

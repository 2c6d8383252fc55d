// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package corochan

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type config struct {
	name     string
	logger   logrus.Ext1FieldLogger
	observer Observer
}

func defaultConfig() config {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return config{
		name:     uuid.NewString(),
		logger:   l,
		observer: nopObserver{},
	}
}

// Option is a functional option type for configuring a channel.
type Option func(*config)

// WithName names the channel in logs and metrics. Channels are named
// with a random UUID otherwise.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLogger sets the logger the channel reports its shutdown to.
// Nothing is logged by default.
func WithLogger(l logrus.Ext1FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers o for channel events.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/0x5a17ed/corochan"
	"github.com/0x5a17ed/corochan/coro"
)

// ErrInvalidConfig is returned for stress configurations that cannot run.
var ErrInvalidConfig = errors.New("invalid stress configuration")

// StressConfig describes a stress run.
type StressConfig struct {
	// Producers goroutines write Values values each, Consumers
	// goroutines read them.
	Producers int `yaml:"producers"`
	Consumers int `yaml:"consumers"`
	Values    int `yaml:"values"`

	// Parked extra reads are left waiting when the channel closes.
	Parked int `yaml:"parked"`

	// Timeout bounds the whole run, including the close.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultStressConfig returns a moderate stress configuration.
func DefaultStressConfig() StressConfig {
	return StressConfig{
		Producers: 4,
		Consumers: 4,
		Values:    1000,
		Parked:    100,
		Timeout:   time.Minute,
	}
}

// LoadStressConfig reads a YAML stress configuration from path.
// Fields missing from the file keep their defaults.
func LoadStressConfig(path string) (StressConfig, error) {
	cfg := DefaultStressConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read stress config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse stress config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem of the configuration at once.
func (c StressConfig) Validate() error {
	var merr error
	if c.Producers < 1 {
		merr = multierror.Append(merr, fmt.Errorf("producers must be positive, got %d", c.Producers))
	}
	if c.Consumers < 1 {
		merr = multierror.Append(merr, fmt.Errorf("consumers must be positive, got %d", c.Consumers))
	}
	if c.Values < 0 {
		merr = multierror.Append(merr, fmt.Errorf("values must not be negative, got %d", c.Values))
	}
	if c.Parked < 0 {
		merr = multierror.Append(merr, fmt.Errorf("parked must not be negative, got %d", c.Parked))
	}
	if c.Timeout <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if merr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, merr)
	}
	return nil
}

// StressReport summarizes a stress run.
type StressReport struct {
	Sent      int
	Received  int
	Duplicate int
	Missing   int

	// Drained counts the parked reads failed by the close.
	Drained int

	// Resumes counts continuations resumed by the channel.
	Resumes int64

	Stats    corochan.Stats
	Duration time.Duration
}

// Stress runs producers and consumers on plain goroutines against
// one channel, parks cfg.Parked extra reads and closes the channel
// underneath them.
func Stress(ctx context.Context, cfg StressConfig, log logrus.Ext1FieldLogger, opts ...corochan.Option) (StressReport, error) {
	var rep StressReport
	if err := cfg.Validate(); err != nil {
		return rep, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts = append([]corochan.Option{corochan.WithLogger(log)}, opts...)
	ch := corochan.New[int](opts...)

	var resumes atomic.Int64
	s := countingSuspender{&resumes}
	start := time.Now()

	total := cfg.Producers * cfg.Values
	seen := make([]atomic.Int32, total)
	var received atomic.Int64

	consumers, cctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Consumers; i++ {
		consumers.Go(func() error {
			for received.Load() < int64(total) {
				v, ok := ch.Recv(s)
				if !ok {
					return nil
				}
				seen[v].Add(1)
				received.Add(1)
			}
			return cctx.Err()
		})
	}

	producers, pctx := errgroup.WithContext(ctx)
	for p := 0; p < cfg.Producers; p++ {
		p := p
		producers.Go(func() error {
			for n := 0; n < cfg.Values; n++ {
				if !ch.Send(s, p*cfg.Values+n) {
					return fmt.Errorf("producer %d: channel closed after %d values", p, n)
				}
				if err := pctx.Err(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := producers.Wait(); err != nil {
		_ = ch.CloseContext(ctx)
		_ = consumers.Wait()
		return rep, err
	}
	rep.Sent = total
	log.WithField("values", total).Debug("producers done")

	var parked errgroup.Group
	var drained atomic.Int64
	for i := 0; i < cfg.Parked; i++ {
		parked.Go(func() error {
			if _, ok := ch.Recv(s); !ok {
				drained.Add(1)
			}
			return nil
		})
	}

	if err := ch.CloseContext(ctx); err != nil {
		return rep, fmt.Errorf("close channel: %w", err)
	}
	if err := multierror.Append(consumers.Wait(), parked.Wait()).ErrorOrNil(); err != nil {
		return rep, err
	}

	for i := range seen {
		switch n := seen[i].Load(); {
		case n == 0:
			rep.Missing++
		case n > 1:
			rep.Duplicate += int(n) - 1
		}
	}
	rep.Received = int(received.Load())
	rep.Drained = int(drained.Load())
	rep.Resumes = resumes.Load()
	rep.Stats = ch.Stats()
	rep.Duration = time.Since(start)

	return rep, nil
}

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

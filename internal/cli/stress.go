// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/0x5a17ed/corochan"
	"github.com/0x5a17ed/corochan/internal/scenario"
	"github.com/0x5a17ed/corochan/metrics"
)

func newStressCmd(st *state) *cobra.Command {
	var (
		configPath  string
		showMetrics bool
	)
	cfg := scenario.DefaultStressConfig()

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Move values between many goroutines and close the channel under load",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			run := cfg
			if configPath != "" {
				loaded, err := scenario.LoadStressConfig(configPath)
				if err != nil {
					return err
				}
				run = overrideFlags(cc, loaded, cfg)
			}

			reg := prometheus.NewPedanticRegistry()
			collector := metrics.NewCollector("corochan")
			if err := reg.Register(collector); err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			rep, err := scenario.Stress(cc.Context(), run, st.log.WithField("command", "stress"),
				corochan.WithName("stress"),
				corochan.WithObserver(collector),
			)
			if err != nil {
				return err
			}

			out := cc.OutOrStdout()
			printStressReport(out, rep)
			if showMetrics {
				return writeMetrics(out, reg)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "YAML file with the stress configuration")
	flags.IntVar(&cfg.Producers, "writers", cfg.Producers, "Number of writing goroutines")
	flags.IntVar(&cfg.Consumers, "readers", cfg.Consumers, "Number of reading goroutines")
	flags.IntVar(&cfg.Values, "values", cfg.Values, "Values written by every writer")
	flags.IntVar(&cfg.Parked, "parked", cfg.Parked, "Reads left parked when the channel closes")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Time limit of the whole run")
	flags.BoolVar(&showMetrics, "metrics", false, "Print the channel metrics after the run")

	return cmd
}

// overrideFlags applies flags given on the command line on top of a
// loaded configuration.
func overrideFlags(cc *cobra.Command, loaded, flagged scenario.StressConfig) scenario.StressConfig {
	flags := cc.Flags()
	if flags.Changed("writers") {
		loaded.Producers = flagged.Producers
	}
	if flags.Changed("readers") {
		loaded.Consumers = flagged.Consumers
	}
	if flags.Changed("values") {
		loaded.Values = flagged.Values
	}
	if flags.Changed("parked") {
		loaded.Parked = flagged.Parked
	}
	if flags.Changed("timeout") {
		loaded.Timeout = flagged.Timeout
	}
	return loaded
}

func printStressReport(w io.Writer, rep scenario.StressReport) {
	fmt.Fprintf(w, "sent: %d\n", rep.Sent)
	fmt.Fprintf(w, "received: %d\n", rep.Received)
	fmt.Fprintf(w, "duplicate: %d\n", rep.Duplicate)
	fmt.Fprintf(w, "missing: %d\n", rep.Missing)
	fmt.Fprintf(w, "drained: %d\n", rep.Drained)
	fmt.Fprintf(w, "outstanding: %d\n", rep.Stats.Outstanding)
	fmt.Fprintf(w, "paired: %d\n", rep.Stats.Paired)
	fmt.Fprintf(w, "suspended: %d\n", rep.Stats.Suspended)
	fmt.Fprintf(w, "resumes: %d\n", rep.Resumes)
	fmt.Fprintf(w, "poisoned: %d\n", rep.Stats.Poisoned)
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

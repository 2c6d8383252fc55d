// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0x5a17ed/corochan/internal/scenario"
)

func newFairnessCmd(st *state) *cobra.Command {
	var (
		readers []string
		value   int
	)

	cmd := &cobra.Command{
		Use:   "fairness",
		Short: "Park several readers and show which one a single write reaches",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			if len(readers) == 0 {
				return fmt.Errorf("invalid argument: no readers")
			}

			rep := scenario.Fairness(readers, value, st.log)

			out := cc.OutOrStdout()
			for _, name := range rep.Readers {
				r := rep.Results[name]
				fmt.Fprintf(out, "%s: %d %t\n", name, r.Value, r.OK)
			}
			fmt.Fprintf(out, "winner: %s\n", rep.Winner())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&readers, "readers", []string{"A", "B", "C"}, "Names of the readers, in parking order")
	cmd.Flags().IntVar(&value, "value", 7, "Value written once")

	return cmd
}

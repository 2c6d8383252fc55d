// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0x5a17ed/corochan"
	"github.com/0x5a17ed/corochan/internal/scenario"
)

func newOwnershipCmd(st *state) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "ownership",
		Short: "Exchange four messages and close the channel from one side",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			o := scenario.Owner(owner)
			if o != scenario.ConsumerOwner && o != scenario.ProducerOwner {
				return fmt.Errorf("invalid argument: unknown owner %q", owner)
			}

			rep := scenario.Ownership(o, st.log, corochan.WithName(owner+"-owned"))

			out := cc.OutOrStdout()
			for _, ok := range rep.Writes {
				fmt.Fprintf(out, "write: %t\n", ok)
			}
			for _, r := range rep.Reads {
				fmt.Fprintf(out, "read: %d %t\n", r.Value, r.OK)
			}
			fmt.Fprintf(out, "closed detected: %t\n", rep.ClosedDetected)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", string(scenario.ConsumerOwner), "Task owning the channel (consumer, producer)")

	return cmd
}

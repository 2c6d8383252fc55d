// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/0x5a17ed/corochan/internal/cli"
)

const (
	cmdName = "corochan"

	shortDesc = "Exercise rendezvous channels between coroutines."
	longDesc  = `corochan runs small programs against the rendezvous channel.

ownership shows a conversation where either the consumer or the producer
owns the channel and closes it, fairness shows which of several parked
readers a single write reaches, and stress moves values between many
goroutines before closing the channel under load.
`
)

func main() {
	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}

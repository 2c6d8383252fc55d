// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package scenario runs the rendezvous channel through end-to-end
// producer/consumer setups for the command line tool.
package scenario

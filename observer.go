// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package corochan

// Side tells reads and writes apart.
type Side uint8

const (
	// Read is the receiving side of a channel.
	Read Side = iota

	// Write is the sending side of a channel.
	Write
)

// String returns a string representation of the side.
func (s Side) String() string {
	switch s {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "unknown"
	}
}

// Observer receives channel events. Callbacks run outside of the
// channel lock on the task causing the event and must not block.
type Observer interface {
	// Paired is called when an operation on side s found a parked
	// counterpart and completed without suspending.
	Paired(channel string, s Side)

	// Suspended is called when an operation on side s parked.
	Suspended(channel string, s Side)

	// Poisoned is called for every operation on side s failing
	// because the channel closed.
	Poisoned(channel string, s Side)

	// Closed is called once the channel drained its queues.
	Closed(channel string)
}

type nopObserver struct{}

func (nopObserver) Paired(string, Side)    {}
func (nopObserver) Suspended(string, Side) {}
func (nopObserver) Poisoned(string, Side)  {}
func (nopObserver) Closed(string)          {}

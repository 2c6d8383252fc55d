// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package corochan

import "errors"

var (
	// ErrClosed is returned when closing a channel a second time.
	ErrClosed = errors.New("corochan: channel already closed")

	// ErrOpReused is the panic value raised when an operation is
	// evaluated or suspended out of order, or more than once.
	ErrOpReused = errors.New("corochan: operation reused")

	// ErrNotResumed is the panic value raised when the result of an
	// operation is taken before the operation completed.
	ErrNotResumed = errors.New("corochan: operation not completed")
)

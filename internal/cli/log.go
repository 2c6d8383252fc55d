// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	JSONFormat = "json"
	TextFormat = "text"
)

// NewLogger creates a [logrus.Logger] writing to out by strings.
func NewLogger(out io.Writer, logLevel, logFormat string) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)

	switch strings.ToLower(logFormat) {
	case JSONFormat:
		l.SetFormatter(&logrus.JSONFormatter{})
	case TextFormat, "":
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", logFormat)
	}

	return l, nil
}

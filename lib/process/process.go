// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
)

// exitCoder is implemented by errors that carry their own exit status
// and have already reported themselves.
type exitCoder interface {
	ExitCode() int
}

// Fatal writes "error: err" to stderr and exits with code 1. Errors
// implementing ExitCode() int exit silently with that code.
func Fatal(err error) {
	os.Exit(report(err, os.Stderr.WriteString))
}

func report(err error, write func(string) (int, error)) int {
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	write(fmt.Sprintf("error: %v\n", err))
	return 1
}

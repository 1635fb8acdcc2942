// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint error handler for scriptvault
// binaries. It is the one place outside the CLI layer that writes to
// stderr directly, for errors that occur before or after the
// structured logger exists.
package process

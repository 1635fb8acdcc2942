// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed stores artifact cipher keys at rest under age
// encryption, so a build machine or a developer checkout never holds
// the key in plaintext.
//
// A sealed key file is an ASCII-armored age file encrypted either to
// one or more X25519 recipients ([SealKey]) or to a passphrase
// ([SealKeyWithPassphrase]). [IsSealed] recognizes both the armored
// and binary age formats, so configuration can point at a key file
// without saying which kind it is. Opened keys are returned as
// *secret.Buffer values.
//
// Depends on filippo.io/age and lib/secret.
package sealed

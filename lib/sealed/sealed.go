// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/bureau-foundation/scriptvault/lib/secret"
)

// binaryHeader is the first line of an unarmored age file.
const binaryHeader = "age-encryption.org/v1"

// Keypair is an age X25519 identity and its public recipient string.
type Keypair struct {
	// Identity is the AGE-SECRET-KEY-1... encoding, held in locked
	// memory. Never log it.
	Identity *secret.Buffer

	// Recipient is the age1... public key, safe to publish.
	Recipient string
}

// Close releases the identity.
func (k *Keypair) Close() error {
	if k.Identity != nil {
		return k.Identity.Close()
	}
	return nil
}

// GenerateKeypair creates a new X25519 identity for sealing keys.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age identity: %w", err)
	}

	protected, err := secret.NewFromBytes([]byte(identity.String()))
	if err != nil {
		return nil, fmt.Errorf("protecting identity: %w", err)
	}
	return &Keypair{
		Identity:  protected,
		Recipient: identity.Recipient().String(),
	}, nil
}

// SealKey encrypts key to the given age1... recipients and returns
// the armored file contents.
func SealKey(key []byte, recipientKeys []string) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, recipientKey := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(recipientKey)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient %q: %w", recipientKey, err)
		}
		recipients = append(recipients, recipient)
	}
	return seal(key, recipients...)
}

// SealKeyWithPassphrase encrypts key under an scrypt-derived
// passphrase key and returns the armored file contents.
func SealKeyWithPassphrase(key []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase must not be empty")
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating passphrase recipient: %w", err)
	}
	return seal(key, recipient)
}

func seal(key []byte, recipients ...age.Recipient) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("refusing to seal an empty key")
	}

	var output bytes.Buffer
	armorWriter := armor.NewWriter(&output)
	writer, err := age.Encrypt(armorWriter, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(key); err != nil {
		return nil, fmt.Errorf("writing key to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return output.Bytes(), nil
}

// IsSealed reports whether data is an age file, armored or binary.
func IsSealed(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte(armor.Header)) ||
		bytes.HasPrefix(trimmed, []byte(binaryHeader))
}

// OpenKey decrypts a sealed key file with any of identities.
func OpenKey(data []byte, identities ...age.Identity) (*secret.Buffer, error) {
	if len(identities) == 0 {
		return nil, fmt.Errorf("at least one identity is required to open a sealed key")
	}

	var source io.Reader = bytes.NewReader(data)
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte(armor.Header)) {
		source = armor.NewReader(bufio.NewReader(bytes.NewReader(bytes.TrimLeft(data, " \t\r\n"))))
	}

	reader, err := age.Decrypt(source, identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting sealed key: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("reading sealed key: %w", err)
	}
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("sealed key is empty")
	}
	return secret.NewFromBytes(plaintext)
}

// OpenKeyWithPassphrase decrypts a passphrase-sealed key file.
func OpenKeyWithPassphrase(data []byte, passphrase string) (*secret.Buffer, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating passphrase identity: %w", err)
	}
	return OpenKey(data, identity)
}

// ParseIdentities parses an age identity file (one AGE-SECRET-KEY-1
// per line, "#" comments allowed).
func ParseIdentities(data []byte) ([]age.Identity, error) {
	identities, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing age identities: %w", err)
	}
	return identities, nil
}

// ReadIdentityFile reads and parses an identity file, zeroing the raw
// contents afterward.
func ReadIdentityFile(path string) ([]age.Identity, error) {
	data, err := secret.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading identity file: %w", err)
	}
	defer secret.Zero(data)
	return ParseIdentities(data)
}

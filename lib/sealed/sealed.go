// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"

	"github.com/kestrel-gateway/kestrel/lib/secret"
)

// Prefix marks a sealed property value. Everything after it is
// standard base64 of a binary age file.
const Prefix = "age:"

// ErrNotSealed is returned by Open for a value without Prefix.
var ErrNotSealed = errors.New("value is not sealed")

// Keypair holds an age x25519 identity. The private key lives in a
// secret.Buffer; the public key (age1...) is a plain string and safe
// to publish to provisioning tooling.
//
// The caller must Close the keypair when done.
type Keypair struct {
	PrivateKey *secret.Buffer
	PublicKey  string
}

// Close zeroes and releases the private key. It is idempotent.
func (k *Keypair) Close() error {
	if k.PrivateKey != nil {
		return k.PrivateKey.Close()
	}
	return nil
}

// GenerateKeypair creates a new x25519 identity. The private key is
// copied into protected memory immediately; the age library's own
// copy is unreachable once this returns, though it cannot be zeroed.
//
// kestrel seal keygen writes PrivateKey to the gateway's identity file
// (kestrel.crypto.identity.file) and prints PublicKey.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age identity: %w", err)
	}
	privateKey, err := secret.NewFromString(identity.String())
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	return &Keypair{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// IsSealed reports whether value carries the sealed prefix.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// Seal encrypts plaintext to every recipient public key (age1...
// strings) and returns "age:" plus base64 ciphertext, ready to store
// as a keystore or truststore password property.
//
// At least one recipient is required. Surrounding whitespace on a key
// is ignored, so keys pasted from a file with a trailing newline work.
// Any of the recipients' identities can Open the result.
func Seal(plaintext []byte, recipientKeys []string) (string, error) {
	if len(recipientKeys) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(strings.TrimSpace(key))
		if err != nil {
			return "", fmt.Errorf("parsing recipient %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	// age streams: the header is written by Encrypt, the payload by
	// Write, and the final chunk and MAC only on Close.
	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return "", fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return "", fmt.Errorf("encrypting: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalizing encryption: %w", err)
	}
	return Prefix + base64.StdEncoding.EncodeToString(ciphertext.Bytes()), nil
}

// Open decrypts a sealed value with identity. The identity is
// borrowed: it is read but not closed.
//
// A value without Prefix returns ErrNotSealed, so callers can tell a
// plaintext property from a corrupt sealed one. The plaintext is
// returned in protected memory the caller must close. An empty
// plaintext yields a one-byte zero buffer, since buffers cannot be
// empty; callers that care check the sealed length themselves.
func Open(value string, identity *secret.Buffer) (*secret.Buffer, error) {
	encoded, ok := strings.CutPrefix(value, Prefix)
	if !ok {
		return nil, ErrNotSealed
	}
	parsed, err := age.ParseX25519Identity(identity.String())
	if err != nil {
		return nil, fmt.Errorf("parsing identity: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decoding sealed value: %w", err)
	}
	reader, err := age.Decrypt(bytes.NewReader(raw), parsed)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	// Decrypt authenticates chunks as they are read, so a tampered
	// payload surfaces here rather than from age.Decrypt.
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading plaintext: %w", err)
	}
	if len(plaintext) == 0 {
		return secret.New(1)
	}
	// NewFromBytes zeroes the heap plaintext after copying it.
	return secret.NewFromBytes(plaintext)
}

// ParsePublicKey validates an age x25519 recipient string. seal
// encrypt uses it to reject a mistyped key before reading the
// password from stdin.
func ParsePublicKey(publicKey string) error {
	if _, err := age.ParseX25519Recipient(publicKey); err != nil {
		return fmt.Errorf("invalid age public key: %w", err)
	}
	return nil
}

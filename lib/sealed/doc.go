// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts and decrypts sensitive property values with
// age x25519 keys.
//
// A sealed value is the string "age:" followed by base64-encoded age
// ciphertext. Provisioning seals passwords to the gateway's public key
// with [Seal]; the gateway unseals them at read time with [Open] and
// its identity, a private key held in a [secret.Buffer]. Values
// without the prefix are plaintext and [IsSealed] reports false.
package sealed

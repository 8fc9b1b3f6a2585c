// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing and verification using
// argon2id. The stored record is self-describing, so parameters can be
// raised later and old hashes detected via NeedsRehash.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// argonParams holds the argon2id cost parameters baked into new hashes.
type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// defaultParams follows the OWASP low-memory recommendation
// (m=19456 KiB, t=2, p=1) so the server runs on small instances.
var defaultParams = argonParams{
	time:    2,
	memory:  19 * 1024,
	threads: 1,
	keyLen:  32,
	saltLen: 16,
}

// ErrMalformedHash is returned when a stored hash cannot be parsed.
var ErrMalformedHash = errors.New("auth: malformed password hash")

// HashPassword creates an argon2id hash of password in the standard
// encoded form: $argon2id$v=19$m=...,t=...,p=...$salt$hash.
func HashPassword(password string) (string, error) {
	p := defaultParams

	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// CheckPassword verifies password against an encoded argon2id hash
// using a constant-time comparison.
func CheckPassword(password, encoded string) (bool, error) {
	p, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

// NeedsRehash reports whether the stored hash was created with
// parameters different from the current defaults.
func NeedsRehash(encoded string) bool {
	p, _, _, err := decodeHash(encoded)
	if err != nil {
		return true
	}
	return p.time != defaultParams.time ||
		p.memory != defaultParams.memory ||
		p.threads != defaultParams.threads
}

// decodeHash splits an encoded hash into its parameters, salt and key.
func decodeHash(encoded string) (argonParams, []byte, []byte, error) {
	var p argonParams

	var version int
	var b64Salt, b64Key string
	n, err := fmt.Sscanf(encoded, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		&version, &p.memory, &p.time, &p.threads, &b64Salt)
	if err != nil || n != 5 {
		return p, nil, nil, ErrMalformedHash
	}

	// Sscanf's %s is greedy: the last field still holds "salt$hash".
	for i := 0; i < len(b64Salt); i++ {
		if b64Salt[i] == '$' {
			b64Key = b64Salt[i+1:]
			b64Salt = b64Salt[:i]
			break
		}
	}
	if b64Key == "" {
		return p, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(b64Salt)
	if err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(b64Key)
	if err != nil {
		return p, nil, nil, ErrMalformedHash
	}

	return p, salt, key, nil
}

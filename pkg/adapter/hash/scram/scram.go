// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram hashes the database role passwords in the SCRAM format
// which is accepted by PostgreSQL, so `cmweb db init` never sends a
// plaintext password in its CREATE/ALTER ROLE queries.
// It relies on the github.com/xdg-go/scram module.
package scram

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xdg-go/scram"
)

// Supported authentication method names, as written in the database
// settings of the configuration file.
const (
	MethodSHA1   = "scram-sha-1"
	MethodSHA256 = "scram-sha-256"
)

// Mechanism is a SCRAM hasher with a fixed hash algorithm. It reifies
// the pkg/core/scram.Hasher interface.
type Mechanism struct {
	hashGenerator scram.HashGeneratorFcn
	outLen        int // bytes
	name          string
}

// SHA1 returns a Mechanism which uses SHA-1.
func SHA1() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA1,
		outLen:        160 / 8,
		name:          "SCRAM-SHA-1",
	}
}

// SHA256 returns a Mechanism which uses SHA-256.
func SHA256() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA256,
		outLen:        256 / 8,
		name:          "SCRAM-SHA-256",
	}
}

// ByMethod returns the Mechanism of the `method` authentication method.
// An empty method selects scram-sha-256.
func ByMethod(method string) (*Mechanism, error) {
	switch strings.ToLower(method) {
	case MethodSHA1:
		return SHA1(), nil
	case "", MethodSHA256:
		return SHA256(), nil
	default:
		return nil, fmt.Errorf(
			"unsupported authentication method: %q", method,
		)
	}
}

// Name returns the SCRAM mechanism name, e.g., SCRAM-SHA-256.
func (m *Mechanism) Name() string {
	return m.name
}

// Hash computes the stored form of the `pass` password as accepted by
// the CREATE ROLE and ALTER ROLE queries:
//
//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
//
// The pass must be non-empty and iters must be at least 4096.
// An empty salt asks for a random one. Otherwise, salt must contain
// the base64 encoding of the salt bytes.
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	switch {
	case pass == "":
		return "", errors.New("password must be non-empty")
	case iters < 4096:
		return "", fmt.Errorf("iters (%d) is less than 4096", iters)
	}
	if salt == "" {
		b := make([]byte, m.outLen)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(b)
	}
	sc, err := m.storedCredentials(pass, salt, iters)
	if err != nil {
		return "", fmt.Errorf("obtaining stored credentials: %w", err)
	}
	enc := base64.StdEncoding.EncodeToString
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s",
		m.name, iters, salt, enc(sc.StoredKey), enc(sc.ServerKey),
	), nil
}

// Verify reports if the `hashed` string, as created by Hash, belongs
// to the `pass` password.
func (m *Mechanism) Verify(pass, hashed string) (bool, error) {
	name, rest, ok := strings.Cut(hashed, "$")
	if !ok || name != m.name {
		return false, fmt.Errorf("not a %s hash", m.name)
	}
	itersSalt, keys, ok := strings.Cut(rest, "$")
	if !ok {
		return false, errors.New("missing keys section")
	}
	itersStr, salt, ok := strings.Cut(itersSalt, ":")
	if !ok {
		return false, errors.New("missing salt section")
	}
	iters, err := strconv.Atoi(itersStr)
	if err != nil {
		return false, fmt.Errorf("parsing iterations: %w", err)
	}
	storedKey, _, ok := strings.Cut(keys, ":")
	if !ok {
		return false, errors.New("missing server key")
	}
	want, err := base64.StdEncoding.DecodeString(storedKey)
	if err != nil {
		return false, fmt.Errorf("decoding stored key: %w", err)
	}
	sc, err := m.storedCredentials(pass, salt, iters)
	if err != nil {
		return false, err
	}
	return bytes.Equal(sc.StoredKey, want), nil
}

func (m *Mechanism) storedCredentials(
	pass, salt string, iters int,
) (*scram.StoredCredentials, error) {
	c, err := m.hashGenerator.NewClient("username", pass, "authzID")
	if err != nil {
		return nil, fmt.Errorf("creating SCRAM client: %w", err)
	}
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 salt: %w", err)
	}
	sc := c.WithMinIterations(iters).GetStoredCredentials(
		scram.KeyFactors{Salt: string(saltBytes), Iters: iters},
	)
	return &sc, nil
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scram_test

import (
	"strings"
	"testing"

	"github.com/momeni/car-market/pkg/adapter/hash/scram"
	scrami "github.com/momeni/car-market/pkg/core/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ scrami.Hasher = (*scram.Mechanism)(nil)

func TestByMethod(t *testing.T) {
	for method, name := range map[string]string{
		"":              "SCRAM-SHA-256",
		"scram-sha-256": "SCRAM-SHA-256",
		"SCRAM-SHA-1":   "SCRAM-SHA-1",
	} {
		m, err := scram.ByMethod(method)
		require.NoError(t, err, method)
		assert.Equal(t, name, m.Name())
	}
	_, err := scram.ByMethod("md5")
	assert.Error(t, err)
}

func TestHashAndVerify(t *testing.T) {
	m := scram.SHA256()
	h, err := m.Hash("s3cret", "", 4096)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "SCRAM-SHA-256$4096:"))

	ok, err := m.Verify("s3cret", h)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = m.Verify("wrong", h)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = scram.SHA1().Verify("s3cret", h)
	assert.Error(t, err)
}

func TestHashIsDeterministicWithSalt(t *testing.T) {
	m := scram.SHA1()
	salt := "c2FsdHNhbHRzYWx0"
	h1, err := m.Hash("pass", salt, 4096)
	require.NoError(t, err)
	h2, err := m.Hash("pass", salt, 4096)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHashRejectsWeakParams(t *testing.T) {
	m := scram.SHA256()
	_, err := m.Hash("", "", 4096)
	assert.Error(t, err)
	_, err = m.Hash("pass", "", 1000)
	assert.Error(t, err)
}

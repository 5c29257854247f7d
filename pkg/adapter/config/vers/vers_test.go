// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package vers_test

import (
	"testing"

	"github.com/momeni/car-market/pkg/adapter/config/vers"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndValidate(t *testing.T) {
	vc, err := vers.Load([]byte("versions:\n  config: 1.0.3\ngin: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, model.SemVer{1, 0, 3}, vc.Versions.Config)
	assert.NoError(t, vc.Validate(1, 0))
	assert.Error(t, vc.Validate(2, 0))

	vc.Versions.Config = model.SemVer{1, 2, 0}
	assert.Error(t, vc.Validate(1, 1))
	assert.Equal(t, "1.2.0", vc.Marshal().Versions.Config)
}

func TestLoadRejectsBadVersion(t *testing.T) {
	_, err := vers.Load([]byte("versions:\n  config: one\n"))
	assert.Error(t, err)
}

func TestReadableBy(t *testing.T) {
	v := model.SemVer{1, 2, 7}
	assert.True(t, v.ReadableBy(1, 2))
	assert.True(t, v.ReadableBy(1, 5))
	assert.False(t, v.ReadableBy(1, 1))
	assert.False(t, v.ReadableBy(2, 2))

	var sv model.SemVer
	assert.NoError(t, sv.UnmarshalText([]byte("3")))
	assert.Equal(t, model.SemVer{3, 0, 0}, sv)
	assert.Error(t, sv.UnmarshalText([]byte("1.-2.0")))
	assert.Error(t, sv.UnmarshalText([]byte("1.2.3.4")))
	assert.Equal(t, model.SemVer{3, 0, 0}, sv)
}

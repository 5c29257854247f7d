// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"testing"
	"time"

	"github.com/momeni/car-market/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) settings.Getenv {
	return func(key string) string { return m[key] }
}

func TestFromEnv(t *testing.T) {
	getenv := env(map[string]string{"A": "x", "N": "42", "BAD": "4x"})
	s := "default"
	settings.FromEnv(getenv, "A", &s)
	assert.Equal(t, "x", s)
	settings.FromEnv(getenv, "MISSING", &s)
	assert.Equal(t, "x", s)

	n := 1
	require.NoError(t, settings.IntFromEnv(getenv, "N", &n))
	assert.Equal(t, 42, n)
	assert.Error(t, settings.IntFromEnv(getenv, "BAD", &n))
	assert.Equal(t, 42, n)
}

func TestVerifyRange(t *testing.T) {
	minb, maxb := 2, 5
	v := new(int)
	*v = 7
	err := settings.VerifyRange(&v, &minb, &maxb)
	require.NotNil(t, err)
	assert.False(t, err.LessThanMin)
	assert.Equal(t, 7, *err.Value)
	assert.Equal(t, 5, *v)

	*v = 1
	err = settings.VerifyRange(&v, &minb, &maxb)
	require.NotNil(t, err)
	assert.True(t, err.LessThanMin)
	assert.Equal(t, 2, *v)

	var unset *int
	assert.Nil(t, settings.VerifyRange(&unset, &minb, &maxb))
	err = settings.VerifyRange(&unset, &maxb, &minb)
	require.NotNil(t, err)
	assert.True(t, err.InvalidRange)
}

func TestOverwriteHelpers(t *testing.T) {
	var p *float64
	settings.Nil2Zero(&p)
	require.NotNil(t, p)
	assert.Zero(t, *p)

	src := 9.5
	var q *float64
	settings.OverwriteNil(&q, &src)
	require.NotNil(t, q)
	src = 1
	assert.Equal(t, 9.5, *q, "OverwriteNil must copy the value")
	settings.OverwriteNil(&q, &src)
	assert.Equal(t, 9.5, *q)
	settings.OverwriteUnconditionally(&q, nil)
	assert.Nil(t, q)
}

func TestDurationMarshal(t *testing.T) {
	for d, s := range map[time.Duration]string{
		90 * time.Minute: "1h30m",
		720 * time.Hour:  "720h",
		15 * time.Second: "15s",
		0:                "0s",
	} {
		sd := settings.Duration(d)
		assert.Equal(t, s, *sd.Marshal())
	}
	var d settings.Duration
	require.NoError(t, d.UnmarshalText([]byte("15m")))
	assert.Equal(t, settings.Duration(15*time.Minute), d)
	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

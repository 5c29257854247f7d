// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1_test

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/car-market/pkg/adapter/config/cfg1"
	"github.com/momeni/car-market/pkg/adapter/config/settings"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/appuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var _ appuc.Builder = (*cfg1.Config)(nil)

const secret = "0123456789abcdef0123456789abcdef"

func env(m map[string]string) settings.Getenv {
	return func(key string) string { return m[key] }
}

func load(t *testing.T, m map[string]string) *cfg1.Config {
	t.Helper()
	data, err := os.ReadFile("testdata/config.yaml")
	require.NoError(t, err)
	if m == nil {
		m = map[string]string{}
	}
	if _, ok := m[cfg1.EnvJWTSecret]; !ok {
		m[cfg1.EnvJWTSecret] = secret
	}
	c, err := cfg1.Load(data, env(m))
	require.NoError(t, err)
	return c
}

func TestLoadFillsDefaults(t *testing.T) {
	c := load(t, nil)
	assert.True(t, *c.Gin.Logger)
	assert.False(t, *c.Gin.Recovery)
	assert.Equal(t, ":8080", c.Gin.Address)
	assert.Equal(t, "scram-sha-256", c.Database.AuthMethod)
	assert.Equal(t, settings.Duration(24*time.Hour), *c.Auth.TokenTTL)
	assert.Equal(t, 120, *c.RateLimit.PerMinute)
	assert.Equal(t, "@every 15m", c.Jobs.AlertsSchedule)
	assert.Equal(t, 720*time.Hour, c.Jobs.Config().Retention)
	assert.Equal(t, "json", c.Logger.Format)
	assert.Equal(t, cfg1.Version, c.Version())
}

func TestLoadAppliesEnv(t *testing.T) {
	c := load(t, map[string]string{
		cfg1.EnvDBHost:      "db.internal",
		cfg1.EnvDBPort:      "6432",
		cfg1.EnvHTTPAddress: "127.0.0.1:9000",
		cfg1.EnvMailAPIKey:  "k3y",
	})
	assert.Equal(t, "db.internal", c.Database.Host)
	assert.Equal(t, 6432, c.Database.Port)
	assert.Equal(t, "127.0.0.1:9000", c.Gin.Address)
	assert.Equal(t, "k3y", c.Mail.APIKey)
	assert.Equal(t, secret, c.Auth.Secret)
}

func TestLoadRejectsInvalidConfigs(t *testing.T) {
	data, err := os.ReadFile("testdata/config.yaml")
	require.NoError(t, err)
	for name, tc := range map[string]struct {
		data string
		env  map[string]string
	}{
		"short secret": {
			string(data), map[string]string{cfg1.EnvJWTSecret: "short"},
		},
		"newer minor version": {
			strings.Replace(string(data), "1.0.0", "1.7.0", 1),
			map[string]string{cfg1.EnvJWTSecret: secret},
		},
		"bad port": {
			string(data),
			map[string]string{
				cfg1.EnvJWTSecret: secret, cfg1.EnvDBPort: "port",
			},
		},
		"out of range default": {
			strings.Replace(string(data), "annual-rate: 9.5", "annual-rate: 50", 1),
			map[string]string{cfg1.EnvJWTSecret: secret},
		},
		"bad schedule": {
			string(data) + "jobs:\n  alerts-schedule: sometimes\n",
			map[string]string{cfg1.EnvJWTSecret: secret},
		},
		"enabled mail without url": {
			strings.Replace(string(data), "enabled: false", "enabled: true", 1),
			map[string]string{cfg1.EnvJWTSecret: secret},
		},
	} {
		_, err := cfg1.Load([]byte(tc.data), env(tc.env))
		assert.Error(t, err, name)
	}
}

func TestMutateClampsOutOfBoundsSettings(t *testing.T) {
	c := load(t, nil)
	rate, months := 45.0, 12
	s := cfg1.NewSerializable(&model.Settings{
		VisibleSettings: model.VisibleSettings{
			Finance: model.FinanceSettings{
				AnnualRate: &rate,
				TermMonths: &months,
			},
		},
	})
	err := c.Mutate(s)
	var boundsErr *cfg1.OutOfBoundsSettingsError
	require.ErrorAs(t, err, &boundsErr)
	require.NotNil(t, boundsErr.AnnualRate)
	assert.Nil(t, boundsErr.TermMonths)
	assert.Equal(t, 30.0, *c.Usecases.Finance.AnnualRate)
	assert.Equal(t, 12, *c.Usecases.Finance.TermMonths)
	assert.Nil(t, c.Usecases.Compare.MaxListings, "nil resets a setting")
}

func TestMutateRejectsOtherVersions(t *testing.T) {
	c := load(t, nil)
	s := *c.Serializable()
	s.Version = model.SemVer{2, 0, 0}
	var verErr *cerr.MismatchingSemVerError
	assert.ErrorAs(t, c.Mutate(s), &verErr)

	s = *c.Serializable()
	l := true
	s.Immutable = &cfg1.Immutable{Logger: &l}
	assert.Error(t, c.Mutate(s))
}

func TestCloneIsIndependent(t *testing.T) {
	c := load(t, nil)
	cc := c.Clone()
	*cc.Usecases.Finance.AnnualRate = 12
	assert.Equal(t, 9.5, *c.Usecases.Finance.AnnualRate)
}

func TestVisibleAndBounds(t *testing.T) {
	c := load(t, nil)
	vs := c.Visible().Model()
	require.NotNil(t, vs.ImmutableSettings)
	assert.True(t, vs.Logger)
	assert.Equal(t, 3, *vs.Compare.MaxListings)
	assert.Nil(t, vs.Finance.HandlingFee)

	minb, maxb := c.Bounds()
	assert.Equal(t, 2, *minb.Model().Compare.MaxListings)
	assert.Equal(t, 96, *maxb.Model().Finance.TermMonths)
	assert.Nil(t, maxb.Model().Finance.InsuranceRate)
}

func TestMarshalHidesSecrets(t *testing.T) {
	c := load(t, map[string]string{cfg1.EnvMailAPIKey: "k3y"})
	b, err := yaml.Marshal(c)
	require.NoError(t, err)
	out := string(b)
	assert.NotContains(t, out, secret)
	assert.NotContains(t, out, "k3y")
	assert.Contains(t, out, "token-ttl: 24h")
	assert.Contains(t, out, "config: 1.0.0")

	c2, err := cfg1.Load(b, env(map[string]string{
		cfg1.EnvJWTSecret: secret,
	}))
	require.NoError(t, err)
	assert.Equal(t, c.Usecases.Finance.AnnualRate, c2.Usecases.Finance.AnnualRate)
}

func TestOutOfBoundsErrorMessage(t *testing.T) {
	v := 7
	err := &cfg1.OutOfBoundsSettingsError{
		MaxListings: &settings.OutOfRangeError[int]{Value: &v},
	}
	assert.Contains(t, err.Error(), "max compare listings")
	assert.True(t, errors.As(fmt.Errorf("w: %w", err), &err))
}

func ExampleSerializable() {
	s := &cfg1.Serializable{Version: model.SemVer{1, 0, 2}}
	rate := 9.5
	s.Finance.AnnualRate = &rate
	b, err := json.Marshal(s)
	fmt.Println(err)
	fmt.Println(string(b))
	// Output:
	// <nil>
	// {"version":"1.0.2","finance":{"annual_rate":9.5,"term_months":null,"registration_rate":null,"insurance_rate":null,"handling_fee":null},"compare":{"max_listings":null}}
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// When trying to serialize and write out settings, the latest known
// minor and patch version will be used since older versions (with the
// same major version) can ignore the extra fields too.
package cfg1

import (
	"errors"
	"fmt"

	"github.com/momeni/car-market/pkg/adapter/config/settings"
	"github.com/momeni/car-market/pkg/adapter/config/vers"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/usecase/appuc"
	"github.com/momeni/car-market/pkg/core/usecase/financeuc"
	"github.com/momeni/car-market/pkg/core/usecase/listingsuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Environment variables which override the configuration file.
const (
	EnvJWTSecret   = "CMWEB_JWT_SECRET"
	EnvMailAPIKey  = "CMWEB_MAIL_API_KEY"
	EnvDBHost      = "CMWEB_DB_HOST"
	EnvDBPort      = "CMWEB_DB_PORT"
	EnvHTTPAddress = "CMWEB_HTTP_ADDRESS"
)

// Config contains all settings which are required by different parts
// of cmweb, such as adapters or use cases. It is implemented with
// primitive fields or local structs instead of the model structs, so
// the configuration format can be versioned and kept intact while
// other layers change freely.
type Config struct {
	Database  Database  // PostgreSQL database connection settings
	Gin       Gin       // Gin-Gonic instantiation settings
	Auth      Auth      // bearer tokens settings
	Mail      Mail      // transactional emails settings
	RateLimit RateLimit `yaml:"rate-limit"` // per-client request rates
	Jobs      Jobs      // background jobs schedules
	Logger    Logger    // structured logging settings
	Usecases  Usecases  // settings dependent use cases

	// Vers contains the configuration file format version.
	Vers vers.Config `yaml:",inline"`
}

// Load unmarshals the data byte slice as a Config instance, overrides
// its secrets and addresses by the environment variables which are
// looked up by getenv, and validates and normalizes the result.
// Extra items in the data are ignored and missing items take their
// default values. Settings which are stored in the database are not
// applied here because they change during the execution. See the
// settings repository for them.
func Load(data []byte, getenv settings.Getenv) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.applyEnv(getenv); err != nil {
		return nil, fmt.Errorf("applying environment variables: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv settings.Getenv) error {
	settings.FromEnv(getenv, EnvJWTSecret, &c.Auth.Secret)
	settings.FromEnv(getenv, EnvMailAPIKey, &c.Mail.APIKey)
	settings.FromEnv(getenv, EnvDBHost, &c.Database.Host)
	settings.FromEnv(getenv, EnvHTTPAddress, &c.Gin.Address)
	return settings.IntFromEnv(getenv, EnvDBPort, &c.Database.Port)
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It also replaces the
// missing settings by their default values.
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Validate(Major, Minor); err != nil {
		return fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	c.Gin.validateAndNormalize()
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Auth.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating auth settings: %w", err)
	}
	if err := c.Mail.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating mail settings: %w", err)
	}
	if err := c.RateLimit.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating rate-limit settings: %w", err)
	}
	if err := c.Jobs.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating jobs settings: %w", err)
	}
	if err := c.Logger.validateAndNormalize(); err != nil {
		return fmt.Errorf("validating logger settings: %w", err)
	}
	if err := c.Usecases.validate(); err != nil {
		return fmt.Errorf("validating use cases settings: %w", err)
	}
	return nil
}

// Marshalled replaces the Config fields which need a custom YAML form
// by their primitive counterparts. Secrets are left out, so a config
// which is shown or written out never leaks them.
type Marshalled struct {
	Database Database
	Gin      Gin
	Auth     struct {
		Issuer   string `yaml:",omitempty"`
		TokenTTL *string `yaml:"token-ttl,omitempty"`
	}
	Mail struct {
		Enabled *bool
		BaseURL string  `yaml:"base-url,omitempty"`
		From    string  `yaml:",omitempty"`
		Timeout *string `yaml:",omitempty"`
	}
	RateLimit RateLimit `yaml:"rate-limit"`
	Jobs      struct {
		AlertsSchedule string  `yaml:"alerts-schedule"`
		PruneSchedule  string  `yaml:"prune-schedule"`
		Retention      *string `yaml:",omitempty"`
	}
	Logger   Logger
	Usecases Usecases
	Vers     *vers.Marshalled `yaml:",inline"`
}

// MarshalYAML implements the yaml.Marshaler interface and returns the
// Marshalled form of `c`.
func (c *Config) MarshalYAML() (interface{}, error) {
	return c.Marshal(), nil
}

// Marshal creates the Marshalled form of `c`.
func (c *Config) Marshal() *Marshalled {
	m := &Marshalled{
		Database:  c.Database,
		Gin:       c.Gin,
		RateLimit: c.RateLimit,
		Logger:    c.Logger,
		Usecases:  c.Usecases,
		Vers:      c.Vers.Marshal(),
	}
	m.Auth.Issuer = c.Auth.Issuer
	m.Auth.TokenTTL = c.Auth.TokenTTL.Marshal()
	m.Mail.Enabled = c.Mail.Enabled
	m.Mail.BaseURL = c.Mail.BaseURL
	m.Mail.From = c.Mail.From
	m.Mail.Timeout = c.Mail.Timeout.Marshal()
	m.Jobs.AlertsSchedule = c.Jobs.AlertsSchedule
	m.Jobs.PruneSchedule = c.Jobs.PruneSchedule
	m.Jobs.Retention = c.Jobs.Retention.Marshal()
	return m
}

// Clone creates a new Config having the same settings as `c`. The use
// cases settings are deep copied, so they may be mutated separately.
func (c *Config) Clone() *Config {
	cc := *c
	cc.Usecases = c.Usecases.clone()
	return &cc
}

// Version returns the configuration format version of `c` which has
// the Major major version. Its minor version is not newer than Minor.
func (c *Config) Version() model.SemVer {
	return c.Vers.Versions.Config
}

// NewAppUseCase instantiates the application use case which fetches
// and updates the mutable settings using the `s` settings repository.
// The `s` repository must wrap `c` as its base settings.
func (c *Config) NewAppUseCase(
	p repo.Pool, s appuc.SettingsRepo, r *appuc.Repos, ports appuc.Ports,
) (*appuc.UseCase, error) {
	if s == nil || r == nil {
		return nil, errors.New("settings repo and repos are required")
	}
	return appuc.New(p, s, r, ports)
}

// NewFinanceUseCase instantiates a finance use case based on the
// finance settings of `c`.
func (c *Config) NewFinanceUseCase(
	p repo.Pool, r repo.Quotes,
) (*financeuc.UseCase, error) {
	return c.Usecases.Finance.NewUseCase(p, r)
}

// NewListingsUseCase instantiates a listings use case based on the
// comparison settings of `c`.
func (c *Config) NewListingsUseCase(
	p repo.Pool,
	r *appuc.Repos,
	ports appuc.Ports,
	alerts listingsuc.AlertEvaluator,
) (*listingsuc.UseCase, error) {
	return c.Usecases.Compare.NewUseCase(p, r, ports, alerts)
}

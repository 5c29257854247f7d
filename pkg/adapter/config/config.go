// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the cmweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// These settings are versioned and maintained by sub-packages.
// However, the parsed and validated configurations should be passed
// to their ultimate components as a series of individual params (for
// the mandatory items) and a series of functional options (for
// the optional items), so they may be accumulated and validated
// in the relevant end-component such as a UseCase instance.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/momeni/car-market/pkg/adapter/config/cfg1"
	"github.com/momeni/car-market/pkg/adapter/config/vers"
)

// EnvConfigFile may name the configuration file path.
const EnvConfigFile = "CONFIG_FILE"

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Given path must belong to a configuration file which conforms with
// the latest known configuration settings format.
//
// Environment variables override the secrets and addresses of the
// file. They may be written in the optional envFiles (or in a .env
// file in the working directory when no envFiles are given) too.
// Variables which are already set in the process are not replaced.
func Load(path string, envFiles ...string) (*cfg1.Config, error) {
	if err := loadEnv(envFiles...); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	v, err := vers.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	if err := v.Validate(cfg1.Major, cfg1.Minor); err != nil {
		return nil, fmt.Errorf(
			"unexpected config version %s: %w",
			v.Versions.Config.String(), err,
		)
	}
	c, err := cfg1.Load(data, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("loading cfg1.Config: %w", err)
	}
	return c, nil
}

// Path returns the configuration file path, preferring the `flag`
// value, then the CONFIG_FILE environment variable, and at last the
// `fallback` value.
func Path(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return fallback
}

func loadEnv(envFiles ...string) error {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return fmt.Errorf("loading env files: %w", err)
		}
		return nil
	}
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env file: %w", err)
	}
	return nil
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vers parses the version of a configuration file before its
// other settings, so the matching config package can be chosen and
// older or newer files can be rejected with a clear error.
// The database schema is versioned by its migrations instead.
package vers

import (
	"fmt"

	"github.com/momeni/car-market/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Config may be embedded inline by the configuration structs in order
// to carry their format version.
type Config struct {
	Versions Versions `yaml:"versions"`
}

// Versions contains the configuration file format version.
type Versions struct {
	Config model.SemVer `yaml:"config"`
}

// Marshalled replaces the model.SemVer fields of Config with their
// string form for the YAML serialization.
type Marshalled struct {
	Versions struct {
		Config string `yaml:"config"`
	} `yaml:"versions"`
}

// Marshal returns the Marshalled form of vc.
func (vc *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Versions.Config = vc.Versions.Config.Marshal()
	return m
}

// Load deserializes the versions from data, ignoring other fields.
func Load(data []byte) (*Config, error) {
	vc := &Config{}
	if err := yaml.Unmarshal(data, vc); err != nil {
		return nil, err
	}
	return vc, nil
}

// Validate returns an error if the configuration format version of
// vc cannot be loaded by a binary which supports the major.minor
// format.
func (vc *Config) Validate(major, minor uint) error {
	v := vc.Versions.Config
	if !v.ReadableBy(major, minor) {
		return fmt.Errorf(
			"config format v%s is not readable by v%d.%d", v, major, minor,
		)
	}
	return nil
}

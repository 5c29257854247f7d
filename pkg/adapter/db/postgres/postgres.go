// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres is the PostgreSQL adapter of the repo.Pool, repo.Conn,
// and repo.Tx interfaces. It is implemented using the GORM framework and
// its pgx based driver. The *rp sub-packages implement the repositories
// of the use cases layer using the Conn and Tx types of this package.
package postgres

// SchemaName is the database schema which holds the cmweb tables.
// The normal role has it as its only search_path entry.
const SchemaName = "cmweb"

// SettingsComponent is the key of the cmweb row in the settings table.
const SettingsComponent = "cmweb"

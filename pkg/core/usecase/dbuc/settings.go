// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dbuc

import (
	"context"

	"github.com/momeni/car-market/pkg/core/repo"
)

// Pool is a repo.Pool which must be closed after use.
type Pool interface {
	repo.Pool

	Close() error
}

// Settings represents the database-related settings which should
// be provided by a configuration file. It allows a database connection
// pool to be established for an asked role, may be used as a factory
// for the repo.Schema and repo.Migrator repositories, and renews the
// passwords of a set of database roles while storing them in the
// relevant files (with the atomic updating considerations).
type Settings interface {
	// ConnectionPool creates a database connection pool for the `r`
	// role using the connection information which are kept in this
	// Settings instance.
	//
	// Password values are kept in files in a specific password dir
	// and each non-empty and non-commented line of the passwords file
	// should conform with this format:
	//
	//	host:port:dbname:role:password
	//
	// A second temporary passwords file may hold the new passwords
	// during a renewal. If the main passwords file could not be used
	// for connecting to the database, the temporary file is tried and
	// moved over the main file on success.
	ConnectionPool(ctx context.Context, r repo.Role) (Pool, error)

	// NewSchemaRepo instantiates a fresh Schema repository.
	// Role names may be suffixed based on the settings, so the Schema
	// repository must obtain the same role name suffix which is
	// appended by ConnectionPool and RenewPasswords methods.
	NewSchemaRepo() repo.Schema

	// NewMigrator creates a repo.Migrator which connects to the target
	// database using the normal role. It must be closed after use.
	NewMigrator(ctx context.Context) (repo.Migrator, error)

	// RenewPasswords generates new secure passwords for the given roles
	// and after recording them in a temporary file, will use the change
	// function in order to update the passwords of those roles in the
	// database too. The change function should perform the update in
	// a transaction which may or may not be committed when
	// RenewPasswords returns. After a successful commitment, the
	// returned finalizer must be called in order to move the temporary
	// passwords file over the main passwords file.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context,
			roles []repo.Role,
			passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)

	// SchemaName returns the name of the database schema which holds
	// the cmweb tables.
	SchemaName() string
}

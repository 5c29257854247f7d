// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Schema prepares an empty database for the marketplace. It is used
// by the `db init` command with the AdminRole.
type Schema interface {
	Conn(Conn) SchemaConnQueryer
	Tx(Tx) SchemaTxQueryer
}

type SchemaConnQueryer interface {
	SchemaQueryer
}

type SchemaTxQueryer interface {
	SchemaQueryer

	// ChangePasswords sets the SCRAM hashed passwords of roles, pairing
	// roles[i] with passwords[i]. Role names may get a configured
	// suffix.
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error
}

// SchemaQueryer manages the schema and the roles. Schema names are
// interpolated into the DDL statements, so they must be trusted.
type SchemaQueryer interface {
	// DropIfExists drops the schema with all of its tables.
	DropIfExists(ctx context.Context, schema string) error

	// CreateSchema creates the schema unless it exists.
	CreateSchema(ctx context.Context, schema string) error

	// CreateRoleIfNotExists creates a login role.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges lets role create and use tables in schema.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath makes schema the only search_path entry of role.
	SetSearchPath(ctx context.Context, schema string, role Role) error
}

// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"fmt"

	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/scram"
)

// scramIterations is the SCRAM iteration count of the role passwords
// as recommended by RFC 7677.
const scramIterations = 15000

// DropIfExists drops schema and all of its tables. A missing schema
// is not an error.
func DropIfExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE")
	return err
}

// CreateSchema creates schema unless it exists. Schema names are
// interpolated, so they must come from the configuration file.
func CreateSchema[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	_, err := q.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema)
	return err
}

// CreateRoleIfNotExists creates role+roleSuffix as a login role
// without a password. See ChangePasswords.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	r := role + roleSuffix
	// DO blocks take no parameters, so the role name is quoted
	// by format() inside of the block.
	_, err := q.Exec(ctx, fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (SELECT FROM pg_roles WHERE rolname = '%[1]s') THEN
		EXECUTE format('CREATE ROLE %%I WITH LOGIN', '%[1]s');
	END IF;
END
$$`, r))
	return err
}

// GrantPrivileges lets role+roleSuffix create and query the tables
// of schema, so the migrations can run as the normal role.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	r := role + roleSuffix
	_, err := q.Exec(ctx, fmt.Sprintf(
		"GRANT ALL PRIVILEGES ON SCHEMA %s TO %s", schema, r,
	))
	return err
}

func SetSearchPath[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	r := role + roleSuffix
	_, err := q.Exec(ctx, fmt.Sprintf(
		"ALTER ROLE %s SET search_path TO %s", r, schema,
	))
	return err
}

// ChangePasswords sets the password of each roles[i]+roleSuffix to
// the SCRAM hash of passwords[i], so the plaintext never reaches the
// server statement log.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if n, m := len(roles), len(passwords); n != m {
		return fmt.Errorf("got %d roles, but %d passwords", n, m)
	}
	for i, role := range roles {
		hp, err := hasher.Hash(passwords[i], "", scramIterations)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", role, err)
		}
		r := role + roleSuffix
		// ALTER ROLE takes no parameters. The hash contains only
		// printable ASCII letters without any quotes.
		if _, err := tx.Exec(ctx, fmt.Sprintf(
			"ALTER ROLE %s WITH PASSWORD '%s'", r, hp,
		)); err != nil {
			return fmt.Errorf("altering password of %q: %w", r, err)
		}
	}
	return nil
}

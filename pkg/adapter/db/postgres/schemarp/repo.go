// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp implements repo.Schema for PostgreSQL. It is used
// by `cmweb db init` in order to create the marketplace schema and the
// normal role which the web server connects with.
package schemarp

import (
	"context"

	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/scram"
)

// Repo is the schema repository. All role names get roleSuffix, so
// several deployments may share one database cluster.
type Repo struct {
	roleSuffix repo.Role
	hasher     scram.Hasher
}

// New creates a schema Repo. Passwords are hashed by hasher before
// being sent to the server.
func New(roleSuffix repo.Role, hasher scram.Hasher) *Repo {
	return &Repo{roleSuffix: roleSuffix, hasher: hasher}
}

// queryer implements the repo.SchemaQueryer methods once for both of
// the connection and transaction queryers.
type queryer[Q postgres.Queryer] struct {
	q      Q
	suffix repo.Role
}

// Conn panics if c was not created by the postgres package.
func (schema *Repo) Conn(c repo.Conn) repo.SchemaConnQueryer {
	return queryer[*postgres.Conn]{
		q: c.(*postgres.Conn), suffix: schema.roleSuffix,
	}
}

type txQueryer struct {
	queryer[*postgres.Tx]
	hasher scram.Hasher
}

// Tx panics if tx was not created by the postgres package. Passwords
// can only be changed in a transaction, so new roles are not visible
// before having a password.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaTxQueryer {
	return txQueryer{
		queryer: queryer[*postgres.Tx]{
			q: tx.(*postgres.Tx), suffix: schema.roleSuffix,
		},
		hasher: schema.hasher,
	}
}

func (sq queryer[Q]) DropIfExists(ctx context.Context, s string) error {
	return DropIfExists(ctx, sq.q, s)
}

func (sq queryer[Q]) CreateSchema(ctx context.Context, s string) error {
	return CreateSchema(ctx, sq.q, s)
}

func (sq queryer[Q]) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	return CreateRoleIfNotExists(ctx, sq.q, sq.suffix, role)
}

func (sq queryer[Q]) GrantPrivileges(
	ctx context.Context, s string, role repo.Role,
) error {
	return GrantPrivileges(ctx, sq.q, sq.suffix, s, role)
}

func (sq queryer[Q]) SetSearchPath(
	ctx context.Context, s string, role repo.Role,
) error {
	return SetSearchPath(ctx, sq.q, sq.suffix, s, role)
}

func (tq txQueryer) ChangePasswords(
	ctx context.Context, roles []repo.Role, passwords []string,
) error {
	return ChangePasswords(ctx, tq.q, tq.suffix, tq.hasher, roles, passwords)
}

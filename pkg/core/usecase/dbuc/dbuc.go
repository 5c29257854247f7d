// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbuc contains the database management use cases. It can
// initialize an empty database (creating the cmweb schema and its
// normal role and renewing the roles passwords) and migrate the schema
// upwards or downwards using the versioned migrations of the adapters
// layer.
package dbuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/repo"
)

// UseCase represents the database management use case.
type UseCase struct {
	settings   Settings    // target database settings
	schemaRepo repo.Schema // schema and roles management repo
}

// New creates a UseCase instance, using the `s` settings in order to
// find the target database connection information. The repo.Schema
// repository is taken from `s` too, so roles can be suffixed the same
// way that ConnectionPool suffixes them.
func New(s Settings) *UseCase {
	return &UseCase{
		settings:   s,
		schemaRepo: s.NewSchemaRepo(),
	}
}

// InitDB drops the cmweb schema (if it exists) and creates it again,
// using the admin role. It also creates the normal role (if it does
// not exist), grants privileges on the created schema to the normal
// role so it can create tables, sets its search_path, and renews
// passwords of both admin and normal roles. These operations are
// performed in a single transaction and are coordinated with the
// password files so they can be repeated after an abrupt failure (see
// the Settings.RenewPasswords method).
// Thereafter, all migrations are applied using the normal role.
func (uc *UseCase) InitDB(ctx context.Context) error {
	if err := uc.dropAndCreateAgain(ctx); err != nil {
		return fmt.Errorf("dropping/recreating schema: %w", err)
	}
	if err := uc.MigrateUp(ctx, 0); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func (uc *UseCase) dropAndCreateAgain(ctx context.Context) error {
	p, err := uc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	sn := uc.settings.SchemaName()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.schemaRepo.Tx(tx)
			if err := q.DropIfExists(ctx, sn); err != nil {
				return fmt.Errorf("dropping %q: %w", sn, err)
			}
			if err := q.CreateSchema(ctx, sn); err != nil {
				return fmt.Errorf("creating %q: %w", sn, err)
			}
			if err := q.CreateRoleIfNotExists(
				ctx, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("creating normal role: %w", err)
			}
			if err := q.GrantPrivileges(
				ctx, sn, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("granting normal role privs: %w", err)
			}
			if err := q.SetSearchPath(
				ctx, sn, repo.NormalRole,
			); err != nil {
				return fmt.Errorf(
					"setting search_path of normal role to %q: %w",
					sn, err,
				)
			}
			var err error
			finalizer, err = uc.settings.RenewPasswords(
				ctx, q.ChangePasswords, repo.AdminRole, repo.NormalRole,
			)
			if err != nil {
				return fmt.Errorf("RenewPasswords: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	log.Info(ctx, "schema is recreated", slog.String("schema", sn))
	return nil
}

// MigrateUp applies the next n pending migrations, or all of them if
// n is zero. Having no pending migration is not an error.
func (uc *UseCase) MigrateUp(ctx context.Context, n uint) error {
	return uc.migrate(ctx, "up", n, repo.Migrator.Up)
}

// MigrateDown reverts the last n applied migrations, or all of them
// if n is zero.
func (uc *UseCase) MigrateDown(ctx context.Context, n uint) error {
	return uc.migrate(ctx, "down", n, repo.Migrator.Down)
}

// Version reports the current schema version and whether the last
// migration has failed midway and left a dirty schema behind.
func (uc *UseCase) Version(ctx context.Context) (
	version uint, dirty bool, err error,
) {
	m, err := uc.settings.NewMigrator(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("creating migrator: %w", err)
	}
	defer closeMigrator(ctx, m)
	version, dirty, err = m.Version(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("querying version: %w", err)
	}
	return version, dirty, nil
}

func (uc *UseCase) migrate(
	ctx context.Context,
	direction string,
	n uint,
	step func(repo.Migrator, context.Context, uint) error,
) error {
	m, err := uc.settings.NewMigrator(ctx)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer closeMigrator(ctx, m)
	if err := step(m, ctx, n); err != nil {
		return fmt.Errorf("migrating %s (n=%d): %w", direction, n, err)
	}
	v, dirty, err := m.Version(ctx)
	if err != nil {
		return fmt.Errorf("querying version: %w", err)
	}
	log.Info(
		ctx, "schema is migrated",
		slog.String("direction", direction),
		slog.Uint64("version", uint64(v)),
		slog.Bool("dirty", dirty),
	)
	return nil
}

func closeMigrator(ctx context.Context, m repo.Migrator) {
	if err := m.Close(); err != nil {
		log.Warn(ctx, "closing migrator", log.Err("err", err))
	}
}

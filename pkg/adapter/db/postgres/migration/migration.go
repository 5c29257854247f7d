// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration embeds the versioned SQL migrations of the cmweb
// schema and applies them using the golang-migrate library. Each
// NNNN_name.up.sql file has a NNNN_name.down.sql counterpart which
// reverts it, so the schema may be migrated in both directions.
// The schema_migrations bookkeeping table is created in the search_path
// of the connecting role, which is the cmweb schema for the normal role.
package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/momeni/car-market/pkg/core/log"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Latest is the version of the last embedded migration.
const Latest = 9

// Migrator wraps a golang-migrate instance and implements the
// repo.Migrator interface.
type Migrator struct {
	m *migrate.Migrate
}

// New creates a Migrator for the `url` database. The url must have
// the postgres or postgresql scheme.
func New(url string) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("creating migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	m.Log = logger{}
	return &Migrator{m: m}, nil
}

// Up applies the next n pending migrations, or all of them if n is
// zero. Having no pending migration or fewer than n pending migrations
// is not an error.
func (mig *Migrator) Up(ctx context.Context, n uint) error {
	return mig.run(ctx, func() error {
		if n == 0 {
			return mig.m.Up()
		}
		return mig.m.Steps(int(n))
	})
}

// Down reverts the last n applied migrations, or all of them if n
// is zero.
func (mig *Migrator) Down(ctx context.Context, n uint) error {
	return mig.run(ctx, func() error {
		if n == 0 {
			return mig.m.Down()
		}
		return mig.m.Steps(-int(n))
	})
}

// Version reports the current schema version and whether the last
// migration has failed midway. Zero version means that no migration
// is applied yet.
func (mig *Migrator) Version(context.Context) (uint, bool, error) {
	v, dirty, err := mig.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close releases the source and database resources of mig.
func (mig *Migrator) Close() error {
	srcErr, dbErr := mig.m.Close()
	return errors.Join(srcErr, dbErr)
}

// run calls f while watching ctx, so a cancelled context stops the
// migration gracefully after its current step.
func (mig *Migrator) run(ctx context.Context, f func() error) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			mig.m.GracefulStop <- true
		case <-done:
		}
	}()
	err := f()
	var short migrate.ErrShortLimit
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		return nil
	case errors.As(err, &short):
		log.Warn(
			ctx, "fewer migrations were available than asked",
			slog.Uint64("short", uint64(short.Short)),
		)
		return nil
	}
	return err
}

type logger struct{}

func (logger) Printf(format string, v ...any) {
	log.Info(context.Background(), fmt.Sprintf(format, v...))
}

func (logger) Verbose() bool {
	return false
}

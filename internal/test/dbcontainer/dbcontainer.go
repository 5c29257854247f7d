// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer starts a throwaway PostgreSQL container for the
// integration test suites. Docker or podman must be reachable, e.g.
// DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock for podman.
// These suites are skipped by `go test -short`.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/stretchr/testify/assert"
)

// EnvVersion may select the postgres image tag. It defaults to 16.
const EnvVersion = "CMWEB_TEST_POSTGRES"

// sqlStateStartingUp is reported while the server is still starting.
const sqlStateStartingUp = "57P03"

// New starts a postgres container and connects a pool to it, retrying
// until timeout passes while the server is starting up. Both of them
// are closed by t.Cleanup. Failures are reported on t and yield false.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	ok bool,
) {
	if testing.Short() {
		t.Skip("skipping the postgres container in short mode")
	}
	ver := os.Getenv(EnvVersion)
	if ver == "" {
		ver = "16"
	}
	startCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(startCtx, ver)
	if !assert.NoError(t, err, "failed to start postgres:%s", ver) {
		return nil, nil, false
	}
	t.Cleanup(func() {
		assert.NoError(t, pg.Shutdown(ctx), "failed to shutdown postgres")
	})
	for pool == nil {
		pool, err = postgres.NewPool(startCtx, pg.ConnectionString())
		if retriable(startCtx, err) {
			continue
		}
		if !assert.NoError(t, err, "cannot connect to postgres") {
			return nil, nil, false
		}
	}
	t.Cleanup(func() {
		assert.NoError(t, pool.Close(), "failed to close the pool")
	})
	return pg, pool, true
}

func retriable(ctx context.Context, err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == sqlStateStartingUp
	}
	var netErr net.Error
	return ctx.Err() == nil && errors.As(err, &netErr)
}

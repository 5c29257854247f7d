// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema verifies the database schema which is created by the
// embedded migrations. Each migration version introduces a known set
// of tables, so after migrating up or down to some version, tables of
// the applied versions must exist and tables of the later versions
// must be absent. Only tables are checked because the repositories
// integration tests exercise their columns.
package schema

import (
	"context"
	"testing"

	"github.com/momeni/car-market/pkg/adapter/db/postgres/migration"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tables lists the tables which are created by each migration version.
var Tables = map[uint][]string{
	1: {"profiles", "dealers"},
	2: {"listings"},
	3: {"test_drive_inquiries"},
	4: {"price_alerts", "saved_searches"},
	5: {"subscription_requests"},
	6: {"conversations", "messages"},
	7: {"notifications"},
	8: {"finance_quotes"},
	9: {"settings"},
}

// Verifier checks the tables of the current schema using a database
// connection.
type Verifier struct {
	c repo.Conn
}

// NewVerifier wraps the c database connection.
func NewVerifier(c repo.Conn) *Verifier {
	return &Verifier{c: c}
}

// VerifySchema marks t as failed unless the tables of the migrations
// up to the version (inclusive) exist and the others are absent.
func (v *Verifier) VerifySchema(
	ctx context.Context, t *testing.T, version uint,
) {
	existing := v.tables(ctx, t)
	for ver := uint(1); ver <= migration.Latest; ver++ {
		for _, tbl := range Tables[ver] {
			if ver <= version {
				assert.Containsf(
					t, existing, tbl, "version %d table is missing", ver,
				)
			} else {
				assert.NotContainsf(
					t, existing, tbl, "version %d table is present", ver,
				)
			}
		}
	}
}

func (v *Verifier) tables(ctx context.Context, t *testing.T) []string {
	rows, err := v.c.Query(ctx, `SELECT table_name
FROM information_schema.tables
WHERE table_schema = current_schema()`)
	require.NoError(t, err, "listing tables")
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

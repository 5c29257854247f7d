// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/momeni/car-market/pkg/core/repo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tx is an open READ COMMITTED transaction which was begun by Conn.Tx.
// It embeds the transaction *gorm.DB for the *rp packages.
type Tx struct {
	*gorm.DB
}

// Exec runs sql with args and returns the number of affected rows.
// Without args, sql may hold several statements, such as the DDL of
// `db init`. Placeholders may be $1, ?, or @name.
func (tx *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return exec(tx.DB.WithContext(ctx), sql, args...)
}

// Query runs the single sql statement with args. The returned rows
// must be closed before the next statement of tx.
func (tx *Tx) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	return query(tx.DB.WithContext(ctx), sql, args...)
}

func (tx *Tx) IsTx() {
}

// GORM returns the transaction bound to ctx.
func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}

// ForUpdate returns the transaction bound to ctx whose SELECT queries
// lock the selected rows until the end of tx.
func (tx *Tx) ForUpdate(ctx context.Context) *gorm.DB {
	return tx.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

func exec(gdb *gorm.DB, sql string, args ...any) (int64, error) {
	gdb = gdb.Exec(sql, args...)
	if err := gdb.Error; err != nil {
		return 0, Error(err)
	}
	return gdb.RowsAffected, nil
}

func query(gdb *gorm.DB, sql string, args ...any) (repo.Rows, error) {
	rows, err := gdb.Raw(sql, args...).Rows()
	if err != nil {
		return nil, Error(err)
	}
	return rowsAdapter{rows}, nil
}

// rowsAdapter makes *sql.Rows a repo.Rows.
type rowsAdapter struct {
	*sql.Rows
}

// Close ignores the close error which is also reported by Err.
func (ra rowsAdapter) Close() {
	_ = ra.Rows.Close()
}

// Values scans the current row into a slice with one entry per column.
func (ra rowsAdapter) Values() ([]any, error) {
	cols, err := ra.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	vals := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err = ra.Scan(dest...); err != nil {
		return nil, err
	}
	return vals, nil
}

// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// ConnHandler is called with an acquired connection. The connection
// goes back to the pool when the handler returns, so it must not be
// retained.
type ConnHandler func(context.Context, Conn) error

// Pool hands out the marketplace database connections. Use cases hold
// a Pool and acquire one connection per operation.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}

// TxHandler is called with an open transaction. Returning nil commits
// the transaction and any error rolls it back.
type TxHandler func(context.Context, Tx) error

// Conn is one database connection. It is not safe for concurrent use.
type Conn interface {
	Queryer

	// Tx runs handler in a READ COMMITTED transaction. Use cases which
	// check a row before changing it, such as the listing quota of a
	// dealer, lock that row inside of the transaction.
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn keeps a Tx from satisfying the Conn interface.
	IsConn()
}

// Tx is an open transaction. It is not safe for concurrent use.
type Tx interface {
	Queryer

	// IsTx keeps a Conn from satisfying the Tx interface.
	IsTx()
}

// Queryer runs raw SQL statements. Repositories mostly use their own
// query builders and only need it for statements such as the DDL of
// the `db init` command.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows iterates over the result of Queryer.Query. It must be closed.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
}

// Role names a database role. Its password is kept in the passwords
// directory of the configuration file.
type Role string

const (
	// AdminRole is a pre-existing superuser. It is only used by the
	// `db init` command for creation of the schema and NormalRole.
	AdminRole Role = "admin"

	// NormalRole owns the marketplace tables. It runs the migrations
	// and serves all requests.
	NormalRole Role = "cmweb"
)

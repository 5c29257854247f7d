// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fakedb provides an in-process implementation of the
// repo.Pool, repo.Conn, and repo.Tx interfaces for the use cases unit
// tests. It runs no SQL. The fake repositories of each test decide
// what is stored, while Pool counts the committed and rolled back
// transactions, so tests can assert the transactions boundaries.
package fakedb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/momeni/car-market/pkg/core/repo"
)

// ErrNoSQL is returned by Exec and Query methods.
var ErrNoSQL = errors.New("fakedb does not run SQL")

// Pool is a fake connection pool.
type Pool struct {
	mu         sync.Mutex
	conns      int
	commits    int
	rollbacks  int
	closed     bool
	failBegins bool
}

// Conn calls handler with a fresh fake connection.
func (p *Pool) Conn(ctx context.Context, handler repo.ConnHandler) error {
	p.mu.Lock()
	p.conns++
	p.mu.Unlock()
	return handler(ctx, &Conn{pool: p})
}

// Close marks p as closed. It is reported by the Closed method.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Closed reports if Close was called.
func (p *Pool) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// FailBegins makes all future transactions to fail on begin.
func (p *Pool) FailBegins() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failBegins = true
}

// Stats returns the number of acquired connections, committed and
// rolled back transactions.
func (p *Pool) Stats() (conns, commits, rollbacks int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conns, p.commits, p.rollbacks
}

// Conn is a fake connection.
type Conn struct {
	pool *Pool
}

// Tx runs handler in a fake transaction which is committed if the
// handler returns nil and is rolled back otherwise.
func (c *Conn) Tx(ctx context.Context, handler repo.TxHandler) error {
	c.pool.mu.Lock()
	fail := c.pool.failBegins
	c.pool.mu.Unlock()
	if fail {
		return errors.New("begin tx: fakedb is failing")
	}
	err := handler(ctx, &Tx{})
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	if err != nil {
		c.pool.rollbacks++
		return fmt.Errorf("handler: %w", err)
	}
	c.pool.commits++
	return nil
}

func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrNoSQL
}

func (c *Conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrNoSQL
}

func (c *Conn) IsConn() {
}

// Tx is a fake transaction.
type Tx struct{}

func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrNoSQL
}

func (tx *Tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrNoSQL
}

func (tx *Tx) IsTx() {
}

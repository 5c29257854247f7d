// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/momeni/car-market/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool represents a database connection pool. It is safe to be used
// concurrently, so connections may be acquired from it using the Conn
// method by multiple goroutines.
type Pool struct {
	*gorm.DB
}

// PoolOption configures the sql.DB of a Pool which is created by
// the NewPool function.
type PoolOption func(p *Pool) error

// WithMaxConns limits the number of open connections of a Pool and
// keeps at most half of them idle.
func WithMaxConns(n int) PoolOption {
	return func(p *Pool) error {
		if n < 1 {
			return fmt.Errorf("max conns must be positive: %d", n)
		}
		db, err := p.DB.DB()
		if err != nil {
			return err
		}
		db.SetMaxOpenConns(n)
		db.SetMaxIdleConns((n + 1) / 2)
		return nil
	}
}

// NewPool connects to the `url` database and tests the connection.
func NewPool(
	ctx context.Context, url string, opts ...PoolOption,
) (*Pool, error) {
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	gdb = gdb.Session(&gorm.Session{
		Logger: logger.New(
			log.New(os.Stderr, "\r\n", log.LstdFlags), logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			}),
	})
	pool := &Pool{DB: gdb}
	for _, opt := range opts {
		if err = opt(pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("applying pool option: %w", err)
		}
	}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a connection from the pool and passes it to `f`.
// The connection is released when `f` returns.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
}

// Close closes all connections of the pool.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

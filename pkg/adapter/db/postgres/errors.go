// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/car-market/pkg/core/cerr"
	"gorm.io/gorm"
)

// PostgreSQL error codes which are reported to the end-users.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	CheckViolation      = "23514"
	InvalidTextRepr     = "22P02"
)

// Error converts the constraint violation errors of PostgreSQL into
// their corresponding cerr.Error instances, so they carry a proper
// HTTP status code. Unique violations become conflicts, while foreign
// key and check violations become bad requests. Missing GORM records
// are reported as not found. Other errors are returned unchanged and
// a nil err yields nil.
func Error(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cerr.NotFound(err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case UniqueViolation:
		return cerr.Conflict(fmt.Errorf(
			"duplicate value violates %s: %w", pgErr.ConstraintName, err,
		))
	case ForeignKeyViolation:
		return cerr.BadRequest(fmt.Errorf(
			"referenced row is missing (%s): %w", pgErr.ConstraintName, err,
		))
	case CheckViolation, InvalidTextRepr:
		return cerr.BadRequest(err)
	default:
		return err
	}
}

// ExpectOne returns a not found error unless n is one. It is used
// after the UPDATE/DELETE ... RETURNING statements which must match
// exactly one row.
func ExpectOne(n int) error {
	if n != 1 {
		return cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return nil
}

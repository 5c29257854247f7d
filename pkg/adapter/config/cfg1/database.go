// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/migration"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/schemarp"
	"github.com/momeni/car-market/pkg/adapter/hash/scram"
	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/repo"
	scrami "github.com/momeni/car-market/pkg/core/scram"
	"github.com/momeni/car-market/pkg/core/usecase/dbuc"
)

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like carmarket
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. Parallel integration tests use a unique suffix per
	// test, so they can share one database cluster.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`

	// AuthMethod is the passwords hashing method of the DBMS, either
	// scram-sha-1 or scram-sha-256 (the default).
	AuthMethod string `yaml:"auth-method,omitempty"`

	// MaxConns limits the open connections of each pool.
	// Zero keeps the driver default.
	MaxConns int `yaml:"max-conns,omitempty"`

	// hasher is created by ValidateAndNormalize based on AuthMethod.
	hasher scrami.Hasher `yaml:"-"`
}

// ConnectionPool creates a connection pool for the `r` role.
// The .pgpass file in the d.PassDir folder is consulted first, having
// lines with this format:
//
//	host:port:dbname:role:password
//
// If that fails, passwords might have been renewed by an interrupted
// `db init` command. Therefore, the .pgpass.new file is tried next and
// on success, it is moved over the .pgpass file.
//
// The `d.RoleSuffix` is appended to the `r` role name.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	var opts []postgres.PoolOption
	if d.MaxConns > 0 {
		opts = append(opts, postgres.WithMaxConns(d.MaxConns))
	}
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u, opts...)
	if err == nil {
		return p, nil
	}
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	log.Warn(
		ctx, "failed to connect, trying the renewed passwords",
		slog.String("pass-file", path),
		slog.String("next", newPath),
		log.Err("err", err),
	)
	u, err = d.ConnectionURL(r, newPath)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", newPath, err)
	}
	p, err = postgres.NewPool(ctx, u, opts...)
	if err != nil {
		return nil, fmt.Errorf("can use neither pass-file: %w", err)
	}
	if err = os.Rename(newPath, path); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("os.Rename: %w", err)
	}
	return p, nil
}

// ConnectionURL returns the postgresql URL for connecting with the
// `r` role (suffixed by d.RoleSuffix). The password is looked up from
// the `path` pgpass file which may also have empty or `#` commented
// lines. Query parameters may be passed as key and value pairs.
func (d Database) ConnectionURL(
	r repo.Role, path string, params ...string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	if len(params)%2 != 0 {
		return "", fmt.Errorf("odd number of query parameters")
	}
	q := url.Values{}
	for i := 0; i < len(params); i += 2 {
		q.Set(params[i], params[i+1])
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// NewSchemaRepo instantiates a Schema repository which suffixes role
// names like ConnectionPool and hashes passwords for AuthMethod.
// ValidateAndNormalize must be called beforehand.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(d.RoleSuffix, d.hasher)
}

// NewMigrator creates a schema migrator which connects with the normal
// role, keeping its bookkeeping table in the cmweb schema.
func (d Database) NewMigrator() (*migration.Migrator, error) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(
		repo.NormalRole, path, "search_path", postgres.SchemaName,
	)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	return migration.New(u)
}

// RenewPasswords generates new random passwords for `roles`, writes
// them in the .pgpass.new file of d.PassDir, and then calls `change`
// so they are updated in the database too. After the transaction of
// `change` is committed, the returned finalizer must be called in
// order to move .pgpass.new over .pgpass. Role names are suffixed by
// d.RoleSuffix in the passwords file and `change` must do the same.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	lines := make([]string, len(roles))
	b := make([]byte, 16) // 128 bits
	prfx := fmt.Sprintf("%s:%d:%s", d.Host, d.Port, d.Name)
	for i, r := range roles {
		if _, err = rand.Read(b); err != nil {
			return nil, fmt.Errorf("rand.Read for i=%d: %w", i, err)
		}
		passwords[i] = base64.RawStdEncoding.EncodeToString(b)
		lines[i] = fmt.Sprintf(
			"%s:%s:%s\n", prfx, r+d.RoleSuffix, passwords[i],
		)
	}
	orgPath := filepath.Join(d.PassDir, ".pgpass")
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	err = os.WriteFile(newPath, []byte(strings.Join(lines, "")), 0o600)
	if err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return func() error {
		return os.Rename(newPath, orgPath)
	}, nil
}

// ValidateAndNormalize checks the database settings and creates the
// passwords hasher. It takes a pointer receiver because it fills the
// defaults too.
func (d *Database) ValidateAndNormalize() error {
	switch {
	case d.Host == "":
		return fmt.Errorf("database host is empty")
	case d.Port <= 0 || d.Port > 65535:
		return fmt.Errorf("invalid database port: %d", d.Port)
	case d.Name == "":
		return fmt.Errorf("database name is empty")
	case d.MaxConns < 0:
		return fmt.Errorf("max-conns (%d) is negative", d.MaxConns)
	}
	if d.PassDir == "" {
		d.PassDir = "."
	}
	m, err := scram.ByMethod(d.AuthMethod)
	if err != nil {
		return err
	}
	d.AuthMethod = strings.ToLower(m.Name())
	d.hasher = m
	return nil
}

// dbSettings adapts a Config to the dbuc.Settings interface.
type dbSettings struct {
	d Database
}

// DBSettings returns the database management settings of `c` for the
// dbuc use case.
func (c *Config) DBSettings() dbuc.Settings {
	return dbSettings{d: c.Database}
}

func (s dbSettings) ConnectionPool(
	ctx context.Context, r repo.Role,
) (dbuc.Pool, error) {
	p, err := s.d.ConnectionPool(ctx, r)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s dbSettings) NewSchemaRepo() repo.Schema {
	return s.d.NewSchemaRepo()
}

func (s dbSettings) NewMigrator(context.Context) (repo.Migrator, error) {
	m, err := s.d.NewMigrator()
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s dbSettings) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (func() error, error) {
	return s.d.RenewPasswords(ctx, change, roles...)
}

func (s dbSettings) SchemaName() string {
	return postgres.SchemaName
}

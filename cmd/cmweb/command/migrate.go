// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/momeni/car-market/pkg/core/usecase/dbuc"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema upwards or downwards",
	Long: `Migrate the database schema upwards or downwards using the
embedded versioned migrations. The database connection information is
read from the configuration file and the normal role is used.
A failed migration leaves a dirty version behind which must be fixed
manually before running further migrations.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up [N]",
	Short: "Apply the next N (or all) pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd.Context(), args, (*dbuc.UseCase).MigrateUp)
	},
	Args: cobra.MaximumNArgs(1),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [N]",
	Short: "Revert the last N (or all) applied migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(
			cmd.Context(), args, (*dbuc.UseCase).MigrateDown,
		)
	},
	Args: cobra.MaximumNArgs(1),
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE:  printVersion,
	Args:  cobra.NoArgs,
}

func runMigration(
	ctx context.Context,
	args []string,
	f func(uc *dbuc.UseCase, ctx context.Context, n uint) error,
) error {
	var n uint
	if len(args) == 1 {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("parsing steps %q: %w", args[0], err)
		}
		n = uint(v)
	}
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if err = f(dbuc.New(c.DBSettings()), ctx, n); err != nil {
		return fmt.Errorf("migrating DB: %w", err)
	}
	return nil
}

func printVersion(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	v, dirty, err := dbuc.New(c.DBSettings()).Version(cmd.Context())
	if err != nil {
		return fmt.Errorf("checking DB version: %w", err)
	}
	if dirty {
		cmd.Printf("%d (dirty)\n", v)
		return nil
	}
	cmd.Println(v)
	return nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	dbCmd.AddCommand(migrateCmd)
}

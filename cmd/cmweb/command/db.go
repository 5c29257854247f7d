// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/momeni/car-market/pkg/core/usecase/dbuc"
	"github.com/spf13/cobra"
)

const credsRenewalMessage = `The passwords of the admin and normal roles are renewed and written
in the .pgpass file of the configured pass-dir. The new passwords are
first written in the .pgpass.new file, so an interrupted attempt can
be repeated or the server can still connect with the new passwords.`

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init may be used and for upgrade or downgrade of an existing
installation, the migrate may be used.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema and apply all migrations",
	Long: `Create the database schema and apply all migrations, using
the admin role which must exist beforehand. The cmweb schema is dropped
if it exists, so all of its contents will be lost. The normal role is
created if it does not exist and receives the privileges which are
required for the schema migrations.
` + credsRenewalMessage,
	RunE: initDB,
	Args: cobra.NoArgs,
}

func initDB(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if err = dbuc.New(c.DBSettings()).InitDB(cmd.Context()); err != nil {
		return fmt.Errorf("initializing DB: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dbCmd)
}

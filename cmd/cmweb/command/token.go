// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	tokenSubject string
	tokenRole    string
	tokenEmail   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for development",
	Long: `Issue a bearer token for development and testing purposes.
Tokens are signed by the configured secret and expire after the
configured token-ttl. A random subject is used if it is not given.
Profiles are created on the first authenticated request, so the
printed token may be used right away.`,
	Args: cobra.NoArgs,
	RunE: issueToken,
}

func issueToken(cmd *cobra.Command, _ []string) error {
	p := model.Principal{
		Role:  model.Role(tokenRole),
		Email: tokenEmail,
	}
	if err := p.Role.Validate(); err != nil {
		return fmt.Errorf("role %q: %w", tokenRole, err)
	}
	if tokenSubject == "" {
		p.UserID = uuid.New()
	} else {
		id, err := uuid.Parse(tokenSubject)
		if err != nil {
			return fmt.Errorf("parsing subject %q: %w", tokenSubject, err)
		}
		p.UserID = id
	}
	c, err := loadConfig()
	if err != nil {
		return err
	}
	tokens, err := c.Auth.NewTokens()
	if err != nil {
		return fmt.Errorf("creating tokens issuer: %w", err)
	}
	tok, err := tokens.Issue(p)
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}
	cmd.Println(tok)
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration file actions",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration settings",
	Long: `Print the effective configuration settings after applying the
environment variables and the default values. Secrets are hidden.
Mutable settings which are stored in the database are not shown, see
the settings REST API for them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshalling configs: %w", err)
		}
		cmd.Print(string(b))
		return nil
	},
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenSubject, "subject", "", "user ID (a UUID)")
	f.StringVar(&tokenRole, "role", string(model.RoleCustomer), "customer, dealer, or admin")
	f.StringVar(&tokenEmail, "email", "", "email address of the user")
	_ = tokenCmd.MarkFlagRequired("email")

	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(tokenCmd, configCmd)
}

package main

import (
	"errors"
	"fmt"

	"github.com/hr-admin-api/internal/auth"
	"github.com/hr-admin-api/internal/config"
	"github.com/spf13/cobra"
)

type tokenOptions struct {
	UserID         int64
	OrganizationID int64
}

func newTokenCmd() *cobra.Command {
	var opts tokenOptions

	cmd := &cobra.Command{
		Use:   "token --user <id> --org <id>",
		Short: "Issue an API access token for local development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.UserID <= 0 || opts.OrganizationID <= 0 {
				return errors.New("--user and --org are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			token, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).
				Generate(opts.UserID, opts.OrganizationID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.UserID, "user", 0, "user id")
	cmd.Flags().Int64Var(&opts.OrganizationID, "org", 0, "organization id")

	return cmd
}

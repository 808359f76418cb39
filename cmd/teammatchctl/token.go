package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teammatch/backend/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint an access token for a user (development only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := envFrom(cmd)
		if e.cfg.IsProduction() {
			return fmt.Errorf("refusing to mint tokens in production")
		}

		userID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}

		jwtManager := auth.NewJWTManager(e.cfg.JWT.Secret, e.cfg.JWT.AccessExpiry, e.cfg.JWT.Issuer)
		token, expiresAt, err := jwtManager.GenerateAccessToken(userID)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format("2006-01-02 15:04 MST"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

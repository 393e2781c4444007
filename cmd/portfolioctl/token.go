package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/portfolio-api/internal/auth"
	"github.com/portfolio-api/internal/config"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin bearer token signed with ADMIN_JWT_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		authCfg := config.AuthFromEnv()

		tokens := auth.NewTokenService(authCfg.JWTSecret)
		if tokens == nil {
			return fmt.Errorf("ADMIN_JWT_SECRET is not set")
		}

		ttl := tokenTTL
		if ttl == 0 {
			ttl = authCfg.TokenTTL
		}

		token, err := tokens.Issue(tokenSubject, auth.RoleAdmin, ttl)
		if err != nil {
			return fmt.Errorf("token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "owner", "subject claim of the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default ADMIN_TOKEN_TTL)")
	rootCmd.AddCommand(tokenCmd)
}

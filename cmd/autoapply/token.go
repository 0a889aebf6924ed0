package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/config"
	"github.com/jonathan/autoapply/internal/server"
	"github.com/spf13/cobra"
)

var tokenUserID string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Long: `Signs a token for a user with JWT_SECRET. Production tokens come from the
external auth service; this is for local testing against the API.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := uuid.Parse(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			return fmt.Errorf("failed to load JWT config: %w", err)
		}
		token, err := server.NewJWTService(jwtCfg).GenerateToken(userID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "User ID (required)")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}

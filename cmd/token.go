package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"musehub/config"
	"musehub/core/auth"
)

var (
	tokenUserID uint64
	tokenAdmin  bool
	tokenTTL    time.Duration
	adminToken  string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed API token",
	Long: `Mints a JWT for the given user id. Minting an admin token requires
the admin credential matching ADMIN_TOKEN_HASH (a bcrypt hash) so that
shell access to the config alone is not enough to mint admin tokens.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if tokenAdmin {
			if cfg.AdminTokenHash == "" {
				fmt.Fprintln(os.Stderr, "ADMIN_TOKEN_HASH is not configured, cannot mint admin tokens")
				os.Exit(1)
			}
			if !auth.CheckTokenHash(adminToken, cfg.AdminTokenHash) {
				fmt.Fprintln(os.Stderr, "admin credential rejected")
				os.Exit(1)
			}
		}

		token, err := auth.GenerateToken(cfg.JWTSecret, tokenUserID, tokenAdmin, tokenTTL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to mint token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	tokenCmd.Flags().Uint64Var(&tokenUserID, "user", 0, "user id the token identifies")
	tokenCmd.Flags().BoolVar(&tokenAdmin, "admin", false, "mint an admin token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	tokenCmd.Flags().StringVar(&adminToken, "credential", "", "admin credential, required with --admin")
	rootCmd.AddCommand(tokenCmd)
}

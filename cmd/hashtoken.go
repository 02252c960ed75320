package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"musehub/core/auth"
)

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token <credential>",
	Short: "Hash an admin credential for ADMIN_TOKEN_HASH",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hash, err := auth.HashToken(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to hash credential: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
	},
}

func init() {
	rootCmd.AddCommand(hashTokenCmd)
}

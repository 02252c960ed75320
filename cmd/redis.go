package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"musehub/config"
	"musehub/db"
)

var redisCmd = &cobra.Command{
	Use:   "redis-check",
	Short: "Check Redis connectivity and the stored snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if err := db.ConnectRedis(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer db.CloseRedis()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		data, err := db.NewRedisPersister(db.GetRedisClient()).LoadSnapshot(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "snapshot read failed: %v\n", err)
			os.Exit(1)
		}
		if data == nil {
			fmt.Println("redis ok, no snapshot stored")
			return
		}
		fmt.Printf("redis ok, snapshot is %d bytes\n", len(data))
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}

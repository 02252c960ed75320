package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"musehub/config"
	"musehub/db"
)

var mysqlCmd = &cobra.Command{
	Use:   "mysql-check",
	Short: "Check MySQL connectivity and the stored snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if err := db.ConnectDB(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "mysql connection failed: %v\n", err)
			os.Exit(1)
		}
		defer db.CloseDB()

		var size int64
		err := db.GetDB().QueryRow("SELECT LENGTH(data) FROM store_snapshots WHERE id = 1").Scan(&size)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			fmt.Println("mysql ok, no snapshot stored")
		case err != nil:
			// The snapshot table only exists after the server has run once
			// with STORE_DRIVER=mysql.
			fmt.Printf("mysql ok, snapshot table not readable: %v\n", err)
		default:
			fmt.Printf("mysql ok, snapshot is %d bytes\n", size)
		}
	},
}

func init() {
	rootCmd.AddCommand(mysqlCmd)
}

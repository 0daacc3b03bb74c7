package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zappay/zappay-backend/pkg/db"
)

// dbPingCmd represents the db ping command
var dbPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the database accepts connections",
	Long: `Open a connection with the resolved configuration, then close it.

The schema is not touched, even in production.

Example:
  zappayctl db ping
  zappayctl db ping --timeout 5s`,
	Run: func(cmd *cobra.Command, args []string) {
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if err := pingDatabase(timeout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fmt.Println("Database is reachable")
	},
}

func init() {
	dbCmd.AddCommand(dbPingCmd)
	dbPingCmd.Flags().Duration("timeout", 30*time.Second, "give up after this long")
}

func pingDatabase(timeout time.Duration) error {
	cfg, logger := resolveConfig()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	m := db.NewManager(db.WithLogger(logger))
	h, err := m.Open(ctx, cfg)
	if err != nil {
		return err
	}
	return m.Close(h)
}

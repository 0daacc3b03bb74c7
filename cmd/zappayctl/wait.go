package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zappay/zappay-backend/pkg/db"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the database to accept connections",
	Long: `Wait for the database to accept connections.

Connection attempts are retried with exponential backoff until one
succeeds or the number of retries is exhausted. Authentication and
certificate failures stop the wait immediately.

Example:
  zappayctl wait
  zappayctl wait --retries 60 --interval 500ms`,
	Run: func(cmd *cobra.Command, args []string) {
		retries, _ := cmd.Flags().GetInt("retries")
		interval, _ := cmd.Flags().GetDuration("interval")

		if err := waitForDatabase(retries, interval); err != nil {
			fmt.Fprintf(os.Stderr, "Database did not become ready: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Database is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("retries", "r", 30, "Number of connection attempts")
	waitCmd.Flags().Duration("interval", time.Second, "Initial delay between attempts")
}

func waitForDatabase(retries int, interval time.Duration) error {
	cfg, logger := resolveConfig()
	defer func() { _ = logger.Sync() }()

	m := db.NewManager(db.WithLogger(logger), db.WithRetry(retries, interval))
	h, err := m.Open(context.Background(), cfg)
	if err != nil {
		return err
	}
	return m.Close(h)
}

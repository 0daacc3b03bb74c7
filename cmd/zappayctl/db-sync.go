package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zappay/zappay-backend/pkg/db"
)

// dbSyncCmd represents the db sync command
var dbSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Create and/or alter tables to match the models",
	Long: `Create missing tables and alter existing ones to match the models.

The server does this on every start in production. This command runs it
once in any mode.

Example:
  zappayctl db sync`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := syncSchema(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fmt.Println("Database schema is up to date")
	},
}

func init() {
	dbCmd.AddCommand(dbSyncCmd)
}

func syncSchema() error {
	cfg, logger := resolveConfig()
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	m := db.NewManager(db.WithLogger(logger))
	h, err := m.Open(ctx, cfg)
	if err != nil {
		return err
	}

	syncErr := m.SyncSchema(ctx, h)
	if err := m.Close(h); err != nil && syncErr == nil {
		return err
	}
	return syncErr
}

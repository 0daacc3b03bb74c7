package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zappay/zappay-backend/pkg/config"
	"github.com/zappay/zappay-backend/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "zappayctl",
	Short: "Operate the ZapPay backend",
	Long: `Operate the ZapPay backend: check and synchronize the database,
inspect the resolved configuration and run the status server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		envFiles, _ := cmd.Flags().GetStringSlice("env-file")
		if err := config.LoadDotEnv(envFiles...); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("env-file", nil, "dotenv files to load before resolving configuration (default .env)")
}

// resolveConfig resolves the connection configuration and builds the
// logger for its mode.
func resolveConfig() (config.ConnectionConfig, *zap.Logger) {
	cfg := config.Resolve(config.OSEnv)

	logger, err := logging.New(cfg.Mode, os.Getenv(logging.EnvLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to initialize logging:", err)
		os.Exit(1)
	}
	return cfg, logger
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

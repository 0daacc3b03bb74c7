package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zappay/zappay-backend/pkg/config"
	"github.com/zappay/zappay-backend/pkg/db"
	"github.com/zappay/zappay-backend/pkg/server"
	"github.com/zappay/zappay-backend/pkg/server/endpoints"
	gormstore "github.com/zappay/zappay-backend/pkg/server/store/gorm"
)

const shutdownTimeout = 15 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the ZapPay status server",
	Long: `Run the ZapPay status server.

The database connection is opened on start. In production the schema is
synchronized with the models before the server accepts requests. The
server stops on SIGINT or SIGTERM and closes the connection on the way
out.`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")

		if err := runServer(host, port); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
}

func runServer(host, port string) error {
	_, logger := resolveConfig()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := db.Connect(ctx, config.OSEnv, db.WithLogger(logger))
	if err != nil {
		return err
	}

	s := server.NewServer(gormstore.NewHealthStore(h), host, port)
	endpoints.RegisterAll(s)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", s.Addr()))
		errCh <- s.Start()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		serveErr = s.Shutdown(shutdownCtx)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}

	if err := db.Disconnect(h); err != nil {
		return errors.Join(serveErr, err)
	}
	return serveErr
}

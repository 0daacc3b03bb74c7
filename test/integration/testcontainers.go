package integration

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testDatabase = "zappay_test"
	testUser     = "zappay"
	testPassword = "zappay"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB         *gorm.DB // direct connection for assertions
	Container  testcontainers.Container
	Host       string
	Port       string
	HTTPClient *http.Client
}

// NewTestContext starts a PostgreSQL testcontainer. The server inside the
// container does not offer TLS.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDatabase),
		tcpostgres.WithUsername(testUser),
		tcpostgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	// Get connection details for the host (not container network)
	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	tc := &TestContext{
		Container:  pgContainer,
		Host:       host,
		Port:       port.Port(),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  tc.DatabaseURL() + "?sslmode=disable",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	tc.DB = db

	return tc, nil
}

// DatabaseURL returns a connection string for the test database without an
// sslmode parameter
func (tc *TestContext) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", testUser, testPassword, tc.Host, tc.Port, testDatabase)
}

// ResetSchema drops every ZapPay table
func (tc *TestContext) ResetSchema() error {
	return tc.DB.Exec(`DROP TABLE IF EXISTS notifications, budgets, transactions, groups, users CASCADE`).Error
}

// TableExists reports whether a table exists in the public schema
func (tc *TestContext) TableExists(name string) (bool, error) {
	var count int64
	err := tc.DB.Raw(
		`SELECT count(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?`,
		name,
	).Scan(&count).Error
	return count > 0, err
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.DB != nil {
		if rawDB, err := tc.DB.DB(); err == nil {
			_ = rawDB.Close()
		}
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

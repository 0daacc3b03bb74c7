package db

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/zappay/zappay-backend/pkg/config"
	"github.com/zappay/zappay-backend/pkg/logging"
	"github.com/zappay/zappay-backend/pkg/model"
)

const defaultRetryInterval = 500 * time.Millisecond

var errNoSource = errors.New("connection configuration has no source; use config.Resolve")

// DialectorFunc builds the GORM dialector for a resolved configuration.
type DialectorFunc func(cfg config.ConnectionConfig) gorm.Dialector

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRegistry sets the registry bound on Open. The default is
// model.NewDefaultRegistry().
func WithRegistry(registry *model.Registry) Option {
	return func(m *Manager) {
		m.registry = registry
	}
}

// WithDialector replaces the PostgreSQL dialector.
func WithDialector(fn DialectorFunc) Option {
	return func(m *Manager) {
		if fn != nil {
			m.dialector = fn
		}
	}
}

// WithRetry makes Open retry transient failures with exponential backoff,
// up to attempts tries in total. Authentication and transport security
// failures are never retried.
func WithRetry(attempts int, initialInterval time.Duration) Option {
	return func(m *Manager) {
		if attempts > 0 {
			m.attempts = attempts
		}
		if initialInterval > 0 {
			m.retryInterval = initialInterval
		}
	}
}

// Manager owns the lifecycle of a database connection: open, schema
// synchronization and close.
type Manager struct {
	logger        *zap.Logger
	registry      *model.Registry
	dialector     DialectorFunc
	attempts      int
	retryInterval time.Duration
}

// NewManager creates a Manager. Without options it makes a single attempt,
// logs nothing and binds the default entity registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger:        zap.NewNop(),
		dialector:     PostgresDialector,
		attempts:      1,
		retryInterval: defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = model.NewDefaultRegistry()
	}
	return m
}

// PostgresDialector is the default dialector. Implicit prepared statements
// are disabled.
func PostgresDialector(cfg config.ConnectionConfig) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	})
}

// Registry returns the registry bound on Open
func (m *Manager) Registry() *model.Registry {
	return m.registry
}

// Open creates the connection pool, verifies the server accepts the
// configured credentials and transport, and binds the entity registry.
// Every failure is returned as a *ConnectivityError; no handle escapes a
// failed Open.
func (m *Manager) Open(ctx context.Context, cfg config.ConnectionConfig) (*Handle, error) {
	if cfg.Source == nil {
		return nil, &ConnectivityError{Reason: ReasonUnknown, Err: errNoSource}
	}

	logger := m.logger.With(
		zap.String("dialect", cfg.Dialect),
		zap.String("source", cfg.Source.Redacted()),
		zap.Bool("transport_security", cfg.TransportSecurity.Enabled),
	)

	var handle *Handle
	operation := func() error {
		h, err := m.open(ctx, cfg)
		if err != nil {
			connErr := newConnectivityError(err)
			if connErr.Permanent() {
				return backoff.Permanent(connErr)
			}
			return connErr
		}
		handle = h
		return nil
	}

	notify := func(err error, next time.Duration) {
		logger.Warn("database connection attempt failed, retrying",
			zap.String("error", sanitize(err.Error())),
			zap.Duration("retry_in", next),
		)
	}

	if err := backoff.RetryNotify(operation, m.backOff(ctx), notify); err != nil {
		connErr := newConnectivityError(err)
		fields := []zap.Field{
			zap.String("reason", string(connErr.Reason)),
			zap.String("error", sanitize(errorText(connErr.Err))),
		}
		if connErr.Hint != "" {
			fields = append(fields, zap.String("hint", connErr.Hint))
		}
		logger.Error("unable to connect to the database", fields...)
		return nil, connErr
	}

	logger.Info("database connection established",
		zap.Int("pool_max", cfg.Pool.Max),
		zap.Duration("pool_idle", cfg.Pool.Idle),
		zap.Strings("entities", handle.registry.Names()),
	)
	return handle, nil
}

func (m *Manager) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = m.retryInterval
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(m.attempts-1)), ctx)
}

func (m *Manager) open(ctx context.Context, cfg config.ConnectionConfig) (*Handle, error) {
	gormDB, err := gorm.Open(m.dialector(cfg), &gorm.Config{
		Logger:               logging.GormLogger(m.logger, cfg.LoggingEnabled),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	applyPoolLimits(sqlDB, cfg.Pool)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if err := m.registry.Initialize(gormDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &Handle{
		db:       gormDB,
		sqlDB:    sqlDB,
		cfg:      cfg,
		registry: m.registry,
		manager:  m,
	}, nil
}

// InitializeSchema synchronizes the schema with the registered models in
// production and does nothing in any other mode.
func (m *Manager) InitializeSchema(ctx context.Context, h *Handle, mode config.Mode) error {
	if mode != config.ModeProduction {
		m.logger.Debug("schema synchronization skipped", zap.String("mode", string(mode)))
		return nil
	}
	return m.SyncSchema(ctx, h)
}

// SyncSchema creates missing tables and alters existing ones to match the
// registered models, regardless of mode. Failures are returned as
// *SchemaSyncError.
func (m *Manager) SyncSchema(ctx context.Context, h *Handle) error {
	if h == nil {
		return &SchemaSyncError{Err: ErrHandleClosed}
	}

	gormDB, err := h.DB(ctx)
	if err != nil {
		return &SchemaSyncError{Err: err}
	}

	// AutoMigrate alters live tables. It runs on every production start.
	m.logger.Warn("synchronizing database schema with alter semantics",
		zap.Strings("entities", h.registry.Names()),
	)

	if err := gormDB.AutoMigrate(h.registry.Models()...); err != nil {
		syncErr := &SchemaSyncError{Err: err}
		m.logger.Error("database schema synchronization failed", zap.String("error", syncErr.Error()))
		return syncErr
	}

	m.logger.Info("database schema synchronized")
	return nil
}

// Close releases the pool. Close must be called at most once per handle;
// later calls return a *ShutdownError wrapping ErrHandleClosed.
func (m *Manager) Close(h *Handle) error {
	if h == nil {
		return &ShutdownError{Err: ErrHandleClosed}
	}

	if err := h.close(); err != nil {
		shutdownErr := &ShutdownError{Err: err}
		if !errors.Is(err, ErrHandleClosed) {
			m.logger.Error("error closing database connection", zap.String("error", shutdownErr.Error()))
		}
		return shutdownErr
	}

	m.logger.Info("database connection closed")
	return nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

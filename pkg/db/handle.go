package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/zappay/zappay-backend/pkg/config"
	"github.com/zappay/zappay-backend/pkg/model"
)

// Handle is an open connection pool together with the entity registry bound
// to it. A Handle is produced by Manager.Open and released by Manager.Close.
type Handle struct {
	mu     sync.RWMutex
	closed bool

	db       *gorm.DB
	sqlDB    *sql.DB
	cfg      config.ConnectionConfig
	registry *model.Registry
	manager  *Manager
}

// DB returns a GORM session bound to ctx.
func (h *Handle) DB(ctx context.Context) (*gorm.DB, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil, ErrHandleClosed
	}
	return h.db.WithContext(ctx), nil
}

// Conn reserves a single pooled connection. Waiting for a free slot is
// bounded by the pool's acquire timeout; the returned connection must be
// closed by the caller.
func (h *Handle) Conn(ctx context.Context) (*sql.Conn, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil, ErrHandleClosed
	}

	acquireCtx, cancel := context.WithTimeout(ctx, h.cfg.Pool.Acquire)
	defer cancel()

	conn, err := h.sqlDB.Conn(acquireCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection within %s: %w", h.cfg.Pool.Acquire, err)
	}
	return conn, nil
}

// Ping verifies the server is still reachable.
func (h *Handle) Ping(ctx context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHandleClosed
	}
	return h.sqlDB.PingContext(ctx)
}

// Stats returns pool statistics
func (h *Handle) Stats() sql.DBStats {
	return h.sqlDB.Stats()
}

// Registry returns the entity registry bound to this handle
func (h *Handle) Registry() *model.Registry {
	return h.registry
}

// Config returns the configuration the handle was opened with
func (h *Handle) Config() config.ConnectionConfig {
	return h.cfg
}

// Closed reports whether Close has been called
func (h *Handle) Closed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

func (h *Handle) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHandleClosed
	}
	h.closed = true
	return h.sqlDB.Close()
}

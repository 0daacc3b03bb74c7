package db

import (
	"context"

	"go.uber.org/zap"

	"github.com/zappay/zappay-backend/pkg/config"
)

// Connect resolves the configuration from env, opens the connection and
// synchronizes the schema when running in production. If synchronization
// fails the connection is closed before the error is returned.
func Connect(ctx context.Context, env config.Env, opts ...Option) (*Handle, error) {
	cfg := config.Resolve(env)
	m := NewManager(opts...)

	h, err := m.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := m.InitializeSchema(ctx, h, cfg.Mode); err != nil {
		if closeErr := m.Close(h); closeErr != nil {
			m.logger.Warn("failed to release connection after schema error", zap.Error(closeErr))
		}
		return nil, err
	}
	return h, nil
}

// Disconnect closes a handle returned by Connect.
func Disconnect(h *Handle) error {
	if h == nil {
		return &ShutdownError{Err: ErrHandleClosed}
	}
	return h.manager.Close(h)
}

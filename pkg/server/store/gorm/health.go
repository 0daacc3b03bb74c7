package gorm

import (
	"context"

	"github.com/zappay/zappay-backend/pkg/db"
)

// HealthStore provides health check operations over a database handle
type HealthStore struct {
	handle *db.Handle
}

// NewHealthStore creates a new HealthStore
func NewHealthStore(handle *db.Handle) *HealthStore {
	return &HealthStore{handle: handle}
}

// CheckConnectivity runs a trivial query through the pool
func (s *HealthStore) CheckConnectivity(ctx context.Context) error {
	conn, err := s.handle.DB(ctx)
	if err != nil {
		return err
	}
	return conn.Exec("SELECT 1").Error
}

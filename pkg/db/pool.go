package db

import (
	"database/sql"

	"github.com/zappay/zappay-backend/pkg/config"
)

// applyPoolLimits configures the pool. database/sql opens connections on
// demand, so the zero warm floor needs no setting. Acquire is enforced per
// request by Handle.Conn.
func applyPoolLimits(sqlDB *sql.DB, pool config.PoolLimits) {
	sqlDB.SetMaxOpenConns(pool.Max)
	sqlDB.SetConnMaxIdleTime(pool.Idle)
}

package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const defaultPingTimeout = 5 * time.Second

// Ping checks the connection pool can reach the database within timeout.
func Ping(ctx context.Context, conn *gorm.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %v", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %v", err)
	}

	return nil
}

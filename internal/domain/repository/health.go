package repository

import (
	"context"

	"github.com/zots0127/replay-exchange/internal/domain/entities"
)

// HealthRepository defines the interface for health check operations
type HealthRepository interface {
	// CheckHealth performs a comprehensive health check
	CheckHealth(ctx context.Context) (*entities.HealthCheck, error)

	// CheckStorage verifies the replay directory is readable and writable
	CheckStorage(ctx context.Context) entities.CheckResult

	// CheckDiskSpace checks available disk space under the replay directory
	CheckDiskSpace(ctx context.Context) entities.CheckResult

	// GetSystemInfo retrieves system information
	GetSystemInfo(ctx context.Context) (*entities.SystemInfo, error)

	// IsReady checks if the service is ready to handle requests
	IsReady(ctx context.Context) (bool, string)
}

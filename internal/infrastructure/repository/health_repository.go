package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/zots0127/replay-exchange/internal/domain/entities"
	"github.com/zots0127/replay-exchange/internal/domain/repository"
)

// HealthRepositoryImpl implements HealthRepository for the replay directory
type HealthRepositoryImpl struct {
	storagePath string
}

// NewHealthRepository creates a new health repository
func NewHealthRepository(storagePath string) repository.HealthRepository {
	return &HealthRepositoryImpl{
		storagePath: storagePath,
	}
}

// CheckHealth performs a comprehensive health check
func (h *HealthRepositoryImpl) CheckHealth(ctx context.Context) (*entities.HealthCheck, error) {
	checks := map[string]entities.CheckResult{
		"storage":    h.CheckStorage(ctx),
		"disk_space": h.CheckDiskSpace(ctx),
	}

	systemInfo, err := h.GetSystemInfo(ctx)
	if err != nil {
		systemInfo = &entities.SystemInfo{StoragePath: h.storagePath}
	}

	return &entities.HealthCheck{
		Checks:     checks,
		SystemInfo: *systemInfo,
	}, nil
}

// CheckStorage verifies storage accessibility and health
func (h *HealthRepositoryImpl) CheckStorage(ctx context.Context) entities.CheckResult {
	info, err := os.Stat(h.storagePath)
	if err != nil {
		return entities.CheckResult{
			Status:  entities.HealthStatusDown,
			Message: fmt.Sprintf("Storage path not accessible: %v", err),
		}
	}

	if !info.IsDir() {
		return entities.CheckResult{
			Status:  entities.HealthStatusDown,
			Message: "Storage path is not a directory",
		}
	}

	// The probe name must not carry the replay suffix or it would show up in listings
	probe, err := os.CreateTemp(h.storagePath, ".health_check-*")
	if err != nil {
		return entities.CheckResult{
			Status:  entities.HealthStatusDown,
			Message: fmt.Sprintf("Cannot write to storage: %v", err),
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return entities.CheckResult{
		Status:  entities.HealthStatusUp,
		Message: "Storage is healthy",
		Details: map[string]interface{}{
			"path":     h.storagePath,
			"writable": true,
		},
	}
}

// CheckDiskSpace checks available disk space
func (h *HealthRepositoryImpl) CheckDiskSpace(ctx context.Context) entities.CheckResult {
	total, available, err := diskSpace(h.storagePath)
	if err != nil {
		return entities.CheckResult{
			Status:  entities.HealthStatusDown,
			Message: fmt.Sprintf("Failed to check disk space: %v", err),
		}
	}

	usagePercent := usage(total, available)
	details := map[string]interface{}{
		"total_bytes":     total,
		"available_bytes": available,
		"used_bytes":      total - available,
		"usage_percent":   usagePercent,
	}

	status := entities.HealthStatusUp
	message := "Disk space is sufficient"

	if usagePercent > 90 {
		status = entities.HealthStatusDown
		message = "Critical: Disk space is critically low"
	} else if usagePercent > 80 {
		status = entities.HealthStatusPartial
		message = "Warning: Disk space is running low"
	}

	return entities.CheckResult{
		Status:  status,
		Message: message,
		Details: details,
	}
}

// GetSystemInfo retrieves system information
func (h *HealthRepositoryImpl) GetSystemInfo(ctx context.Context) (*entities.SystemInfo, error) {
	total, available, err := diskSpace(h.storagePath)
	if err != nil {
		return nil, err
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	absPath, err := filepath.Abs(h.storagePath)
	if err != nil {
		absPath = h.storagePath
	}

	return &entities.SystemInfo{
		StoragePath:        absPath,
		TotalDiskSpace:     total,
		AvailableDiskSpace: available,
		DiskUsagePercent:   usage(total, available),
		HeapAlloc:          int64(memStats.HeapAlloc),
		GoRoutines:         runtime.NumGoroutine(),
	}, nil
}

// IsReady checks if the service is ready to handle requests
func (h *HealthRepositoryImpl) IsReady(ctx context.Context) (bool, string) {
	info, err := os.Stat(h.storagePath)
	if err != nil {
		return false, fmt.Sprintf("Storage not ready: %v", err)
	}
	if !info.IsDir() {
		return false, "Storage not ready: not a directory"
	}

	return true, "Service is ready"
}

func diskSpace(path string) (total, available int64, err error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total = int64(stat.Blocks * uint64(stat.Bsize))
	available = int64(stat.Bavail * uint64(stat.Bsize))
	return total, available, nil
}

func usage(total, available int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(total-available) / float64(total) * 100
}

package usecase

import (
	"context"
	"time"

	"github.com/zots0127/replay-exchange/internal/domain/entities"
	"github.com/zots0127/replay-exchange/internal/domain/repository"
)

// HealthUseCase reports on the replay directory and the process
type HealthUseCase struct {
	healthRepo repository.HealthRepository
	started    time.Time
	version    string
}

// NewHealthUseCase creates a new health use case
func NewHealthUseCase(healthRepo repository.HealthRepository, version string) *HealthUseCase {
	return &HealthUseCase{
		healthRepo: healthRepo,
		started:    time.Now(),
		version:    version,
	}
}

// GetHealth runs every check and stamps the result with version and uptime
func (h *HealthUseCase) GetHealth(ctx context.Context) (*entities.HealthCheck, error) {
	health, err := h.healthRepo.CheckHealth(ctx)
	if err != nil {
		return nil, err
	}

	health.Status = worstStatus(health.Checks)
	health.Version = h.version
	health.Uptime = time.Since(h.started).Round(time.Second).String()
	health.Timestamp = time.Now()

	return health, nil
}

// GetReadiness reports whether uploads can currently be accepted
func (h *HealthUseCase) GetReadiness(ctx context.Context) (bool, string) {
	return h.healthRepo.IsReady(ctx)
}

// GetLiveness always succeeds while the process can serve requests
func (h *HealthUseCase) GetLiveness(ctx context.Context) bool {
	return true
}

// worstStatus folds check results: any down wins, then any partial
func worstStatus(checks map[string]entities.CheckResult) entities.HealthStatus {
	status := entities.HealthStatusUp
	for _, check := range checks {
		switch check.Status {
		case entities.HealthStatusDown:
			return entities.HealthStatusDown
		case entities.HealthStatusPartial:
			status = entities.HealthStatusPartial
		}
	}
	return status
}

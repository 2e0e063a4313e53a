package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/zots0127/replay-exchange/internal/domain/entities"
	"github.com/zots0127/replay-exchange/internal/domain/repository"
)

// ReplayUseCase handles replay upload, listing and download
type ReplayUseCase struct {
	replayRepo repository.ReplayRepository
	suffix     string
}

// NewReplayUseCase creates a new replay use case. An empty suffix falls back to entities.ReplaySuffix.
func NewReplayUseCase(replayRepo repository.ReplayRepository, suffix string) *ReplayUseCase {
	if suffix == "" {
		suffix = entities.ReplaySuffix
	}
	return &ReplayUseCase{
		replayRepo: replayRepo,
		suffix:     suffix,
	}
}

// Upload stores content under name, replacing any previous replay with that name
func (u *ReplayUseCase) Upload(ctx context.Context, name string, content io.Reader) (int64, error) {
	if err := entities.ValidateFilename(name); err != nil {
		return 0, err
	}
	return u.replayRepo.Save(ctx, name, content)
}

// List returns every stored replay
func (u *ReplayUseCase) List(ctx context.Context) ([]entities.Replay, error) {
	return u.replayRepo.List(ctx, u.suffix)
}

// Download opens the named replay. Callers must close the returned file.
func (u *ReplayUseCase) Download(ctx context.Context, name string) (repository.ReplayFile, *entities.Replay, error) {
	if err := entities.ValidateFilename(name); err != nil {
		if errors.Is(err, entities.ErrEmptyFilename) {
			return nil, nil, entities.ErrNotFound
		}
		return nil, nil, err
	}
	return u.replayRepo.Open(ctx, name)
}

// Status counts stored replays for the status page
func (u *ReplayUseCase) Status(ctx context.Context) (*entities.StoreStatus, error) {
	replays, err := u.List(ctx)
	if err != nil {
		return nil, err
	}
	return &entities.StoreStatus{ReplayCount: len(replays)}, nil
}

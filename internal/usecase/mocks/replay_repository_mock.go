package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/zots0127/replay-exchange/internal/domain/entities"
	"github.com/zots0127/replay-exchange/internal/domain/repository"
)

// MockReplayRepository is a mock implementation of ReplayRepository
type MockReplayRepository struct {
	mock.Mock
}

// Save mocks the Save method
func (m *MockReplayRepository) Save(ctx context.Context, name string, content io.Reader) (int64, error) {
	args := m.Called(ctx, name, content)
	return args.Get(0).(int64), args.Error(1)
}

// Open mocks the Open method
func (m *MockReplayRepository) Open(ctx context.Context, name string) (repository.ReplayFile, *entities.Replay, error) {
	args := m.Called(ctx, name)
	var file repository.ReplayFile
	if f := args.Get(0); f != nil {
		file = f.(repository.ReplayFile)
	}
	var replay *entities.Replay
	if r := args.Get(1); r != nil {
		replay = r.(*entities.Replay)
	}
	return file, replay, args.Error(2)
}

// List mocks the List method
func (m *MockReplayRepository) List(ctx context.Context, suffix string) ([]entities.Replay, error) {
	args := m.Called(ctx, suffix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Replay), args.Error(1)
}

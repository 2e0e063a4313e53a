package repository

import (
	"context"
	"io"

	"github.com/zots0127/replay-exchange/internal/domain/entities"
)

// ReplayFile is an open replay ready to be streamed back to a client
type ReplayFile interface {
	io.ReadSeekCloser
}

// ReplayRepository defines the operations on the replay directory
type ReplayRepository interface {
	// Save writes the content under name, replacing any existing replay
	Save(ctx context.Context, name string, content io.Reader) (int64, error)

	// Open returns the named entry, or entities.ErrNotFound
	Open(ctx context.Context, name string) (ReplayFile, *entities.Replay, error)

	// List returns every entry whose name ends with suffix
	List(ctx context.Context, suffix string) ([]entities.Replay, error)
}

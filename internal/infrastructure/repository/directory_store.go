package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zots0127/replay-exchange/internal/domain/entities"
	"github.com/zots0127/replay-exchange/internal/domain/repository"
)

// tempPrefix marks staged uploads. Staged files never carry the replay suffix.
const tempPrefix = ".upload-"

// DirectoryStore keeps replays as plain files in a single flat directory
type DirectoryStore struct {
	basePath string
}

// NewDirectoryStore creates the store, creating basePath if it does not exist
func NewDirectoryStore(basePath string) (*DirectoryStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create replay directory %q: %w", basePath, err)
	}
	return &DirectoryStore{basePath: basePath}, nil
}

// Path returns the directory backing the store
func (s *DirectoryStore) Path() string {
	return s.basePath
}

// Save streams content into a temp file and renames it over name.
// Concurrent saves of the same name are last-writer-wins.
func (s *DirectoryStore) Save(ctx context.Context, name string, content io.Reader) (int64, error) {
	if err := entities.ValidateFilename(name); err != nil {
		return 0, err
	}

	// The directory may have been removed since startup
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return 0, fmt.Errorf("create replay directory %q: %w", s.basePath, err)
	}

	tempFile, err := os.CreateTemp(s.basePath, tempPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("stage upload: %w", err)
	}
	defer os.Remove(tempFile.Name())

	written, err := io.Copy(tempFile, &contextReader{ctx: ctx, r: content})
	if err != nil {
		tempFile.Close()
		return 0, fmt.Errorf("write upload: %w", err)
	}
	// CreateTemp uses 0600; stored replays are world-readable like any saved upload
	if err := tempFile.Chmod(0644); err != nil {
		tempFile.Close()
		return 0, fmt.Errorf("chmod upload: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return 0, fmt.Errorf("flush upload: %w", err)
	}

	if err := os.Rename(tempFile.Name(), s.filePath(name)); err != nil {
		return 0, fmt.Errorf("store replay %q: %w", name, err)
	}

	return written, nil
}

// Open opens the named entry for reading
func (s *DirectoryStore) Open(ctx context.Context, name string) (repository.ReplayFile, *entities.Replay, error) {
	if err := entities.ValidateFilename(name); err != nil {
		return nil, nil, err
	}

	file, err := os.Open(s.filePath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, entities.ErrNotFound
		}
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, nil, entities.ErrNotFound
	}

	return file, &entities.Replay{
		Filename: name,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}, nil
}

// List enumerates regular files ending with suffix, in directory order.
// A missing directory lists as empty.
func (s *DirectoryStore) List(ctx context.Context, suffix string) ([]entities.Replay, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entities.Replay{}, nil
		}
		return nil, fmt.Errorf("read replay directory: %w", err)
	}

	replays := make([]entities.Replay, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}

		// Entries can vanish between ReadDir and Info
		info, err := entry.Info()
		if err != nil {
			continue
		}

		replays = append(replays, entities.Replay{
			Filename: entry.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}

	return replays, nil
}

func (s *DirectoryStore) filePath(name string) string {
	return filepath.Join(s.basePath, name)
}

// contextReader stops a copy once the request context is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

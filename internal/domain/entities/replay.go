package entities

import (
	"strings"
	"time"
)

// ReplaySuffix is the filename suffix that marks an entry as a replay
const ReplaySuffix = ".osr"

// Replay represents a stored replay file
type Replay struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"-"`
}

// StoreStatus summarises the replay directory for the status page
type StoreStatus struct {
	ReplayCount int
}

// ValidateFilename checks that a client-supplied name maps to a single
// entry directly under the store directory.
func ValidateFilename(name string) error {
	if name == "" {
		return ErrEmptyFilename
	}
	if name == "." || name == ".." {
		return ErrInvalidFilename
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return ErrInvalidFilename
	}
	return nil
}


package entities

import "errors"

var (
	ErrMissingFilePart = errors.New("no file part")
	ErrEmptyFilename   = errors.New("no selected file")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrNotFound        = errors.New("file not found")
)

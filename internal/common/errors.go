package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")

	// Infrastructure errors
	ErrStorage    = errors.New("storage operation failed")
	ErrFileSystem = errors.New("file system operation failed")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// FileCleanupError reports that a record mutation committed but the attachment
// file backing the old reference could not be deleted. The enclosing operation
// succeeded; the orphaned file is recoverable by a later sweep.
type FileCleanupError struct {
	Ref string
	Err error
}

func (e *FileCleanupError) Error() string {
	return fmt.Sprintf("attachment cleanup failed for %s: %v", e.Ref, e.Err)
}

func (e *FileCleanupError) Unwrap() error {
	return ErrFileSystem
}

package drive

import (
	"errors"
	"fmt"
)

var (
	// ErrPathTraversal is returned before any disk mutation when a
	// caller-supplied path would resolve outside the storage root.
	ErrPathTraversal = errors.New("path escapes storage root")

	// ErrNotFound covers missing files, folders and share tokens alike.
	ErrNotFound = errors.New("not found")

	// ErrFolderExists is returned when a sibling folder with the same
	// name already exists.
	ErrFolderExists = errors.New("folder already exists")

	ErrShareExpired      = errors.New("share link expired")
	ErrShareLimitReached = errors.New("share download limit reached")

	// ErrIntegrity signals a corrupted folder graph (a cycle in the
	// parent chain) detected during traversal.
	ErrIntegrity = errors.New("folder hierarchy is corrupted")
)

// FileSystemError wraps an OS-level failure together with the
// storage-relative path it happened on. The absolute path never leaves
// this package.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

func fsError(op, relPath string, err error) error {
	return &FileSystemError{Op: op, Path: relPath, Err: err}
}

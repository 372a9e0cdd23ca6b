package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrClipboardUnsupported is returned when no OS clipboard is available
	ErrClipboardUnsupported = errors.New("clipboard not supported on this system")

	// ErrSessionNotFound matches every *SessionNotFoundError under errors.Is
	ErrSessionNotFound = errors.New("session not found")
)

// StorageError wraps a failed file or database operation. Op is a verb such
// as "open", "read", "write" or "watch".
type StorageError struct {
	Path string
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ParseError reports content that was read but could not be decoded.
// Source names the kind of input and Key locates it within that source.
type ParseError struct {
	Source string
	Key    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s data at %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SessionNotFoundError is returned when a registry has no such session
type SessionNotFoundError struct {
	ID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrSessionNotFound, e.ID)
}

func (e *SessionNotFoundError) Is(target error) bool {
	return target == ErrSessionNotFound
}

// SnapshotError wraps a failure to save, load or clear the snapshot directory
type SnapshotError struct {
	Dir string
	Op  string
	Err error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s in %s failed: %v", e.Op, e.Dir, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// ExportError wraps a failure writing one exported session
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export to %s failed: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

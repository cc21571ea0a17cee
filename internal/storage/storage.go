package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

// Store persists the full event collection
type Store interface {
	ReadAll(ctx context.Context) (*event.Collection, error)
	WriteAll(ctx context.Context, c *event.Collection) error
}

// Writable is implemented by stores that can report up front whether writes
// are possible at all.
type Writable interface {
	Writable() bool
}

// IsWritable reports false only for stores that declare themselves read-only.
func IsWritable(s Store) bool {
	if w, ok := s.(Writable); ok {
		return w.Writable()
	}
	return true
}

// UpdateReader is implemented by stores whose ReadAll may serve a stale copy.
// ReadForUpdate returns only the collection a following WriteAll replaces.
type UpdateReader interface {
	ReadForUpdate(ctx context.Context) (*event.Collection, error)
}

// ReadForUpdate reads s for a read-modify-write. Stores without a degraded
// read path are read with ReadAll.
func ReadForUpdate(ctx context.Context, s Store) (*event.Collection, error) {
	if u, ok := s.(UpdateReader); ok {
		return u.ReadForUpdate(ctx)
	}
	return s.ReadAll(ctx)
}

// ErrEmpty is returned by remote backends that hold no collection yet.
var ErrEmpty = errors.New("backend holds no collection yet")

// Kind classifies storage failures
type Kind string

const (
	// KindReadOnly: the medium refused the write (read-only filesystem, token without write scope).
	KindReadOnly Kind = "read_only"
	// KindReadOnlySource: the backend never accepts writes (published spreadsheet).
	KindReadOnlySource Kind = "read_only_source"
	KindUnavailable    Kind = "unavailable"
	KindCorrupt        Kind = "corrupt"
)

// Error is a classified storage failure
type Error struct {
	Kind    Kind
	Backend string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Backend, e.Op, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a storage error, or "" for other errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// writeErrorKind maps filesystem write failures to KindReadOnly where the
// medium forbids writes.
func writeErrorKind(err error) Kind {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EROFS) {
		return KindReadOnly
	}
	return KindUnavailable
}

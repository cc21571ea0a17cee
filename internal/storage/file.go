package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

const backendFile = "file"

// FileStore keeps the collection in a local JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for path. A leading ~/ expands to the home
// directory. Nothing is created until the first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("data file path is required")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return &FileStore{path: path}, nil
}

// Path returns the resolved file path
func (s *FileStore) Path() string {
	return s.path
}

// ReadAll loads the collection. A missing file is an empty collection.
func (s *FileStore) ReadAll(ctx context.Context) (*event.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return event.NewCollection(), nil
		}
		return nil, &Error{Kind: KindUnavailable, Backend: backendFile, Op: "read", Err: err}
	}

	var c event.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &Error{Kind: KindCorrupt, Backend: backendFile, Op: "read", Err: fmt.Errorf("parsing %s: %w", s.path, err)}
	}
	if c.Events == nil {
		c.Events = make([]*event.Event, 0)
	}
	return &c, nil
}

// WriteAll replaces the file atomically: the document is written to a
// temporary file in the same directory and renamed over the original.
func (s *FileStore) WriteAll(ctx context.Context, c *event.Collection) error {
	c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &Error{Kind: writeErrorKind(err), Backend: backendFile, Op: "write", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".events-*.json")
	if err != nil {
		return &Error{Kind: writeErrorKind(err), Backend: backendFile, Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return &Error{Kind: writeErrorKind(err), Backend: backendFile, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &Error{Kind: writeErrorKind(err), Backend: backendFile, Op: "write", Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return &Error{Kind: writeErrorKind(err), Backend: backendFile, Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &Error{Kind: writeErrorKind(err), Backend: backendFile, Op: "write", Err: err}
	}
	return nil
}

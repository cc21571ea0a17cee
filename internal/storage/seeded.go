package storage

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

// SeededStore serves a remote backend, seeding it from the local file the
// first time it is found empty and falling back to the file when a remote
// read fails. Writes go to the remote backend only, and ReadForUpdate never
// falls back, so a write cannot replace the remote with the seed.
type SeededStore struct {
	remote  Store
	local   *FileStore
	backend string
	log     *zap.Logger
}

// NewSeededStore wraps remote with local as seed and read fallback
func NewSeededStore(remote Store, local *FileStore, backend string, log *zap.Logger) *SeededStore {
	return &SeededStore{remote: remote, local: local, backend: backend, log: log}
}

// ReadAll prefers availability over consistency: any remote failure other
// than "empty" is served from the local file.
func (s *SeededStore) ReadAll(ctx context.Context) (*event.Collection, error) {
	c, err := s.remote.ReadAll(ctx)
	if err == nil {
		return c, nil
	}

	if errors.Is(err, ErrEmpty) {
		return s.seed(ctx)
	}

	s.log.Warn("Remote read failed, serving local file",
		zap.String("backend", s.backend),
		zap.String("path", s.local.Path()),
		zap.Error(err))

	local, localErr := s.local.ReadAll(ctx)
	if localErr != nil {
		return nil, err
	}
	return local, nil
}

// ReadForUpdate reads the remote collection without the local fallback.
// An empty remote is still seeded.
func (s *SeededStore) ReadForUpdate(ctx context.Context) (*event.Collection, error) {
	c, err := s.remote.ReadAll(ctx)
	if err == nil {
		return c, nil
	}

	if errors.Is(err, ErrEmpty) {
		return s.seed(ctx)
	}

	s.log.Warn("Remote read failed, refusing to update from local file",
		zap.String("backend", s.backend),
		zap.Error(err))

	if KindOf(err) == "" {
		err = &Error{Kind: KindUnavailable, Backend: s.backend, Op: "read", Err: err}
	}
	return nil, err
}

func (s *SeededStore) seed(ctx context.Context) (*event.Collection, error) {
	c, err := s.local.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.remote.WriteAll(ctx, c); err != nil {
		// Serve the seed anyway; the next read retries seeding.
		s.log.Warn("Seeding remote backend failed",
			zap.String("backend", s.backend),
			zap.Error(err))
		return c, nil
	}

	s.log.Info("Seeded remote backend from local file",
		zap.String("backend", s.backend),
		zap.String("path", s.local.Path()),
		zap.Int("events", len(c.Events)))
	return c, nil
}

// WriteAll writes to the remote backend
func (s *SeededStore) WriteAll(ctx context.Context, c *event.Collection) error {
	return s.remote.WriteAll(ctx, c)
}

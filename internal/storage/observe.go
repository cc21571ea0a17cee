package storage

import (
	"context"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

// OpRecorder receives the outcome of every store operation
type OpRecorder interface {
	StoreOp(backend, op string, err error)
}

type observedStore struct {
	Store
	backend  string
	recorder OpRecorder
}

// Observe reports each ReadAll/WriteAll of s to recorder under backend.
func Observe(s Store, backend string, recorder OpRecorder) Store {
	if recorder == nil {
		return s
	}
	return &observedStore{Store: s, backend: backend, recorder: recorder}
}

func (o *observedStore) ReadAll(ctx context.Context) (*event.Collection, error) {
	c, err := o.Store.ReadAll(ctx)
	o.recorder.StoreOp(o.backend, "read", err)
	return c, err
}

func (o *observedStore) ReadForUpdate(ctx context.Context) (*event.Collection, error) {
	c, err := ReadForUpdate(ctx, o.Store)
	o.recorder.StoreOp(o.backend, "read", err)
	return c, err
}

func (o *observedStore) WriteAll(ctx context.Context, c *event.Collection) error {
	err := o.Store.WriteAll(ctx, c)
	o.recorder.StoreOp(o.backend, "write", err)
	return err
}

func (o *observedStore) Writable() bool {
	return IsWritable(o.Store)
}

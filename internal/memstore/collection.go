// Package memstore keeps clinic records in process memory. It backs the
// mock path of the CLI and the stand-in REST backend when no Postgres DSN
// is configured.
package memstore

import (
	"context"
	"sync"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

// Collection is an insertion-ordered, mutex-guarded set of records.
type Collection[T clinic.Record[T]] struct {
	mu     sync.RWMutex
	items  []T
	nextID int64
}

func NewCollection[T clinic.Record[T]](seed []T) *Collection[T] {
	c := &Collection[T]{nextID: 1}
	for _, rec := range seed {
		if rec.RecordID() >= c.nextID {
			c.nextID = rec.RecordID() + 1
		}
		c.items = append(c.items, rec)
	}
	return c
}

var _ clinic.Resource[clinic.Patient] = (*Collection[clinic.Patient])(nil)

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id int64) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], nil
	}
	var zero T
	return zero, clinic.ErrNotFound
}

func (c *Collection[T]) Create(ctx context.Context, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec = rec.WithID(c.nextID)
	c.nextID++
	c.items = append(c.items, rec)
	return rec, nil
}

func (c *Collection[T]) Update(ctx context.Context, id int64, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		var zero T
		return zero, clinic.ErrNotFound
	}
	rec = rec.WithID(id)
	c.items[i] = rec
	return rec, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return clinic.ErrNotFound
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) indexLocked(id int64) int {
	for i, rec := range c.items {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

package listview

import (
	"context"
	"errors"
	"fmt"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

// Collection is the local copy of one backend collection. Mutations go to
// the backend first and are spliced in only when the round-trip succeeds;
// a failed call leaves the list as it was and sets the banner.
type Collection[T clinic.Record[T]] struct {
	resource clinic.Resource[T]
	noun     string

	items   []T
	loading bool
	banner  string
}

func NewCollection[T clinic.Record[T]](resource clinic.Resource[T], noun string) *Collection[T] {
	return &Collection[T]{resource: resource, noun: noun}
}

func (c *Collection[T]) Load(ctx context.Context) error {
	c.loading = true
	defer func() { c.loading = false }()

	items, err := c.resource.List(ctx)
	if err != nil {
		c.fail("loading", err)
		return err
	}
	c.set(items)
	return nil
}

func (c *Collection[T]) set(items []T) {
	c.items = items
	c.banner = ""
}

func (c *Collection[T]) Create(ctx context.Context, rec T) (T, error) {
	if err := rec.Validate(); err != nil {
		return rec, err
	}

	c.loading = true
	defer func() { c.loading = false }()

	created, err := c.resource.Create(ctx, rec)
	if err != nil {
		c.fail("saving", err)
		return rec, err
	}
	c.items = appendRecord(c.items, created)
	c.banner = ""
	return created, nil
}

func (c *Collection[T]) Update(ctx context.Context, id int64, rec T) (T, error) {
	if err := rec.Validate(); err != nil {
		return rec, err
	}

	c.loading = true
	defer func() { c.loading = false }()

	updated, err := c.resource.Update(ctx, id, rec.WithID(id))
	if err != nil {
		c.fail("saving", err)
		return rec, err
	}
	c.items = replaceByID(c.items, id, updated)
	c.banner = ""
	return updated, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	c.loading = true
	defer func() { c.loading = false }()

	if err := c.resource.Delete(ctx, id); err != nil {
		c.fail("deleting", err)
		return err
	}
	c.items = removeByID(c.items, id)
	c.banner = ""
	return nil
}

func (c *Collection[T]) fail(action string, err error) {
	c.banner = bannerFor(action, c.noun, err)
}

func bannerFor(action, noun string, err error) string {
	msg := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out"
	}
	return fmt.Sprintf("error %s %s: %s", action, noun, msg)
}

// Items returns the locally held records in backend order.
func (c *Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the local record with the given id.
func (c *Collection[T]) Find(id int64) (T, bool) {
	for _, rec := range c.items {
		if rec.RecordID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Loading() bool { return c.loading }

// Banner is the error message from the last failed round-trip, if any.
func (c *Collection[T]) Banner() string { return c.banner }

func (c *Collection[T]) DismissBanner() { c.banner = "" }

func appendRecord[T any](items []T, rec T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, rec)
}

func replaceByID[T clinic.Record[T]](items []T, id int64, rec T) []T {
	out := make([]T, len(items))
	for i, cur := range items {
		if cur.RecordID() == id {
			out[i] = rec
		} else {
			out[i] = cur
		}
	}
	return out
}

func removeByID[T clinic.Record[T]](items []T, id int64) []T {
	out := make([]T, 0, len(items))
	for _, cur := range items {
		if cur.RecordID() != id {
			out = append(out, cur)
		}
	}
	return out
}

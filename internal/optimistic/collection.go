package optimistic

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/internal/transcoder"
)

// Collection is an ordered list of records of one table, newest first.
type Collection[T any, PT Record[T]] struct {
	store   RowStore
	mapping *transcoder.Mapping[T]
	table   string
	orderBy string
	opts    options

	mu      sync.RWMutex
	owner   owner
	items   []T
	err     error
	loading bool
}

func NewCollection[T any, PT Record[T]](store RowStore, mapping *transcoder.Mapping[T], table, orderBy string, opts ...Option) *Collection[T, PT] {
	return &Collection[T, PT]{
		store:   store,
		mapping: mapping,
		table:   table,
		orderBy: orderBy,
		opts:    buildOptions(table, opts),
	}
}

// Load fetches every row of userID. On failure the previous items are kept
// and the error is also exposed by Err.
func (c *Collection[T, PT]) Load(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	c.owner.set(userID)
	epoch := c.owner.epoch
	c.loading = true
	c.mu.Unlock()

	rows, err := c.store.SelectAll(ctx, c.table, userID, c.orderBy)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.owner.epoch {
		return nil
	}
	c.loading = false
	if err != nil {
		c.err = err
		c.opts.logger.Error("fetch error", slog.String("error", err.Error()))
		return fmt.Errorf("fetching %s: %w", c.table, err)
	}
	items := make([]T, 0, len(rows))
	for _, row := range rows {
		items = append(items, c.mapping.Decode(row))
	}
	c.items = items
	c.err = nil
	return nil
}

// Reload fetches again for the current user.
func (c *Collection[T, PT]) Reload(ctx context.Context) error {
	c.mu.RLock()
	userID := c.owner.userID
	c.mu.RUnlock()
	if userID == uuid.Nil {
		return errorvalues.ErrNotAuthenticated
	}
	return c.Load(ctx, userID)
}

// Reset drops every item and forgets the user.
func (c *Collection[T, PT]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owner.clear()
	c.items = nil
	c.err = nil
	c.loading = false
}

func (c *Collection[T, PT]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Collection[T, PT]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// All returns copies of every item, newest first.
func (c *Collection[T, PT]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = transcoder.Clone(item)
	}
	return out
}

// Find returns the first item matching pred.
func (c *Collection[T, PT]) Find(pred func(*T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.items {
		if pred(&c.items[i]) {
			return transcoder.Clone(c.items[i]), true
		}
	}
	var zero T
	return zero, false
}

// Add shows payload at the head of the collection under a temporary id,
// inserts it and swaps in the stored record. A failed insert removes the
// temporary record again.
func (c *Collection[T, PT]) Add(ctx context.Context, payload T) (T, error) {
	var zero T
	c.mu.Lock()
	if !c.owner.signedIn() {
		c.mu.Unlock()
		return zero, errorvalues.ErrNotAuthenticated
	}
	userID, epoch := c.owner.userID, c.owner.epoch
	rec := transcoder.Clone(payload)
	c.mapping.Normalize(&rec)
	now := c.opts.now()
	meta := PT(&rec).Metadata()
	meta.ID = TempPrefix + uuid.NewString()
	meta.CreatedAt = now
	meta.UpdatedAt = now
	tempID := meta.ID
	c.items = append([]T{rec}, c.items...)
	c.mu.Unlock()

	row, err := c.mapping.Encode(rec)
	var stored schema.Row
	if err == nil {
		row[schema.ColUserID] = userID.String()
		stored, err = c.store.Insert(ctx, c.table, row)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if epoch == c.owner.epoch {
			c.remove(tempID)
		}
		c.opts.logger.Error("add error", slog.String("error", err.Error()))
		return zero, fmt.Errorf("adding %s record: %w", c.table, err)
	}
	durable := c.mapping.Decode(stored)
	if epoch == c.owner.epoch {
		c.replace(tempID, durable)
	} else {
		c.opts.logger.Warn("identity changed while adding, response dropped")
	}
	return transcoder.Clone(durable), nil
}

// Update applies mutate to the item with id, sends the changed columns and
// restores the previous item if the store rejects them.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, mutate func(*T)) (T, error) {
	var zero T
	c.mu.Lock()
	if !c.owner.signedIn() {
		c.mu.Unlock()
		return zero, errorvalues.ErrNotAuthenticated
	}
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return zero, fmt.Errorf("%w: %s", errorvalues.ErrRecordNotFound, id)
	}
	if IsTemporary(id) {
		c.mu.Unlock()
		return zero, fmt.Errorf("%w: %s", errorvalues.ErrRecordPending, id)
	}
	userID, epoch := c.owner.userID, c.owner.epoch
	previous := c.items[i]
	next := transcoder.Clone(previous)
	mutate(&next)
	now := c.opts.now()
	prevMeta, meta := PT(&previous).Metadata(), PT(&next).Metadata()
	meta.ID = prevMeta.ID
	meta.CreatedAt = prevMeta.CreatedAt
	meta.UpdatedAt = now
	c.mapping.Normalize(&next)
	c.items[i] = next
	c.mu.Unlock()

	changes, err := c.mapping.Diff(previous, next)
	if err == nil {
		changes[schema.ColUpdatedAt] = timestamp(now)
		err = c.store.Update(ctx, c.table, id, userID, changes)
	}
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if epoch == c.owner.epoch {
			if j := c.indexOf(id); j >= 0 {
				c.items[j] = previous
			}
		}
		c.opts.logger.Error("update error", slog.String("id", id), slog.String("error", err.Error()))
		return zero, fmt.Errorf("updating %s record: %w", c.table, err)
	}
	return transcoder.Clone(next), nil
}

func (c *Collection[T, PT]) indexOf(id string) int {
	for i := range c.items {
		if PT(&c.items[i]).Metadata().ID == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T, PT]) remove(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

func (c *Collection[T, PT]) replace(id string, rec T) {
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = rec
	}
}

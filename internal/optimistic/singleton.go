package optimistic

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/internal/transcoder"
)

// Singleton is the one live record of a table per user. The first update
// inserts the record and remembers its id, later updates target that id.
// While the last fetch failed and no id is known, Update refuses to insert.
type Singleton[T any, PT Record[T]] struct {
	store   RowStore
	mapping *transcoder.Mapping[T]
	table   string
	// discriminator columns, used as select filter and written on insert
	fixed schema.Row
	opts  options

	mu        sync.RWMutex
	owner     owner
	value     T
	err       error
	loading   bool
	inserting bool
}

func NewSingleton[T any, PT Record[T]](store RowStore, mapping *transcoder.Mapping[T], table string, fixed schema.Row, opts ...Option) *Singleton[T, PT] {
	return &Singleton[T, PT]{
		store:   store,
		mapping: mapping,
		table:   table,
		fixed:   fixed,
		opts:    buildOptions(table, opts),
		value:   mapping.Default(),
	}
}

func (s *Singleton[T, PT]) Load(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	s.owner.set(userID)
	epoch := s.owner.epoch
	s.loading = true
	s.mu.Unlock()

	row, err := s.store.SelectOne(ctx, s.table, userID, s.fixed)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.owner.epoch {
		return nil
	}
	s.loading = false
	if err != nil {
		s.err = err
		s.opts.logger.Error("fetch error", slog.String("error", err.Error()))
		return fmt.Errorf("fetching %s: %w", s.table, err)
	}
	if row == nil {
		s.value = s.mapping.Default()
	} else {
		s.value = s.mapping.Decode(row)
	}
	s.err = nil
	return nil
}

func (s *Singleton[T, PT]) Reload(ctx context.Context) error {
	s.mu.RLock()
	userID := s.owner.userID
	s.mu.RUnlock()
	if userID == uuid.Nil {
		return errorvalues.ErrNotAuthenticated
	}
	return s.Load(ctx, userID)
}

func (s *Singleton[T, PT]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner.clear()
	s.value = s.mapping.Default()
	s.err = nil
	s.loading = false
	s.inserting = false
}

func (s *Singleton[T, PT]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Singleton[T, PT]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Get returns a copy of the current value.
func (s *Singleton[T, PT]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transcoder.Clone(s.value)
}

// Stored reports whether the record exists in the store.
func (s *Singleton[T, PT]) Stored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return PT(&s.value).Metadata().ID != ""
}

func (s *Singleton[T, PT]) Update(ctx context.Context, mutate func(*T)) (T, error) {
	var zero T
	s.mu.Lock()
	if !s.owner.signedIn() {
		s.mu.Unlock()
		return zero, errorvalues.ErrNotAuthenticated
	}
	if s.inserting {
		s.mu.Unlock()
		return zero, fmt.Errorf("%w: %s", errorvalues.ErrRecordPending, s.table)
	}
	// a failed fetch leaves the default value, the row may still exist
	if PT(&s.value).Metadata().ID == "" && s.err != nil {
		err := s.err
		s.mu.Unlock()
		return zero, fmt.Errorf("%w: %s: %w", errorvalues.ErrStoreNotLoaded, s.table, err)
	}
	userID, epoch := s.owner.userID, s.owner.epoch
	previous := s.value
	next := transcoder.Clone(previous)
	mutate(&next)
	now := s.opts.now()
	prevMeta, meta := PT(&previous).Metadata(), PT(&next).Metadata()
	*meta = *prevMeta
	meta.UpdatedAt = now
	s.mapping.Normalize(&next)
	s.value = next
	recordID := meta.ID
	if recordID == "" {
		s.inserting = true
	}
	s.mu.Unlock()

	if recordID == "" {
		return s.insert(ctx, userID, epoch, previous, next)
	}

	changes, err := s.mapping.Diff(previous, next)
	if err == nil {
		changes[schema.ColUpdatedAt] = timestamp(now)
		err = s.store.Update(ctx, s.table, recordID, userID, changes)
	}
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch == s.owner.epoch {
			s.value = previous
		}
		s.opts.logger.Error("update error", slog.String("error", err.Error()))
		return zero, fmt.Errorf("updating %s record: %w", s.table, err)
	}
	return transcoder.Clone(next), nil
}

func (s *Singleton[T, PT]) insert(ctx context.Context, userID uuid.UUID, epoch uint64, previous, next T) (T, error) {
	var zero T
	row, err := s.mapping.Encode(next)
	var stored schema.Row
	if err == nil {
		maps.Copy(row, s.fixed)
		row[schema.ColUserID] = userID.String()
		stored, err = s.store.Insert(ctx, s.table, row)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.owner.epoch {
		if err != nil {
			return zero, fmt.Errorf("creating %s record: %w", s.table, err)
		}
		return s.mapping.Decode(stored), nil
	}
	s.inserting = false
	if err != nil {
		s.value = previous
		s.opts.logger.Error("create error", slog.String("error", err.Error()))
		return zero, fmt.Errorf("creating %s record: %w", s.table, err)
	}
	durable := s.mapping.Decode(stored)
	*PT(&s.value).Metadata() = *PT(&durable).Metadata()
	return transcoder.Clone(s.value), nil
}

// Package optimistic keeps in-memory record collections in step with a
// remote row store. Mutations are applied locally first, sent once, and
// rolled back when the store rejects them.
package optimistic

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/pkg/entity"
)

// RowStore is the per-user row table contract the engine consumes.
type RowStore interface {
	// Lists rows of userID ordered by orderBy, newest first
	SelectAll(ctx context.Context, table string, userID uuid.UUID, orderBy string) ([]schema.Row, error)
	// Returns the single row of userID matching filter, nil if there is none
	SelectOne(ctx context.Context, table string, userID uuid.UUID, filter schema.Row) (schema.Row, error)
	// Inserts row and returns it as stored
	Insert(ctx context.Context, table string, row schema.Row) (schema.Row, error)
	// Applies changes to the row with id owned by userID
	Update(ctx context.Context, table string, id string, userID uuid.UUID, changes schema.Row) error
}

// Record is satisfied by pointers to entity records.
type Record[T any] interface {
	*T
	Metadata() *entity.Meta
}

// TempPrefix marks identifiers of records whose insert is still in flight.
const TempPrefix = "tmp-"

func IsTemporary(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*options)

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(table string, opts []Option) options {
	o := options{
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With(slog.String("table", table))
	return o
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// owner tracks the identity a binding currently serves. epoch changes on
// every identity change so late responses can be recognised and dropped.
type owner struct {
	userID uuid.UUID
	epoch  uint64
}

func (o *owner) set(userID uuid.UUID) {
	if o.userID != userID {
		o.userID = userID
		o.epoch++
	}
}

func (o *owner) clear() {
	o.userID = uuid.Nil
	o.epoch++
}

func (o *owner) signedIn() bool {
	return o.userID != uuid.Nil
}

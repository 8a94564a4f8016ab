package journal

import (
	"context"
	"log/slog"

	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/identity"
	"github.com/limbo/ceoos/internal/mappings"
	"github.com/limbo/ceoos/internal/optimistic"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/pkg/entity"
)

type keyed interface {
	Key() string
}

// remoteRecords serves a collection of the signed-in user.
type remoteRecords[T keyed, PT optimistic.Record[T]] struct {
	coll    *optimistic.Collection[T, PT]
	session *identity.Session
}

func (r *remoteRecords[T, PT]) Load(ctx context.Context) error {
	user, ok := r.session.Current()
	if !ok {
		r.coll.Reset()
		return errorvalues.ErrNotAuthenticated
	}
	return r.coll.Load(ctx, user.ID)
}

func (r *remoteRecords[T, PT]) Reset() {
	r.coll.Reset()
}

func (r *remoteRecords[T, PT]) Err() error {
	return r.coll.Err()
}

func (r *remoteRecords[T, PT]) All() []T {
	return r.coll.All()
}

func (r *remoteRecords[T, PT]) Get(key string) (T, bool) {
	return r.coll.Find(func(v *T) bool {
		return (*v).Key() == key
	})
}

func (r *remoteRecords[T, PT]) Recent(n int) []T {
	all := r.coll.All()
	return all[:min(max(n, 0), len(all))]
}

func (r *remoteRecords[T, PT]) Add(ctx context.Context, rec T) (T, error) {
	return r.coll.Add(ctx, rec)
}

func (r *remoteRecords[T, PT]) Update(ctx context.Context, id string, mutate func(*T)) (T, error) {
	return r.coll.Update(ctx, id, mutate)
}

type remoteDocument[T any, PT optimistic.Record[T]] struct {
	single  *optimistic.Singleton[T, PT]
	session *identity.Session
}

func (d *remoteDocument[T, PT]) Load(ctx context.Context) error {
	user, ok := d.session.Current()
	if !ok {
		d.single.Reset()
		return errorvalues.ErrNotAuthenticated
	}
	return d.single.Load(ctx, user.ID)
}

func (d *remoteDocument[T, PT]) Reset() {
	d.single.Reset()
}

func (d *remoteDocument[T, PT]) Err() error {
	return d.single.Err()
}

func (d *remoteDocument[T, PT]) Get() T {
	return d.single.Get()
}

func (d *remoteDocument[T, PT]) Update(ctx context.Context, mutate func(*T)) (T, error) {
	return d.single.Update(ctx, mutate)
}

func collection[T keyed, PT optimistic.Record[T]](coll *optimistic.Collection[T, PT], session *identity.Session) *remoteRecords[T, PT] {
	return &remoteRecords[T, PT]{coll: coll, session: session}
}

func document[T any, PT optimistic.Record[T]](single *optimistic.Singleton[T, PT], session *identity.Session) *remoteDocument[T, PT] {
	return &remoteDocument[T, PT]{single: single, session: session}
}

// NewRemote builds a journal over a row store. Every binding follows the
// identity session: it is emptied when the user signs out or changes, and
// fetched again when a user signs in.
func NewRemote(store optimistic.RowStore, session *identity.Session, opts ...Option) *Journal {
	o := buildOptions(opts)
	maps := mappings.New(o.now)
	eng := []optimistic.Option{optimistic.WithClock(o.now), optimistic.WithLogger(o.logger)}

	src := sources{
		daily: collection(optimistic.NewCollection[entity.DailyEntry](
			store, maps.Daily, schema.DailyCheckIns, "date", eng...), session),
		weekly: collection(optimistic.NewCollection[entity.WeeklyEntry](
			store, maps.Weekly, schema.WeeklyReviews, "week", eng...), session),
		quarterly: collection(optimistic.NewCollection[entity.QuarterlyEntry](
			store, maps.Quarterly, schema.QuarterlyReviews, "quarter", eng...), session),
		annual: collection(optimistic.NewCollection[entity.AnnualEntry](
			store, maps.Annual, schema.AnnualReviews, "year", eng...), session),
		lifeMap: collection(optimistic.NewCollection[entity.LifeMapSnapshot](
			store, maps.LifeMap, schema.LifeMap, "snapshot_date", eng...), session),
		interviews: collection(optimistic.NewCollection[entity.InterviewResponse](
			store, maps.Interview, schema.InterviewResponses, schema.ColCreatedAt, eng...), session),
		oneYear: document(optimistic.NewSingleton[entity.YearGoals](
			store, maps.OneYear, schema.Goals, mappings.Fixed(mappings.GoalOneYear), eng...), session),
		threeYear: document(optimistic.NewSingleton[entity.VisionGoals](
			store, maps.ThreeYear, schema.Goals, mappings.Fixed(mappings.GoalThreeYear), eng...), session),
		tenYear: document(optimistic.NewSingleton[entity.VisionGoals](
			store, maps.TenYear, schema.Goals, mappings.Fixed(mappings.GoalTenYear), eng...), session),
		northStar: document(optimistic.NewSingleton[entity.NorthStar](
			store, maps.NorthStar, schema.NorthStar, nil, eng...), session),
		memory: document(optimistic.NewSingleton[entity.Memory](
			store, maps.Memory, schema.Memory, nil, eng...), session),
	}
	j := assemble(src, o)
	j.unsubscribe = session.Subscribe(func(ctx context.Context, user identity.User, signedIn bool) {
		j.Reset()
		if !signedIn {
			return
		}
		if err := j.Load(ctx); err != nil {
			j.logger.Warn("journal not fully loaded after sign in", slog.String("uid", user.ID.String()))
		}
	})
	return j
}

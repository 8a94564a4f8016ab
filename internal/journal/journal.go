// Package journal exposes every record type of the journal behind one set
// of capability interfaces, backed either by the remote row store or by the
// local container.
package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/limbo/ceoos/pkg/entity"
	"golang.org/x/sync/errgroup"
)

// Records is an ordered, newest-first collection of keyed records.
type Records[T any] interface {
	Load(ctx context.Context) error
	All() []T
	// Returns the newest record with key
	Get(key string) (T, bool)
	Recent(n int) []T
	Add(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id string, mutate func(*T)) (T, error)
	// Last fetch or persistence failure, nil once a later one succeeded
	Err() error
}

// Document is a single per-user record.
type Document[T any] interface {
	Load(ctx context.Context) error
	Get() T
	Update(ctx context.Context, mutate func(*T)) (T, error)
	Err() error
}

type loader interface {
	Load(ctx context.Context) error
}

type resetter interface {
	Reset()
}

type Journal struct {
	Daily      *Daily
	Weekly     *Weekly
	Quarterly  *Quarterly
	Annual     *Annual
	Goals      *Goals
	NorthStar  Document[entity.NorthStar]
	Memory     Document[entity.Memory]
	LifeMap    *LifeMap
	Interviews *Interviews

	parts       []loader
	logger      *slog.Logger
	unsubscribe func()
}

type options struct {
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

type Option func(*options)

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLocation sets the zone whose calendar day decides date keys and the
// life map snapshot day.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.loc = loc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:    time.Now,
		loc:    time.Local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type clock struct {
	now func() time.Time
	loc *time.Location
}

func (c clock) today() time.Time {
	return c.now().In(c.loc)
}

type sources struct {
	daily      Records[entity.DailyEntry]
	weekly     Records[entity.WeeklyEntry]
	quarterly  Records[entity.QuarterlyEntry]
	annual     Records[entity.AnnualEntry]
	lifeMap    Records[entity.LifeMapSnapshot]
	interviews Records[entity.InterviewResponse]
	oneYear    Document[entity.YearGoals]
	threeYear  Document[entity.VisionGoals]
	tenYear    Document[entity.VisionGoals]
	northStar  Document[entity.NorthStar]
	memory     Document[entity.Memory]
}

func assemble(src sources, o options) *Journal {
	clk := clock{now: o.now, loc: o.loc}
	goals := &Goals{OneYear: src.oneYear, ThreeYear: src.threeYear, TenYear: src.tenYear}
	return &Journal{
		Daily:      &Daily{Records: src.daily, clock: clk},
		Weekly:     &Weekly{Records: src.weekly, clock: clk},
		Quarterly:  &Quarterly{Records: src.quarterly, clock: clk, goals: goals},
		Annual:     &Annual{Records: src.annual, goals: goals},
		Goals:      goals,
		NorthStar:  src.northStar,
		Memory:     src.memory,
		LifeMap:    &LifeMap{history: src.lifeMap, clock: clk},
		Interviews: &Interviews{Records: src.interviews, clock: clk},
		parts: []loader{
			src.daily, src.weekly, src.quarterly, src.annual, src.lifeMap, src.interviews,
			src.oneYear, src.threeYear, src.tenYear, src.northStar, src.memory,
		},
		logger: o.logger,
	}
}

// Load fetches every binding. All bindings are attempted, the first
// failure is returned.
func (j *Journal) Load(ctx context.Context) error {
	var g errgroup.Group
	for _, l := range j.parts {
		g.Go(func() error {
			return l.Load(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		j.logger.Error("journal load error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Reset empties every binding that holds per-user state.
func (j *Journal) Reset() {
	for _, l := range j.parts {
		if r, ok := l.(resetter); ok {
			r.Reset()
		}
	}
}

// Close detaches the journal from its identity session.
func (j *Journal) Close() {
	if j.unsubscribe != nil {
		j.unsubscribe()
		j.unsubscribe = nil
	}
}

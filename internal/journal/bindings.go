package journal

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/limbo/ceoos/internal/optimistic"
	"github.com/limbo/ceoos/internal/stats"
	"github.com/limbo/ceoos/pkg/entity"
)

// upsert updates the record sharing rec's key, or adds rec when there is
// none. Server-assigned fields of the existing record are kept.
func upsert[T keyed, PT optimistic.Record[T]](ctx context.Context, r Records[T], rec T) (T, error) {
	existing, ok := r.Get(rec.Key())
	if !ok {
		return r.Add(ctx, rec)
	}
	return r.Update(ctx, PT(&existing).Metadata().ID, func(cur *T) {
		meta := *PT(cur).Metadata()
		*cur = rec
		*PT(cur).Metadata() = meta
	})
}

type Daily struct {
	Records[entity.DailyEntry]
	clock clock
}

func (d *Daily) ByDate(date string) (entity.DailyEntry, bool) {
	return d.Get(date)
}

// Today returns today's check-in, or a fresh one.
func (d *Daily) Today() entity.DailyEntry {
	key := entity.DateKey(d.clock.today())
	if e, ok := d.Get(key); ok {
		return e
	}
	return entity.NewDailyEntry(key)
}

// Save creates the check-in of entry's date or updates the existing one.
func (d *Daily) Save(ctx context.Context, entry entity.DailyEntry) (entity.DailyEntry, error) {
	return upsert[entity.DailyEntry](ctx, d.Records, entry)
}

func (d *Daily) Streak(now time.Time) int {
	return stats.Streak(d.All(), now.In(d.clock.loc))
}

func (d *Daily) AverageEnergy(n int) float64 {
	return stats.AverageEnergy(d.All(), n)
}

type Weekly struct {
	Records[entity.WeeklyEntry]
	clock clock
}

func (w *Weekly) ByWeek(week string) (entity.WeeklyEntry, bool) {
	return w.Get(week)
}

// Draft returns the review of the week containing day, or a fresh one.
func (w *Weekly) Draft(day time.Time) entity.WeeklyEntry {
	key := entity.WeekKey(day)
	if e, ok := w.Get(key); ok {
		return e
	}
	e := entity.NewWeeklyEntry(key)
	start, end := entity.WeekBounds(day)
	e.StartDate, e.EndDate = entity.DateKey(start), entity.DateKey(end)
	return e
}

func (w *Weekly) Save(ctx context.Context, entry entity.WeeklyEntry) (entity.WeeklyEntry, error) {
	return upsert[entity.WeeklyEntry](ctx, w.Records, entry)
}

type Quarterly struct {
	Records[entity.QuarterlyEntry]
	clock clock
	goals *Goals
}

func (q *Quarterly) ByQuarter(quarter string) (entity.QuarterlyEntry, bool) {
	return q.Get(quarter)
}

// Draft returns the review of the quarter containing day. A fresh review
// starts with the critical goals of the one-year plan.
func (q *Quarterly) Draft(day time.Time) entity.QuarterlyEntry {
	key := entity.QuarterKey(day)
	if e, ok := q.Get(key); ok {
		return e
	}
	e := entity.NewQuarterlyEntry(key)
	start, end := entity.QuarterBounds(day)
	e.StartDate, e.EndDate = entity.DateKey(start), entity.DateKey(end)
	e.SeedGoals(q.goals.OneYear.Get().CriticalThree)
	return e
}

func (q *Quarterly) Save(ctx context.Context, entry entity.QuarterlyEntry) (entity.QuarterlyEntry, error) {
	return upsert[entity.QuarterlyEntry](ctx, q.Records, entry)
}

type Annual struct {
	Records[entity.AnnualEntry]
	goals *Goals
}

func (a *Annual) ByYear(year int) (entity.AnnualEntry, bool) {
	return a.Get(entity.YearKey(year))
}

// Draft returns the review of year, or a fresh one themed after the
// one-year plan.
func (a *Annual) Draft(year int) entity.AnnualEntry {
	if e, ok := a.ByYear(year); ok {
		return e
	}
	e := entity.NewAnnualEntry(year)
	e.YearTheme = a.goals.OneYear.Get().Theme
	return e
}

func (a *Annual) Save(ctx context.Context, entry entity.AnnualEntry) (entity.AnnualEntry, error) {
	return upsert[entity.AnnualEntry](ctx, a.Records, entry)
}

type Goals struct {
	OneYear   Document[entity.YearGoals]
	ThreeYear Document[entity.VisionGoals]
	TenYear   Document[entity.VisionGoals]
}

// LifeMap keeps one snapshot per day. The newest snapshot is the current
// life map.
type LifeMap struct {
	history Records[entity.LifeMapSnapshot]
	clock   clock
}

func (l *LifeMap) Load(ctx context.Context) error {
	return l.history.Load(ctx)
}

func (l *LifeMap) Err() error {
	return l.history.Err()
}

// Current returns the newest snapshot, or default scores when there is none.
func (l *LifeMap) Current() entity.LifeMapSnapshot {
	if recent := l.history.Recent(1); len(recent) > 0 {
		return recent[0]
	}
	return entity.NewLifeMapSnapshot("")
}

func (l *LifeMap) History() []entity.LifeMapSnapshot {
	return l.history.All()
}

// Update edits today's snapshot in place. Without one for today, a new
// snapshot starting from the current scores is added.
func (l *LifeMap) Update(ctx context.Context, mutate func(*entity.LifeMapScores)) (entity.LifeMapSnapshot, error) {
	today := entity.DateKey(l.clock.today())
	if cur := l.history.Recent(1); len(cur) > 0 && cur[0].SnapshotDate == today {
		return l.history.Update(ctx, cur[0].ID, func(s *entity.LifeMapSnapshot) {
			mutate(&s.LifeMapScores)
		})
	}
	return l.Snapshot(ctx, mutate)
}

// Snapshot always adds a new snapshot for today.
func (l *LifeMap) Snapshot(ctx context.Context, mutate func(*entity.LifeMapScores)) (entity.LifeMapSnapshot, error) {
	snap := entity.NewLifeMapSnapshot(entity.DateKey(l.clock.today()))
	if cur := l.history.Recent(1); len(cur) > 0 {
		snap.LifeMapScores = cur[0].LifeMapScores
	}
	mutate(&snap.LifeMapScores)
	return l.history.Add(ctx, snap)
}

type Interviews struct {
	Records[entity.InterviewResponse]
	clock clock
}

// All returns the responses of known categories, newest first.
func (i *Interviews) All() []entity.InterviewResponse {
	var out []entity.InterviewResponse
	for _, r := range i.Records.All() {
		if r.Category.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// ByCategory returns every response of category, newest first.
func (i *Interviews) ByCategory(category entity.InterviewCategory) []entity.InterviewResponse {
	if !category.Valid() {
		return nil
	}
	var out []entity.InterviewResponse
	for _, r := range i.Records.All() {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// Save records a completed interview.
func (i *Interviews) Save(ctx context.Context, category entity.InterviewCategory, answers map[string]string) (entity.InterviewResponse, error) {
	if !category.Valid() {
		return entity.InterviewResponse{}, fmt.Errorf("unknown interview category %q", category)
	}
	r := entity.NewInterviewResponse(category)
	maps.Copy(r.Responses, answers)
	r.CompletedAt = i.clock.now()
	return i.Add(ctx, r)
}

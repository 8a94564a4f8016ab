package local

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/transcoder"
	"github.com/limbo/ceoos/pkg/entity"
)

type keyed interface {
	Key() string
}

type record[T any] interface {
	*T
	Metadata() *entity.Meta
}

// Records is a newest-first list of records held by the container. Every
// mutation rewrites the owning blob before returning.
type Records[T keyed, PT record[T]] struct {
	c         *Container
	blob      string
	list      func(*data) *[]T
	normalize func(*T)
}

func (r *Records[T, PT]) Load(ctx context.Context) error {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	return r.c.checkLoaded()
}

func (r *Records[T, PT]) Err() error {
	return r.c.Err()
}

func (r *Records[T, PT]) All() []T {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	if !r.c.loaded {
		return nil
	}
	items := *r.list(&r.c.data)
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = transcoder.Clone(item)
	}
	return out
}

// Get returns the newest record with key.
func (r *Records[T, PT]) Get(key string) (T, bool) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	var zero T
	if !r.c.loaded {
		return zero, false
	}
	for _, item := range *r.list(&r.c.data) {
		if item.Key() == key {
			return transcoder.Clone(item), true
		}
	}
	return zero, false
}

func (r *Records[T, PT]) Recent(n int) []T {
	all := r.All()
	return all[:min(max(n, 0), len(all))]
}

// Add stores rec under a fresh id at the head of the list.
func (r *Records[T, PT]) Add(ctx context.Context, rec T) (T, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var zero T
	if err := r.c.checkLoaded(); err != nil {
		return zero, err
	}
	rec = transcoder.Clone(rec)
	r.normalize(&rec)
	now := r.c.now()
	meta := PT(&rec).Metadata()
	meta.ID = uuid.NewString()
	meta.CreatedAt = now
	meta.UpdatedAt = now
	list := r.list(&r.c.data)
	*list = append([]T{rec}, *list...)
	if err := r.c.persist(r.blob); err != nil {
		return zero, err
	}
	return transcoder.Clone(rec), nil
}

func (r *Records[T, PT]) Update(ctx context.Context, id string, mutate func(*T)) (T, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var zero T
	if err := r.c.checkLoaded(); err != nil {
		return zero, err
	}
	list := *r.list(&r.c.data)
	for i := range list {
		prev := PT(&list[i]).Metadata()
		if prev.ID != id {
			continue
		}
		next := transcoder.Clone(list[i])
		mutate(&next)
		meta := PT(&next).Metadata()
		meta.ID = prev.ID
		meta.CreatedAt = prev.CreatedAt
		meta.UpdatedAt = r.c.now()
		r.normalize(&next)
		list[i] = next
		if err := r.c.persist(r.blob); err != nil {
			return zero, err
		}
		return transcoder.Clone(next), nil
	}
	return zero, fmt.Errorf("%w: %s", errorvalues.ErrRecordNotFound, id)
}

// Document is a single record held by the container.
type Document[T any, PT record[T]] struct {
	c         *Container
	get       func(*data) *T
	normalize func(*T)
}

func (d *Document[T, PT]) Load(ctx context.Context) error {
	d.c.mu.RLock()
	defer d.c.mu.RUnlock()
	return d.c.checkLoaded()
}

func (d *Document[T, PT]) Err() error {
	return d.c.Err()
}

func (d *Document[T, PT]) Get() T {
	d.c.mu.RLock()
	defer d.c.mu.RUnlock()
	return transcoder.Clone(*d.get(&d.c.data))
}

func (d *Document[T, PT]) Update(ctx context.Context, mutate func(*T)) (T, error) {
	d.c.mu.Lock()
	defer d.c.mu.Unlock()
	var zero T
	if err := d.c.checkLoaded(); err != nil {
		return zero, err
	}
	cur := d.get(&d.c.data)
	prev := *PT(cur).Metadata()
	next := transcoder.Clone(*cur)
	mutate(&next)
	meta := PT(&next).Metadata()
	*meta = prev
	now := d.c.now()
	if meta.ID == "" {
		meta.ID = uuid.NewString()
		meta.CreatedAt = now
	}
	meta.UpdatedAt = now
	d.normalize(&next)
	*cur = next
	if err := d.c.persist(MainKey); err != nil {
		return zero, err
	}
	return transcoder.Clone(next), nil
}

func (c *Container) Daily() *Records[entity.DailyEntry, *entity.DailyEntry] {
	return &Records[entity.DailyEntry, *entity.DailyEntry]{
		c: c, blob: MainKey, normalize: c.maps.Daily.Normalize,
		list: func(d *data) *[]entity.DailyEntry { return &d.DailyCheckIns },
	}
}

func (c *Container) Weekly() *Records[entity.WeeklyEntry, *entity.WeeklyEntry] {
	return &Records[entity.WeeklyEntry, *entity.WeeklyEntry]{
		c: c, blob: MainKey, normalize: c.maps.Weekly.Normalize,
		list: func(d *data) *[]entity.WeeklyEntry { return &d.WeeklyReviews },
	}
}

func (c *Container) Quarterly() *Records[entity.QuarterlyEntry, *entity.QuarterlyEntry] {
	return &Records[entity.QuarterlyEntry, *entity.QuarterlyEntry]{
		c: c, blob: MainKey, normalize: c.maps.Quarterly.Normalize,
		list: func(d *data) *[]entity.QuarterlyEntry { return &d.QuarterlyReviews },
	}
}

func (c *Container) Annual() *Records[entity.AnnualEntry, *entity.AnnualEntry] {
	return &Records[entity.AnnualEntry, *entity.AnnualEntry]{
		c: c, blob: AnnualKey, normalize: c.maps.Annual.Normalize,
		list: func(d *data) *[]entity.AnnualEntry { return &d.annual },
	}
}

func (c *Container) LifeMap() *Records[entity.LifeMapSnapshot, *entity.LifeMapSnapshot] {
	return &Records[entity.LifeMapSnapshot, *entity.LifeMapSnapshot]{
		c: c, blob: MainKey, normalize: c.maps.LifeMap.Normalize,
		list: func(d *data) *[]entity.LifeMapSnapshot { return &d.LifeMapHistory },
	}
}

func (c *Container) Interviews() *Records[entity.InterviewResponse, *entity.InterviewResponse] {
	return &Records[entity.InterviewResponse, *entity.InterviewResponse]{
		c: c, blob: MainKey, normalize: c.maps.Interview.Normalize,
		list: func(d *data) *[]entity.InterviewResponse { return &d.InterviewResponses },
	}
}

func (c *Container) OneYear() *Document[entity.YearGoals, *entity.YearGoals] {
	return &Document[entity.YearGoals, *entity.YearGoals]{
		c: c, normalize: c.maps.OneYear.Normalize,
		get: func(d *data) *entity.YearGoals { return &d.Goals.OneYear },
	}
}

func (c *Container) ThreeYear() *Document[entity.VisionGoals, *entity.VisionGoals] {
	return &Document[entity.VisionGoals, *entity.VisionGoals]{
		c: c, normalize: c.maps.ThreeYear.Normalize,
		get: func(d *data) *entity.VisionGoals { return &d.Goals.ThreeYear },
	}
}

func (c *Container) TenYear() *Document[entity.VisionGoals, *entity.VisionGoals] {
	return &Document[entity.VisionGoals, *entity.VisionGoals]{
		c: c, normalize: c.maps.TenYear.Normalize,
		get: func(d *data) *entity.VisionGoals { return &d.Goals.TenYear },
	}
}

func (c *Container) NorthStar() *Document[entity.NorthStar, *entity.NorthStar] {
	return &Document[entity.NorthStar, *entity.NorthStar]{
		c: c, normalize: c.maps.NorthStar.Normalize,
		get: func(d *data) *entity.NorthStar { return &d.NorthStar },
	}
}

func (c *Container) Memory() *Document[entity.Memory, *entity.Memory] {
	return &Document[entity.Memory, *entity.Memory]{
		c: c, normalize: c.maps.Memory.Normalize,
		get: func(d *data) *entity.Memory { return &d.Memory },
	}
}

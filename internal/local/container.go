// Package local keeps every record of a single user in memory and persists
// it as one serialized blob per logical store.
package local

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/ceoos/internal/error_values"
	"github.com/limbo/ceoos/internal/mappings"
	"github.com/limbo/ceoos/pkg/entity"
)

// Blob keys, compatible with exports of the browser version.
const (
	MainKey   = "ceo-os-storage"
	AnnualKey = "ceo-os-annual-reviews"
)

const stateVersion = 0

type goalsState struct {
	OneYear   entity.YearGoals   `json:"oneYear"`
	ThreeYear entity.VisionGoals `json:"threeYear"`
	TenYear   entity.VisionGoals `json:"tenYear"`
}

type state struct {
	DailyCheckIns      []entity.DailyEntry        `json:"dailyCheckIns"`
	WeeklyReviews      []entity.WeeklyEntry       `json:"weeklyReviews"`
	QuarterlyReviews   []entity.QuarterlyEntry    `json:"quarterlyReviews"`
	Goals              goalsState                 `json:"goals"`
	NorthStar          entity.NorthStar           `json:"northStar"`
	Memory             entity.Memory              `json:"memory"`
	InterviewResponses []entity.InterviewResponse `json:"interviewResponses"`
	CurrentLifeMap     entity.LifeMapScores       `json:"currentLifeMap"`
	LifeMapHistory     []entity.LifeMapSnapshot   `json:"lifeMapHistory"`
}

type mainBlob struct {
	State   state `json:"state"`
	Version int   `json:"version"`
}

// data is everything the container holds in memory.
type data struct {
	state
	// newest year first
	annual []entity.AnnualEntry
}

type Container struct {
	store  BlobStore
	maps   *mappings.Set
	now    func() time.Time
	logger *slog.Logger

	mu     sync.RWMutex
	loaded bool
	data   data
	err    error
}

type Option func(*Container)

func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

func New(store BlobStore, opts ...Option) *Container {
	c := &Container{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.maps = mappings.New(c.now)
	return c
}

// Open hydrates the container from the blob store.
func (c *Container) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrate()
}

// Close writes both blobs and releases the container.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return nil
	}
	err := errors.Join(c.persist(MainKey), c.persist(AnnualKey))
	c.loaded = false
	return err
}

// Err reports the last persistence failure.
func (c *Container) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Container) defaults() data {
	year := c.now().Year()
	return data{
		state: state{
			DailyCheckIns:    []entity.DailyEntry{},
			WeeklyReviews:    []entity.WeeklyEntry{},
			QuarterlyReviews: []entity.QuarterlyEntry{},
			Goals: goalsState{
				OneYear:   entity.NewYearGoals(year),
				ThreeYear: entity.NewVisionGoals(year, 3),
				TenYear:   entity.NewVisionGoals(year, 10),
			},
			NorthStar:          entity.NewNorthStar(),
			Memory:             entity.NewMemory(),
			InterviewResponses: []entity.InterviewResponse{},
			CurrentLifeMap:     entity.NewLifeMapScores(),
			LifeMapHistory:     []entity.LifeMapSnapshot{},
		},
		annual: []entity.AnnualEntry{},
	}
}

func (c *Container) hydrate() error {
	d := c.defaults()

	raw, ok, err := c.store.Get(MainKey)
	if err != nil {
		return fmt.Errorf("loading %s: %w", MainKey, err)
	}
	if ok {
		blob := mainBlob{State: d.state}
		if err := sonic.Unmarshal(raw, &blob); err != nil {
			return fmt.Errorf("parsing %s: %w", MainKey, err)
		}
		d.state = blob.State
	}

	raw, ok, err = c.store.Get(AnnualKey)
	if err != nil {
		return fmt.Errorf("loading %s: %w", AnnualKey, err)
	}
	if ok {
		byYear := map[string]entity.AnnualEntry{}
		if err := sonic.Unmarshal(raw, &byYear); err != nil {
			return fmt.Errorf("parsing %s: %w", AnnualKey, err)
		}
		for _, a := range byYear {
			d.annual = append(d.annual, a)
		}
		slices.SortFunc(d.annual, func(a, b entity.AnnualEntry) int {
			return b.Year - a.Year
		})
	}

	c.normalize(&d)
	c.data = d
	c.loaded = true
	c.err = nil
	c.logger.Debug("local storage hydrated",
		slog.Int("daily", len(d.DailyCheckIns)),
		slog.Int("annual", len(d.annual)))
	return nil
}

// normalize restores list lengths and enum defaults of hydrated records.
func (c *Container) normalize(d *data) {
	for i := range d.DailyCheckIns {
		c.maps.Daily.Normalize(&d.DailyCheckIns[i])
	}
	for i := range d.WeeklyReviews {
		c.maps.Weekly.Normalize(&d.WeeklyReviews[i])
	}
	for i := range d.QuarterlyReviews {
		c.maps.Quarterly.Normalize(&d.QuarterlyReviews[i])
	}
	for i := range d.annual {
		c.maps.Annual.Normalize(&d.annual[i])
	}
	for i := range d.InterviewResponses {
		c.maps.Interview.Normalize(&d.InterviewResponses[i])
	}
	for i := range d.LifeMapHistory {
		c.maps.LifeMap.Normalize(&d.LifeMapHistory[i])
	}
	c.maps.OneYear.Normalize(&d.Goals.OneYear)
	c.maps.ThreeYear.Normalize(&d.Goals.ThreeYear)
	c.maps.TenYear.Normalize(&d.Goals.TenYear)
	c.maps.NorthStar.Normalize(&d.NorthStar)
	c.maps.Memory.Normalize(&d.Memory)
	d.CurrentLifeMap.Normalize()
}

// persist writes one blob. Callers hold c.mu.
func (c *Container) persist(key string) error {
	var (
		raw []byte
		err error
	)
	switch key {
	case MainKey:
		if len(c.data.LifeMapHistory) > 0 {
			c.data.CurrentLifeMap = c.data.LifeMapHistory[0].LifeMapScores
		}
		raw, err = sonic.Marshal(mainBlob{State: c.data.state, Version: stateVersion})
	case AnnualKey:
		byYear := make(map[string]entity.AnnualEntry, len(c.data.annual))
		for _, a := range c.data.annual {
			byYear[strconv.Itoa(a.Year)] = a
		}
		raw, err = sonic.Marshal(byYear)
	default:
		return fmt.Errorf("unknown blob %q", key)
	}
	if err == nil {
		err = c.store.Set(key, raw)
	}
	if err != nil {
		c.err = err
		c.logger.Error("persist error", slog.String("blob", key), slog.String("error", err.Error()))
		return fmt.Errorf("saving %s: %w", key, err)
	}
	c.err = nil
	return nil
}

func (c *Container) checkLoaded() error {
	if !c.loaded {
		return errorvalues.ErrStoreNotLoaded
	}
	return nil
}

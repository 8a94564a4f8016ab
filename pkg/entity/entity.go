package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

// Meta holds the server-assigned part of every stored record.
type Meta struct {
	ID        string    `json:"id" db:"id,readonly"`
	CreatedAt time.Time `json:"createdAt" db:"created_at,readonly"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at,readonly"`
}

func (m *Meta) Metadata() *Meta {
	return m
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

func (t Trend) Valid() bool {
	switch t {
	case TrendUp, TrendDown, TrendStable:
		return true
	}
	return false
}

type GoalStatus string

const (
	GoalAhead     GoalStatus = "ahead"
	GoalOnTrack   GoalStatus = "on-track"
	GoalBehind    GoalStatus = "behind"
	GoalAbandoned GoalStatus = "abandoned"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalAhead, GoalOnTrack, GoalBehind, GoalAbandoned:
		return true
	}
	return false
}

type ArchaeologyStatus string

const (
	ArchaeologyAchieved   ArchaeologyStatus = "achieved"
	ArchaeologyInProgress ArchaeologyStatus = "in-progress"
	ArchaeologyAbandoned  ArchaeologyStatus = "abandoned"
	ArchaeologyRecurring  ArchaeologyStatus = "recurring"
)

func (s ArchaeologyStatus) Valid() bool {
	switch s {
	case ArchaeologyAchieved, ArchaeologyInProgress, ArchaeologyAbandoned, ArchaeologyRecurring:
		return true
	}
	return false
}

type InterviewCategory string

const (
	InterviewPastYear       InterviewCategory = "past-year"
	InterviewIdentityValues InterviewCategory = "identity-values"
	InterviewFutureSelf     InterviewCategory = "future-self"
)

func (c InterviewCategory) Valid() bool {
	switch c {
	case InterviewPastYear, InterviewIdentityValues, InterviewFutureSelf:
		return true
	}
	return false
}

type HabitFrequency string

const (
	FrequencyDaily   HabitFrequency = "daily"
	FrequencyWeekly  HabitFrequency = "weekly"
	FrequencyMonthly HabitFrequency = "monthly"
)

func (f HabitFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type Area string

const (
	AreaCareer        Area = "career"
	AreaRelationships Area = "relationships"
	AreaHealth        Area = "health"
	AreaFinances      Area = "finances"
	AreaMeaning       Area = "meaning"
	AreaFun           Area = "fun"
)

// Areas lists the life areas in display order.
func Areas() []Area {
	return []Area{AreaCareer, AreaRelationships, AreaHealth, AreaFinances, AreaMeaning, AreaFun}
}

func (a Area) Valid() bool {
	switch a {
	case AreaCareer, AreaRelationships, AreaHealth, AreaFinances, AreaMeaning, AreaFun:
		return true
	}
	return false
}

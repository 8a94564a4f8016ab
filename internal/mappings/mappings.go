// Package mappings declares the row mapping of every record type.
package mappings

import (
	"log/slog"
	"time"

	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/internal/transcoder"
	"github.com/limbo/ceoos/pkg/entity"
)

// Goal types stored in the goal_type column.
const (
	GoalOneYear   = "one_year"
	GoalThreeYear = "three_year"
	GoalTenYear   = "ten_year"
)

// Set holds one mapping per record type. Defaults that depend on the
// current year read it from the clock given to New.
type Set struct {
	Daily     *transcoder.Mapping[entity.DailyEntry]
	Weekly    *transcoder.Mapping[entity.WeeklyEntry]
	Quarterly *transcoder.Mapping[entity.QuarterlyEntry]
	Annual    *transcoder.Mapping[entity.AnnualEntry]
	LifeMap   *transcoder.Mapping[entity.LifeMapSnapshot]
	OneYear   *transcoder.Mapping[entity.YearGoals]
	ThreeYear *transcoder.Mapping[entity.VisionGoals]
	TenYear   *transcoder.Mapping[entity.VisionGoals]
	NorthStar *transcoder.Mapping[entity.NorthStar]
	Memory    *transcoder.Mapping[entity.Memory]
	Interview *transcoder.Mapping[entity.InterviewResponse]
}

func New(now func() time.Time) *Set {
	if now == nil {
		now = time.Now
	}
	return &Set{
		Daily: transcoder.MustNew(func() entity.DailyEntry {
			return entity.NewDailyEntry("")
		}),
		Weekly: transcoder.MustNew(func() entity.WeeklyEntry {
			return entity.NewWeeklyEntry("")
		}),
		Quarterly: transcoder.MustNew(func() entity.QuarterlyEntry {
			return entity.NewQuarterlyEntry("")
		}),
		Annual: transcoder.MustNew(func() entity.AnnualEntry {
			return entity.NewAnnualEntry(now().Year())
		}),
		LifeMap: transcoder.MustNew(func() entity.LifeMapSnapshot {
			return entity.NewLifeMapSnapshot("")
		}),
		OneYear: transcoder.MustNew(func() entity.YearGoals {
			return entity.NewYearGoals(now().Year())
		}),
		ThreeYear: vision(now, 3),
		TenYear:   vision(now, 10),
		NorthStar: transcoder.MustNew(entity.NewNorthStar),
		Memory:    transcoder.MustNew(entity.NewMemory),
		// no default category: an unknown interview_type must not be filed
		// under a real one
		Interview: transcoder.MustNew(func() entity.InterviewResponse {
			return entity.NewInterviewResponse("")
		}, transcoder.WithDecodeHook(func(row schema.Row, v *entity.InterviewResponse) {
			if !v.Category.Valid() {
				slog.Warn("interview response with unknown category",
					slog.Any("id", row["id"]), slog.Any("interview_type", row["interview_type"]))
			}
			if row["completed_at"] == nil {
				v.CompletedAt = v.CreatedAt
			}
		})),
	}
}

// vision ends the period yearsOut after its start unless the row says
// otherwise.
func vision(now func() time.Time, yearsOut int) *transcoder.Mapping[entity.VisionGoals] {
	return transcoder.MustNew(func() entity.VisionGoals {
		return entity.NewVisionGoals(now().Year(), yearsOut)
	}, transcoder.WithDecodeHook(func(row schema.Row, v *entity.VisionGoals) {
		if row["period_end"] == nil {
			v.PeriodEnd = v.PeriodStart + yearsOut
		}
	}))
}

// Fixed returns the discriminator columns of a goal horizon.
func Fixed(goalType string) schema.Row {
	return schema.Row{schema.ColGoalType: goalType}
}

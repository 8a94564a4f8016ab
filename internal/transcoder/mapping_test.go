package transcoder_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/limbo/ceoos/internal/schema"
	"github.com/limbo/ceoos/internal/transcoder"
	"github.com/limbo/ceoos/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dailyMapping     = transcoder.MustNew(func() entity.DailyEntry { return entity.NewDailyEntry("") })
	weeklyMapping    = transcoder.MustNew(func() entity.WeeklyEntry { return entity.NewWeeklyEntry("") })
	quarterlyMapping = transcoder.MustNew(func() entity.QuarterlyEntry { return entity.NewQuarterlyEntry("") })
	annualMapping    = transcoder.MustNew(func() entity.AnnualEntry { return entity.NewAnnualEntry(2025) })
	yearMapping      = transcoder.MustNew(func() entity.YearGoals { return entity.NewYearGoals(2025) })
	visionMapping    = transcoder.MustNew(func() entity.VisionGoals { return entity.NewVisionGoals(2025, 3) },
		transcoder.WithDecodeHook(func(row schema.Row, v *entity.VisionGoals) {
			if row["period_end"] == nil {
				v.PeriodEnd = v.PeriodStart + 3
			}
		}))
	northStarMapping = transcoder.MustNew(entity.NewNorthStar)
	memoryMapping    = transcoder.MustNew(entity.NewMemory)
	lifeMapMapping   = transcoder.MustNew(func() entity.LifeMapSnapshot { return entity.NewLifeMapSnapshot("") })
	interviewMapping = transcoder.MustNew(func() entity.InterviewResponse {
		return entity.NewInterviewResponse(entity.InterviewPastYear)
	})
)

// overWire simulates a row travelling through JSON, as it does between the
// HTTP client and the row store.
func overWire(t *testing.T, row schema.Row) schema.Row {
	t.Helper()
	b, err := sonic.ConfigStd.Marshal(row)
	require.NoError(t, err)
	var out schema.Row
	require.NoError(t, sonic.ConfigStd.Unmarshal(b, &out))
	return out
}

func roundTrip[T any](t *testing.T, m *transcoder.Mapping[T], x T) {
	t.Helper()
	row, err := m.Encode(x)
	require.NoError(t, err)
	assert.Equal(t, x, m.Decode(row), "direct")
	assert.Equal(t, x, m.Decode(overWire(t, row)), "over wire")
}

func scores() entity.LifeMapScores {
	s := entity.NewLifeMapScores()
	s.Career, s.CareerTrend, s.CareerNote = 8, entity.TrendUp, "promotion"
	s.Fun, s.FunTrend = 3, entity.TrendDown
	return s
}

func TestRoundTrip(t *testing.T) {
	t.Run("daily", func(t *testing.T) {
		roundTrip(t, dailyMapping, entity.DailyEntry{
			Date: "2025-03-04", EnergyPhysical: 7, EnergyMental: 6, EnergyEmotional: 9,
			EnergyWord: "steady", MeaningfulWin: "shipped", FrictionPoint: "meetings",
			LetGo: "inbox", TomorrowPriority: "write", Notes: "n",
		})
	})
	t.Run("weekly", func(t *testing.T) {
		roundTrip(t, weeklyMapping, entity.WeeklyEntry{
			Week: "2025-W10", StartDate: "2025-03-03", EndDate: "2025-03-09",
			MovedNeedle: []string{"a", "", "c"}, WasNoise: []string{"x", ""}, TimeLeaked: "slack",
			AverageEnergy: 6.5, BestDay: "tue", BestDayWhy: "focus", WorstDay: "fri", WorstDayWhy: "tired",
			WhoEnergized: "ann", WhoDrained: "bob", ShouldConnect: "cy", StrategicInsight: "s",
			Adjustment: "adj", NextPriorities: []string{"p1", "p2", "p3"}, Gratitude: "g",
			Wins: []string{"w1", "w2"},
		})
	})
	t.Run("quarterly", func(t *testing.T) {
		x := entity.NewQuarterlyEntry("2025-Q1")
		x.StartDate, x.EndDate = "2025-01-01", "2025-03-31"
		x.GoalProgress = entity.GoalProgressList{
			{Goal: "book", Status: entity.GoalBehind, Progress: 40, Notes: "slow"},
			{Goal: "run", Status: entity.GoalAhead, Progress: 90},
		}
		x.LifeMapScores = scores()
		x.AverageEnergy = 7.2
		x.KeyWins = []string{"k1", "k2", ""}
		x.MemoryInsights = []string{"m1", "m2"}
		x.NextQuarterTheme = "depth"
		roundTrip(t, quarterlyMapping, x)
	})
	t.Run("annual", func(t *testing.T) {
		x := entity.NewAnnualEntry(2024)
		x.YearTheme = "build"
		x.GoalsAchieved = entity.GoalProgressList{{Goal: "g", Status: entity.GoalAbandoned, Progress: 10}}
		x.LifeMapScores = scores()
		x.QuotesToRemember = []entity.Quote{{Quote: "q", Source: "me", Date: "2024-05-01"}}
		x.SkillsGained = []string{"go", "sql"}
		roundTrip(t, annualMapping, x)
	})
	t.Run("year goals", func(t *testing.T) {
		x := entity.NewYearGoals(2025)
		x.Theme = "focus"
		x.Health.PrimaryGoal = "marathon"
		x.Health.Commitment = 9
		x.CriticalThree = []string{"a", "b", "c"}
		x.AntiGoals = []string{"no side projects"}
		x.HabitsToBuild = entity.HabitsToBuild{{Habit: "run", Frequency: entity.FrequencyWeekly, WhyMatters: "health"}}
		x.HabitsToBreak = []entity.HabitToBreak{{Habit: "doomscroll", Replacement: "read", Strategy: "app limits"}}
		roundTrip(t, yearMapping, x)
	})
	t.Run("vision goals", func(t *testing.T) {
		x := entity.NewVisionGoals(2025, 3)
		x.Snapshot = "calm"
		x.Career = "own studio"
		x.BigBets = []string{"studio", "house"}
		roundTrip(t, visionMapping, x)
	})
	t.Run("north star", func(t *testing.T) {
		x := entity.NewNorthStar()
		x.OneSentence = "build things that last"
		x.YearsInChapter = 3
		x.AreaRankings[2].Rank = 1
		x.AreaRankings[2].Why = "foundation"
		x.NonNegotiables = []string{"family dinner"}
		roundTrip(t, northStarMapping, x)
	})
	t.Run("memory", func(t *testing.T) {
		x := entity.NewMemory()
		x.ExecutiveSummary = "summary"
		x.Strengths = []string{"focus", "writing"}
		x.GoalArchaeology = entity.GoalArchaeology{{Goal: "novel", FirstAppeared: "2019", TimesRepeated: 4, Status: entity.ArchaeologyRecurring}}
		x.InsightsByYear = []entity.YearInsight{{Year: 2023, Insights: []string{"i1"}}}
		x.QuotesFromPastSelf = []entity.Quote{{Quote: "q", Source: "journal", Date: "2020-01-01"}}
		roundTrip(t, memoryMapping, x)
	})
	t.Run("life map", func(t *testing.T) {
		x := entity.NewLifeMapSnapshot("2025-03-04")
		x.LifeMapScores = scores()
		roundTrip(t, lifeMapMapping, x)
	})
	t.Run("interview", func(t *testing.T) {
		x := entity.NewInterviewResponse(entity.InterviewFutureSelf)
		x.Responses = map[string]string{"q1": "a1", "q2": "a2"}
		x.CompletedAt = time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)
		roundTrip(t, interviewMapping, x)
	})
}

func TestEncodeOmitsReadonly(t *testing.T) {
	x := entity.NewDailyEntry("2025-01-01")
	x.ID = "c1b7a0a4-0000-0000-0000-000000000000"
	x.CreatedAt = time.Now()
	row, err := dailyMapping.Encode(x)
	require.NoError(t, err)
	assert.NotContains(t, row, "id")
	assert.NotContains(t, row, "created_at")
	assert.NotContains(t, row, "updated_at")
	assert.Equal(t, "2025-01-01", row["date"])
	assert.Equal(t, int64(5), row["energy_physical"])
}

func TestDecodeDefaults(t *testing.T) {
	t.Run("partial row", func(t *testing.T) {
		got := weeklyMapping.Decode(schema.Row{
			"id":           "abc",
			"week":         "2025-W02",
			"moved_needle": []any{"only one"},
			"wins":         nil,
			"gratitude":    nil,
		})
		assert.Equal(t, "abc", got.ID)
		assert.Equal(t, []string{"only one", "", ""}, got.MovedNeedle)
		assert.Equal(t, []string{"", ""}, got.WasNoise)
		assert.Equal(t, []string{""}, got.Wins)
		assert.Equal(t, 5.0, got.AverageEnergy)
		assert.Equal(t, "", got.Gratitude)
	})
	t.Run("fixed list truncated", func(t *testing.T) {
		got := weeklyMapping.Decode(schema.Row{"was_noise": []any{"a", "b", "c"}})
		assert.Equal(t, []string{"a", "b"}, got.WasNoise)
	})
	t.Run("empty row", func(t *testing.T) {
		got := quarterlyMapping.Decode(schema.Row{})
		assert.Equal(t, entity.NewQuarterlyEntry(""), got)
	})
	t.Run("timestamps", func(t *testing.T) {
		got := dailyMapping.Decode(schema.Row{
			"created_at": "2025-01-02T03:04:05.123456+00:00",
			"updated_at": "not a time",
		})
		assert.Equal(t, 2025, got.CreatedAt.Year())
		assert.True(t, got.UpdatedAt.IsZero())
	})
	t.Run("partial nested object", func(t *testing.T) {
		got := quarterlyMapping.Decode(schema.Row{
			"life_map_scores": map[string]any{"career": 9.0},
		})
		assert.Equal(t, 9, got.LifeMapScores.Career)
		assert.Equal(t, 5, got.LifeMapScores.Health)
		assert.Equal(t, entity.TrendStable, got.LifeMapScores.HealthTrend)
	})
	t.Run("json null", func(t *testing.T) {
		got := quarterlyMapping.Decode(schema.Row{"goal_progress": json.RawMessage("null")})
		assert.NotNil(t, got.GoalProgress)
		assert.Empty(t, got.GoalProgress)
	})
	t.Run("vision area stored as object", func(t *testing.T) {
		got := visionMapping.Decode(schema.Row{
			"period_start": 2020.0,
			"career":       map[string]any{"primaryGoal": "x"},
			"health":       "move daily",
		})
		assert.Equal(t, "", got.Career)
		assert.Equal(t, "move daily", got.Health)
		assert.Equal(t, 2023, got.PeriodEnd)
	})
}

func TestDecodeNarrowsEnums(t *testing.T) {
	got := lifeMapMapping.Decode(schema.Row{
		"career_trend": "sideways",
		"fun_trend":    "up",
	})
	assert.Equal(t, entity.TrendStable, got.CareerTrend)
	assert.Equal(t, entity.TrendUp, got.FunTrend)

	q := quarterlyMapping.Decode(schema.Row{
		"goal_progress":   []any{map[string]any{"goal": "g", "status": "unknown", "progress": 10.0}},
		"life_map_scores": map[string]any{"healthTrend": "bad"},
	})
	require.Len(t, q.GoalProgress, 1)
	assert.Equal(t, entity.GoalOnTrack, q.GoalProgress[0].Status)
	assert.Equal(t, entity.TrendStable, q.LifeMapScores.HealthTrend)

	r := interviewMapping.Decode(schema.Row{"interview_type": "job-interview"})
	assert.Equal(t, entity.InterviewPastYear, r.Category)
}

func TestListPaddingAndStripping(t *testing.T) {
	loaded := weeklyMapping.Decode(schema.Row{"moved_needle": []any{"item"}})
	assert.Equal(t, []string{"item", "", ""}, loaded.MovedNeedle)

	row, err := weeklyMapping.Encode(loaded)
	require.NoError(t, err)
	assert.Equal(t, []string{"item"}, row["moved_needle"])
	assert.Equal(t, []string{}, row["was_noise"])

	w := entity.NewWeeklyEntry("2025-W01")
	w.MovedNeedle = []string{"a", "", "c"}
	weeklyMapping.Compact(&w)
	assert.Equal(t, []string{"a", "", "c"}, w.MovedNeedle)
	assert.Equal(t, []string{}, w.WasNoise)
	weeklyMapping.Normalize(&w)
	assert.Equal(t, []string{"", ""}, w.WasNoise)
	assert.Equal(t, []string{""}, w.Wins)
}

func TestDiff(t *testing.T) {
	before := entity.NewDailyEntry("2025-01-01")
	before.ID = "id-1"
	after := before
	after.EnergyMental = 9
	after.Notes = "better"
	after.UpdatedAt = time.Now()

	row, err := dailyMapping.Diff(before, after)
	require.NoError(t, err)
	assert.Equal(t, schema.Row{"energy_mental": int64(9), "notes": "better"}, row)

	w := entity.NewWeeklyEntry("2025-W01")
	w.MovedNeedle = []string{"a", "", ""}
	w2 := transcoder.Clone(w)
	w2.MovedNeedle = []string{"a"}
	row, err = weeklyMapping.Diff(w, w2)
	require.NoError(t, err)
	assert.Empty(t, row, "trailing empties are not a change")

	w2.MovedNeedle = []string{"a", "b", ""}
	row, err = weeklyMapping.Diff(w, w2)
	require.NoError(t, err)
	assert.Equal(t, schema.Row{"moved_needle": []string{"a", "b"}}, row)
}

func TestClone(t *testing.T) {
	q := entity.NewQuarterlyEntry("2025-Q1")
	q.GoalProgress = entity.GoalProgressList{{Goal: "g", Status: entity.GoalOnTrack}}
	c := transcoder.Clone(q)
	c.GoalProgress[0].Goal = "changed"
	c.KeyWins[0] = "changed"
	c.LifeMapScores.Career = 1
	assert.Equal(t, "g", q.GoalProgress[0].Goal)
	assert.Equal(t, "", q.KeyWins[0])
	assert.Equal(t, 5, q.LifeMapScores.Career)

	r := entity.NewInterviewResponse(entity.InterviewPastYear)
	r.Responses["a"] = "1"
	rc := transcoder.Clone(r)
	rc.Responses["a"] = "2"
	assert.Equal(t, "1", r.Responses["a"])
}

func TestMappingRejectsBadTags(t *testing.T) {
	type noJSON struct {
		Nested entity.GoalArea `db:"nested"`
	}
	_, err := transcoder.New(func() noJSON { return noJSON{} })
	assert.Error(t, err)

	type dup struct {
		A string `db:"a"`
		B string `db:"a"`
	}
	_, err = transcoder.New(func() dup { return dup{} })
	assert.Error(t, err)

	type badList struct {
		A string `db:"a" list:"2"`
	}
	_, err = transcoder.New(func() badList { return badList{} })
	assert.Error(t, err)
}

func TestNormalizeResetsEnums(t *testing.T) {
	q := entity.NewQuarterlyEntry("2025-Q1")
	q.GoalProgress = entity.GoalProgressList{{Goal: "g", Status: "sideways", Progress: 10}}
	q.LifeMapScores.HealthTrend = "wobbly"
	quarterlyMapping.Normalize(&q)
	assert.Equal(t, entity.GoalOnTrack, q.GoalProgress[0].Status)
	assert.Equal(t, entity.TrendStable, q.LifeMapScores.HealthTrend)

	snap := entity.NewLifeMapSnapshot("2025-03-04")
	snap.CareerTrend = "sideways"
	lifeMapMapping.Normalize(&snap)
	assert.Equal(t, entity.TrendStable, snap.CareerTrend)
}

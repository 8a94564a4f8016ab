package entity

import "time"

// Constructors below return fully populated records. Every call allocates
// fresh slices and maps.

const (
	defaultScore  = 5
	defaultEnergy = 5
)

func emptyList(n int) []string {
	return make([]string, n)
}

func NewDailyEntry(date string) DailyEntry {
	return DailyEntry{
		Date:            date,
		EnergyPhysical:  defaultEnergy,
		EnergyMental:    defaultEnergy,
		EnergyEmotional: defaultEnergy,
	}
}

func NewWeeklyEntry(week string) WeeklyEntry {
	return WeeklyEntry{
		Week:           week,
		MovedNeedle:    emptyList(3),
		WasNoise:       emptyList(2),
		AverageEnergy:  defaultEnergy,
		NextPriorities: emptyList(3),
		Wins:           emptyList(1),
	}
}

func NewQuarterlyEntry(quarter string) QuarterlyEntry {
	return QuarterlyEntry{
		Quarter:        quarter,
		GoalProgress:   GoalProgressList{},
		LifeMapScores:  NewLifeMapScores(),
		AverageEnergy:  defaultEnergy,
		Energizers:     emptyList(2),
		Drainers:       emptyList(2),
		KeyWins:        emptyList(3),
		KeyChallenges:  emptyList(3),
		StartDoing:     emptyList(2),
		StopDoing:      emptyList(2),
		ContinueDoing:  emptyList(2),
		NextPriorities: emptyList(3),
		MemoryInsights: emptyList(1),
	}
}

func NewAnnualEntry(year int) AnnualEntry {
	return AnnualEntry{
		Year:              year,
		StartDate:         time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
		EndDate:           time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
		GoalsAchieved:     GoalProgressList{},
		LifeMapScores:     NewLifeMapScores(),
		TopWins:           emptyList(3),
		BiggestChallenges: emptyList(3),
		SkillsGained:      emptyList(1),
		LessonsLearned:    emptyList(1),
		AverageEnergy:     defaultEnergy,
		QuotesToRemember:  []Quote{},
	}
}

func NewLifeMapScores() LifeMapScores {
	return LifeMapScores{
		Career:             defaultScore,
		CareerTrend:        TrendStable,
		Relationships:      defaultScore,
		RelationshipsTrend: TrendStable,
		Health:             defaultScore,
		HealthTrend:        TrendStable,
		Finances:           defaultScore,
		FinancesTrend:      TrendStable,
		Meaning:            defaultScore,
		MeaningTrend:       TrendStable,
		Fun:                defaultScore,
		FunTrend:           TrendStable,
	}
}

func NewLifeMapSnapshot(date string) LifeMapSnapshot {
	return LifeMapSnapshot{
		SnapshotDate:  date,
		LifeMapScores: NewLifeMapScores(),
	}
}

func NewGoalArea() GoalArea {
	return GoalArea{Commitment: defaultScore}
}

func NewYearGoals(year int) YearGoals {
	return YearGoals{
		Year:          year,
		Career:        NewGoalArea(),
		Relationships: NewGoalArea(),
		Health:        NewGoalArea(),
		Finances:      NewGoalArea(),
		Meaning:       NewGoalArea(),
		Fun:           NewGoalArea(),
		CriticalThree: emptyList(3),
		AntiGoals:     emptyList(1),
		HabitsToBuild: HabitsToBuild{},
		HabitsToBreak: []HabitToBreak{},
	}
}

func NewVisionGoals(start, yearsOut int) VisionGoals {
	return VisionGoals{
		PeriodStart:  start,
		PeriodEnd:    start + yearsOut,
		BigBets:      emptyList(1),
		NeedsToEnd:   emptyList(1),
		NeedsToBegin: emptyList(1),
	}
}

func NewNorthStar() NorthStar {
	rankings := make(AreaRankings, 0, 6)
	for _, a := range Areas() {
		rankings = append(rankings, AreaRanking{Area: a})
	}
	return NorthStar{
		AreaRankings:   rankings,
		NonNegotiables: emptyList(1),
		SayingNoTo:     emptyList(1),
	}
}

func NewMemory() Memory {
	return Memory{
		Strengths:            emptyList(1),
		GrowthEdges:          emptyList(1),
		EnergizedBy:          emptyList(1),
		DrainedBy:            emptyList(1),
		BlindSpots:           emptyList(1),
		GoalArchaeology:      GoalArchaeology{},
		InsightsByYear:       []YearInsight{},
		LessonsWork:          emptyList(1),
		LessonsRelationships: emptyList(1),
		LessonsSelf:          emptyList(1),
		LessonsLife:          emptyList(1),
		QuotesFromPastSelf:   []Quote{},
		WarningsToFutureSelf: emptyList(1),
	}
}

func NewInterviewResponse(category InterviewCategory) InterviewResponse {
	return InterviewResponse{
		Category:  category,
		Responses: map[string]string{},
	}
}

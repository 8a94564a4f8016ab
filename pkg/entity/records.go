package entity

import (
	"errors"
	"strconv"
	"time"
)

type DailyEntry struct {
	Meta
	Date             string `json:"date" db:"date"`
	EnergyPhysical   int    `json:"energyPhysical" db:"energy_physical"`
	EnergyMental     int    `json:"energyMental" db:"energy_mental"`
	EnergyEmotional  int    `json:"energyEmotional" db:"energy_emotional"`
	EnergyWord       string `json:"energyWord" db:"energy_word"`
	MeaningfulWin    string `json:"meaningfulWin" db:"meaningful_win"`
	FrictionPoint    string `json:"frictionPoint" db:"friction_point"`
	LetGo            string `json:"letGo" db:"let_go"`
	TomorrowPriority string `json:"tomorrowPriority" db:"tomorrow_priority"`
	Notes            string `json:"notes" db:"notes"`
}

func (d DailyEntry) Key() string { return d.Date }

// Energy is the mean of the three energy axes.
func (d DailyEntry) Energy() float64 {
	return float64(d.EnergyPhysical+d.EnergyMental+d.EnergyEmotional) / 3
}

type WeeklyEntry struct {
	Meta
	Week             string   `json:"week" db:"week"`
	StartDate        string   `json:"startDate" db:"start_date"`
	EndDate          string   `json:"endDate" db:"end_date"`
	MovedNeedle      []string `json:"movedNeedle" db:"moved_needle" list:"3"`
	WasNoise         []string `json:"wasNoise" db:"was_noise" list:"2"`
	TimeLeaked       string   `json:"timeLeaked" db:"time_leaked"`
	AverageEnergy    float64  `json:"averageEnergy" db:"average_energy"`
	BestDay          string   `json:"bestDay" db:"best_day"`
	BestDayWhy       string   `json:"bestDayWhy" db:"best_day_why"`
	WorstDay         string   `json:"worstDay" db:"worst_day"`
	WorstDayWhy      string   `json:"worstDayWhy" db:"worst_day_why"`
	WhoEnergized     string   `json:"whoEnergized" db:"who_energized"`
	WhoDrained       string   `json:"whoDrained" db:"who_drained"`
	ShouldConnect    string   `json:"shouldConnect" db:"should_connect"`
	StrategicInsight string   `json:"strategicInsight" db:"strategic_insight"`
	Adjustment       string   `json:"adjustment" db:"adjustment"`
	NextPriorities   []string `json:"nextPriorities" db:"next_priorities" list:"3"`
	Gratitude        string   `json:"gratitude" db:"gratitude"`
	Wins             []string `json:"wins" db:"wins"`
}

func (w WeeklyEntry) Key() string { return w.Week }

type GoalProgress struct {
	Goal     string     `json:"goal"`
	Status   GoalStatus `json:"status"`
	Progress int        `json:"progress"`
	Notes    string     `json:"notes"`
}

type GoalProgressList []GoalProgress

func (l GoalProgressList) Normalize() {
	for i := range l {
		if !l[i].Status.Valid() {
			l[i].Status = GoalOnTrack
		}
	}
}

type QuarterlyEntry struct {
	Meta
	Quarter                string           `json:"quarter" db:"quarter"`
	StartDate              string           `json:"startDate" db:"start_date"`
	EndDate                string           `json:"endDate" db:"end_date"`
	GoalProgress           GoalProgressList `json:"goalProgress" db:"goal_progress,json"`
	LifeMapScores          LifeMapScores    `json:"lifeMapScores" db:"life_map_scores,json"`
	AverageEnergy          float64          `json:"averageEnergy" db:"average_energy"`
	BestMonth              string           `json:"bestMonth" db:"best_month"`
	BestMonthWhy           string           `json:"bestMonthWhy" db:"best_month_why"`
	WorstMonth             string           `json:"worstMonth" db:"worst_month"`
	WorstMonthWhy          string           `json:"worstMonthWhy" db:"worst_month_why"`
	Energizers             []string         `json:"energizers" db:"energizers" list:"2"`
	Drainers               []string         `json:"drainers" db:"drainers" list:"2"`
	SustainablePace        string           `json:"sustainablePace" db:"sustainable_pace"`
	WorkingOnWhatMatters   string           `json:"workingOnWhatMatters" db:"working_on_what_matters"`
	TimeGap                string           `json:"timeGap" db:"time_gap"`
	SaidYesShouldntHave    string           `json:"saidYesShouldntHave" db:"said_yes_shouldnt_have"`
	MissedOpportunity      string           `json:"missedOpportunity" db:"missed_opportunity"`
	KeyWins                []string         `json:"keyWins" db:"key_wins" list:"3"`
	UnexpectedWin          string           `json:"unexpectedWin" db:"unexpected_win"`
	KeyChallenges          []string         `json:"keyChallenges" db:"key_challenges" list:"3"`
	PersistentProblem      string           `json:"persistentProblem" db:"persistent_problem"`
	AvoidingDecision       string           `json:"avoidingDecision" db:"avoiding_decision"`
	LessonLearned          string           `json:"lessonLearned" db:"lesson_learned"`
	NewKnowledge           string           `json:"newKnowledge" db:"new_knowledge"`
	ClearerPattern         string           `json:"clearerPattern" db:"clearer_pattern"`
	StartDoing             []string         `json:"startDoing" db:"start_doing" list:"2"`
	StopDoing              []string         `json:"stopDoing" db:"stop_doing" list:"2"`
	ContinueDoing          []string         `json:"continueDoing" db:"continue_doing" list:"2"`
	NextQuarterTheme       string           `json:"nextQuarterTheme" db:"next_quarter_theme"`
	NextPriorities         []string         `json:"nextPriorities" db:"next_priorities" list:"3"`
	WhatWillBeTrue         string           `json:"whatWillBeTrue" db:"what_will_be_true"`
	OneThingEasier         string           `json:"oneThingEasier" db:"one_thing_easier"`
	DirectionStillAccurate string           `json:"directionStillAccurate" db:"direction_still_accurate"`
	NeedsToChange          string           `json:"needsToChange" db:"needs_to_change"`
	MemoryInsights         []string         `json:"memoryInsights" db:"memory_insights"`
}

func (q QuarterlyEntry) Key() string { return q.Quarter }

// SeedGoals fills an empty goal progress list from the non-empty critical goals.
func (q *QuarterlyEntry) SeedGoals(critical []string) {
	if len(q.GoalProgress) > 0 {
		return
	}
	for _, g := range critical {
		if g == "" {
			continue
		}
		q.GoalProgress = append(q.GoalProgress, GoalProgress{
			Goal:     g,
			Status:   GoalOnTrack,
			Progress: 25,
		})
	}
}

type Quote struct {
	Quote  string `json:"quote"`
	Source string `json:"source"`
	Date   string `json:"date"`
}

type AnnualEntry struct {
	Meta
	Year                   int              `json:"year" db:"year"`
	StartDate              string           `json:"startDate" db:"start_date"`
	EndDate                string           `json:"endDate" db:"end_date"`
	OneSentenceSummary     string           `json:"oneSentenceSummary" db:"one_sentence_summary"`
	YearTheme              string           `json:"yearTheme" db:"year_theme"`
	GoalsAchieved          GoalProgressList `json:"goalsAchieved" db:"goals_achieved,json"`
	LifeMapScores          LifeMapScores    `json:"lifeMapScores" db:"life_map_scores,json"`
	TopWins                []string         `json:"topWins" db:"top_wins" list:"3"`
	ProudestMoment         string           `json:"proudestMoment" db:"proudest_moment"`
	BiggestSurprise        string           `json:"biggestSurprise" db:"biggest_surprise"`
	BiggestChallenges      []string         `json:"biggestChallenges" db:"biggest_challenges" list:"3"`
	WhatDidntWork          string           `json:"whatDidntWork" db:"what_didnt_work"`
	WhatWouldDoDifferently string           `json:"whatWouldDoDifferently" db:"what_would_do_differently"`
	SkillsGained           []string         `json:"skillsGained" db:"skills_gained"`
	LessonsLearned         []string         `json:"lessonsLearned" db:"lessons_learned"`
	MostImportantLesson    string           `json:"mostImportantLesson" db:"most_important_lesson"`
	KeyRelationships       string           `json:"keyRelationships" db:"key_relationships"`
	RelationshipChanges    string           `json:"relationshipChanges" db:"relationship_changes"`
	AverageEnergy          float64          `json:"averageEnergy" db:"average_energy"`
	HealthSummary          string           `json:"healthSummary" db:"health_summary"`
	NextYearIntention      string           `json:"nextYearIntention" db:"next_year_intention"`
	NextYearWord           string           `json:"nextYearWord" db:"next_year_word"`
	Gratitude              string           `json:"gratitude" db:"gratitude"`
	QuotesToRemember       []Quote          `json:"quotesToRemember" db:"quotes_to_remember,json"`
}

func (a AnnualEntry) Key() string { return strconv.Itoa(a.Year) }

type LifeMapScores struct {
	Career             int    `json:"career" db:"career_score"`
	CareerTrend        Trend  `json:"careerTrend" db:"career_trend"`
	CareerNote         string `json:"careerNote" db:"career_note"`
	Relationships      int    `json:"relationships" db:"relationships_score"`
	RelationshipsTrend Trend  `json:"relationshipsTrend" db:"relationships_trend"`
	RelationshipsNote  string `json:"relationshipsNote" db:"relationships_note"`
	Health             int    `json:"health" db:"health_score"`
	HealthTrend        Trend  `json:"healthTrend" db:"health_trend"`
	HealthNote         string `json:"healthNote" db:"health_note"`
	Finances           int    `json:"finances" db:"finances_score"`
	FinancesTrend      Trend  `json:"financesTrend" db:"finances_trend"`
	FinancesNote       string `json:"financesNote" db:"finances_note"`
	Meaning            int    `json:"meaning" db:"meaning_score"`
	MeaningTrend       Trend  `json:"meaningTrend" db:"meaning_trend"`
	MeaningNote        string `json:"meaningNote" db:"meaning_note"`
	Fun                int    `json:"fun" db:"fun_score"`
	FunTrend           Trend  `json:"funTrend" db:"fun_trend"`
	FunNote            string `json:"funNote" db:"fun_note"`
}

var ErrUnknownArea = errors.New("unknown life area")

func (s *LifeMapScores) area(a Area) (*int, *Trend, *string, error) {
	switch a {
	case AreaCareer:
		return &s.Career, &s.CareerTrend, &s.CareerNote, nil
	case AreaRelationships:
		return &s.Relationships, &s.RelationshipsTrend, &s.RelationshipsNote, nil
	case AreaHealth:
		return &s.Health, &s.HealthTrend, &s.HealthNote, nil
	case AreaFinances:
		return &s.Finances, &s.FinancesTrend, &s.FinancesNote, nil
	case AreaMeaning:
		return &s.Meaning, &s.MeaningTrend, &s.MeaningNote, nil
	case AreaFun:
		return &s.Fun, &s.FunTrend, &s.FunNote, nil
	}
	return nil, nil, nil, ErrUnknownArea
}

// Score returns score, trend and note of one area.
func (s LifeMapScores) Score(a Area) (int, Trend, string, error) {
	score, trend, note, err := s.area(a)
	if err != nil {
		return 0, "", "", err
	}
	return *score, *trend, *note, nil
}

// SetScore overwrites one area. An empty trend keeps the current one.
func (s *LifeMapScores) SetScore(a Area, score int, trend Trend, note string) error {
	sp, tp, np, err := s.area(a)
	if err != nil {
		return err
	}
	*sp = score
	if trend != "" {
		*tp = trend
	}
	*np = note
	return nil
}

func (s *LifeMapScores) Normalize() {
	for _, a := range Areas() {
		_, tp, _, _ := s.area(a)
		if !tp.Valid() {
			*tp = TrendStable
		}
	}
}

type LifeMapSnapshot struct {
	Meta
	SnapshotDate string `json:"snapshotDate" db:"snapshot_date"`
	LifeMapScores
}

func (l LifeMapSnapshot) Key() string { return l.SnapshotDate }

type GoalArea struct {
	PrimaryGoal     string `json:"primaryGoal"`
	WhyMatters      string `json:"whyMatters"`
	Q1Milestone     string `json:"q1Milestone"`
	Q2Milestone     string `json:"q2Milestone"`
	Q3Milestone     string `json:"q3Milestone"`
	Q4Milestone     string `json:"q4Milestone"`
	SuccessCriteria string `json:"successCriteria"`
	Commitment      int    `json:"commitment"`
}

type HabitToBuild struct {
	Habit      string         `json:"habit"`
	Frequency  HabitFrequency `json:"frequency"`
	WhyMatters string         `json:"whyMatters"`
}

type HabitsToBuild []HabitToBuild

func (l HabitsToBuild) Normalize() {
	for i := range l {
		if !l[i].Frequency.Valid() {
			l[i].Frequency = FrequencyDaily
		}
	}
}

type HabitToBreak struct {
	Habit       string `json:"habit"`
	Replacement string `json:"replacement"`
	Strategy    string `json:"strategy"`
}

type YearGoals struct {
	Meta
	Year          int            `json:"year" db:"period_start"`
	Theme         string         `json:"theme" db:"theme"`
	IfGoesWell    string         `json:"ifGoesWell" db:"if_goes_well"`
	Career        GoalArea       `json:"career" db:"career,json"`
	Relationships GoalArea       `json:"relationships" db:"relationships,json"`
	Health        GoalArea       `json:"health" db:"health,json"`
	Finances      GoalArea       `json:"finances" db:"finances,json"`
	Meaning       GoalArea       `json:"meaning" db:"meaning,json"`
	Fun           GoalArea       `json:"fun" db:"fun,json"`
	CriticalThree []string       `json:"criticalThree" db:"critical_three" list:"3"`
	AntiGoals     []string       `json:"antiGoals" db:"anti_goals"`
	HabitsToBuild HabitsToBuild  `json:"habitsToBuild" db:"habits_to_build,json"`
	HabitsToBreak []HabitToBreak `json:"habitsToBreak" db:"habits_to_break,json"`
}

type VisionGoals struct {
	Meta
	PeriodStart    int      `json:"periodStart" db:"period_start"`
	PeriodEnd      int      `json:"periodEnd" db:"period_end"`
	Snapshot       string   `json:"snapshot" db:"snapshot"`
	WhereLive      string   `json:"whereLive" db:"where_live"`
	WhatDo         string   `json:"whatDo" db:"what_do"`
	KeyPeople      string   `json:"keyPeople" db:"key_people"`
	TypicalWeek    string   `json:"typicalWeek" db:"typical_week"`
	WhatsDifferent string   `json:"whatsDifferent" db:"whats_different"`
	Career         string   `json:"career" db:"career,json"`
	Relationships  string   `json:"relationships" db:"relationships,json"`
	Health         string   `json:"health" db:"health,json"`
	Finances       string   `json:"finances" db:"finances,json"`
	Meaning        string   `json:"meaning" db:"meaning,json"`
	Fun            string   `json:"fun" db:"fun,json"`
	BigBets        []string `json:"bigBets" db:"big_bets"`
	NeedsToEnd     []string `json:"needsToEnd" db:"needs_to_end"`
	NeedsToBegin   []string `json:"needsToBegin" db:"needs_to_begin"`
}

type AreaRanking struct {
	Area Area   `json:"area"`
	Rank int    `json:"rank"`
	Why  string `json:"why"`
}

type AreaRankings []AreaRanking

// Normalize drops rankings for unknown areas.
func (l *AreaRankings) Normalize() {
	kept := (*l)[:0]
	for _, r := range *l {
		if r.Area.Valid() {
			kept = append(kept, r)
		}
	}
	*l = kept
}

type NorthStar struct {
	Meta
	OneSentence        string       `json:"oneSentence" db:"one_sentence"`
	StageOfLife        string       `json:"stageOfLife" db:"stage_of_life"`
	PrimaryRole        string       `json:"primaryRole" db:"primary_role"`
	Company            string       `json:"company" db:"company"`
	YearsInChapter     int          `json:"yearsInChapter" db:"years_in_chapter"`
	WhatDefinesChapter string       `json:"whatDefinesChapter" db:"what_defines_chapter"`
	AreaRankings       AreaRankings `json:"areaRankings" db:"area_rankings,json"`
	NonNegotiables     []string     `json:"nonNegotiables" db:"non_negotiables"`
	SayingNoTo         []string     `json:"sayingNoTo" db:"saying_no_to"`
	CentralQuestion    string       `json:"centralQuestion" db:"central_question"`
	Notes              string       `json:"notes" db:"notes"`
}

type GoalArchaeologyItem struct {
	Goal          string            `json:"goal"`
	FirstAppeared string            `json:"firstAppeared"`
	TimesRepeated int               `json:"timesRepeated"`
	Status        ArchaeologyStatus `json:"status"`
	Notes         string            `json:"notes"`
}

type GoalArchaeology []GoalArchaeologyItem

func (l GoalArchaeology) Normalize() {
	for i := range l {
		if !l[i].Status.Valid() {
			l[i].Status = ArchaeologyInProgress
		}
	}
}

type YearInsight struct {
	Year     int      `json:"year"`
	Insights []string `json:"insights"`
}

type Memory struct {
	Meta
	ExecutiveSummary     string          `json:"executiveSummary" db:"executive_summary"`
	Strengths            []string        `json:"strengths" db:"strengths"`
	GrowthEdges          []string        `json:"growthEdges" db:"growth_edges"`
	EnergizedBy          []string        `json:"energizedBy" db:"energized_by"`
	DrainedBy            []string        `json:"drainedBy" db:"drained_by"`
	OptimalConditions    string          `json:"optimalConditions" db:"optimal_conditions"`
	OverIndexes          string          `json:"overIndexes" db:"over_indexes"`
	UnderWeights         string          `json:"underWeights" db:"under_weights"`
	BlindSpots           []string        `json:"blindSpots" db:"blind_spots"`
	GoalArchaeology      GoalArchaeology `json:"goalArchaeology" db:"goal_archaeology,json"`
	InsightsByYear       []YearInsight   `json:"insightsByYear" db:"insights_by_year,json"`
	LessonsWork          []string        `json:"lessonsWork" db:"lessons_work"`
	LessonsRelationships []string        `json:"lessonsRelationships" db:"lessons_relationships"`
	LessonsSelf          []string        `json:"lessonsSelf" db:"lessons_self"`
	LessonsLife          []string        `json:"lessonsLife" db:"lessons_life"`
	QuotesFromPastSelf   []Quote         `json:"quotesFromPastSelf" db:"quotes_from_past_self,json"`
	WarningsToFutureSelf []string        `json:"warningsToFutureSelf" db:"warnings_to_future_self"`
	RawNotes             string          `json:"rawNotes" db:"raw_notes"`
}

type InterviewResponse struct {
	Meta
	Category    InterviewCategory `json:"interviewType" db:"interview_type"`
	Responses   map[string]string `json:"responses" db:"responses,json"`
	CompletedAt time.Time         `json:"completedAt" db:"completed_at"`
}

func (r InterviewResponse) Key() string { return string(r.Category) }

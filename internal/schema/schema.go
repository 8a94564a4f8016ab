// Package schema describes the per-user row tables shared by the row store
// server and its clients.
package schema

import (
	"fmt"

	errorvalues "github.com/limbo/ceoos/internal/error_values"
)

// Row is a flattened persisted record keyed by column name.
type Row map[string]any

type Kind int

const (
	Text Kind = iota
	Integer
	Real
	TextArray
	JSON
	Date
	Timestamp
	UUID
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Real:
		return "double precision"
	case TextArray:
		return "text[]"
	case JSON:
		return "jsonb"
	case Date:
		return "date"
	case Timestamp:
		return "timestamptz"
	case UUID:
		return "uuid"
	}
	return "unknown"
}

type Table struct {
	Name    string
	Columns map[string]Kind
	// Columns allowed in ORDER BY (always descending)
	Order []string
	// Columns allowed as equality filters in single-row selects
	Filters []string
}

func (t *Table) Column(name string) (Kind, error) {
	k, ok := t.Columns[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", errorvalues.ErrUnknownColumn, t.Name, name)
	}
	return k, nil
}

func (t *Table) CanOrderBy(column string) bool {
	for _, c := range t.Order {
		if c == column {
			return true
		}
	}
	return false
}

func (t *Table) CanFilterBy(column string) bool {
	for _, c := range t.Filters {
		if c == column {
			return true
		}
	}
	return false
}

const (
	DailyCheckIns      = "daily_check_ins"
	WeeklyReviews      = "weekly_reviews"
	QuarterlyReviews   = "quarterly_reviews"
	AnnualReviews      = "annual_reviews"
	Goals              = "goals"
	NorthStar          = "north_star"
	Memory             = "memory"
	LifeMap            = "life_map"
	InterviewResponses = "interview_responses"
)

// Columns every row table carries.
const (
	ColID        = "id"
	ColUserID    = "user_id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
	ColGoalType  = "goal_type"
)

func withBase(cols map[string]Kind) map[string]Kind {
	cols[ColID] = UUID
	cols[ColUserID] = UUID
	cols[ColCreatedAt] = Timestamp
	cols[ColUpdatedAt] = Timestamp
	return cols
}

var tables = map[string]*Table{
	DailyCheckIns: {
		Name: DailyCheckIns,
		Columns: withBase(map[string]Kind{
			"date":              Date,
			"energy_physical":   Integer,
			"energy_mental":     Integer,
			"energy_emotional":  Integer,
			"energy_word":       Text,
			"meaningful_win":    Text,
			"friction_point":    Text,
			"let_go":            Text,
			"tomorrow_priority": Text,
			"notes":             Text,
		}),
		Order:   []string{"date", ColCreatedAt},
		Filters: []string{"date"},
	},
	WeeklyReviews: {
		Name: WeeklyReviews,
		Columns: withBase(map[string]Kind{
			"week":              Text,
			"start_date":        Date,
			"end_date":          Date,
			"moved_needle":      TextArray,
			"was_noise":         TextArray,
			"time_leaked":       Text,
			"average_energy":    Real,
			"best_day":          Text,
			"best_day_why":      Text,
			"worst_day":         Text,
			"worst_day_why":     Text,
			"who_energized":     Text,
			"who_drained":       Text,
			"should_connect":    Text,
			"strategic_insight": Text,
			"adjustment":        Text,
			"next_priorities":   TextArray,
			"gratitude":         Text,
			"wins":              TextArray,
		}),
		Order:   []string{"week", ColCreatedAt},
		Filters: []string{"week"},
	},
	QuarterlyReviews: {
		Name: QuarterlyReviews,
		Columns: withBase(map[string]Kind{
			"quarter":                  Text,
			"start_date":               Date,
			"end_date":                 Date,
			"goal_progress":            JSON,
			"life_map_scores":          JSON,
			"average_energy":           Real,
			"best_month":               Text,
			"best_month_why":           Text,
			"worst_month":              Text,
			"worst_month_why":          Text,
			"energizers":               TextArray,
			"drainers":                 TextArray,
			"sustainable_pace":         Text,
			"working_on_what_matters":  Text,
			"time_gap":                 Text,
			"said_yes_shouldnt_have":   Text,
			"missed_opportunity":       Text,
			"key_wins":                 TextArray,
			"unexpected_win":           Text,
			"key_challenges":           TextArray,
			"persistent_problem":       Text,
			"avoiding_decision":        Text,
			"lesson_learned":           Text,
			"new_knowledge":            Text,
			"clearer_pattern":          Text,
			"start_doing":              TextArray,
			"stop_doing":               TextArray,
			"continue_doing":           TextArray,
			"next_quarter_theme":       Text,
			"next_priorities":          TextArray,
			"what_will_be_true":        Text,
			"one_thing_easier":         Text,
			"direction_still_accurate": Text,
			"needs_to_change":          Text,
			"memory_insights":          TextArray,
		}),
		Order:   []string{"quarter", ColCreatedAt},
		Filters: []string{"quarter"},
	},
	AnnualReviews: {
		Name: AnnualReviews,
		Columns: withBase(map[string]Kind{
			"year":                      Integer,
			"start_date":                Date,
			"end_date":                  Date,
			"one_sentence_summary":      Text,
			"year_theme":                Text,
			"goals_achieved":            JSON,
			"life_map_scores":           JSON,
			"top_wins":                  TextArray,
			"proudest_moment":           Text,
			"biggest_surprise":          Text,
			"biggest_challenges":        TextArray,
			"what_didnt_work":           Text,
			"what_would_do_differently": Text,
			"skills_gained":             TextArray,
			"lessons_learned":           TextArray,
			"most_important_lesson":     Text,
			"key_relationships":         Text,
			"relationship_changes":      Text,
			"average_energy":            Real,
			"health_summary":            Text,
			"next_year_intention":       Text,
			"next_year_word":            Text,
			"gratitude":                 Text,
			"quotes_to_remember":        JSON,
		}),
		Order:   []string{"year", ColCreatedAt},
		Filters: []string{"year"},
	},
	Goals: {
		Name: Goals,
		Columns: withBase(map[string]Kind{
			ColGoalType:       Text,
			"period_start":    Integer,
			"period_end":      Integer,
			"theme":           Text,
			"if_goes_well":    Text,
			"career":          JSON,
			"relationships":   JSON,
			"health":          JSON,
			"finances":        JSON,
			"meaning":         JSON,
			"fun":             JSON,
			"critical_three":  TextArray,
			"anti_goals":      TextArray,
			"habits_to_build": JSON,
			"habits_to_break": JSON,
			"snapshot":        Text,
			"where_live":      Text,
			"what_do":         Text,
			"key_people":      Text,
			"typical_week":    Text,
			"whats_different": Text,
			"big_bets":        TextArray,
			"needs_to_end":    TextArray,
			"needs_to_begin":  TextArray,
		}),
		Order:   []string{"period_start", ColCreatedAt},
		Filters: []string{ColGoalType},
	},
	NorthStar: {
		Name: NorthStar,
		Columns: withBase(map[string]Kind{
			"one_sentence":         Text,
			"stage_of_life":        Text,
			"primary_role":         Text,
			"company":              Text,
			"years_in_chapter":     Integer,
			"what_defines_chapter": Text,
			"area_rankings":        JSON,
			"non_negotiables":      TextArray,
			"saying_no_to":         TextArray,
			"central_question":     Text,
			"notes":                Text,
		}),
		Order: []string{ColCreatedAt},
	},
	Memory: {
		Name: Memory,
		Columns: withBase(map[string]Kind{
			"executive_summary":       Text,
			"strengths":               TextArray,
			"growth_edges":            TextArray,
			"energized_by":            TextArray,
			"drained_by":              TextArray,
			"optimal_conditions":      Text,
			"over_indexes":            Text,
			"under_weights":           Text,
			"blind_spots":             TextArray,
			"goal_archaeology":        JSON,
			"insights_by_year":        JSON,
			"lessons_work":            TextArray,
			"lessons_relationships":   TextArray,
			"lessons_self":            TextArray,
			"lessons_life":            TextArray,
			"quotes_from_past_self":   JSON,
			"warnings_to_future_self": TextArray,
			"raw_notes":               Text,
		}),
		Order: []string{ColCreatedAt},
	},
	LifeMap: {
		Name: LifeMap,
		Columns: withBase(map[string]Kind{
			"snapshot_date":       Date,
			"career_score":        Integer,
			"career_trend":        Text,
			"career_note":         Text,
			"relationships_score": Integer,
			"relationships_trend": Text,
			"relationships_note":  Text,
			"health_score":        Integer,
			"health_trend":        Text,
			"health_note":         Text,
			"finances_score":      Integer,
			"finances_trend":      Text,
			"finances_note":       Text,
			"meaning_score":       Integer,
			"meaning_trend":       Text,
			"meaning_note":        Text,
			"fun_score":           Integer,
			"fun_trend":           Text,
			"fun_note":            Text,
		}),
		Order:   []string{"snapshot_date", ColCreatedAt},
		Filters: []string{"snapshot_date"},
	},
	InterviewResponses: {
		Name: InterviewResponses,
		Columns: withBase(map[string]Kind{
			"interview_type": Text,
			"responses":      JSON,
			"completed_at":   Timestamp,
		}),
		Order:   []string{ColCreatedAt, "completed_at"},
		Filters: []string{"interview_type"},
	},
}

func Lookup(name string) (*Table, error) {
	t, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errorvalues.ErrUnknownTable, name)
	}
	return t, nil
}

// Names returns every known table name.
func Names() []string {
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	return names
}

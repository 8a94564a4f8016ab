package stats

import (
	"testing"
	"time"

	"github.com/limbo/ceoos/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func days(dates ...string) []entity.DailyEntry {
	out := make([]entity.DailyEntry, 0, len(dates))
	for _, d := range dates {
		out = append(out, entity.NewDailyEntry(d))
	}
	return out
}

func withEnergy(p, m, e int) entity.DailyEntry {
	d := entity.NewDailyEntry("2025-01-01")
	d.EnergyPhysical, d.EnergyMental, d.EnergyEmotional = p, m, e
	return d
}

func TestStreak(t *testing.T) {
	today := time.Date(2025, time.March, 10, 21, 30, 0, 0, time.UTC)
	tests := []struct {
		name    string
		entries []entity.DailyEntry
		want    int
	}{
		{"empty", nil, 0},
		{"today only", days("2025-03-10"), 1},
		{"today missing does not break", days("2025-03-09", "2025-03-08"), 2},
		{"gap stops", days("2025-03-10", "2025-03-09", "2025-03-07"), 2},
		{"yesterday missing", days("2025-03-10", "2025-03-08"), 1},
		{"stale entries", days("2025-03-01", "2025-02-28", "2025-02-27"), 0},
		{"unordered input", days("2025-03-08", "2025-03-10", "2025-03-09"), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.entries, today))
		})
	}
}

func TestStreakWindow(t *testing.T) {
	today := time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC)
	var entries []entity.DailyEntry
	for i := 0; i < 400; i++ {
		entries = append(entries, entity.NewDailyEntry(entity.DateKey(today.AddDate(0, 0, -i))))
	}
	assert.Equal(t, 365, Streak(entries, today))
}

func TestAverageEnergy(t *testing.T) {
	tests := []struct {
		name    string
		entries []entity.DailyEntry
		n       int
		want    float64
	}{
		{"empty", nil, 7, 0},
		{"zero window", []entity.DailyEntry{withEnergy(8, 8, 8)}, 0, 0},
		{"single", []entity.DailyEntry{withEnergy(7, 8, 9)}, 7, 8},
		{"rounded", []entity.DailyEntry{withEnergy(7, 7, 8), withEnergy(5, 5, 5)}, 7, 6.2},
		{"mean of means", []entity.DailyEntry{withEnergy(6, 6, 6), withEnergy(2, 4, 6)}, 7, 5},
		{"only first n", []entity.DailyEntry{withEnergy(10, 10, 10), withEnergy(1, 1, 1)}, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AverageEnergy(tt.entries, tt.n))
		})
	}
}

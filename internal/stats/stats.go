// Package stats derives summary figures from daily check-ins.
package stats

import (
	"math"
	"time"

	"github.com/limbo/ceoos/pkg/entity"
)

const streakWindow = 365

// Streak counts consecutive days with a check-in, going back from today.
// A missing check-in for today itself does not break the streak.
func Streak(entries []entity.DailyEntry, today time.Time) int {
	dates := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		dates[e.Date] = struct{}{}
	}
	streak := 0
	for offset := 0; offset < streakWindow; offset++ {
		day := entity.DateKey(today.AddDate(0, 0, -offset))
		if _, ok := dates[day]; ok {
			streak++
		} else if offset > 0 {
			break
		}
	}
	return streak
}

// AverageEnergy is the mean energy of the first n entries, rounded to one
// decimal. Entries are expected newest first.
func AverageEnergy(entries []entity.DailyEntry, n int) float64 {
	if n < len(entries) {
		entries = entries[:max(n, 0)]
	}
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += e.Energy()
	}
	return math.Round(sum/float64(len(entries))*10) / 10
}

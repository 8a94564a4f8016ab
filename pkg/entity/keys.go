package entity

import (
	"fmt"
	"strconv"
	"time"
)

func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// WeekKey returns the ISO-8601 week key, e.g. 2025-W03.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func QuarterKey(t time.Time) string {
	return fmt.Sprintf("%d-Q%d", t.Year(), quarterOf(t))
}

func YearKey(year int) string {
	return strconv.Itoa(year)
}

func quarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// WeekBounds returns monday and sunday of the ISO week containing t.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// QuarterBounds returns the first and last day of the quarter containing t.
func QuarterBounds(t time.Time) (time.Time, time.Time) {
	firstMonth := time.Month((quarterOf(t)-1)*3 + 1)
	start := time.Date(t.Year(), firstMonth, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 3, -1)
}

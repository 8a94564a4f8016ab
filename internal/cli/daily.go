package cli

import (
	"fmt"

	"github.com/limbo/ceoos/pkg/entity"
)

type DailyCmd struct {
	Show DailyShowCmd `cmd:"" help:"Show the check-in of a day." default:"1"`
	Log  DailyLogCmd  `cmd:"" help:"Create or edit the check-in of a day."`
	List DailyListCmd `cmd:"" help:"List recent check-ins."`
}

type DailyShowCmd struct {
	Date string `arg:"" optional:"" help:"Day as YYYY-MM-DD, defaults to today."`
}

func (d *DailyShowCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	if d.Date == "" {
		return c.printJSON(c.Journal.Daily.Today())
	}
	day, err := c.parseDay(d.Date)
	if err != nil {
		return err
	}
	entry, ok := c.Journal.Daily.ByDate(entity.DateKey(day))
	if !ok {
		return fmt.Errorf("no check-in for %s", d.Date)
	}
	return c.printJSON(entry)
}

// DailyLogCmd merges the given fields into the check-in of a day. Zero
// values leave a field untouched.
type DailyLogCmd struct {
	Date      string `help:"Day as YYYY-MM-DD, defaults to today."`
	Physical  int    `short:"p" help:"Physical energy, 1-10."`
	Mental    int    `short:"m" help:"Mental energy, 1-10."`
	Emotional int    `short:"e" help:"Emotional energy, 1-10."`
	Word      string `help:"One word for today's energy."`
	Win       string `help:"Most meaningful win."`
	Friction  string `help:"Biggest friction point."`
	LetGo     string `help:"What to let go of."`
	Tomorrow  string `help:"Tomorrow's priority."`
	Notes     string `help:"Free notes."`
}

func (d *DailyLogCmd) Run(c *Context) error {
	for name, v := range map[string]int{"physical": d.Physical, "mental": d.Mental, "emotional": d.Emotional} {
		if err := rangeCheck(name, v); err != nil {
			return err
		}
	}
	day, err := c.parseDay(d.Date)
	if err != nil {
		return err
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}

	key := entity.DateKey(day)
	entry, ok := c.Journal.Daily.ByDate(key)
	if !ok {
		entry = entity.NewDailyEntry(key)
	}
	d.apply(&entry)
	saved, err := c.Journal.Daily.Save(ctx, entry)
	if err != nil {
		return err
	}
	c.printf("Saved check-in for %s (energy %.1f)\n", saved.Date, saved.Energy())
	return nil
}

func (d *DailyLogCmd) apply(e *entity.DailyEntry) {
	setInt := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt(&e.EnergyPhysical, d.Physical)
	setInt(&e.EnergyMental, d.Mental)
	setInt(&e.EnergyEmotional, d.Emotional)
	setString(&e.EnergyWord, d.Word)
	setString(&e.MeaningfulWin, d.Win)
	setString(&e.FrictionPoint, d.Friction)
	setString(&e.LetGo, d.LetGo)
	setString(&e.TomorrowPriority, d.Tomorrow)
	setString(&e.Notes, d.Notes)
}

type DailyListCmd struct {
	Limit int `short:"n" default:"7" help:"Number of check-ins to list."`
}

func (d *DailyListCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	entries := c.Journal.Daily.Recent(d.Limit)
	if len(entries) == 0 {
		c.printf("No check-ins yet\n")
		return nil
	}
	for _, e := range entries {
		c.printf("%s  %4.1f  %s\n", e.Date, e.Energy(), e.EnergyWord)
	}
	return nil
}

type StatsCmd struct {
	Days int `default:"7" help:"Check-ins averaged for energy."`
}

func (s *StatsCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	c.printf("Streak: %d days\n", c.Journal.Daily.Streak(c.today()))
	c.printf("Average energy (last %d): %.1f\n", s.Days, c.Journal.Daily.AverageEnergy(s.Days))
	return nil
}

func rangeCheck(name string, v int) error {
	if v != 0 && (v < 1 || v > 10) {
		return fmt.Errorf("%s must be between 1 and 10, got %d", name, v)
	}
	return nil
}

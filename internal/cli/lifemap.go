package cli

import (
	"fmt"

	"github.com/limbo/ceoos/pkg/entity"
)

type LifeMapCmd struct {
	Show    LifeMapShowCmd    `cmd:"" help:"Show the current life map." default:"1"`
	Set     LifeMapSetCmd     `cmd:"" help:"Score one life area."`
	History LifeMapHistoryCmd `cmd:"" help:"List life map snapshots."`
}

type LifeMapShowCmd struct{}

func (l *LifeMapShowCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	cur := c.Journal.LifeMap.Current()
	for _, a := range entity.Areas() {
		score, trend, note, _ := cur.Score(a)
		c.printf("%-14s %2d  %-6s %s\n", a, score, trend, note)
	}
	return nil
}

// LifeMapSetCmd edits today's snapshot, or starts one from the current
// scores when today has none yet.
type LifeMapSetCmd struct {
	Area  entity.Area  `arg:"" enum:"career,relationships,health,finances,meaning,fun" help:"Life area."`
	Score int          `arg:"" help:"Score, 1-10."`
	Trend entity.Trend `help:"Trend (up, down or stable), kept when empty."`
	Note  string       `help:"Note, kept when empty."`
	New   bool         `help:"Always start a new snapshot for today."`
}

func (l *LifeMapSetCmd) Run(c *Context) error {
	if l.Score < 1 || l.Score > 10 {
		return fmt.Errorf("score must be between 1 and 10, got %d", l.Score)
	}
	if l.Trend != "" && !l.Trend.Valid() {
		return fmt.Errorf("unknown trend %q", l.Trend)
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}

	var setErr error
	mutate := func(s *entity.LifeMapScores) {
		note := l.Note
		if note == "" {
			_, _, note, _ = s.Score(l.Area)
		}
		setErr = s.SetScore(l.Area, l.Score, l.Trend, note)
	}
	update := c.Journal.LifeMap.Update
	if l.New {
		update = c.Journal.LifeMap.Snapshot
	}
	snap, err := update(ctx, mutate)
	if setErr != nil {
		return setErr
	}
	if err != nil {
		return err
	}
	c.printf("Life map %s: %s = %d\n", snap.SnapshotDate, l.Area, l.Score)
	return nil
}

type LifeMapHistoryCmd struct{}

func (l *LifeMapHistoryCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	history := c.Journal.LifeMap.History()
	if len(history) == 0 {
		c.printf("No snapshots yet\n")
		return nil
	}
	for _, s := range history {
		c.printf("%s  career %d  relationships %d  health %d  finances %d  meaning %d  fun %d\n",
			s.SnapshotDate, s.Career, s.Relationships, s.Health, s.Finances, s.Meaning, s.Fun)
	}
	return nil
}

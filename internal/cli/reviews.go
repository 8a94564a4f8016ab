package cli

import (
	"fmt"
)

type WeeklyCmd struct {
	Show WeeklyShowCmd `cmd:"" help:"Show the review of a week, or a fresh draft." default:"1"`
	Save WeeklySaveCmd `cmd:"" help:"Save a weekly review from a JSON file."`
}

type WeeklyShowCmd struct {
	At string `help:"Any day of the week as YYYY-MM-DD, defaults to today."`
}

func (w *WeeklyShowCmd) Run(c *Context) error {
	day, err := c.parseDay(w.At)
	if err != nil {
		return err
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	return c.printJSON(c.Journal.Weekly.Draft(day))
}

// WeeklySaveCmd overlays the file onto the week's draft, so fields the file
// leaves out keep their stored or default values.
type WeeklySaveCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON weekly review."`
	At   string `help:"Any day of the week as YYYY-MM-DD, defaults to today."`
}

func (w *WeeklySaveCmd) Run(c *Context) error {
	day, err := c.parseDay(w.At)
	if err != nil {
		return err
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	entry := c.Journal.Weekly.Draft(day)
	if err := decodeFile(w.File, &entry); err != nil {
		return err
	}
	saved, err := c.Journal.Weekly.Save(ctx, entry)
	if err != nil {
		return err
	}
	c.printf("Saved weekly review %s\n", saved.Week)
	return nil
}

type QuarterlyCmd struct {
	Show QuarterlyShowCmd `cmd:"" help:"Show the review of a quarter, or a fresh draft." default:"1"`
	Save QuarterlySaveCmd `cmd:"" help:"Save a quarterly review from a JSON file."`
}

type QuarterlyShowCmd struct {
	At string `help:"Any day of the quarter as YYYY-MM-DD, defaults to today."`
}

func (q *QuarterlyShowCmd) Run(c *Context) error {
	day, err := c.parseDay(q.At)
	if err != nil {
		return err
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	return c.printJSON(c.Journal.Quarterly.Draft(day))
}

type QuarterlySaveCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON quarterly review."`
	At   string `help:"Any day of the quarter as YYYY-MM-DD, defaults to today."`
}

func (q *QuarterlySaveCmd) Run(c *Context) error {
	day, err := c.parseDay(q.At)
	if err != nil {
		return err
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	entry := c.Journal.Quarterly.Draft(day)
	if err := decodeFile(q.File, &entry); err != nil {
		return err
	}
	saved, err := c.Journal.Quarterly.Save(ctx, entry)
	if err != nil {
		return err
	}
	c.printf("Saved quarterly review %s\n", saved.Quarter)
	return nil
}

type AnnualCmd struct {
	Show AnnualShowCmd `cmd:"" help:"Show the review of a year, or a fresh draft." default:"1"`
	Save AnnualSaveCmd `cmd:"" help:"Save an annual review from a JSON file."`
}

type AnnualShowCmd struct {
	Year int `arg:"" optional:"" help:"Calendar year, defaults to the current one."`
}

func (a *AnnualShowCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	return c.printJSON(c.Journal.Annual.Draft(c.year(a.Year)))
}

type AnnualSaveCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON annual review."`
	Year int    `help:"Calendar year, defaults to the current one."`
}

func (a *AnnualSaveCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	year := c.year(a.Year)
	entry := c.Journal.Annual.Draft(year)
	if err := decodeFile(a.File, &entry); err != nil {
		return err
	}
	if entry.Year != year {
		return fmt.Errorf("file holds the review of %d, not %d", entry.Year, year)
	}
	saved, err := c.Journal.Annual.Save(ctx, entry)
	if err != nil {
		return err
	}
	c.printf("Saved annual review %d\n", saved.Year)
	return nil
}

func (c *Context) year(y int) int {
	if y == 0 {
		return c.today().Year()
	}
	return y
}

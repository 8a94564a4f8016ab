package cli

import (
	"context"
	"fmt"

	"github.com/limbo/ceoos/internal/journal"
	"github.com/limbo/ceoos/pkg/entity"
)

type metadata[T any] interface {
	*T
	Metadata() *entity.Meta
}

// saveDocument overlays the JSON file onto the current value of doc and
// stores the result. Server-assigned fields are never taken from the file.
func saveDocument[T any, PT metadata[T]](ctx context.Context, doc journal.Document[T], path string) (T, error) {
	next := doc.Get()
	if err := decodeFile(path, &next); err != nil {
		var zero T
		return zero, err
	}
	return doc.Update(ctx, func(cur *T) {
		meta := *PT(cur).Metadata()
		*cur = next
		*PT(cur).Metadata() = meta
	})
}

const (
	HorizonOneYear   = "one-year"
	HorizonThreeYear = "three-year"
	HorizonTenYear   = "ten-year"
)

type GoalsCmd struct {
	Show GoalsShowCmd `cmd:"" help:"Show the goals of a horizon." default:"1"`
	Save GoalsSaveCmd `cmd:"" help:"Save the goals of a horizon from a JSON file."`
}

type GoalsShowCmd struct {
	Horizon string `arg:"" optional:"" enum:"one-year,three-year,ten-year" default:"one-year" help:"Goal horizon."`
}

func (g *GoalsShowCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	switch g.Horizon {
	case HorizonThreeYear:
		return c.printJSON(c.Journal.Goals.ThreeYear.Get())
	case HorizonTenYear:
		return c.printJSON(c.Journal.Goals.TenYear.Get())
	}
	return c.printJSON(c.Journal.Goals.OneYear.Get())
}

type GoalsSaveCmd struct {
	Horizon string `arg:"" enum:"one-year,three-year,ten-year" help:"Goal horizon."`
	File    string `arg:"" type:"existingfile" help:"JSON goals document."`
}

func (g *GoalsSaveCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	var err error
	switch g.Horizon {
	case HorizonOneYear:
		_, err = saveDocument(ctx, c.Journal.Goals.OneYear, g.File)
	case HorizonThreeYear:
		_, err = saveDocument(ctx, c.Journal.Goals.ThreeYear, g.File)
	case HorizonTenYear:
		_, err = saveDocument(ctx, c.Journal.Goals.TenYear, g.File)
	default:
		err = fmt.Errorf("unknown horizon %q", g.Horizon)
	}
	if err != nil {
		return err
	}
	c.printf("Saved %s goals\n", g.Horizon)
	return nil
}

type NorthStarCmd struct {
	Show NorthStarShowCmd `cmd:"" help:"Show the north star." default:"1"`
	Save NorthStarSaveCmd `cmd:"" help:"Save the north star from a JSON file."`
}

type NorthStarShowCmd struct{}

func (n *NorthStarShowCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	return c.printJSON(c.Journal.NorthStar.Get())
}

type NorthStarSaveCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON north star document."`
}

func (n *NorthStarSaveCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	if _, err := saveDocument(ctx, c.Journal.NorthStar, n.File); err != nil {
		return err
	}
	c.printf("Saved north star\n")
	return nil
}

type MemoryCmd struct {
	Show MemoryShowCmd `cmd:"" help:"Show the memory document." default:"1"`
	Save MemorySaveCmd `cmd:"" help:"Save the memory document from a JSON file."`
}

type MemoryShowCmd struct{}

func (m *MemoryShowCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	return c.printJSON(c.Journal.Memory.Get())
}

type MemorySaveCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON memory document."`
}

func (m *MemorySaveCmd) Run(c *Context) error {
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.load(ctx); err != nil {
		return err
	}
	if _, err := saveDocument(ctx, c.Journal.Memory, m.File); err != nil {
		return err
	}
	c.printf("Saved memory\n")
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/limbo/ceoos/internal/local"
)

type ExportCmd struct {
	File string `arg:"" help:"Backup file to write."`
}

func (e *ExportCmd) Run(c *Context) error {
	if err := c.requireLocal(); err != nil {
		return err
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	backup, err := c.Container.Export(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(e.File, backup, 0o600); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	c.printf("Exported to %s\n", e.File)
	return nil
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"Backup file to read."`
}

func (i *ImportCmd) Run(c *Context) error {
	if err := c.requireLocal(); err != nil {
		return err
	}
	backup, err := os.ReadFile(i.File)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	if err := c.Container.Import(ctx, backup); err != nil {
		return err
	}
	c.printf("Imported %s\n", i.File)
	return nil
}

type ClearCmd struct {
	Category string `arg:"" optional:"" help:"daily, weekly, quarterly, annual or interviews."`
	All      bool   `help:"Delete every local record."`
}

func (cl *ClearCmd) Run(c *Context) error {
	if err := c.requireLocal(); err != nil {
		return err
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	switch {
	case cl.All:
		if err := c.Container.ClearAll(ctx); err != nil {
			return err
		}
		c.printf("Cleared all local data\n")
	case cl.Category != "":
		if err := c.Container.Clear(ctx, local.Category(cl.Category)); err != nil {
			return err
		}
		c.printf("Cleared %s\n", cl.Category)
	default:
		return fmt.Errorf("give a category or --all")
	}
	return nil
}

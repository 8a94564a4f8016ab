package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/limbo/ceoos/internal/cli"
	"github.com/limbo/ceoos/internal/logger"
)

var CLI struct {
	cli.Globals

	Config     cli.ConfigCmd     `cmd:"" help:"Show or write client settings."`
	Register   cli.RegisterCmd   `cmd:"" help:"Create an account on the server."`
	Login      cli.LoginCmd      `cmd:"" help:"Sign in and remember the session."`
	Logout     cli.LogoutCmd     `cmd:"" help:"Forget the stored session."`
	Whoami     cli.WhoamiCmd     `cmd:"" help:"Show the signed-in user."`
	Daily      cli.DailyCmd      `cmd:"" help:"Daily check-ins." default:"1"`
	Stats      cli.StatsCmd      `cmd:"" help:"Check-in streak and energy."`
	Weekly     cli.WeeklyCmd     `cmd:"" help:"Weekly reviews."`
	Quarterly  cli.QuarterlyCmd  `cmd:"" help:"Quarterly reviews."`
	Annual     cli.AnnualCmd     `cmd:"" help:"Annual reviews."`
	LifeMap    cli.LifeMapCmd    `cmd:"" name:"lifemap" help:"Life map scores."`
	Goals      cli.GoalsCmd      `cmd:"" help:"One, three and ten year goals."`
	NorthStar  cli.NorthStarCmd  `cmd:"" name:"northstar" help:"North star."`
	Memory     cli.MemoryCmd     `cmd:"" help:"Memory document."`
	Interviews cli.InterviewsCmd `cmd:"" help:"Reflection interviews."`
	Export     cli.ExportCmd     `cmd:"" help:"Export local data to a backup file."`
	Import     cli.ImportCmd     `cmd:"" help:"Import a backup file into local data."`
	Clear      cli.ClearCmd      `cmd:"" help:"Delete local data."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("ceoos"),
		kong.Description("Personal reflection journal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
	)

	settings, err := CLI.Globals.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	l, err := logger.New(logger.Config{Debug: CLI.Debug, Dir: settings.DataDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(l.Logger)

	appCtx, closeApp, err := cli.Open(context.Background(), settings, l.Logger, CLI.Timeout)
	if err != nil {
		l.Error("open error", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = l.Close()
		os.Exit(1)
	}
	appCtx.ConfigPath = CLI.Globals.Config

	err = kctx.Run(appCtx)
	if cerr := closeApp(); cerr != nil {
		l.Error("close error", slog.String("error", cerr.Error()))
		if err == nil {
			err = cerr
		}
	}
	_ = l.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/dedene/typeahead-cli/internal/config"
	"github.com/dedene/typeahead-cli/internal/outfmt"
	"github.com/dedene/typeahead-cli/internal/source"
	"github.com/dedene/typeahead-cli/internal/ui"
)

// RootFlags are global flags available to all commands.
type RootFlags struct {
	Color   string `help:"Color output: auto|always|never" default:"auto" enum:"auto,always,never"`
	JSON    bool   `help:"JSON output" default:"false"`
	YAML    bool   `help:"YAML output" default:"false"`
	Verbose bool   `help:"Verbose logging" default:"false"`
	NoInput bool   `help:"Never prompt; fail instead" name:"no-input" default:"false"`
}

// CLI is the top-level Kong command struct.
type CLI struct {
	RootFlags `embed:""`

	Version    kong.VersionFlag `help:"Print version and exit"`
	VersionCmd VersionCmd       `cmd:"" name:"version" help:"Print version info"`
	Pick       PickCmd          `cmd:"" name:"pick" aliases:"p" default:"withargs" help:"Pick an item interactively"`
	Filter     FilterCmd        `cmd:"" name:"filter" aliases:"f" help:"Print the items matching a query"`
	Config     ConfigCmd        `cmd:"" name:"config" help:"Manage configuration"`
}

// Execute parses CLI args, sets up context, and runs the matched command.
func Execute(args []string) (err error) {
	cli := &CLI{}
	parser, err := kong.New(
		cli,
		kong.Name("typeahead"),
		kong.Description("Type to filter a list, pick one item"),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": VersionString()},
		kong.Writers(os.Stdout, os.Stderr),
		kong.Exit(func(code int) { panic(exitPanic{code: code}) }),
	)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			if ep, ok := r.(exitPanic); ok {
				if ep.code == 0 {
					err = nil
					return
				}
				err = &ExitError{Code: ep.code, Err: errors.New("exited")}
				return
			}
			panic(r)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return &ExitError{Code: ExitUsage, Err: err}
	}

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	ctx := outfmt.WithMode(context.Background(), outfmt.Mode{JSON: cli.JSON, YAML: cli.YAML})

	// Structured output is never colored.
	uiColor := cli.Color
	if outfmt.IsStructured(ctx) {
		uiColor = "never"
	}
	u, uiErr := ui.New(ui.Options{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Color:  uiColor,
	})
	if uiErr != nil {
		return uiErr
	}
	ctx = ui.WithUI(ctx, u)

	cfgPath, _ := config.ConfigPath()
	cfg, cfgErr := config.Load(cfgPath)
	if cfgErr != nil {
		slog.Warn("loading config", "error", cfgErr)
		cfg = &config.Config{}
	}
	ctx = config.WithConfig(ctx, cfg)

	client := source.NewClient(source.ClientOptions{
		Token:     os.Getenv("TYPEAHEAD_TOKEN"),
		Verbose:   cli.Verbose,
		UserAgent: "typeahead-cli/" + version,
	})
	ctx = source.WithClient(ctx, client)

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(&cli.RootFlags)

	return kctx.Run()
}

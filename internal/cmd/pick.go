package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/dedene/typeahead-cli/internal/actions"
	"github.com/dedene/typeahead-cli/internal/config"
	"github.com/dedene/typeahead-cli/internal/items"
	"github.com/dedene/typeahead-cli/internal/outfmt"
	"github.com/dedene/typeahead-cli/internal/preview"
	"github.com/dedene/typeahead-cli/internal/tui"
	"github.com/dedene/typeahead-cli/internal/ui"
)

// ErrNotInteractive is returned when pick cannot take over a terminal.
var ErrNotInteractive = errors.New("pick needs an interactive terminal; use 'typeahead filter' in scripts")

var errCancelled = errors.New("cancelled")

// interactive and runProgram are swapped by tests.
var (
	interactive = func() bool { return isatty.IsTerminal(os.Stderr.Fd()) }

	runProgram = func(m tui.Model) (tea.Model, error) {
		p := tea.NewProgram(m,
			tea.WithOutput(os.Stderr),
			tea.WithInputTTY(),
			tea.WithMouseCellMotion(),
		)

		return p.Run()
	}
)

// PickCmd opens the interactive picker. It is the default command when
// invoked with positional args.
type PickCmd struct {
	Source      string `arg:"" optional:"" help:"Item file, '-' for stdin, or an http(s) URL"`
	SourceFlags `embed:""`

	Title       string `help:"Title shown above the field" name:"title"`
	Prompt      string `help:"Input prompt (default from config or '> ')" name:"prompt"`
	Placeholder string `help:"Placeholder shown while the field is empty" name:"placeholder"`

	Copy    bool  `help:"Copy the selection to the clipboard" name:"copy" short:"c"`
	Open    bool  `help:"Open the selection's url in the browser" name:"open" short:"o"`
	Preview *bool `help:"Show the selection's image inline" name:"preview" negatable:""`
}

// shouldPreview determines if inline preview should be shown.
// Cascade: explicit flag > config preview > true.
// Always false when stderr is not a TTY or --no-input is set.
func shouldPreview(flag *bool, cfg *config.Config, root *RootFlags) bool {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return false
	}

	if root != nil && root.NoInput {
		return false
	}

	if flag != nil {
		return *flag
	}

	if cfg != nil && cfg.Preview != nil {
		return *cfg.Preview
	}

	return true
}

// Run loads the items, runs the picker and prints the selection.
func (c *PickCmd) Run(ctx context.Context, root *RootFlags) error {
	if (root != nil && root.NoInput) || !interactive() {
		return &ExitError{Code: ExitUsage, Err: ErrNotInteractive}
	}

	records, err := loadRecords(ctx, c.Source, c.SourceFlags)
	if err != nil {
		return err
	}

	cfg := config.FromContext(ctx)
	if cfg == nil {
		cfg = &config.Config{}
	}

	// The picker owns the terminal; its log lines are replayed afterwards.
	var logs bytes.Buffer

	m, err := tui.NewPicker(items.AsItems(records), tui.Options{
		Title:          c.Title,
		Prompt:         firstNonEmpty(c.Prompt, cfg.Prompt),
		Placeholder:    firstNonEmpty(c.Placeholder, cfg.Placeholder),
		HighlightColor: cfg.Highlight(),
		QuitOnSelect:   true,
		Logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{
			Level: logLevel(ctx),
		})),
	})
	if err != nil {
		return err
	}

	result, err := runProgram(m)

	if logs.Len() > 0 {
		_, _ = io.Copy(os.Stderr, &logs)
	}

	if err != nil {
		return fmt.Errorf("interactive picker: %w", err)
	}

	picker, ok := result.(tui.Model)
	if !ok {
		return errors.New("unexpected picker result type")
	}

	picker.Close()

	if picker.Cancelled() || picker.Selected() == nil {
		return &ExitError{Code: ExitCancelled, Err: errCancelled}
	}

	rec, ok := items.FromItem(picker.Selected())
	if !ok {
		return errors.New("unexpected item type")
	}

	if shouldPreview(c.Preview, cfg, root) {
		preview.ShowRecord(ctx, rec, preview.Options{Writer: os.Stderr})
	}

	if err := writeSelection(ctx, rec); err != nil {
		return err
	}

	c.runActions(ctx, rec, cfg)

	return nil
}

// runActions fires post-selection actions. Errors are non-fatal warnings.
func (c *PickCmd) runActions(ctx context.Context, rec items.Record, cfg *config.Config) {
	if c.Copy || config.Enabled(cfg.AutoCopy) {
		if err := actions.CopyRecord(rec); err != nil {
			warnf(ctx, "clipboard: %v", err)
		} else if u := ui.FromContext(ctx); u != nil {
			u.Err().Successf("Copied to clipboard")
		}
	}

	if c.Open || config.Enabled(cfg.AutoOpen) {
		if err := actions.OpenRecord(rec); err != nil {
			warnf(ctx, "browser: %v", err)
		}
	}
}

// writeSelection prints the chosen record's title, or the whole record in
// a structured output mode.
func writeSelection(ctx context.Context, rec items.Record) error {
	if outfmt.IsStructured(ctx) {
		return outfmt.Write(ctx, os.Stdout, rec)
	}

	fmt.Fprintln(os.Stdout, rec.Title())

	return nil
}

func warnf(ctx context.Context, format string, args ...any) {
	if u := ui.FromContext(ctx); u != nil {
		u.Err().Warnf(format, args...)

		return
	}

	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

func logLevel(ctx context.Context) slog.Level {
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		return slog.LevelDebug
	}

	return slog.LevelWarn
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/dedene/typeahead-cli/internal/autocomplete"
	"github.com/dedene/typeahead-cli/internal/config"
	"github.com/dedene/typeahead-cli/internal/items"
	"github.com/dedene/typeahead-cli/internal/outfmt"
	"github.com/dedene/typeahead-cli/internal/ui"
)

// FilterCmd prints the items a query would show, without a terminal UI.
type FilterCmd struct {
	Query       string `arg:"" help:"Case-sensitive substring to match; empty matches everything"`
	Source      string `arg:"" optional:"" help:"Item file, '-' for stdin, or an http(s) URL"`
	SourceFlags `embed:""`

	Limit int  `help:"Show at most N matches (0 = all)" name:"limit" short:"n"`
	Plain bool `help:"Print one title per line instead of a table" name:"plain"`
}

// Run executes the filter command. No matches exits with code 1.
func (c *FilterCmd) Run(ctx context.Context) error {
	records, err := loadRecords(ctx, c.Source, c.SourceFlags)
	if err != nil {
		return err
	}

	for i, r := range records {
		if err := autocomplete.CheckItem(r); err != nil {
			slog.Debug("skipping item", "index", i, "error", err)
		}
	}

	matched := autocomplete.Filter(items.AsItems(records), c.Query)
	if c.Limit > 0 && len(matched) > c.Limit {
		matched = matched[:c.Limit]
	}

	out := make([]items.Record, 0, len(matched))
	for _, it := range matched {
		if r, ok := items.FromItem(it); ok {
			out = append(out, r)
		}
	}

	if outfmt.IsStructured(ctx) {
		if err := outfmt.Write(ctx, os.Stdout, out); err != nil {
			return err
		}
	} else {
		c.print(ctx, out, len(records))
	}

	if len(out) == 0 {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("no items match %q", c.Query)}
	}

	return nil
}

func (c *FilterCmd) print(ctx context.Context, out []items.Record, total int) {
	if c.Plain {
		for _, r := range out {
			fmt.Fprintln(os.Stdout, r.Title())
		}

		return
	}

	if len(out) == 0 {
		return
	}

	withURL := false
	for _, r := range out {
		if r.Field("url") != "" {
			withURL = true

			break
		}
	}

	headers := []string{"#", "Title"}
	if withURL {
		headers = append(headers, "URL")
	}

	rows := make([][]string, 0, len(out))
	for i, r := range out {
		row := []string{strconv.Itoa(i + 1), r.Title()}
		if withURL {
			row = append(row, r.Field("url"))
		}

		rows = append(rows, row)
	}

	accent := config.FromContext(ctx).Highlight()
	count := strconv.Itoa(len(out))
	colorEnabled := false

	if u := ui.FromContext(ctx); u != nil {
		colorEnabled = u.Out().ColorEnabled()
		count = u.Out().Accent(count, accent)
	}

	fmt.Fprint(os.Stdout, ui.RenderTable(headers, rows, colorEnabled, accent))
	fmt.Fprintf(os.Stdout, "\n%s of %d items\n", count, total)
}

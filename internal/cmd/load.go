package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/dedene/typeahead-cli/internal/cache"
	"github.com/dedene/typeahead-cli/internal/config"
	"github.com/dedene/typeahead-cli/internal/items"
	"github.com/dedene/typeahead-cli/internal/source"
)

// ErrNoSource is returned when no source is named and stdin is a terminal.
var ErrNoSource = errors.New("no item source: pass a file or URL, or pipe items on stdin")

// stdin and stdinTTY are swapped by tests.
var (
	stdin    io.Reader = os.Stdin
	stdinTTY           = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) }
)

// SourceFlags select where the item list comes from.
type SourceFlags struct {
	Format  string `help:"Item format (json,yaml,toml,text); detected when empty" short:"f"`
	Refresh bool   `help:"Bypass the cache for URL sources" name:"refresh"`
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// loadRecords reads the item list named by src: "-" or "" for stdin, an
// http(s) URL, or a file path.
func loadRecords(ctx context.Context, src string, flags SourceFlags) ([]items.Record, error) {
	var format items.Format

	if flags.Format != "" {
		f, err := items.ParseFormat(flags.Format)
		if err != nil {
			return nil, err
		}

		format = f
	}

	switch {
	case src == "" || src == "-":
		return loadStdin(format)
	case isURL(src):
		return loadURL(ctx, src, format, flags.Refresh)
	case format != "":
		data, err := os.ReadFile(src) //nolint:gosec // user-selected item file
		if err != nil {
			return nil, fmt.Errorf("reading items: %w", err)
		}

		records, err := items.Parse(data, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}

		return records, nil
	default:
		return items.Load(src)
	}
}

func loadStdin(format items.Format) ([]items.Record, error) {
	if stdinTTY() {
		return nil, ErrNoSource
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading items from stdin: %w", err)
	}

	if format == "" {
		format = items.Sniff(data)
	}

	return items.Parse(data, format)
}

// loadURL fetches a remote list, serving it from the cache while fresh.
func loadURL(ctx context.Context, rawURL string, format items.Format, refresh bool) ([]items.Record, error) {
	client := source.ClientFromContext(ctx)
	if client == nil {
		return nil, errors.New("item source client not found in context")
	}

	store := cacheStore()
	key := cacheKey(rawURL, format)

	if !refresh && store != nil {
		cached, err := store.Load(key, config.FromContext(ctx).CacheTTLDuration())
		if err != nil {
			slog.Debug("cache load error", "error", err)
		}

		if cached != nil {
			slog.Debug("using cached items", "url", rawURL, "count", len(cached))

			return cached, nil
		}
	}

	records, err := client.Fetch(ctx, rawURL, format)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}

	if store != nil {
		if err := store.Save(key, records); err != nil {
			slog.Debug("cache save error", "error", err)
		}
	}

	return records, nil
}

// cacheKey separates lists decoded with a forced format from detected ones.
func cacheKey(rawURL string, format items.Format) string {
	if format == "" {
		return rawURL
	}

	return rawURL + " format=" + string(format)
}

// cacheStore returns the list cache, or nil when no cache dir resolves.
func cacheStore() *cache.Store {
	dir, err := config.CacheDir()
	if err != nil {
		slog.Debug("cache disabled", "error", err)

		return nil
	}

	return cache.New(dir)
}

package cmd

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedene/typeahead-cli/internal/config"
	"github.com/dedene/typeahead-cli/internal/items"
	"github.com/dedene/typeahead-cli/internal/outfmt"
)

func countingServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func titlesOf(records []items.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title()
	}

	return out
}

func TestLoadRecords_StdinSniffsFormat(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)

	withStdin(t, fruitJSON)
	records, err := loadRecords(ctx, "-", SourceFlags{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Banana", "Grape"}, titlesOf(records))

	withStdin(t, "one\ntwo\n")
	records, err = loadRecords(ctx, "", SourceFlags{})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, titlesOf(records))
}

func TestLoadRecords_StdinExplicitFormat(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	withStdin(t, "- title: Fig\n")

	records, err := loadRecords(ctx, "-", SourceFlags{Format: "yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fig"}, titlesOf(records))
}

func TestLoadRecords_TerminalStdin(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)

	orig := stdinTTY
	stdinTTY = func() bool { return true }
	t.Cleanup(func() { stdinTTY = orig })

	_, err := loadRecords(ctx, "", SourceFlags{})
	assert.True(t, errors.Is(err, ErrNoSource))
}

func TestLoadRecords_BadFormat(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)

	_, err := loadRecords(ctx, "-", SourceFlags{Format: "csv"})
	assert.True(t, errors.Is(err, items.ErrUnsupportedFormat))
}

func TestLoadRecords_FileWithFormatOverride(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	path := filepath.Join(t.TempDir(), "list.dat")
	require.NoError(t, os.WriteFile(path, []byte("Lime\nLemon\n"), 0o644))

	records, err := loadRecords(ctx, path, SourceFlags{Format: "text"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lime", "Lemon"}, titlesOf(records))
}

func TestLoadRecords_URLIsCached(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	srv, hits := countingServer(t, fruitJSON)

	first, err := loadRecords(ctx, srv.URL+"/fruit.json", SourceFlags{})
	require.NoError(t, err)

	second, err := loadRecords(ctx, srv.URL+"/fruit.json", SourceFlags{})
	require.NoError(t, err)

	assert.Equal(t, titlesOf(first), titlesOf(second))
	assert.Equal(t, int32(1), hits.Load())

	_, err = loadRecords(ctx, srv.URL+"/fruit.json", SourceFlags{Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestLoadRecords_URLExpiredCache(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, &config.Config{CacheTTL: "0s"})
	srv, hits := countingServer(t, fruitJSON)

	for range 2 {
		_, err := loadRecords(ctx, srv.URL, SourceFlags{})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), hits.Load())
}

func TestLoadRecords_URLError(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := loadRecords(ctx, srv.URL, SourceFlags{})
	assert.ErrorContains(t, err, "loading items")
}

func TestLoadRecords_URLFormatHasOwnCacheEntry(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	srv, hits := countingServer(t, fruitJSON)

	detected, err := loadRecords(ctx, srv.URL, SourceFlags{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Banana", "Grape"}, titlesOf(detected))

	asText, err := loadRecords(ctx, srv.URL, SourceFlags{Format: "text"})
	require.NoError(t, err)
	assert.Equal(t, []string{fruitJSON}, titlesOf(asText))
	assert.Equal(t, int32(2), hits.Load())

	again, err := loadRecords(ctx, srv.URL, SourceFlags{Format: "text"})
	require.NoError(t, err)
	assert.Equal(t, titlesOf(asText), titlesOf(again))
	assert.Equal(t, int32(2), hits.Load())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "https://x/l", cacheKey("https://x/l", ""))
	assert.NotEqual(t, cacheKey("https://x/l", ""), cacheKey("https://x/l", items.FormatText))
}

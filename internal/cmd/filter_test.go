package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedene/typeahead-cli/internal/outfmt"
)

func TestFilterCmd_Table(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	withStdin(t, fruitJSON)

	output := captureStdout(t, func() {
		require.NoError(t, (&FilterCmd{Query: "p"}).Run(ctx))
	})

	assert.Contains(t, output, "Title")
	assert.Contains(t, output, "Apple")
	assert.Contains(t, output, "Grape")
	assert.NotContains(t, output, "Banana")
	assert.Contains(t, output, "2 of 3 items")
	assert.NotContains(t, output, "\x1b[", "color is off in tests")
}

func TestFilterCmd_URLColumn(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	withStdin(t, linkJSON)

	output := captureStdout(t, func() {
		require.NoError(t, (&FilterCmd{}).Run(ctx))
	})

	assert.Contains(t, output, "URL")
	assert.Contains(t, output, "https://go.dev")
}

func TestFilterCmd_Plain(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	withStdin(t, "Apple\nBanana\nGrape\n")

	output := captureStdout(t, func() {
		require.NoError(t, (&FilterCmd{Query: "a", Plain: true}).Run(ctx))
	})

	// Case-sensitive: "Apple" has no lowercase a.
	assert.Equal(t, "Banana\nGrape\n", output)
}

func TestFilterCmd_Limit(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	withStdin(t, fruitJSON)

	output := captureStdout(t, func() {
		require.NoError(t, (&FilterCmd{Limit: 1, Plain: true}).Run(ctx))
	})

	assert.Equal(t, "Apple\n", output)
}

func TestFilterCmd_JSON(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{JSON: true}, nil)
	withStdin(t, `[{"title":"Apple","id":1},{"name":"nope"},{"title":"Grape"}]`)

	output := captureStdout(t, func() {
		require.NoError(t, (&FilterCmd{Query: "Ap"}).Run(ctx))
	})

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "Apple", parsed[0]["title"])
	assert.InDelta(t, 1.0, parsed[0]["id"], 0)
}

func TestFilterCmd_YAML(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{YAML: true}, nil)
	withStdin(t, "Kiwi\n")

	output := captureStdout(t, func() {
		require.NoError(t, (&FilterCmd{Query: "Ki"}).Run(ctx))
	})

	assert.Equal(t, "- title: Kiwi\n", output)
}

func TestFilterCmd_NoMatches(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	withStdin(t, fruitJSON)

	output := captureStdout(t, func() {
		err := (&FilterCmd{Query: "zzz"}).Run(ctx)
		require.Error(t, err)
		assert.Equal(t, 1, ExitCode(err))
		assert.Contains(t, err.Error(), `"zzz"`)
	})

	assert.Empty(t, output)
}

func TestFilterCmd_NoMatchesJSONIsEmptyList(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{JSON: true}, nil)
	withStdin(t, fruitJSON)

	output := captureStdout(t, func() {
		_ = (&FilterCmd{Query: "zzz"}).Run(ctx)
	})

	assert.Equal(t, "[]\n", output)
}

func TestFilterCmd_FileSource(t *testing.T) {
	ctx := testCtx(t, outfmt.Mode{}, nil)
	path := filepath.Join(t.TempDir(), "fruit.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[items]]\ntitle = \"Cherry\"\n"), 0o644))

	output := captureStdout(t, func() {
		require.NoError(t, (&FilterCmd{Query: "Ch", Source: path, Plain: true}).Run(ctx))
	})

	assert.Equal(t, "Cherry\n", output)
}

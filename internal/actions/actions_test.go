package actions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedene/typeahead-cli/internal/items"
)

// stubClipboard swaps the clipboard hooks for the duration of a test.
func stubClipboard(t *testing.T, unsupported bool) *string {
	t.Helper()

	var got string

	origWrite, origUnsupported := ClipboardWrite, ClipboardUnsupported
	ClipboardWrite = func(s string) error {
		got = s
		return nil
	}
	ClipboardUnsupported = unsupported

	t.Cleanup(func() {
		ClipboardWrite, ClipboardUnsupported = origWrite, origUnsupported
	})

	return &got
}

func stubBrowser(t *testing.T) *string {
	t.Helper()

	var got string

	orig := BrowserOpen
	BrowserOpen = func(u string) error {
		got = u
		return nil
	}

	t.Cleanup(func() { BrowserOpen = orig })

	return &got
}

func TestCopyToClipboard(t *testing.T) {
	got := stubClipboard(t, false)

	require.NoError(t, CopyToClipboard("hello"))
	assert.Equal(t, "hello", *got)
}

func TestCopyToClipboard_Unsupported(t *testing.T) {
	stubClipboard(t, true)

	err := CopyToClipboard("hello")
	assert.True(t, errors.Is(err, ErrClipboardUnsupported))
}

func TestCopyRecord(t *testing.T) {
	got := stubClipboard(t, false)

	require.NoError(t, CopyRecord(items.Record{"title": "Go", "url": "https://go.dev"}))
	assert.Equal(t, "https://go.dev", *got)

	require.NoError(t, CopyRecord(items.Record{"title": "Go"}))
	assert.Equal(t, "Go", *got)
}

func TestOpenRecord(t *testing.T) {
	got := stubBrowser(t)

	require.NoError(t, OpenRecord(items.Record{"title": "Go", "url": "https://go.dev/doc"}))
	assert.Equal(t, "https://go.dev/doc", *got)
}

func TestOpenRecord_Rejects(t *testing.T) {
	got := stubBrowser(t)

	err := OpenRecord(items.Record{"title": "Go"})
	assert.True(t, errors.Is(err, ErrNoURL))

	for _, raw := range []string{"file:///etc/passwd", "javascript:alert(1)", "go.dev", "https://"} {
		err := OpenRecord(items.Record{"title": "x", "url": raw})
		assert.Error(t, err, raw)
	}

	assert.Empty(t, *got)
}

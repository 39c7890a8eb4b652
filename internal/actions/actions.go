// Package actions provides post-selection actions: clipboard copy and
// browser open.
package actions

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	"github.com/dedene/typeahead-cli/internal/items"
)

// ErrClipboardUnsupported indicates the platform has no clipboard support.
var ErrClipboardUnsupported = errors.New("clipboard not supported on this platform")

// ErrNoURL is returned when a record has nothing to open.
var ErrNoURL = errors.New("selected item has no url")

// URLField is the record field opened in the browser.
const URLField = "url"

// ClipboardWrite is a function variable for clipboard writes (swappable in tests).
var ClipboardWrite = clipboard.WriteAll

// ClipboardUnsupported mirrors clipboard.Unsupported (swappable in tests).
var ClipboardUnsupported = clipboard.Unsupported

// BrowserOpen is a function variable for opening URLs (swappable in tests).
var BrowserOpen = browser.OpenURL

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error {
	if ClipboardUnsupported {
		return ErrClipboardUnsupported
	}

	return ClipboardWrite(text)
}

// CopyRecord copies the record's url when it has one, its title otherwise.
func CopyRecord(rec items.Record) error {
	text := rec.Field(URLField)
	if text == "" {
		text = rec.Title()
	}

	return CopyToClipboard(text)
}

// OpenRecord opens the record's url in the default browser. Only absolute
// http and https URLs are opened.
func OpenRecord(rec items.Record) error {
	raw := rec.Field(URLField)
	if raw == "" {
		return ErrNoURL
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", raw)
	}

	return BrowserOpen(u.String())
}

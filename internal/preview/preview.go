// Package preview renders an inline terminal image for a selected item.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	// Register image format decoders.
	_ "image/jpeg"
	_ "image/png"

	termimg "github.com/blacktop/go-termimg"
	"golang.org/x/term"

	"github.com/dedene/typeahead-cli/internal/items"
)

// ImageFields are the record fields checked, in order, for an image URL.
var ImageFields = []string{"image", "thumbnail", "icon"}

const (
	minWidth     = 16
	maxWidth     = 50
	fallbackCols = 40
)

// Options configures image preview rendering.
type Options struct {
	// Width in character cells. 0 = a third of the terminal, clamped.
	Width int
	// Writer receives rendered escape sequences. Typically os.Stderr.
	Writer io.Writer
}

// ImageURL returns the first image URL found on rec, or "".
func ImageURL(rec items.Record) string {
	for _, f := range ImageFields {
		if v := rec.Field(f); v != "" {
			return v
		}
	}

	return ""
}

// ShowRecord previews the record's image when it has one.
func ShowRecord(ctx context.Context, rec items.Record, opts Options) {
	if u := ImageURL(rec); u != "" {
		Show(ctx, u, opts)
	}
}

// Show downloads an image and renders it to opts.Writer. A preview is
// decoration: every failure is logged at debug level and swallowed.
func Show(ctx context.Context, imageURL string, opts Options) {
	data, err := fetch(ctx, imageURL)
	if err != nil {
		slog.Debug("preview unavailable", "url", imageURL, "error", err)

		return
	}

	img, err := termimg.From(bytes.NewReader(data))
	if err != nil {
		slog.Debug("preview decode failed", "url", imageURL, "error", err)

		return
	}

	rendered, err := img.Width(width(opts.Width)).Scale(termimg.ScaleFit).Render()
	if err != nil {
		slog.Debug("preview render failed", "url", imageURL, "error", err)

		return
	}

	fmt.Fprintln(opts.Writer, rendered)
}

func fetch(ctx context.Context, imageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}

	return data, nil
}

// width resolves the preview width in cells.
func width(requested int) int {
	if requested > 0 {
		return requested
	}

	w, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || w <= 0 {
		return fallbackCols
	}

	return max(minWidth, min(maxWidth, w/3))
}

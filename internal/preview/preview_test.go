package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dedene/typeahead-cli/internal/items"
)

// tiny1x1PNG generates a valid 1x1 red PNG in memory.
func tiny1x1PNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	return buf.Bytes()
}

func pngServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	data := tiny1x1PNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "a.png", ImageURL(items.Record{"image": "a.png", "icon": "b.png"}))
	assert.Equal(t, "b.png", ImageURL(items.Record{"icon": "b.png"}))
	assert.Equal(t, "c.png", ImageURL(items.Record{"thumbnail": "c.png", "icon": "b.png"}))
	assert.Empty(t, ImageURL(items.Record{"title": "x", "image": 3}))
}

func TestShow_Success(t *testing.T) {
	srv := pngServer(t, nil)

	var out bytes.Buffer
	Show(context.Background(), srv.URL, Options{Width: 40, Writer: &out})

	assert.NotEmpty(t, out.Bytes(), "expected rendered output")
}

func TestShow_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var out bytes.Buffer
	Show(context.Background(), srv.URL, Options{Width: 40, Writer: &out})

	assert.Empty(t, out.Bytes(), "expected no output on HTTP error")
}

func TestShow_NotAnImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	var out bytes.Buffer
	Show(context.Background(), srv.URL, Options{Width: 40, Writer: &out})

	assert.Empty(t, out.Bytes())
}

func TestShow_InvalidURL(t *testing.T) {
	var out bytes.Buffer
	Show(context.Background(), "://bad-url", Options{Width: 40, Writer: &out})

	assert.Empty(t, out.Bytes(), "expected no output on invalid URL")
}

func TestShow_CancelledContext(t *testing.T) {
	srv := pngServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	Show(ctx, srv.URL, Options{Width: 40, Writer: &out})

	assert.Empty(t, out.Bytes(), "expected no output on cancelled context")
}

func TestShowRecord(t *testing.T) {
	var hits atomic.Int32
	srv := pngServer(t, &hits)

	var out bytes.Buffer
	ShowRecord(context.Background(), items.Record{"title": "Go", "image": srv.URL}, Options{Width: 20, Writer: &out})
	assert.NotEmpty(t, out.Bytes())
	assert.Equal(t, int32(1), hits.Load())

	out.Reset()
	ShowRecord(context.Background(), items.Record{"title": "Plain"}, Options{Width: 20, Writer: &out})
	assert.Empty(t, out.Bytes())
	assert.Equal(t, int32(1), hits.Load(), "records without an image must not fetch")
}

func TestWidth_Explicit(t *testing.T) {
	assert.Equal(t, 33, width(33))
	w := width(0)
	assert.True(t, w == fallbackCols || (w >= minWidth && w <= maxWidth))
}

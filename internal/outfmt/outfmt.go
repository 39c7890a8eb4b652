// Package outfmt provides context-based output mode selection (JSON, YAML
// or human).
package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Mode controls output formatting. JSON wins when both are set.
type Mode struct {
	JSON bool
	YAML bool
}

type ctxKey struct{}

// WithMode stores the output mode in the context.
func WithMode(ctx context.Context, mode Mode) context.Context {
	return context.WithValue(ctx, ctxKey{}, mode)
}

// FromContext returns the output mode, or the zero (human) mode.
func FromContext(ctx context.Context) Mode {
	if v := ctx.Value(ctxKey{}); v != nil {
		if m, ok := v.(Mode); ok {
			return m
		}
	}

	return Mode{}
}

// IsJSON returns true if the context has JSON output mode enabled.
func IsJSON(ctx context.Context) bool {
	return FromContext(ctx).JSON
}

// IsYAML returns true if YAML output is enabled and JSON is not.
func IsYAML(ctx context.Context) bool {
	m := FromContext(ctx)

	return m.YAML && !m.JSON
}

// IsStructured reports whether any machine-readable mode is active.
func IsStructured(ctx context.Context) bool {
	m := FromContext(ctx)

	return m.JSON || m.YAML
}

// Write encodes v in the context's structured mode.
func Write(ctx context.Context, w io.Writer, v any) error {
	if IsYAML(ctx) {
		return WriteYAML(w, v)
	}

	return WriteJSON(w, v)
}

// WriteJSON writes v as pretty-printed JSON to w.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// WriteYAML writes v as a YAML document to w.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}

	return nil
}

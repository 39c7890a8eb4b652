// Package items loads candidate lists for the autocomplete widget from
// JSON, JSON5, YAML, TOML and plain text.
package items

import (
	"errors"
	"fmt"

	"github.com/dedene/typeahead-cli/internal/autocomplete"
)

// ErrMissingTitle is returned by Record.Valid when the title field is absent
// or not a string.
var ErrMissingTitle = errors.New("record has no string title")

// TitleField is the record key used for matching and display.
const TitleField = "title"

// Record is a free-form item. Only the title field is required.
type Record map[string]any

// Title returns the record's title, or "" when it has none.
func (r Record) Title() string {
	s, _ := r[TitleField].(string)

	return s
}

// Valid reports whether the record carries a string title.
func (r Record) Valid() error {
	v, ok := r[TitleField]
	if !ok {
		return ErrMissingTitle
	}

	if _, ok := v.(string); !ok {
		return fmt.Errorf("%w: got %T", ErrMissingTitle, v)
	}

	return nil
}

// Field returns a string field of the record, or "" when absent.
func (r Record) Field(name string) string {
	s, _ := r[name].(string)

	return s
}

// AsItems converts records to widget items, preserving order.
func AsItems(records []Record) []autocomplete.Item {
	out := make([]autocomplete.Item, len(records))
	for i, r := range records {
		out[i] = r
	}

	return out
}

// FromItem recovers the Record behind a widget item.
func FromItem(item autocomplete.Item) (Record, bool) {
	r, ok := item.(Record)

	return r, ok
}

// FromTitles builds records carrying only a title.
func FromTitles(titles []string) []Record {
	out := make([]Record, len(titles))
	for i, t := range titles {
		out[i] = Record{TitleField: t}
	}

	return out
}

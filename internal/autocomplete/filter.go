package autocomplete

import (
	"fmt"
	"strings"
)

// Item is a host-supplied record matched and displayed by its title.
type Item interface {
	Title() string
}

// Validator is implemented by items that can be missing their title.
type Validator interface {
	Valid() error
}

// CheckItem returns an error wrapping ErrInvalidItem when item cannot be
// matched or displayed.
func CheckItem(item Item) error {
	if item == nil {
		return fmt.Errorf("%w: nil item", ErrInvalidItem)
	}

	if v, ok := item.(Validator); ok {
		if err := v.Valid(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidItem, err)
		}
	}

	return nil
}

// Filter returns, in original order, every valid item whose title contains
// query. Matching is case-sensitive and the empty query matches everything.
func Filter(items []Item, query string) []Item {
	out := make([]Item, 0, len(items))

	for _, item := range items {
		if CheckItem(item) != nil {
			continue
		}

		if strings.Contains(item.Title(), query) {
			out = append(out, item)
		}
	}

	return out
}

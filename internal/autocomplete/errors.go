package autocomplete

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every *ConfigurationError.
var ErrConfiguration = errors.New("autocomplete configuration error")

// ErrInvalidItem marks an item that cannot be matched or displayed.
var ErrInvalidItem = errors.New("invalid item")

// ErrEntryOutOfRange is logged when a click resolves to no displayed item.
var ErrEntryOutOfRange = errors.New("dropdown entry out of range")

// ConfigurationError is returned by New when the widget cannot be bound.
type ConfigurationError struct {
	ID     string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("autocomplete %q: %s", e.ID, e.Reason)
}

// Is reports ErrConfiguration as a match so callers can use errors.Is.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

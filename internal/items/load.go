package items

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// Format is an on-disk item list encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatText Format = "text"
)

// ErrUnsupportedFormat is returned for an unknown format name.
var ErrUnsupportedFormat = errors.New("unsupported item format")

// ErrBadShape is returned when a document holds neither a list nor an
// object with an "items" list.
var ErrBadShape = errors.New(`expected a list or an object with an "items" list`)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "json5":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath guesses the format from a file extension. Unknown
// extensions are treated as JSON.
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}

	return FormatJSON
}

// Sniff guesses the format of unnamed input such as stdin: documents that
// open with a bracket or brace are JSON, anything else is text.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}

	return FormatText
}

// Load reads the item file at path.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-selected item file
	if err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}

	records, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

// Decode reads all of r and parses it as format.
func Decode(r io.Reader, format Format) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}

	return Parse(data, format)
}

// Parse decodes an item list. JSON, YAML and TOML documents hold either a
// bare list or an object with an "items" list; TOML only allows the latter.
// Text holds one title per non-empty line.
func Parse(data []byte, format Format) ([]Record, error) {
	var doc any

	switch format {
	case FormatJSON:
		if err := json5.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing JSON items: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML items: %w", err)
		}
	case FormatTOML:
		var table map[string]any
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parsing TOML items: %w", err)
		}

		doc = table
	case FormatText:
		return parseText(data), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return fromDocument(doc)
}

// parseText splits the whole buffer, so line length is unbounded.
func parseText(data []byte) []Record {
	var titles []string

	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			titles = append(titles, line)
		}
	}

	return FromTitles(titles)
}

// fromDocument normalizes a decoded document into records.
func fromDocument(doc any) ([]Record, error) {
	switch v := doc.(type) {
	case nil:
		return []Record{}, nil
	case []any:
		return fromList(v), nil
	case map[string]any:
		list, ok := v["items"].([]any)
		if !ok {
			return nil, ErrBadShape
		}

		return fromList(list), nil
	default:
		return nil, ErrBadShape
	}
}

// fromList keeps entries it cannot interpret so the widget can report them
// as invalid items.
func fromList(list []any) []Record {
	out := make([]Record, 0, len(list))

	for _, entry := range list {
		switch e := entry.(type) {
		case map[string]any:
			out = append(out, Record(e))
		case string:
			out = append(out, Record{TitleField: e})
		default:
			out = append(out, Record{"value": e})
		}
	}

	return out
}

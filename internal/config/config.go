package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/titanous/json5"
)

// DefaultHighlightColor is used when highlight_color is unset.
const DefaultHighlightColor = "#7c3aed"

// Config holds user preferences.
type Config struct {
	Prompt         string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Placeholder    string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HighlightColor string `json:"highlight_color,omitempty" yaml:"highlight_color,omitempty"`
	AutoCopy       *bool  `json:"auto_copy,omitempty" yaml:"auto_copy,omitempty"`
	AutoOpen       *bool  `json:"auto_open,omitempty" yaml:"auto_open,omitempty"`
	Preview        *bool  `json:"preview,omitempty" yaml:"preview,omitempty"`
	CacheTTL       string `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`
}

// field binds a config key to its struct field.
type field struct {
	validate func(string) error
	get      func(*Config) (string, bool)
	set      func(*Config, string)
	unset    func(*Config)
}

func stringField(ptr func(*Config) *string, validate func(string) error) field {
	return field{
		validate: validate,
		get: func(c *Config) (string, bool) {
			v := *ptr(c)

			return v, v != ""
		},
		set:   func(c *Config, v string) { *ptr(c) = v },
		unset: func(c *Config) { *ptr(c) = "" },
	}
}

func boolField(ptr func(*Config) **bool) field {
	return field{
		validate: validateBool,
		get: func(c *Config) (string, bool) {
			b := *ptr(c)
			if b == nil {
				return "", false
			}

			return strconv.FormatBool(*b), true
		},
		set: func(c *Config, v string) {
			b := v == "true"
			*ptr(c) = &b
		},
		unset: func(c *Config) { *ptr(c) = nil },
	}
}

var fields = map[string]field{
	"prompt":          stringField(func(c *Config) *string { return &c.Prompt }, nil),
	"placeholder":     stringField(func(c *Config) *string { return &c.Placeholder }, nil),
	"highlight_color": stringField(func(c *Config) *string { return &c.HighlightColor }, validateColor),
	"cache_ttl":       stringField(func(c *Config) *string { return &c.CacheTTL }, validateDuration),
	"auto_copy":       boolField(func(c *Config) **bool { return &c.AutoCopy }),
	"auto_open":       boolField(func(c *Config) **bool { return &c.AutoOpen }),
	"preview":         boolField(func(c *Config) **bool { return &c.Preview }),
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// validateColor accepts #rgb, #rrggbb or an ANSI 256 color index.
func validateColor(val string) error {
	if hexColor.MatchString(val) {
		return nil
	}

	if n, err := strconv.Atoi(val); err == nil && n >= 0 && n <= 255 {
		return nil
	}

	return fmt.Errorf("must be #rgb, #rrggbb or 0-255")
}

func validateBool(val string) error {
	if val != "true" && val != "false" {
		return fmt.Errorf("must be true or false")
	}

	return nil
}

func validateDuration(val string) error {
	_, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	return nil
}

// CacheTTLDuration parses CacheTTL as a time.Duration.
// Returns 1h on empty or invalid values, or a nil config.
func (cfg *Config) CacheTTLDuration() time.Duration {
	if cfg == nil || cfg.CacheTTL == "" {
		return time.Hour
	}

	d, err := time.ParseDuration(cfg.CacheTTL)
	if err != nil {
		return time.Hour
	}

	return d
}

// Highlight returns the configured highlight color or the default.
func (cfg *Config) Highlight() string {
	if cfg == nil || cfg.HighlightColor == "" {
		return DefaultHighlightColor
	}

	return cfg.HighlightColor
}

// Enabled reports whether an optional bool key is set to true.
func Enabled(b *bool) bool { return b != nil && *b }

// Load reads config from the JSON5 file at path.
// Returns an empty Config if the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes config as pretty-printed JSON atomically.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	data = append(data, '\n')

	return atomicWrite(path, data)
}

// atomicWrite writes data to path via temp-file + rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	tmpPath = ""

	return nil
}

func lookup(key string) (field, error) {
	f, ok := fields[key]
	if !ok {
		return field{}, fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(KnownKeys(), ", "))
	}

	return f, nil
}

// Get returns the string value for a config key and whether it is set.
func (cfg *Config) Get(key string) (string, bool) {
	f, ok := fields[key]
	if !ok {
		return "", false
	}

	return f.get(cfg)
}

// Set sets a config key to a value after validation.
func (cfg *Config) Set(key, value string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}

	if f.validate != nil {
		if err := f.validate(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	f.set(cfg, value)

	return nil
}

// Unset removes a config key (resets to zero/nil).
func (cfg *Config) Unset(key string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}

	f.unset(cfg)

	return nil
}

// KnownKeys returns a sorted list of valid config key names.
func KnownKeys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// --- Context helpers ---

type ctxKey struct{}

// WithConfig stores a Config in the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext retrieves the Config from the context.
func FromContext(ctx context.Context) *Config {
	if v := ctx.Value(ctxKey{}); v != nil {
		if cfg, ok := v.(*Config); ok {
			return cfg
		}
	}

	return nil
}

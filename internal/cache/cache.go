// Package cache stores fetched item lists on disk with a TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dedene/typeahead-cli/internal/items"
)

// Entry is the on-disk representation of one cached list.
type Entry struct {
	URL       string         `json:"url"`
	Items     []items.Record `json:"items"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Store is a directory of cached lists, one file per source URL.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the cache file used for rawURL.
func (s *Store) Path(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))

	return filepath.Join(s.dir, hex.EncodeToString(sum[:12])+".json")
}

// Load returns the cached list for rawURL if it is fresh.
// Returns (nil, nil) when the file is missing, corrupt, expired or belongs
// to another URL. Only unexpected read failures are errors.
func (s *Store) Load(rawURL string, ttl time.Duration) ([]items.Record, error) {
	data, err := os.ReadFile(s.Path(rawURL))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Corrupt cache -- treat as miss.
		return nil, nil //nolint:nilerr
	}

	if e.URL != rawURL || time.Since(e.FetchedAt) > ttl {
		return nil, nil
	}

	return e.Items, nil
}

// Save writes the list for rawURL atomically.
func (s *Store) Save(rawURL string, records []items.Record) error {
	e := Entry{
		URL:       rawURL,
		Items:     records,
		FetchedAt: time.Now(),
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	data = append(data, '\n')

	return atomicWrite(s.Path(rawURL), data)
}

// atomicWrite writes data to path via temp-file + rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

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

package visioncache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"reelscore/internal/frames"
	"reelscore/internal/logging"
)

// Entry is one cached vision observation keyed by frame content hash.
type Entry struct {
	ContentHash string             `json:"content_hash"`
	Observation frames.Observation `json:"observation"`
	CachedAt    time.Time          `json:"cached_at"`
}

// Cache provides thread-safe access to cached vision-model results so
// re-analysis of an unchanged video skips recomputation. If path is empty the
// cache is a no-op.
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry
	dirty   bool
}

// New creates a cache instance backed by a JSON file created lazily on first
// Store call.
func New(path string, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "visioncache")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logging.WarnWithContext(logger, "failed to load vision cache", "visioncache_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "cached frames will be reclassified"),
		)
	}

	return c
}

// Lookup returns the cached observation for the given content hash if found.
func (c *Cache) Lookup(contentHash string) (frames.Observation, bool) {
	contentHash = strings.TrimSpace(contentHash)
	if contentHash == "" || c.path == "" {
		return frames.Observation{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[contentHash]
	return entry.Observation, found
}

// Store adds or updates an entry and persists the cache to disk.
func (c *Cache) Store(contentHash string, observation frames.Observation) error {
	contentHash = strings.TrimSpace(contentHash)
	if contentHash == "" {
		return errors.New("content hash cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[contentHash] = Entry{
		ContentHash: contentHash,
		Observation: observation,
		CachedAt:    time.Now().UTC(),
	}
	c.dirty = true

	if err := c.save(); err != nil {
		return fmt.Errorf("persist vision cache: %w", err)
	}
	return nil
}

// Len returns the number of cached observations.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}
	for _, entry := range entries {
		if entry.ContentHash != "" {
			c.entries[entry.ContentHash] = entry
		}
	}
	return nil
}

// save writes the cache atomically: temp file then rename. Callers hold the
// write lock.
func (c *Cache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache temp file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	c.dirty = false
	return nil
}

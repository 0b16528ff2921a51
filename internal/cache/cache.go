// Package cache is a small file-backed JSON cache for provider listings.
// Entries record when they were fetched and expire after a fixed TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTTL is how long a listing stays fresh.
const DefaultTTL = 5 * time.Minute

// Entry wraps cached data with the time it was fetched.
type Entry[T any] struct {
	Data      T         `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Cache stores entries as one JSON file per key. A nil *Cache, or one with
// no directory, caches nothing.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

func New(dir string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{dir: dir, ttl: ttl, now: time.Now}
}

// NewDefault returns a cache under the OS user cache dir.
func NewDefault() *Cache {
	return New(defaultDir(), DefaultTTL)
}

// Dir returns the directory entries are written to.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) enabled() bool {
	return c != nil && c.dir != ""
}

// Get returns the cached value for key if present and not expired. Corrupt
// or expired entries are reported as a miss.
func Get[T any](c *Cache, key string) (T, time.Time, bool) {
	var zero T
	if !c.enabled() {
		return zero, time.Time{}, false
	}

	data, err := os.ReadFile(c.pathForKey(key))
	if err != nil {
		return zero, time.Time{}, false
	}
	var entry Entry[T]
	if err := json.Unmarshal(data, &entry); err != nil || entry.FetchedAt.IsZero() {
		return zero, time.Time{}, false
	}

	age := c.now().Sub(entry.FetchedAt)
	if age < 0 || age > c.ttl {
		return zero, time.Time{}, false
	}
	return entry.Data, entry.FetchedAt, true
}

// Set stores data under key, stamped with the current time.
func (c *Cache) Set(key string, data any) error {
	if !c.enabled() {
		return nil
	}
	payload, err := json.Marshal(Entry[any]{Data: data, FetchedAt: c.now().UTC()})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, sanitizeKey(key)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	return os.Rename(name, c.pathForKey(key))
}

// GetOrFetch returns the cached value for key, or calls fetch and caches its
// result. With refresh set the cache is bypassed for reading but still
// updated. Errors writing the cache are ignored.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, refresh bool, fetch func(context.Context) (T, error)) (T, error) {
	if !refresh {
		if data, _, ok := Get[T](c, key); ok {
			return data, nil
		}
	}

	data, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	_ = c.Set(key, data)
	return data, nil
}

// Invalidate removes a single entry.
func (c *Cache) Invalidate(key string) error {
	if !c.enabled() {
		return nil
	}
	err := os.Remove(c.pathForKey(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if !c.enabled() {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) pathForKey(key string) string {
	return filepath.Join(c.dir, sanitizeKey(key)+".json")
}

func defaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "dnsweeper")
}

// sanitizeKey maps a key onto a safe file name.
func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
}

package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Cache provides file-based memoization of analysis results. Entries are
// validated against a content hash, so a stale entry can never be served
// for a modified source file regardless of its TTL.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry is one cached result on disk.
type Entry struct {
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

// New creates a cache rooted at dir. A disabled cache is a valid value:
// every read misses and every write is a no-op.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Enabled reports whether the cache actually persists anything.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashFile computes the BLAKE3 hash of a file's contents.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// HashBytes computes the BLAKE3 hash of data as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get retrieves a cached entry if present and unexpired.
func (c *Cache) Get(key string) ([]byte, bool) {
	entry, path, ok := c.read(key)
	if !ok {
		return nil, false
	}

	if c.expired(entry, path) {
		return nil, false
	}

	return entry.Data, true
}

// GetWithHash retrieves a cached entry only when its recorded content
// hash matches hash.
func (c *Cache) GetWithHash(key, hash string) ([]byte, bool) {
	entry, path, ok := c.read(key)
	if !ok {
		return nil, false
	}

	if entry.Hash != hash {
		return nil, false
	}

	if c.expired(entry, path) {
		return nil, false
	}

	return entry.Data, true
}

// Set stores data under key.
func (c *Cache) Set(key string, data []byte) error {
	return c.write(key, "", data)
}

// SetWithHash stores data under key together with the content hash that
// must match on retrieval.
func (c *Cache) SetWithHash(key, hash string, data []byte) error {
	return c.write(key, hash, data)
}

// Invalidate removes a single cache entry.
func (c *Cache) Invalidate(key string) error {
	if !c.enabled {
		return nil
	}
	return os.Remove(c.keyPath(key))
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

func (c *Cache) read(key string) (Entry, string, bool) {
	if !c.enabled {
		return Entry{}, "", false
	}

	path := c.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, "", false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, "", false
	}

	return entry, path, true
}

// expired checks the TTL and removes the entry when it has lapsed.
func (c *Cache) expired(entry Entry, path string) bool {
	if time.Since(entry.Timestamp) <= c.ttl {
		return false
	}
	os.Remove(path)
	return true
}

func (c *Cache) write(key, hash string, data []byte) error {
	if !c.enabled {
		return nil
	}

	entry := Entry{
		Hash:      hash,
		Timestamp: time.Now(),
		Data:      data,
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return os.WriteFile(c.keyPath(key), entryData, 0600)
}

// keyPath maps a key to a filename. Keys carry path separators and other
// unsafe characters, so the filename is a fixed-width xxhash of the key.
func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x.json", xxhash.Sum64String(key)))
}

// Stats summarizes the cache directory.
type Stats struct {
	Entries   int           `json:"entries"`
	TotalSize int64         `json:"total_size"`
	OldestAge time.Duration `json:"oldest_age"`
	NewestAge time.Duration `json:"newest_age"`
}

// GetStats walks the cache directory and reports entry counts and ages.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	var oldest, newest time.Time

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = time.Since(newest)
	}

	return stats, nil
}

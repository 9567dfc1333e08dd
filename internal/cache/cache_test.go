package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNew(t *testing.T) {
	c := newTestCache(t)
	if !c.Enabled() {
		t.Error("cache should be enabled")
	}

	disabled, err := New("", 0, false)
	if err != nil {
		t.Fatalf("New() error for disabled cache: %v", err)
	}
	if disabled.Enabled() {
		t.Error("cache should be disabled")
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "nested", "cache", "dir")

	if _, err := New(cacheDir, 24, true); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("New() should create the cache directory")
	}
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("test-key", []byte("test data content")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok := c.Get("test-key")
	if !ok {
		t.Fatal("Get() returned false for existing key")
	}
	if string(got) != "test data content" {
		t.Errorf("Get() = %q", string(got))
	}

	if _, ok := c.Get("nonexistent-key"); ok {
		t.Error("Get() should return false for non-existent key")
	}
}

func TestGetWithHash(t *testing.T) {
	c := newTestCache(t)

	if err := c.SetWithHash("key", "abc123", []byte("payload")); err != nil {
		t.Fatalf("SetWithHash() error: %v", err)
	}

	got, ok := c.GetWithHash("key", "abc123")
	if !ok {
		t.Fatal("GetWithHash() returned false for matching hash")
	}
	if string(got) != "payload" {
		t.Errorf("GetWithHash() = %q", string(got))
	}

	if _, ok := c.GetWithHash("key", "different"); ok {
		t.Error("GetWithHash() should miss on a non-matching hash")
	}
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("key", []byte("data")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := c.Invalidate("key"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok := c.Get("key"); ok {
		t.Error("key should not exist after invalidation")
	}
}

func TestClear(t *testing.T) {
	c := newTestCache(t)

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(key, []byte("data")); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(c.dir); !os.IsNotExist(err) {
		t.Error("Clear() should remove the cache directory")
	}
}

func TestDisabledCacheIsInert(t *testing.T) {
	c, err := New("", 0, false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := c.Set("key", []byte("data")); err != nil {
		t.Errorf("Set() on disabled cache: %v", err)
	}
	if _, ok := c.Get("key"); ok {
		t.Error("Get() on disabled cache should miss")
	}
	if err := c.SetWithHash("key", "h", []byte("data")); err != nil {
		t.Errorf("SetWithHash() on disabled cache: %v", err)
	}
	if _, ok := c.GetWithHash("key", "h"); ok {
		t.Error("GetWithHash() on disabled cache should miss")
	}
	if err := c.Invalidate("key"); err != nil {
		t.Errorf("Invalidate() on disabled cache: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear() on disabled cache: %v", err)
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("disabled cache stats = %+v", stats)
	}
}

func TestTTLExpiration(t *testing.T) {
	c := newTestCache(t)

	if err := c.SetWithHash("key", "h", []byte("data")); err != nil {
		t.Fatalf("SetWithHash() error: %v", err)
	}

	// Age the entry on disk past the TTL instead of sleeping.
	path := c.keyPath("key")
	stale, err := json.Marshal(Entry{
		Hash:      "h",
		Timestamp: time.Now().Add(-48 * time.Hour),
		Data:      []byte("data"),
	})
	if err != nil {
		t.Fatalf("marshal stale entry: %v", err)
	}
	if err := os.WriteFile(path, stale, 0600); err != nil {
		t.Fatalf("write stale entry: %v", err)
	}

	if _, ok := c.GetWithHash("key", "h"); ok {
		t.Error("expired entry was served")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expired entry was not removed")
	}
}

func TestHashBytes(t *testing.T) {
	if HashBytes([]byte("hello")) == "" {
		t.Error("HashBytes() returned empty hash")
	}
	if HashBytes([]byte("hello")) != HashBytes([]byte("hello")) {
		t.Error("HashBytes() is not deterministic")
	}
	if HashBytes([]byte("hello")) == HashBytes([]byte("world")) {
		t.Error("HashBytes() collided on different content")
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.c")
	if err := os.WriteFile(path, []byte("int x;"), 0644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	hash, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error: %v", err)
	}
	if hash != HashBytes([]byte("int x;")) {
		t.Error("HashFile() disagrees with HashBytes() for the same content")
	}

	if _, err := HashFile("/nonexistent/file.c"); err == nil {
		t.Error("HashFile() should fail for a missing file")
	}
}

func TestKeyPath(t *testing.T) {
	c := newTestCache(t)

	path1 := c.keyPath("key1")
	path2 := c.keyPath("key2")

	if path1 == path2 {
		t.Error("different keys mapped to the same path")
	}
	if path1 != c.keyPath("key1") {
		t.Error("keyPath() is not deterministic")
	}
	if filepath.Dir(path1) != c.dir {
		t.Errorf("keyPath() escaped the cache directory: %s", path1)
	}

	// 16 hex digits plus extension, regardless of what the key contains.
	base := filepath.Base(path1)
	if !strings.HasSuffix(base, ".json") || len(base) != 16+len(".json") {
		t.Errorf("unexpected key filename %q", base)
	}
}

func TestSpecialCharactersInKey(t *testing.T) {
	c := newTestCache(t)

	keys := []string{
		"/path/to/file.c",
		"complexity:src/main.c:nodecl",
		"file with spaces",
		"unicode/文件/test",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			if err := c.Set(key, []byte("data for "+key)); err != nil {
				t.Fatalf("Set(%q) error: %v", key, err)
			}
			got, ok := c.Get(key)
			if !ok {
				t.Fatalf("Get(%q) returned false", key)
			}
			if string(got) != "data for "+key {
				t.Errorf("Get(%q) = %q", key, string(got))
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	c := newTestCache(t)

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("empty cache reports %d entries", stats.Entries)
	}

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(key, []byte("data")); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
	}

	stats, err = c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("Entries = %d, want 3", stats.Entries)
	}
	if stats.TotalSize <= 0 {
		t.Error("TotalSize should be positive")
	}
}

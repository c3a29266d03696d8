// Package cache remembers which file contents already format clean
// under a given configuration, so reruns skip those files without
// parsing them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion invalidates every stored entry when the payload format
// changes; it is part of the cache file name.
const schemaVersion uint16 = 1

// maxAge bounds the cache file size: entries not confirmed within this
// window are dropped on load.
const maxAge = 30 * 24 * time.Hour

// payload is the on-disk shape of the whole cache.
type payload struct {
	Schema  uint16
	Entries map[string]time.Time
}

// Cache is the known-clean set for one run. All methods tolerate a nil
// receiver, so callers can thread an absent cache without checks.
type Cache struct {
	mu      sync.Mutex
	path    string
	config  [sha256.Size]byte
	entries map[string]time.Time
	dirty   bool
}

// Open loads the cache from the XDG cache directory, keyed by the
// configuration fingerprint. A missing or unreadable cache file starts
// empty; only an unusable cache directory is an error.
func Open(fingerprint string) (*Cache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	c := &Cache{
		path:    filepath.Join(dir, fmt.Sprintf("cache-v%d.mp", schemaVersion)),
		config:  sha256.Sum256([]byte(fingerprint)),
		entries: make(map[string]time.Time),
	}
	c.load()
	return c, nil
}

func cacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "robotidy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// load reads the cache file, dropping everything on schema mismatch or
// decode failure. Stale entries are pruned here.
func (c *Cache) load() {
	f, err := os.Open(c.path)
	if err != nil {
		return
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil || p.Schema != schemaVersion {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for key, at := range p.Entries {
		if at.After(cutoff) {
			c.entries[key] = at
		}
	}
	if len(c.entries) != len(p.Entries) {
		c.dirty = true
	}
}

// key folds the file content and the run configuration into one lookup
// key, so a config change misses without touching stored entries.
func (c *Cache) key(content []byte) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{0})
	h.Write(c.config[:])
	return hex.EncodeToString(h.Sum(nil))
}

// Clean reports whether this exact content is known to need no changes
// under the current configuration.
func (c *Cache) Clean(content []byte) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[c.key(content)]
	return ok
}

// MarkClean records that this content needs no changes.
func (c *Cache) MarkClean(content []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(content)] = time.Now()
	c.dirty = true
}

// Save writes the cache atomically. A clean cache is not rewritten.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	f, err := os.CreateTemp(filepath.Dir(c.path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	p := payload{Schema: schemaVersion, Entries: c.entries}
	if err := msgpack.NewEncoder(f).Encode(&p); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), c.path); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Drop removes the cache file entirely.
func (c *Cache) Drop() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]time.Time)
	c.dirty = false
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

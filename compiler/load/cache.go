package load

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/spf13/afero"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/esassoc/SqlCodeGen/schema"
)

// cacheVersion is bumped whenever parser output for the same input changes.
const cacheVersion = 1

// Cache remembers successful parse results keyed by the SHA-256 of the file
// content. It is safe for concurrent use.
type Cache struct {
	fs   afero.Fs
	path string

	mu      sync.Mutex
	entries map[string]cacheEntry
	dirty   bool
}

type cacheEntry struct {
	Table *schema.Table           `msgpack:"table,omitempty"`
	Seed  *schema.LookupTableData `msgpack:"seed,omitempty"`
}

type cacheFile struct {
	Version int                   `msgpack:"version"`
	Entries map[string]cacheEntry `msgpack:"entries"`
}

// NewCache returns an empty in-memory cache that is never persisted.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// OpenCache loads the cache stored at path on fsys. A missing file yields an
// empty cache. A file written by another cache version is ignored.
func OpenCache(fsys afero.Fs, path string) (*Cache, error) {
	c := &Cache{fs: fsys, path: path, entries: make(map[string]cacheEntry)}
	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("read parse cache: %w", err)
	}
	var cf cacheFile
	if err := msgpack.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("decode parse cache %s: %w", path, err)
	}
	if cf.Version == cacheVersion && cf.Entries != nil {
		c.entries = cf.Entries
	}
	return c, nil
}

// Key returns the cache key of a file content.
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Get returns the parse result remembered for content.
func (c *Cache) Get(content []byte) (File, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[Key(content)]
	if !ok {
		return File{}, false
	}
	return File{Table: e.Table, Seed: e.Seed}, true
}

// Put remembers a successful parse result. Failed results are not cached.
func (c *Cache) Put(content []byte, f File) {
	if f.Err != nil || (f.Table == nil && f.Seed == nil) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(content)] = cacheEntry{Table: f.Table, Seed: f.Seed}
	c.dirty = true
}

// Len returns the number of remembered results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Prune drops every entry whose key is not in keep.
func (c *Cache) Prune(keep map[string]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if _, ok := keep[k]; !ok {
			delete(c.entries, k)
			c.dirty = true
		}
	}
}

// Save writes the cache back to its file when it changed. In-memory caches
// are never written.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fs == nil || !c.dirty {
		return nil
	}
	data, err := msgpack.Marshal(&cacheFile{Version: cacheVersion, Entries: c.entries})
	if err != nil {
		return fmt.Errorf("encode parse cache: %w", err)
	}
	if err := afero.WriteFile(c.fs, c.path, data, 0o644); err != nil {
		return fmt.Errorf("write parse cache: %w", err)
	}
	c.dirty = false
	return nil
}

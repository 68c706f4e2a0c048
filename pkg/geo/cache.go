package geo

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Cache is the on-disk store for fetched tiles and geocoding answers. Tiles
// live under tiles/{provider}/{z}/{x}/{y}.png, geocoding answers under
// geocode/{md5 of the request}.json. Entries are never evicted; they are
// small, re-derivable and last-writer-wins on collision.
type Cache struct {
	baseDir string
	mu      sync.Mutex
}

// NewCache returns a cache rooted at baseDir. Nothing is created on disk
// until the first write.
func NewCache(baseDir string) *Cache {
	return &Cache{baseDir: baseDir}
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.baseDir }

func (c *Cache) tilePath(provider string, t Tile) string {
	return filepath.Join(c.baseDir, "tiles", provider,
		fmt.Sprintf("%d", t.Z), fmt.Sprintf("%d", t.X), fmt.Sprintf("%d.png", t.Y))
}

func (c *Cache) geocodePath(signature string) string {
	sum := md5.Sum([]byte(signature))
	return filepath.Join(c.baseDir, "geocode", hex.EncodeToString(sum[:])+".json")
}

// GetTile returns the cached bytes for a tile, if present.
func (c *Cache) GetTile(provider string, t Tile) ([]byte, bool) {
	data, err := os.ReadFile(c.tilePath(provider, t))
	if err != nil {
		return nil, false
	}
	return data, true
}

// PutTile stores tile bytes. The file is written to a temporary sibling and
// renamed, so concurrent fetchers never observe a torn entry.
func (c *Cache) PutTile(provider string, t Tile, data []byte) error {
	return c.write(c.tilePath(provider, t), data)
}

// GetGeocode returns the cached geocoding answer for a request signature.
func (c *Cache) GetGeocode(signature string) ([]byte, bool) {
	data, err := os.ReadFile(c.geocodePath(signature))
	if err != nil {
		return nil, false
	}
	return data, true
}

// PutGeocode stores a geocoding answer under its request signature.
func (c *Cache) PutGeocode(signature string, data []byte) error {
	return c.write(c.geocodePath(signature), data)
}

func (c *Cache) write(path string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp := path + ".tmp-" + uuid.New().String()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing cache entry: %w", err)
	}
	return nil
}

// Stats walks the cache and returns the number of entries and their total
// size in bytes.
func (c *Cache) Stats() (entries int, size int64) {
	filepath.WalkDir(c.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		entries++
		size += info.Size()
		return nil
	})
	return entries, size
}

// Clear deletes every cached entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.baseDir)
}

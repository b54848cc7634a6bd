package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores entries as individual files under a root directory,
// sharded by key hash. Entries carry an expiry timestamp in a small header;
// writes go through a temp file and rename so a crashed run never leaves a
// torn entry behind.
type FileCache struct {
	dir string
}

// entryMagic guards against reading files that are not cache entries.
var entryMagic = [4]byte{'a', 't', 'c', '1'}

// NewFileCache creates a file-based cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves a value. Corrupt or expired entries are removed and reported
// as a miss.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, expires, ok := decodeEntry(raw)
	if !ok {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if expires != 0 && time.Now().Unix() > expires {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores a value. A zero ttl stores the entry without expiry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = time.Now().Add(ttl).Unix()
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encodeEntry(data, expires)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes a value. A missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Close does nothing for a file cache.
func (c *FileCache) Close() error {
	return nil
}

// Prune removes every entry under the cache root and returns the number of
// files removed. Shard directories are left in place.
func (c *FileCache) Prune() (int, error) {
	count := 0
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil // skip unreadable paths, keep walking
		}
		if os.Remove(path) == nil {
			count++
		}
		return nil
	})
	return count, err
}

// Dir returns the cache root directory.
func (c *FileCache) Dir() string { return c.dir }

// path shards keys by hash so no single directory accumulates every entry.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".entry")
}

// encodeEntry lays out magic | expiry unix seconds (int64 LE) | payload.
func encodeEntry(data []byte, expires int64) []byte {
	out := make([]byte, 0, 12+len(data))
	out = append(out, entryMagic[:]...)
	var ts [8]byte
	binary.LittleEndian.PutUint64(ts[:], uint64(expires))
	out = append(out, ts[:]...)
	return append(out, data...)
}

func decodeEntry(raw []byte) (data []byte, expires int64, ok bool) {
	if len(raw) < 12 || [4]byte(raw[:4]) != entryMagic {
		return nil, 0, false
	}
	expires = int64(binary.LittleEndian.Uint64(raw[4:12]))
	return raw[12:], expires, true
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)

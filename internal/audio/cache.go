package audio

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Cache is a sqlite-indexed store for synthesized audio. It maps a request
// hash (text + voice settings) to the generated file and its probed duration,
// so speech generation and the ffprobe run happen at most once per distinct
// request.
type Cache struct {
	dir string
	db  *sql.DB
}

// CacheEntry is one cached synthesis result
type CacheEntry struct {
	File       string  // absolute path to the audio file
	Duration   float64 // seconds, millisecond-accurate
	InsertedAt time.Time
}

// OpenCache opens (creating if needed) the synthesis cache rooted at dir
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, "readalong_cache.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache index: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS synthesis (
		hash        TEXT PRIMARY KEY,
		file        TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		inserted_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{dir: dir, db: db}, nil
}

// Close closes the cache index
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key computes the cache key for a synthesis request
func (c *Cache) Key(text, voice string, speed float64) string {
	h := md5.New()
	h.Write([]byte(text))
	h.Write([]byte(voice))
	h.Write([]byte(fmt.Sprintf("%.2f", speed)))
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the cached entry for key, if both the index row and the
// audio file still exist.
func (c *Cache) Lookup(key string) (*CacheEntry, bool) {
	var file string
	var durationMS, insertedAt int64

	row := c.db.QueryRow("SELECT file, duration_ms, inserted_at FROM synthesis WHERE hash = ?", key)
	if err := row.Scan(&file, &durationMS, &insertedAt); err != nil {
		return nil, false
	}

	path := filepath.Join(c.dir, file)
	if _, err := os.Stat(path); err != nil {
		// stale index row, file was removed behind our back
		c.db.Exec("DELETE FROM synthesis WHERE hash = ?", key)
		return nil, false
	}

	return &CacheEntry{
		File:       path,
		Duration:   float64(durationMS) / 1000,
		InsertedAt: time.Unix(insertedAt, 0),
	}, true
}

// Store records a synthesis result. The audio file must already live under
// the cache directory; only its base name is indexed.
func (c *Cache) Store(key, file string, duration float64) error {
	rel, err := filepath.Rel(c.dir, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("cache file %s is outside cache directory %s", file, c.dir)
	}

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO synthesis (hash, file, duration_ms, inserted_at) VALUES (?, ?, ?, ?)",
		key, rel, int64(duration*1000+0.5), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// FilePath returns the cache-local path for a new audio file with the given
// key and extension.
func (c *Cache) FilePath(key, ext string) string {
	return filepath.Join(c.dir, key+ext)
}

// Stats returns the number of cached entries and their total audio size
func (c *Cache) Stats() (count int, totalSize int64, err error) {
	rows, err := c.db.Query("SELECT file FROM synthesis")
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			return 0, 0, err
		}
		count++
		if info, err := os.Stat(filepath.Join(c.dir, file)); err == nil {
			totalSize += info.Size()
		}
	}

	return count, totalSize, rows.Err()
}

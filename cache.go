package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	irFile   = "out.ir"
	diagFile = "diag.txt"
	hashFile = ".hash"
	lockFile = ".lock"

	cacheKeep   = 64
	cacheMinAge = 7 * 24 * time.Hour
)

// cacheEntry is what one compilation produced: the IR and the diagnostics
// printed while producing it.
type cacheEntry struct {
	IR          string
	Diagnostics string
}

// irCache stores the output of successful compilations under dir, one
// directory per source hash. Entries live on fs; the lock file always lives
// on the host file system since flock needs a real descriptor.
type irCache struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
}

func newIRCache(fs afero.Fs, dir string, logger *zap.Logger) *irCache {
	return &irCache{fs: fs, dir: dir, logger: logger}
}

// isHashDir returns true if name is an 8-char hex string (matches cacheKey's short form).
func isHashDir(name string) bool {
	if len(name) != 8 {
		return false
	}
	_, err := hex.DecodeString(name)
	return err == nil
}

// cacheKey hashes the compiler version together with the source. The short
// hash names the entry directory, the full one guards against collisions.
func cacheKey(src []byte) (shortHash, fullHash string) {
	h := xxhash.New()
	h.WriteString(Version)
	h.Write([]byte{0})
	h.Write(src)
	fullHash = fmt.Sprintf("%016x", h.Sum64())
	return fullHash[:8], fullHash
}

// getOrCompile returns the cached entry for src or runs build and stores its
// result. Failed builds are returned as is and never stored. A file lock
// ensures concurrent processes see either a complete entry or none.
func (c *irCache) getOrCompile(src []byte, build func() (*cacheEntry, error)) (*cacheEntry, error) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}
	if err := c.fs.MkdirAll(c.dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}

	lock := flock.New(filepath.Join(c.dir, lockFile))
	if err := lock.Lock(); err != nil {
		return nil, errors.Wrap(err, "acquire cache lock")
	}
	defer lock.Unlock()

	shortHash, fullHash := cacheKey(src)
	entryDir := filepath.Join(c.dir, shortHash)

	if entry, ok := c.load(entryDir, fullHash); ok {
		c.logger.Debug("cache hit", zap.String("entry", entryDir))
		return entry, nil
	}

	c.cleanup(cacheKeep, cacheMinAge)

	entry, err := build()
	if err != nil {
		return entry, err
	}
	if err := c.store(entryDir, fullHash, entry); err != nil {
		return nil, err
	}
	c.logger.Debug("cache store", zap.String("entry", entryDir))
	return entry, nil
}

func (c *irCache) load(entryDir, fullHash string) (*cacheEntry, bool) {
	stored, err := afero.ReadFile(c.fs, filepath.Join(entryDir, hashFile))
	if err != nil {
		return nil, false
	}
	if string(stored) != fullHash {
		// collision or an interrupted store
		c.logger.Info("cache hash mismatch, rebuilding", zap.String("entry", entryDir))
		if err := c.fs.RemoveAll(entryDir); err != nil {
			c.logger.Warn("failed to remove cache entry", zap.String("entry", entryDir), zap.Error(err))
		}
		return nil, false
	}

	ir, err := afero.ReadFile(c.fs, filepath.Join(entryDir, irFile))
	if err != nil {
		return nil, false
	}
	diag, err := afero.ReadFile(c.fs, filepath.Join(entryDir, diagFile))
	if err != nil {
		return nil, false
	}
	return &cacheEntry{IR: string(ir), Diagnostics: string(diag)}, true
}

func (c *irCache) store(entryDir, fullHash string, entry *cacheEntry) error {
	if err := c.fs.MkdirAll(entryDir, 0755); err != nil {
		return errors.Wrap(err, "create cache entry")
	}
	if err := afero.WriteFile(c.fs, filepath.Join(entryDir, irFile), []byte(entry.IR), 0644); err != nil {
		return errors.Wrap(err, "write cached IR")
	}
	if err := afero.WriteFile(c.fs, filepath.Join(entryDir, diagFile), []byte(entry.Diagnostics), 0644); err != nil {
		return errors.Wrap(err, "write cached diagnostics")
	}
	// the hash is written last and marks the entry complete
	if err := afero.WriteFile(c.fs, filepath.Join(entryDir, hashFile), []byte(fullHash), 0644); err != nil {
		return errors.Wrap(err, "write hash file")
	}
	return nil
}

// cleanup removes old entry directories. Only entries older than minAge are
// deleted, and at least keep of the most recent always stay.
func (c *irCache) cleanup(keep int, minAge time.Duration) {
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil || len(entries) <= keep {
		return
	}

	type dirInfo struct {
		name  string
		mtime time.Time
	}
	var dirs []dirInfo
	for _, e := range entries {
		if e.IsDir() && isHashDir(e.Name()) {
			dirs = append(dirs, dirInfo{e.Name(), e.ModTime()})
		}
	}
	if len(dirs) <= keep {
		return
	}

	cutoff := time.Now().Add(-minAge)
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].mtime.Before(dirs[j].mtime) })
	for i := 0; i < len(dirs)-keep; i++ {
		if dirs[i].mtime.Before(cutoff) {
			path := filepath.Join(c.dir, dirs[i].name)
			if err := c.fs.RemoveAll(path); err != nil {
				c.logger.Warn("failed to remove old cache entry", zap.String("entry", path), zap.Error(err))
			}
		}
	}
}

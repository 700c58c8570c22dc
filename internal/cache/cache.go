// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache maps (dataset id, year) pairs to local file paths and
// manages the cached files. The mapping is a pure function: the same pair
// always yields the same path and distinct pairs never collide.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/inspercidados/cidados/pkg/types"
)

const appDirName = "cidados"

// MetaSuffix is appended to a cache file's path to name its provenance
// sidecar.
const MetaSuffix = ".meta.yaml"

// Cache is a directory of dataset files named {id}[_{year}].{ext}.
type Cache struct {
	root string
	ext  string
}

// New resolves the cache root and returns a Cache. An explicit dir in cfg
// wins; otherwise the platform per-user cache directory is used. The root
// directory is created if absent.
func New(cfg types.CacheConfig) (*Cache, error) {
	root := cfg.Dir
	if root == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving user cache directory: %w", err)
		}
		root = filepath.Join(base, appDirName)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", root, err)
	}

	ext := cfg.Extension
	if ext == "" {
		ext = "csv"
	}
	return &Cache{root: root, ext: ext}, nil
}

// Root returns the resolved cache root directory.
func (c *Cache) Root() string { return c.root }

// Extension returns the cache file extension, without the dot.
func (c *Cache) Extension() string { return c.ext }

// PathFor returns the cache path for the pair. Year 0 means no year suffix.
func (c *Cache) PathFor(id string, year int) string {
	if year != 0 {
		return filepath.Join(c.root, fmt.Sprintf("%s_%d.%s", id, year, c.ext))
	}
	return filepath.Join(c.root, fmt.Sprintf("%s.%s", id, c.ext))
}

// Exists reports whether a regular file is present at path.
func (c *Cache) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Entry describes one cached dataset file.
type Entry struct {
	Dataset  string    `json:"dataset" yaml:"dataset"`
	Year     int       `json:"year,omitempty" yaml:"year,omitempty"`
	Path     string    `json:"path" yaml:"path"`
	Size     int64     `json:"size" yaml:"size"`
	CachedOn time.Time `json:"cached_on" yaml:"cached_on"`
}

// entryPattern matches "{dataset}[_{4-digit-year}].{ext}" and captures the
// dataset stem and the optional year.
func (c *Cache) entryPattern() *regexp.Regexp {
	return regexp.MustCompile(`^(.+?)(?:_(\d{4}))?\.` + regexp.QuoteMeta(c.ext) + `$`)
}

// List enumerates cache contents, sorted by dataset then year. It never
// touches the network.
func (c *Cache) List() ([]Entry, error) {
	dirents, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory %s: %w", c.root, err)
	}

	pattern := c.entryPattern()
	var entries []Entry
	for _, de := range dirents {
		if de.IsDir() || strings.HasSuffix(de.Name(), MetaSuffix) {
			continue
		}
		m := pattern.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		year := 0
		if m[2] != "" {
			year, _ = strconv.Atoi(m[2])
		}
		entries = append(entries, Entry{
			Dataset:  m[1],
			Year:     year,
			Path:     filepath.Join(c.root, de.Name()),
			Size:     info.Size(),
			CachedOn: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Dataset != entries[j].Dataset {
			return entries[i].Dataset < entries[j].Dataset
		}
		return entries[i].Year < entries[j].Year
	})
	return entries, nil
}

// Evict deletes cached files. With an empty id it clears every file matching
// the cache naming pattern. With an id it deletes only files anchored to
// that exact id with an optional 4-digit year suffix, so evicting "iptu"
// never touches "iptu_sp_2024" or "iptu2". Provenance sidecars go with
// their files. Returns the number of cache files removed.
func (c *Cache) Evict(id string) (int, error) {
	var pattern *regexp.Regexp
	if id == "" {
		pattern = c.entryPattern()
	} else {
		pattern = regexp.MustCompile(
			`^` + regexp.QuoteMeta(id) + `(?:_\d{4})?\.` + regexp.QuoteMeta(c.ext) + `$`)
	}

	dirents, err := os.ReadDir(c.root)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory %s: %w", c.root, err)
	}

	removed := 0
	for _, de := range dirents {
		if de.IsDir() || strings.HasSuffix(de.Name(), MetaSuffix) {
			continue
		}
		if !pattern.MatchString(de.Name()) {
			continue
		}
		path := filepath.Join(c.root, de.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}
		os.Remove(path + MetaSuffix)
		removed++
	}
	return removed, nil
}

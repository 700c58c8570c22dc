// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inspercidados/cidados/pkg/types"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(types.CacheConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func touch(t *testing.T, c *Cache, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(c.Root(), name), []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPathFor(t *testing.T) {
	c := newTestCache(t)

	paths := map[string]string{
		"iptu_sp 2024": c.PathFor("iptu_sp", 2024),
		"iptu_sp 2025": c.PathFor("iptu_sp", 2025),
		"itbi_sp 2024": c.PathFor("itbi_sp", 2024),
		"pemob":        c.PathFor("pemob", 0),
	}

	// Deterministic.
	if c.PathFor("iptu_sp", 2024) != paths["iptu_sp 2024"] {
		t.Error("PathFor is not deterministic")
	}

	// Injective.
	seen := map[string]string{}
	for key, p := range paths {
		if prev, ok := seen[p]; ok {
			t.Errorf("collision: %s and %s both map to %s", prev, key, p)
		}
		seen[p] = key
	}

	if got, want := filepath.Base(paths["pemob"]), "pemob.csv"; got != want {
		t.Errorf("PathFor(pemob, 0) basename = %q, want %q", got, want)
	}
	if got, want := filepath.Base(paths["iptu_sp 2024"]), "iptu_sp_2024.csv"; got != want {
		t.Errorf("PathFor(iptu_sp, 2024) basename = %q, want %q", got, want)
	}
}

func TestExists(t *testing.T) {
	c := newTestCache(t)
	p := c.PathFor("pemob", 0)

	if c.Exists(p) {
		t.Error("Exists should be false before write")
	}
	touch(t, c, "pemob.csv")
	if !c.Exists(p) {
		t.Error("Exists should be true after write")
	}
}

func TestEvictPrecision(t *testing.T) {
	c := newTestCache(t)
	touch(t, c, "iptu.csv")
	touch(t, c, "iptu_2024.csv")
	touch(t, c, "iptu_sp_2024.csv")
	touch(t, c, "iptu2.csv")

	removed, err := c.Evict("iptu")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("Evict(iptu) removed %d, want 2", removed)
	}

	for name, want := range map[string]bool{
		"iptu.csv":         false,
		"iptu_2024.csv":    false,
		"iptu_sp_2024.csv": true,
		"iptu2.csv":        true,
	} {
		_, err := os.Stat(filepath.Join(c.Root(), name))
		if exists := err == nil; exists != want {
			t.Errorf("after Evict(iptu): %s exists = %v, want %v", name, exists, want)
		}
	}
}

func TestEvictAll(t *testing.T) {
	c := newTestCache(t)
	touch(t, c, "iptu_sp_2024.csv")
	touch(t, c, "pemob.csv")
	touch(t, c, "notes.txt") // not a cache entry

	removed, err := c.Evict("")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("Evict() removed %d, want 2", removed)
	}
	if _, err := os.Stat(filepath.Join(c.Root(), "notes.txt")); err != nil {
		t.Error("Evict() should not touch files outside the cache naming pattern")
	}
}

func TestEvictRemovesSidecar(t *testing.T) {
	c := newTestCache(t)
	touch(t, c, "pemob.csv")
	touch(t, c, "pemob.csv"+MetaSuffix)

	if _, err := c.Evict("pemob"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(c.Root(), "pemob.csv"+MetaSuffix)); err == nil {
		t.Error("sidecar should be removed with its cache file")
	}
}

func TestList(t *testing.T) {
	c := newTestCache(t)
	touch(t, c, "iptu_sp_2024.csv")
	touch(t, c, "iptu_sp_2023.csv")
	touch(t, c, "pemob.csv")
	touch(t, c, "pemob.csv"+MetaSuffix)

	entries, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("List = %d entries, want 3 (sidecars excluded)", len(entries))
	}

	// Sorted by dataset then year.
	if entries[0].Dataset != "iptu_sp" || entries[0].Year != 2023 {
		t.Errorf("entries[0] = %+v, want iptu_sp 2023", entries[0])
	}
	if entries[2].Dataset != "pemob" || entries[2].Year != 0 {
		t.Errorf("entries[2] = %+v, want pemob", entries[2])
	}
	if entries[0].Size == 0 || entries[0].CachedOn.IsZero() {
		t.Error("entries should carry size and mtime")
	}
}

func TestDefaultRootUsesUserCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := New(types.CacheConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(c.Root()) != "cidados" {
		t.Errorf("default root = %s, want .../cidados", c.Root())
	}
}

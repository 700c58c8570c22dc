// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset is the top-level dataset accessor. It validates requests
// against the catalog, consults the cache, triggers the Dataverse fetch on a
// miss or forced refresh, and loads the cached file into a provenance-tagged
// table. Each call is independent and idempotent: with no eviction and no
// forced refresh, repeated calls never re-fetch.
package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/inspercidados/cidados/internal/cache"
	"github.com/inspercidados/cidados/internal/catalog"
	"github.com/inspercidados/cidados/internal/dataverse"
	"github.com/inspercidados/cidados/internal/resolve"
	"github.com/inspercidados/cidados/pkg/types"
)

// Source is the provenance tag attached to every table.
const Source = "inspercidados"

// Accessor orchestrates catalog, cache, and retrieval.
type Accessor struct {
	store  *catalog.Store
	cache  *cache.Cache
	client *dataverse.Client
	cfg    types.FetchConfig
}

// New wires an Accessor. cfg carries the environment overrides, read once
// at startup; nothing below this layer consults the environment.
func New(store *catalog.Store, c *cache.Cache, client *dataverse.Client, cfg types.FetchConfig) *Accessor {
	return &Accessor{store: store, cache: c, client: client, cfg: cfg}
}

// Validate loads the descriptor and checks the request against it. Yearly
// datasets require a year within the derived coverage (when coverage is
// known); non-yearly datasets accept and ignore a year with a warning on w.
// It returns the descriptor and the effective year (0 when ignored).
func (a *Accessor) Validate(id string, year int, w io.Writer) (*catalog.Descriptor, int, error) {
	desc, err := a.store.Load(id)
	if err != nil {
		return nil, 0, err
	}

	if !desc.Yearly {
		if year != 0 {
			fmt.Fprintf(w, "warning: dataset %s is not yearly, ignoring year %d\n", id, year)
		}
		return desc, 0, nil
	}

	years := desc.Years()
	if year == 0 {
		return nil, 0, &YearRequiredError{ID: id, Years: years}
	}
	if len(years) > 0 && !containsYear(years, year) {
		return nil, 0, &YearNotAvailableError{ID: id, Year: year, Years: years}
	}
	return desc, year, nil
}

// Get returns the dataset table, fetching from Dataverse only on a cache
// miss or when forceRefresh is set. Progress and warnings go to w.
func (a *Accessor) Get(ctx context.Context, id string, year int, forceRefresh bool, w io.Writer) (*types.Table, error) {
	desc, year, err := a.Validate(id, year, w)
	if err != nil {
		return nil, err
	}

	path := a.cache.PathFor(id, year)

	if forceRefresh || !a.cache.Exists(path) {
		target, err := resolve.Resolve(desc, year, a.cfg, a.cache.Extension())
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "downloading: %s (doi %s) from %s\n", target.Filename, target.RemoteID, target.Server)
		if err := a.client.Fetch(ctx, target, path); err != nil {
			return nil, err
		}
		if err := writeProvenance(path, buildProvenance(desc, year, target, path)); err != nil {
			fmt.Fprintf(w, "warning: provenance sidecar write failed: %v\n", err)
		}
	} else {
		fmt.Fprintf(w, "cached: %s\n", path)
	}

	return a.loadTable(desc, year, path)
}

// Info describes a dataset without downloading it. The remote version
// lookup is a best-effort enrichment: on failure the result is marked
// Degraded with the reason, never an error.
type Info struct {
	Descriptor catalog.Descriptor   `json:"descriptor" yaml:"descriptor"`
	Years      []int                `json:"years,omitempty" yaml:"years,omitempty"`
	Target     resolve.Target       `json:"target" yaml:"target"`
	Cached     bool                 `json:"cached" yaml:"cached"`
	CachePath  string               `json:"cache_path" yaml:"cache_path"`
	Remote     *dataverse.RemoteInfo `json:"remote,omitempty" yaml:"remote,omitempty"`

	// Degraded is true when the remote enrichment failed and only local
	// catalog metadata is present.
	Degraded       bool   `json:"degraded" yaml:"degraded"`
	DegradedReason string `json:"degraded_reason,omitempty" yaml:"degraded_reason,omitempty"`
}

// Info validates the request and assembles descriptive metadata.
func (a *Accessor) Info(ctx context.Context, id string, year int, w io.Writer) (*Info, error) {
	desc, year, err := a.Validate(id, year, w)
	if err != nil {
		return nil, err
	}

	target, err := resolve.Resolve(desc, year, a.cfg, a.cache.Extension())
	if err != nil {
		return nil, err
	}

	path := a.cache.PathFor(id, year)
	info := &Info{
		Descriptor: *desc,
		Years:      desc.Years(),
		Target:     target,
		Cached:     a.cache.Exists(path),
		CachePath:  path,
	}

	remote, err := a.client.DatasetInfo(ctx, target)
	if err != nil {
		info.Degraded = true
		info.DegradedReason = err.Error()
		return info, nil
	}
	info.Remote = remote
	return info, nil
}

func containsYear(years []int, y int) bool {
	for _, v := range years {
		if v == y {
			return true
		}
	}
	return false
}

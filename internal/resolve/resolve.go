// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns a dataset descriptor plus an optional year into the
// concrete (server, DOI, filename) triple a retrieval request needs.
// Targets are recomputed on every call; they are cheap and never cached.
package resolve

import (
	"fmt"
	"sort"

	"github.com/inspercidados/cidados/internal/catalog"
	"github.com/inspercidados/cidados/pkg/types"
)

// DefaultServer is the Dataverse host used when neither the global override
// nor the descriptor names one.
const DefaultServer = "https://dataverse.harvard.edu"

// DefaultExtension is the default tabular file extension, without the dot.
const DefaultExtension = "csv"

// Target is the resolved remote location for one request.
type Target struct {
	RemoteID string
	Filename string
	Server   string
}

// MissingYearMappingError reports a multi-DOI dataset with no DOI mapped for
// the requested year.
type MissingYearMappingError struct {
	ID    string
	Year  int
	Known []int
}

func (e *MissingYearMappingError) Error() string {
	return fmt.Sprintf("dataset %q has no DOI mapped for year %d (mapped years: %v)", e.ID, e.Year, e.Known)
}

// RemoteID resolves the DOI for the request. Multi-DOI datasets require the
// year to be present in the mapping; single-DOI datasets (and multi-DOI
// requests without a year) use the dataset DOI.
func RemoteID(d *catalog.Descriptor, year int) (string, error) {
	if d.StructureType == catalog.StructureMultiDOI && year != 0 {
		doi, ok := d.DOIMapping[year]
		if !ok {
			return "", &MissingYearMappingError{ID: d.ID, Year: year, Known: mappedYears(d)}
		}
		return doi, nil
	}
	return d.DOI, nil
}

// Filename resolves the remote filename: the per-year file mapping when one
// exists, else the "{id}[_{year}].{ext}" convention.
func Filename(d *catalog.Descriptor, year int, ext string) string {
	if ext == "" {
		ext = DefaultExtension
	}
	if year != 0 {
		if name, ok := d.FileMapping[year]; ok {
			return name
		}
		return fmt.Sprintf("%s_%d.%s", d.ID, year, ext)
	}
	return fmt.Sprintf("%s.%s", d.ID, ext)
}

// Server resolves the Dataverse host. Precedence: global override from
// config, then the descriptor's server, then DefaultServer.
func Server(d *catalog.Descriptor, cfg types.FetchConfig) string {
	if cfg.Server != "" {
		return cfg.Server
	}
	if d.Server != "" {
		return d.Server
	}
	return DefaultServer
}

// Resolve computes the full target for one request.
func Resolve(d *catalog.Descriptor, year int, cfg types.FetchConfig, ext string) (Target, error) {
	doi, err := RemoteID(d, year)
	if err != nil {
		return Target{}, err
	}
	return Target{
		RemoteID: doi,
		Filename: Filename(d, year, ext),
		Server:   Server(d, cfg),
	}, nil
}

func mappedYears(d *catalog.Descriptor) []int {
	years := make([]int, 0, len(d.DOIMapping))
	for y := range d.DOIMapping {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

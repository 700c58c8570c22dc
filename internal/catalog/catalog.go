// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads dataset descriptors from the descriptor catalog.
// The default catalog ships embedded in the binary, one JSON record per
// dataset; a directory of descriptor files can override it.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed datasets/*.json
var embeddedCatalog embed.FS

const embeddedDir = "datasets"

// StructureType says whether one DOI covers every year of a dataset or each
// year has its own.
type StructureType string

const (
	StructureSingleDOI StructureType = "single_doi"
	StructureMultiDOI  StructureType = "multi_doi"
)

// Descriptor is the static record describing one dataset's identity, remote
// location, and year coverage. Descriptors are read-only value objects;
// Load parses a fresh copy on every call.
type Descriptor struct {
	// ID is the catalog id, unique and equal to the descriptor file stem.
	ID string `json:"id"`

	// Title is the human-readable dataset title.
	Title string `json:"title"`

	// Authors lists the dataset authors in citation order. May be empty;
	// citation falls back to the publishing organization.
	Authors []string `json:"authors,omitempty"`

	// Description is a short free-text summary.
	Description string `json:"description,omitempty"`

	// Yearly says whether requests must be disambiguated by year.
	Yearly bool `json:"yearly"`

	// StructureType defaults to single_doi when absent.
	StructureType StructureType `json:"structure_type,omitempty"`

	// DOI is the dataset DOI when StructureType is single_doi.
	DOI string `json:"dataverse_doi,omitempty"`

	// DOIMapping maps year to DOI when StructureType is multi_doi.
	DOIMapping map[int]string `json:"doi_mapping,omitempty"`

	// FileMapping optionally overrides the default remote filename
	// convention per year.
	FileMapping map[int]string `json:"file_mapping,omitempty"`

	// AvailableYears explicitly lists covered years when they cannot be
	// derived from DOIMapping or FileMapping.
	AvailableYears []int `json:"available_years,omitempty"`

	// Server optionally overrides the Dataverse host for this dataset.
	Server string `json:"dataverse_server,omitempty"`

	// Version is the dataset version string, when published.
	Version string `json:"version,omitempty"`
}

// Years derives the covered year set, sorted ascending. Priority: DOIMapping
// keys for multi_doi datasets, then FileMapping keys, then the explicit
// AvailableYears list. An empty result for a yearly dataset means the year
// set is unknown; callers must tolerate that.
func (d *Descriptor) Years() []int {
	var years []int
	switch {
	case d.StructureType == StructureMultiDOI && len(d.DOIMapping) > 0:
		for y := range d.DOIMapping {
			years = append(years, y)
		}
	case len(d.FileMapping) > 0:
		for y := range d.FileMapping {
			years = append(years, y)
		}
	case len(d.AvailableYears) > 0:
		years = append(years, d.AvailableYears...)
	}
	sort.Ints(years)
	return years
}

// NotFoundError reports a dataset id absent from the catalog.
type NotFoundError struct {
	ID    string
	Known []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown dataset %q (known datasets: %s)", e.ID, strings.Join(e.Known, ", "))
}

// MalformedError reports a descriptor missing required fields.
type MalformedError struct {
	ID      string
	Missing []string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("descriptor %q is missing required field(s): %s", e.ID, strings.Join(e.Missing, ", "))
}

// Store reads descriptors from the embedded catalog or an override directory.
type Store struct {
	fsys fs.FS
	dir  string
}

// NewStore returns a Store backed by the embedded catalog. If dir is
// non-empty it is used instead, reading {dir}/{id}.json.
func NewStore(dir string) *Store {
	if dir != "" {
		return &Store{fsys: os.DirFS(dir), dir: "."}
	}
	return &Store{fsys: embeddedCatalog, dir: embeddedDir}
}

// IDs returns every descriptor id in the catalog, sorted.
func (s *Store) IDs() []string {
	entries, err := fs.ReadDir(s.fsys, s.dir)
	if err != nil {
		return nil
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids
}

// Load reads and validates the descriptor for id.
func (s *Store) Load(id string) (*Descriptor, error) {
	data, err := fs.ReadFile(s.fsys, path.Join(s.dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{ID: id, Known: s.IDs()}
		}
		return nil, fmt.Errorf("reading descriptor %s: %w", id, err)
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing descriptor %s: %w", id, err)
	}

	if d.ID == "" {
		d.ID = id
	}
	if d.StructureType == "" {
		d.StructureType = StructureSingleDOI
	}

	if missing := d.missingFields(); len(missing) > 0 {
		return nil, &MalformedError{ID: id, Missing: missing}
	}
	return &d, nil
}

func (d *Descriptor) missingFields() []string {
	var missing []string
	if d.Title == "" {
		missing = append(missing, "title")
	}
	switch d.StructureType {
	case StructureSingleDOI:
		if d.DOI == "" {
			missing = append(missing, "dataverse_doi")
		}
	case StructureMultiDOI:
		if len(d.DOIMapping) == 0 {
			missing = append(missing, "doi_mapping")
		}
	default:
		missing = append(missing, "structure_type")
	}
	return missing
}

// Summary is one row of the catalog listing.
type Summary struct {
	ID               string `json:"id" yaml:"id"`
	Title            string `json:"title" yaml:"title"`
	Yearly           bool   `json:"yearly" yaml:"yearly"`
	TemporalCoverage string `json:"temporal_coverage,omitempty" yaml:"temporal_coverage,omitempty"`
}

// List scans every descriptor in the catalog. Individual descriptors that
// fail to parse are skipped with a warning on w; one bad record never hides
// the rest of the catalog.
func (s *Store) List(w io.Writer) []Summary {
	var out []Summary
	for _, id := range s.IDs() {
		d, err := s.Load(id)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping descriptor %s: %v\n", id, err)
			continue
		}
		out = append(out, Summary{
			ID:               d.ID,
			Title:            d.Title,
			Yearly:           d.Yearly,
			TemporalCoverage: coverage(d.Years()),
		})
	}
	return out
}

// coverage formats a year set as "first–last" for display.
func coverage(years []int) string {
	if len(years) == 0 {
		return ""
	}
	if len(years) == 1 {
		return fmt.Sprintf("%d", years[0])
	}
	return fmt.Sprintf("%d–%d", years[0], years[len(years)-1])
}

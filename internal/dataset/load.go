// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"encoding/csv"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/inspercidados/cidados/internal/cache"
	"github.com/inspercidados/cidados/internal/catalog"
	"github.com/inspercidados/cidados/internal/resolve"
	"github.com/inspercidados/cidados/pkg/types"
)

// buildProvenance assembles the provenance record for a freshly fetched
// cache file. DownloadedAt comes from the file's modification time.
func buildProvenance(desc *catalog.Descriptor, year int, target resolve.Target, path string) types.Provenance {
	p := types.Provenance{
		Source:  Source,
		Dataset: desc.ID,
		Year:    year,
		DOI:     target.RemoteID,
		Server:  target.Server,
		Version: desc.Version,
	}
	if info, err := os.Stat(path); err == nil {
		p.DownloadedAt = info.ModTime()
	}
	return p
}

// writeProvenance persists the sidecar next to the cache file.
func writeProvenance(path string, p types.Provenance) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling provenance: %w", err)
	}
	return os.WriteFile(path+cache.MetaSuffix, data, 0o644)
}

// readProvenance loads the sidecar for a cache file. It returns false when
// the sidecar is absent or unreadable; the caller synthesizes one instead.
func readProvenance(path string) (types.Provenance, bool) {
	data, err := os.ReadFile(path + cache.MetaSuffix)
	if err != nil {
		return types.Provenance{}, false
	}
	var p types.Provenance
	if err := yaml.Unmarshal(data, &p); err != nil {
		return types.Provenance{}, false
	}
	return p, true
}

// loadTable reads the cached csv into memory and attaches provenance,
// preferring the sidecar written at fetch time.
func (a *Accessor) loadTable(desc *catalog.Descriptor, year int, path string) (*types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cached dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // municipal exports are ragged more often than not
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading cached dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("cached dataset %s is empty", path)
	}

	table := &types.Table{
		Columns: records[0],
		Rows:    records[1:],
	}

	if p, ok := readProvenance(path); ok {
		table.Provenance = p
		return table, nil
	}

	// No sidecar (externally populated cache): synthesize provenance from
	// the descriptor and file metadata.
	target, err := resolve.Resolve(desc, year, a.cfg, a.cache.Extension())
	if err != nil {
		return nil, err
	}
	table.Provenance = buildProvenance(desc, year, target, path)
	return table, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that talk to the
// Dataverse repository.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "cidados/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for dataset retrieval. Environment overrides
// are read once at startup into this struct; retrieval code never consults
// the environment directly.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Server overrides the Dataverse host globally, regardless of any
	// per-dataset server in the catalog. Empty means no override.
	Server string `json:"server" yaml:"server"`

	// APIToken is the Dataverse API token sent as X-Dataverse-key.
	// Required only for restricted datasets.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`

	// MaxRetries bounds retry attempts on 429 and transient 5xx responses
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the local dataset cache.
type CacheConfig struct {
	// Dir is the cache root. Empty means the platform per-user cache
	// directory under "cidados".
	Dir string `json:"dir" yaml:"dir"`

	// Extension is the tabular cache file extension without the dot
	// (default "csv").
	Extension string `json:"extension" yaml:"extension"`
}

// SyncConfig holds settings for the bulk prefetch path.
type SyncConfig struct {
	FetchConfig `yaml:",inline"`

	// RequestsPerSecond limits the download rate across the whole run
	// (default 1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// SurveyConfig holds settings for the mobility-survey harmonization pipeline.
type SurveyConfig struct {
	// InputDir contains one workbook per survey year, named
	// pemob_{year}.xlsx.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives the harmonized long table (csv) and the SQLite
	// database.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MappingFile optionally overrides the built-in per-year column
	// mappings with a YAML file.
	MappingFile string `json:"mapping_file,omitempty" yaml:"mapping_file,omitempty"`
}

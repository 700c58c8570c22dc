// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataverse fetches dataset files from a Dataverse repository.
// Given a resolved (server, DOI, filename) target it locates the file in the
// dataset's latest version, downloads it, re-encodes spreadsheet wire
// formats into the tabular cache format, and installs the result atomically.
package dataverse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/inspercidados/cidados/internal/httputil"
	"github.com/inspercidados/cidados/internal/resolve"
	"github.com/inspercidados/cidados/pkg/types"
)

const defaultUserAgent = "cidados/0.1"

// Client talks to the Dataverse native and access APIs.
type Client struct {
	httpClient *http.Client
	cfg        types.FetchConfig
}

// NewClient builds a Client from cfg. A zero timeout keeps the request
// unbounded, matching blocking-download semantics; callers that want a bound
// set cfg.Timeout.
func NewClient(cfg types.FetchConfig) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// Dataset listing response, trimmed to the fields the fetch path needs.
type datasetResponse struct {
	Status string      `json:"status"`
	Data   datasetData `json:"data"`
}

type datasetData struct {
	LatestVersion datasetVersion `json:"latestVersion"`
}

type datasetVersion struct {
	VersionNumber      int         `json:"versionNumber"`
	VersionMinorNumber int         `json:"versionMinorNumber"`
	ReleaseTime        string      `json:"releaseTime"`
	Files              []fileEntry `json:"files"`
}

type fileEntry struct {
	Label    string   `json:"label"`
	DataFile dataFile `json:"dataFile"`
}

type dataFile struct {
	ID               int64  `json:"id"`
	Filename         string `json:"filename"`
	OriginalFileName string `json:"originalFileName"`
	ContentType      string `json:"contentType"`
	FileSize         int64  `json:"filesize"`
}

// get issues one classified GET. Non-2xx statuses are mapped onto the error
// taxonomy; retry on 429/transient 5xx happens inside DoWithRetry.
func (c *Client) get(ctx context.Context, rawURL string, target resolve.Target, what string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{Target: target, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.APIToken != "" {
		req.Header.Set("X-Dataverse-key", c.cfg.APIToken)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, &TransportError{Target: target, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, &AuthError{Target: target, Status: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, &NotFoundError{Target: target, What: what}
	default:
		resp.Body.Close()
		return nil, &TransportError{Target: target, Status: resp.StatusCode}
	}
}

// listFiles retrieves the latest version of the dataset identified by the
// target's DOI.
func (c *Client) listFiles(ctx context.Context, target resolve.Target) (*datasetVersion, error) {
	u := fmt.Sprintf("%s/api/datasets/:persistentId/?persistentId=doi:%s",
		strings.TrimSuffix(target.Server, "/"), url.QueryEscape(target.RemoteID))

	resp, err := c.get(ctx, u, target, "dataset")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var dr datasetResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, &TransportError{Target: target, Err: fmt.Errorf("parsing dataset listing: %w", err)}
	}
	return &dr.Data.LatestVersion, nil
}

// findFile locates the target filename in a dataset version, matching the
// display label first, then the stored and original filenames.
func findFile(version *datasetVersion, filename string) (*fileEntry, bool) {
	for i := range version.Files {
		f := &version.Files[i]
		if f.Label == filename || f.DataFile.Filename == filename || f.DataFile.OriginalFileName == filename {
			return f, true
		}
	}
	return nil, false
}

// Fetch downloads the target into destPath. The file is first written to a
// temporary path in the destination directory, re-encoded into the cache's
// tabular format when the wire format differs, and renamed into place only
// on success. Failed fetches leave no partial cache entry.
func (c *Client) Fetch(ctx context.Context, target resolve.Target, destPath string) error {
	version, err := c.listFiles(ctx, target)
	if err != nil {
		return err
	}

	entry, ok := findFile(version, target.Filename)
	if !ok {
		return &NotFoundError{Target: target, What: "file"}
	}

	u := fmt.Sprintf("%s/api/access/datafile/%d?format=original",
		strings.TrimSuffix(target.Server, "/"), entry.DataFile.ID)
	resp, err := c.get(ctx, u, target, "file")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	return writeAtomic(resp.Body, target.Filename, destPath)
}

// writeAtomic streams body to a temp file next to destPath, converts
// spreadsheet formats to the cache format, and renames into place.
func writeAtomic(body io.Reader, remoteName, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return &StaleWriteError{Path: destPath, Err: err}
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return &StaleWriteError{Path: destPath, Err: copyErr}
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return &StaleWriteError{Path: destPath, Err: closeErr}
	}

	encodedPath, err := reencode(tmpPath, remoteName, destPath)
	if err != nil {
		os.Remove(tmpPath)
		return &StaleWriteError{Path: destPath, Err: err}
	}

	if err := os.Rename(encodedPath, destPath); err != nil {
		os.Remove(encodedPath)
		os.Remove(tmpPath)
		return &StaleWriteError{Path: destPath, Err: err}
	}
	if encodedPath != tmpPath {
		os.Remove(tmpPath)
	}
	return nil
}

// RemoteInfo is the best-effort enrichment fetched for dataset info calls.
type RemoteInfo struct {
	Version     string `json:"version" yaml:"version"`
	ReleaseTime string `json:"release_time,omitempty" yaml:"release_time,omitempty"`
	FileCount   int    `json:"file_count" yaml:"file_count"`
}

// DatasetInfo fetches version metadata for the target's DOI. Callers treat
// failures as a degraded (local-only) result, not a fatal error.
func (c *Client) DatasetInfo(ctx context.Context, target resolve.Target) (*RemoteInfo, error) {
	version, err := c.listFiles(ctx, target)
	if err != nil {
		return nil, err
	}
	return &RemoteInfo{
		Version:     fmt.Sprintf("%d.%d", version.VersionNumber, version.VersionMinorNumber),
		ReleaseTime: version.ReleaseTime,
		FileCount:   len(version.Files),
	}, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataverse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/inspercidados/cidados/internal/resolve"
	"github.com/inspercidados/cidados/pkg/types"
)

// fakeDataverse serves the two API routes the client uses: the dataset
// listing and per-file access. File ids are assigned by insertion order.
type fakeDataverse struct {
	doi      string
	names    []string
	contents map[string][]byte
	status   int // non-zero forces this status on every request
	requests []*http.Request
}

func (f *fakeDataverse) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, r.Clone(context.Background()))

		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}

		switch {
		case strings.HasPrefix(r.URL.Path, "/api/datasets/:persistentId/"):
			if r.URL.Query().Get("persistentId") != "doi:"+f.doi {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var files []string
			for i, name := range f.names {
				files = append(files, fmt.Sprintf(
					`{"label": %q, "dataFile": {"id": %d, "filename": %q, "filesize": %d}}`,
					name, i+1, name, len(f.contents[name])))
			}
			fmt.Fprintf(w, `{"status": "OK", "data": {"latestVersion": {
				"versionNumber": 2, "versionMinorNumber": 1,
				"releaseTime": "2024-03-01T12:00:00Z",
				"files": [%s]}}}`, strings.Join(files, ","))

		case strings.HasPrefix(r.URL.Path, "/api/access/datafile/"):
			var id int
			fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/api/access/datafile/"), "%d", &id)
			if id < 1 || id > len(f.names) {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write(f.contents[f.names[id-1]])

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTarget(server, filename string) resolve.Target {
	return resolve.Target{RemoteID: "10.1/ABC", Filename: filename, Server: server}
}

func TestFetchCSV(t *testing.T) {
	fake := &fakeDataverse{
		doi:      "10.1/ABC",
		names:    []string{"pemob.csv"},
		contents: map[string][]byte{"pemob.csv": []byte("a,b\n1,2\n")},
	}
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "pemob.csv")
	client := NewClient(types.FetchConfig{})

	if err := client.Fetch(context.Background(), newTarget(ts.URL, "pemob.csv"), dest); err != nil {
		t.Fatalf("Fetch = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("cached content = %q", data)
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(dest))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".fetch-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestFetchSendsToken(t *testing.T) {
	fake := &fakeDataverse{
		doi:      "10.1/ABC",
		names:    []string{"pemob.csv"},
		contents: map[string][]byte{"pemob.csv": []byte("a\n1\n")},
	}
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	client := NewClient(types.FetchConfig{APIToken: "tok_123"})
	dest := filepath.Join(t.TempDir(), "pemob.csv")
	if err := client.Fetch(context.Background(), newTarget(ts.URL, "pemob.csv"), dest); err != nil {
		t.Fatalf("Fetch = %v", err)
	}

	for _, r := range fake.requests {
		if r.Header.Get("X-Dataverse-key") != "tok_123" {
			t.Errorf("request %s missing API token header", r.URL.Path)
		}
	}
}

func TestFetchReencodesTab(t *testing.T) {
	fake := &fakeDataverse{
		doi:      "10.1/ABC",
		names:    []string{"iptu_2024.tab"},
		contents: map[string][]byte{"iptu_2024.tab": []byte("a\tb\n1\t2\n")},
	}
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "iptu_sp_2024.csv")
	client := NewClient(types.FetchConfig{})

	if err := client.Fetch(context.Background(), newTarget(ts.URL, "iptu_2024.tab"), dest); err != nil {
		t.Fatalf("Fetch = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("re-encoded content = %q, want csv", data)
	}
}

func TestFetchReencodesXLSX(t *testing.T) {
	wb := excelize.NewFile()
	wb.SetSheetRow("Sheet1", "A1", &[]interface{}{"zona", "viagens"})
	wb.SetSheetRow("Sheet1", "A2", &[]interface{}{"1", "1500"})
	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatal(err)
	}

	fake := &fakeDataverse{
		doi:      "10.1/ABC",
		names:    []string{"OD_2017.xlsx"},
		contents: map[string][]byte{"OD_2017.xlsx": buf.Bytes()},
	}
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "od_sp_2017.csv")
	client := NewClient(types.FetchConfig{})

	if err := client.Fetch(context.Background(), newTarget(ts.URL, "OD_2017.xlsx"), dest); err != nil {
		t.Fatalf("Fetch = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "zona,viagens\n1,1500\n" {
		t.Errorf("re-encoded content = %q", data)
	}
}

func TestFetchClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "forbidden is an auth error",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				var ae *AuthError
				if !errors.As(err, &ae) {
					t.Fatalf("err = %v, want AuthError", err)
				}
				if !strings.Contains(ae.Error(), "CIDADOS_DATAVERSE_TOKEN") {
					t.Errorf("auth error should name the token env var: %v", ae)
				}
			},
		},
		{
			name:   "missing dataset is a not-found error",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("err = %v, want NotFoundError", err)
				}
			},
		},
		{
			name:   "server error is a transport error",
			status: http.StatusTeapot,
			check: func(t *testing.T, err error) {
				var te *TransportError
				if !errors.As(err, &te) {
					t.Fatalf("err = %v, want TransportError", err)
				}
				if !strings.Contains(te.Error(), "10.1/ABC") {
					t.Errorf("transport error should carry the DOI: %v", te)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDataverse{status: tt.status}
			ts := httptest.NewServer(fake.handler())
			defer ts.Close()

			dest := filepath.Join(t.TempDir(), "pemob.csv")
			client := NewClient(types.FetchConfig{})

			err := client.Fetch(context.Background(), newTarget(ts.URL, "pemob.csv"), dest)
			if err == nil {
				t.Fatal("Fetch should fail")
			}
			tt.check(t, err)

			if _, statErr := os.Stat(dest); statErr == nil {
				t.Error("failed fetch must not leave a cache entry")
			}
		})
	}
}

func TestFetchFileMissingFromListing(t *testing.T) {
	fake := &fakeDataverse{
		doi:      "10.1/ABC",
		names:    []string{"other.csv"},
		contents: map[string][]byte{"other.csv": []byte("x\n")},
	}
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "pemob.csv")
	err := NewClient(types.FetchConfig{}).Fetch(context.Background(), newTarget(ts.URL, "pemob.csv"), dest)

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.What != "file" {
		t.Errorf("What = %q, want file", nf.What)
	}
}

func TestDatasetInfo(t *testing.T) {
	fake := &fakeDataverse{
		doi:      "10.1/ABC",
		names:    []string{"pemob.csv", "README.md"},
		contents: map[string][]byte{"pemob.csv": []byte("a\n"), "README.md": []byte("#")},
	}
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	info, err := NewClient(types.FetchConfig{}).DatasetInfo(context.Background(), newTarget(ts.URL, "pemob.csv"))
	if err != nil {
		t.Fatalf("DatasetInfo = %v", err)
	}
	if info.Version != "2.1" {
		t.Errorf("Version = %q, want 2.1", info.Version)
	}
	if info.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", info.FileCount)
	}
	if info.ReleaseTime == "" {
		t.Error("ReleaseTime should be set")
	}
}

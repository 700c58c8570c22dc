// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataverse

import (
	"fmt"

	"github.com/inspercidados/cidados/internal/resolve"
)

// AuthError reports a 401/403 from the repository. Restricted datasets need
// an API token.
type AuthError struct {
	Target resolve.Target
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf(
		"authentication failed (HTTP %d) fetching %s from %s: set CIDADOS_DATAVERSE_TOKEN or .secrets/dataverse-api-token",
		e.Status, e.Target.RemoteID, e.Target.Server)
}

// NotFoundError reports a missing remote dataset or file.
type NotFoundError struct {
	Target resolve.Target
	What   string // "dataset" or "file"
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(
		"%s not found on %s (doi %s, file %s): check the DOI, the filename, and whether the dataset is published",
		e.What, e.Target.Server, e.Target.RemoteID, e.Target.Filename)
}

// TransportError reports any other remote failure, with full request context.
type TransportError struct {
	Target resolve.Target
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s (doi %s, file %s): %v",
			e.Target.Server, e.Target.RemoteID, e.Target.Filename, e.Err)
	}
	return fmt.Sprintf("fetching %s (doi %s, file %s): HTTP %d",
		e.Target.Server, e.Target.RemoteID, e.Target.Filename, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StaleWriteError reports a failed or interrupted cache write. The partial
// file is removed before this error is returned, so a failed fetch never
// leaves a corrupt cache entry behind.
type StaleWriteError struct {
	Path string
	Err  error
}

func (e *StaleWriteError) Error() string {
	return fmt.Sprintf("writing cache file %s: %v (partial file removed)", e.Path, e.Err)
}

func (e *StaleWriteError) Unwrap() error { return e.Err }

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import "fmt"

// YearRequiredError reports a yearly dataset requested without a year.
type YearRequiredError struct {
	ID    string
	Years []int
}

func (e *YearRequiredError) Error() string {
	if len(e.Years) == 0 {
		return fmt.Sprintf("dataset %q is yearly: pass a year (year coverage unknown, check the catalog entry)", e.ID)
	}
	return fmt.Sprintf("dataset %q is yearly: pass a year (available: %v)", e.ID, e.Years)
}

// YearNotAvailableError reports a year outside the dataset's coverage.
type YearNotAvailableError struct {
	ID    string
	Year  int
	Years []int
}

func (e *YearNotAvailableError) Error() string {
	return fmt.Sprintf("dataset %q has no year %d (available: %v)", e.ID, e.Year, e.Years)
}

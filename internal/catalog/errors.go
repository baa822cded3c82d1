package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed means the relay returned the sentinel for the page.
	ErrFetchFailed = errors.New("failed to fetch page")
	// ErrEmptyExtraction means the page was fetched but yielded nothing.
	ErrEmptyExtraction = errors.New("no content found on page")
)

// ValidationError is a missing or malformed request parameter.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

func required(param string) error {
	return &ValidationError{Param: param, Reason: "is required"}
}

package nhl

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is wrapped by FetchError when the feed answers with a
// non-success status code.
var ErrUnexpectedStatus = errors.New("unexpected status")

// FetchError reports a failed read from the feed: a transport failure, a
// non-success status, or a body that could not be decoded.
type FetchError struct {
	Path       string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("nhl: fetching %s: status %d: %v", e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("nhl: fetching %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

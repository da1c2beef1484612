package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a fetch produced no data.
type ErrorKind string

const (
	// ErrorKindTransport covers connection errors, timeouts and non-2xx statuses.
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindDecode covers corrupt compressed bodies and invalid UTF-8 text.
	ErrorKindDecode ErrorKind = "decode"

	// ErrorKindParse covers malformed JSON.
	ErrorKindParse ErrorKind = "parse"

	// ErrorKindShape covers valid JSON that lacks a truthy "data" field.
	ErrorKindShape ErrorKind = "shape"
)

// Shape validation failures.
var (
	// ErrNotObject is returned when the parsed body is not a JSON object.
	ErrNotObject = errors.New("payload is not an object")

	// ErrMissingData is returned when the object has no "data" key.
	ErrMissingData = errors.New("payload has no data field")

	// ErrEmptyData is returned when "data" is null, false, zero, "" or empty.
	ErrEmptyData = errors.New("payload data field is empty")
)

// FetchError describes a failed pipeline stage. It never crosses the Fetch
// boundary; it exists so every failure is logged and counted with its kind.
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error for %s (status %d): %v", e.Kind, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s error for %s: %v", e.Kind, e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

func newFetchError(kind ErrorKind, url string, err error) *FetchError {
	return &FetchError{Kind: kind, URL: url, Err: err}
}

// kindOf returns the ErrorKind carried by err, or "" if err is not a FetchError.
func kindOf(err error) ErrorKind {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}
	return ""
}

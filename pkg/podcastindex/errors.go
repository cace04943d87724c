package podcastindex

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error kinds. Every error returned by this package wraps exactly one of
// them, so callers can branch with errors.Is.
var (
	// ErrConfiguration is returned when credentials or the base URL
	// are missing.
	ErrConfiguration = errors.New("podcastindex: configuration error")

	// ErrInvalidInput is returned when a required argument is empty.
	// No request is sent.
	ErrInvalidInput = errors.New("podcastindex: invalid input")

	// ErrNotFound is returned when the API reports that nothing matches.
	ErrNotFound = errors.New("podcastindex: not found")

	// ErrNetwork is returned on timeouts and transport failures.
	ErrNetwork = errors.New("podcastindex: network error")

	// ErrUpstream is returned when the API answers with a non-200 status
	// or a body that cannot be decoded.
	ErrUpstream = errors.New("podcastindex: upstream error")

	// ErrMissingData is returned when a structurally required field is
	// absent, e.g. a playlist feed without an RSS URL.
	ErrMissingData = errors.New("podcastindex: missing data")
)

// Error represents a failed Podcast Index operation.
//
// The Error type carries the kind of failure together with enough
// context (operation, guid, HTTP status) to log or retry externally.
type Error struct {
	Kind       error  // One of the Err* kinds above
	Op         string // Operation that failed, e.g. "podcasts/byguid"
	GUID       string // Guid or query the operation was called with
	StatusCode int    // HTTP status code for ErrUpstream
	Status     string // HTTP status text for ErrUpstream
	Message    string // Human readable detail
	Err        error  // Underlying error, if any
}

// Error returns the error message.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.GUID != "" {
		fmt.Fprintf(&b, " (%s)", e.GUID)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d %s", e.StatusCode, e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports whether target is the kind of this error.
//
// This allows errors.Is(err, ErrNotFound) to work with *Error values.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Temporary returns true if the request may succeed when repeated.
//
// Network failures, 429 Too Many Requests and 5xx responses are
// considered temporary. This package never retries on its own.
func (e *Error) Temporary() bool {
	switch e.Kind {
	case ErrNetwork:
		return true
	case ErrUpstream:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

func invalidInput(op, message string) error {
	return &Error{Kind: ErrInvalidInput, Op: op, Message: message}
}

func notFound(op, guid, message string) error {
	return &Error{Kind: ErrNotFound, Op: op, GUID: guid, Message: message}
}

// IsTemporary reports whether err is a temporary *Error.
func IsTemporary(err error) bool {
	var piErr *Error
	if errors.As(err, &piErr) {
		return piErr.Temporary()
	}
	return false
}

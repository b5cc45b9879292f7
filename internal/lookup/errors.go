package lookup

import (
	"errors"
)

var (
	ErrEmptyQuery         = errors.New("please enter a city name")
	ErrLocationNotFound   = errors.New("location not found")
	ErrNoMatchingLocation = errors.New("no matching location found")
	ErrUpstream           = errors.New("upstream request failed")
)

// UpstreamError wraps a failure of either outbound call. It matches both
// ErrUpstream and the underlying cause with errors.Is.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstream, e.Err}
}

// Outcome labels, shared by metrics and the HTTP layer.
const (
	OutcomeOK                 = "ok"
	OutcomeEmptyQuery         = "empty_query"
	OutcomeLocationNotFound   = "location_not_found"
	OutcomeNoMatchingLocation = "no_matching_location"
	OutcomeUpstreamError      = "upstream_error"
	OutcomeUnknown            = "unknown"
)

// Kind classifies err into one of the outcome labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrEmptyQuery):
		return OutcomeEmptyQuery
	case errors.Is(err, ErrLocationNotFound):
		return OutcomeLocationNotFound
	case errors.Is(err, ErrNoMatchingLocation):
		return OutcomeNoMatchingLocation
	case errors.Is(err, ErrUpstream):
		return OutcomeUpstreamError
	default:
		return OutcomeUnknown
	}
}

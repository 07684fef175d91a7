package coordinator

import "errors"

// Failure categories. Errors returned by the coordinator wrap exactly one of
// these together with the underlying cause.
var (
	ErrResolution     = errors.New("query resolution failed")
	ErrSearchProvider = errors.New("place search failed")
	ErrRanking        = errors.New("ranking failed")
)

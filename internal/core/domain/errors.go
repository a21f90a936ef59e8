package domain

import "errors"

var (
	// ErrPropertyNotFound - no tier produced a match. A valid outcome, not a failure.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrDataSourceUnavailable - the relational store could not serve the request.
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	ErrInvalidFilter         = errors.New("invalid filter")
)

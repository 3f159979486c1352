package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnsupportedFormat is returned when an uploaded report is neither CSV nor XLSX
	ErrUnsupportedFormat = errors.New("unsupported report format")

	// ErrReportNotFound is returned when no stored result exists for a report ID
	ErrReportNotFound = errors.New("report not found")

	// ErrUnknownTable is returned when a result table name is not recognized
	ErrUnknownTable = errors.New("unknown result table")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreUnavailable is returned when the result store cannot be reached
	ErrStoreUnavailable = errors.New("result store unavailable")
)

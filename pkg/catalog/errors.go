package catalog

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid catalog client configuration")

	// ErrCatalogUnavailable is returned when the feed cannot be fetched or
	// reports a non-success status
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

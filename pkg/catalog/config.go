package catalog

import "time"

// Config represents the configuration for the catalog feed client
type Config struct {
	// SourceURL is the endpoint serving the raw product feed
	SourceURL string

	// RequestTimeout bounds a single fetch round trip
	RequestTimeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SourceURL == "" {
		return ErrInvalidConfig
	}
	return nil
}

package backend

import (
	"errors"
	"net/url"
	"strings"
)

// DefaultMaxResponseSize caps backend responses at 5MB
const DefaultMaxResponseSize = 5 * 1024 * 1024

// Errors for backend configuration
var (
	ErrConfigMissingBaseURL = errors.New("backend: base URL is required")
	ErrConfigInvalidBaseURL = errors.New("backend: base URL must be an absolute http(s) URL")
)

// Config holds the encargos backend connection settings
type Config struct {
	// BaseURL is the backend API root, e.g. https://api.example.com
	BaseURL string
	// MaxResponseSize is the maximum number of body bytes read per response
	MaxResponseSize int64
}

// Validate checks the configuration and fills defaults
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrConfigInvalidBaseURL
	}
	if c.MaxResponseSize <= 0 {
		c.MaxResponseSize = DefaultMaxResponseSize
	}
	return nil
}

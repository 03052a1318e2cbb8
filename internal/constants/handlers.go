package constants

import "time"

// HTTP server constants
const (
	// DefaultServePort is the default port of the results API
	DefaultServePort = 8085

	// ServerReadTimeout is the read timeout of the results API
	ServerReadTimeout = 30 * time.Second

	// ServerWriteTimeout is the write timeout of the results API
	ServerWriteTimeout = 60 * time.Second

	// ServerIdleTimeout is the idle timeout of the results API
	ServerIdleTimeout = 60 * time.Second
)

// Oracle transport constants
const (
	// OracleHTTPTimeout bounds a single request to an HTTP saliency server
	OracleHTTPTimeout = 2 * time.Minute

	// DatabasePingTimeout bounds the initial connectivity check of SQL result stores
	DatabasePingTimeout = 10 * time.Second
)

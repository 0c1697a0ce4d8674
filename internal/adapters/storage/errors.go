package storage

import "errors"

// Sentinel kinds for backing store connectivity.
var (
	// ErrConnectivity wraps every failure to establish a store connection.
	ErrConnectivity = errors.New("store unreachable")
	// ErrClosed is returned by Get after Close.
	ErrClosed = errors.New("store connector closed")
	// ErrUnsupportedScheme is returned for connection strings no backend understands.
	ErrUnsupportedScheme = errors.New("unsupported connection string scheme")
)

package storage

import (
	"fmt"
	"strings"
)

// Backend names a supported backing store.
type Backend string

// Supported backends.
const (
	BackendMongo    Backend = "mongodb"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendMemory   Backend = "memory"
)

// ParseBackend selects the backend from the connection string scheme.
func ParseBackend(databaseURL string) (Backend, error) {
	u := strings.TrimSpace(databaseURL)
	scheme, _, found := strings.Cut(u, ":")
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, redact(u))
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "sqlite", "file":
		return BackendSQLite, nil
	case "memory":
		return BackendMemory, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
}

// redact strips anything after the scheme so credentials never reach logs.
func redact(databaseURL string) string {
	if scheme, _, ok := strings.Cut(databaseURL, "://"); ok {
		return scheme + "://…"
	}
	if len(databaseURL) > 8 {
		return databaseURL[:8] + "…"
	}
	return databaseURL
}

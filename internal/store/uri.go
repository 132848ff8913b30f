package store

import (
	"fmt"
	"strings"
)

const memoryDSN = ":memory:"

// ParseURI converts a connection URI into a go-sqlite3 DSN.
//
// Accepted forms:
//   - sqlite://<path>       path may be relative or absolute
//   - sqlite::memory:       private in-memory database
//   - file:<path>[?params]  passed to the driver unchanged
//   - <path>                a bare filesystem path
//
// Any other scheme returns ErrUnsupportedScheme.
func ParseURI(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", fmt.Errorf("parse uri: %w", ErrEmptyURI)
	}

	switch {
	case uri == "sqlite::memory:" || uri == memoryDSN:
		return memoryDSN, nil
	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		if path == "" {
			return "", fmt.Errorf("parse uri %q: %w", uri, ErrEmptyURI)
		}
		return path, nil
	case strings.HasPrefix(uri, "file:"):
		return uri, nil
	}

	if scheme, _, ok := strings.Cut(uri, "://"); ok {
		return "", fmt.Errorf("parse uri: %w: %q", ErrUnsupportedScheme, scheme)
	}
	return uri, nil
}

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched (via errors.Is) by every lookup that finds no
	// document.
	ErrNotFound = errors.New("document not found")

	// ErrClosed is returned by operations on a closed Store.
	ErrClosed = errors.New("store is closed")

	// ErrEmptyURI is returned when no connection URI is given.
	ErrEmptyURI = errors.New("empty connection uri")

	// ErrUnsupportedScheme is returned for connection URIs the store cannot
	// open, such as mongodb://.
	ErrUnsupportedScheme = errors.New("unsupported connection scheme")

	// ErrInvalidDocument is returned for bodies that are not JSON objects.
	ErrInvalidDocument = errors.New("invalid document")
)

// NotFoundError reports a lookup that matched nothing. ID is empty for
// filter-based lookups.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: no document with id %s", e.Collection, e.ID)
	}
	return fmt.Sprintf("%s: no matching document", e.Collection)
}

// Is makes errors.Is(err, ErrNotFound) true for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports a document rejected by the collection's Validator.
// Nothing is written when it is returned.
type ValidationError struct {
	Collection string
	Err        error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %v", e.Collection, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

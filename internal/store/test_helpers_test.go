package store

import (
	"fmt"
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestCollection returns a collection with deterministic ids
// "doc-01", "doc-02", ... and the given options applied.
func createTestCollection(t *testing.T, opts ...CollectionOption) *Collection {
	t.Helper()
	ids := make([]string, 64)
	for i := range ids {
		ids[i] = fmt.Sprintf("doc-%02d", i+1)
	}
	opts = append([]CollectionOption{WithIDGenerator(NewFixedGenerator(ids...))}, opts...)
	return createTestStore(t).Database("mangoose").Collection("people", opts...)
}

// validatorFunc adapts a function to Validator.
type validatorFunc func(body []byte) error

func (f validatorFunc) Validate(body []byte) error { return f(body) }

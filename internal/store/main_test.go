package store

import (
	"testing"

	"go.uber.org/goleak"
)

// Every test closes its Store; a leaked connection opener goroutine means a
// handle was not released.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

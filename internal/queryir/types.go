package queryir

// IDField is the reserved field that addresses the store-assigned identifier.
const IDField = "_id"

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Equals: field = value
//   - Contains: array field has an element equal to value
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Equals matches documents whose field equals a scalar value.
//
// Example:
//
//	Equals{Field: "name", Value: "Mary"}
//
// A document missing the field never matches.
type Equals struct {
	Field string
	Value any
}

func (Equals) predicateNode() {}

// Contains matches documents whose array field has at least one element equal
// to Value.
//
// Example:
//
//	Contains{Field: "favoriteFoods", Value: "burritos"}
//
// A scalar field matches when it equals Value; a missing field never matches.
type Contains struct {
	Field string
	Value any
}

func (Contains) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// An empty Predicates slice is vacuously true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// SortKey orders results by a single field.
type SortKey struct {
	Field      string
	Descending bool
}

// Find is a complete read query: filter, then sort, then limit, then
// projection.
//
// The zero value matches every document in insertion order.
type Find struct {
	// Filter selects documents (nil = all).
	Filter Predicate

	// Sort lists sort keys in priority order. Insertion order is always the
	// final tiebreaker.
	Sort []SortKey

	// Limit caps the number of results (0 = unlimited).
	Limit int

	// Exclude lists top-level fields removed from returned documents.
	Exclude []string
}

// Where returns a Find with only a filter set.
func Where(p Predicate) Find {
	return Find{Filter: p}
}

// Assignment sets a single top-level field.
type Assignment struct {
	Field string
	Value any
}

// Update describes a field-level modification applied in place.
type Update struct {
	Set []Assignment
}

// Set returns an Update assigning a single field.
func Set(field string, value any) Update {
	return Update{Set: []Assignment{{Field: field, Value: value}}}
}

// ReturnDocument selects which image a find-and-modify operation returns.
type ReturnDocument int

const (
	// ReturnBefore returns the document as it was before modification.
	ReturnBefore ReturnDocument = iota
	// ReturnAfter returns the document after modification.
	ReturnAfter
)

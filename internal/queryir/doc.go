// Package queryir provides the abstract query representation used by the
// document store.
//
// A query is a single value rather than a chain of builder calls:
//
//	queryir.Find{
//	    Filter:  queryir.Contains{Field: "favoriteFoods", Value: "burritos"},
//	    Sort:    []queryir.SortKey{{Field: "name"}},
//	    Limit:   2,
//	    Exclude: []string{"age"},
//	}
//
// The pipeline is always filter → sort → limit → projection, regardless of
// the order in which the fields were set.
//
// SEALED INTERFACES:
//
// Predicate is sealed using the marker method pattern. Only types in this
// package implement it, so backends can switch exhaustively:
//
//	switch p := pred.(type) {
//	case Equals:
//	case Contains:
//	case And:
//	}
//
// FIELDS:
//
// Field names are top-level document keys. The reserved field "_id" refers to
// the store-assigned identifier; it can be filtered and sorted on but never
// assigned or excluded.
//
// VALUES:
//
// Filter values are scalars: string, bool, any Go integer type, float32 or
// float64. Update values may additionally be a []string, which replaces the
// whole array.
package queryir

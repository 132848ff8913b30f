// Package store provides a SQLite-backed document store.
//
// Documents are JSON objects grouped into collections, and collections are
// grouped into named logical databases. Everything lives in one table:
//
//	documents(seq, id, db, collection, body)
//
// # Critical Patterns
//
// Identity: every document gets an opaque string id from the collection's
// IDGenerator. The id is never part of the stored body; a "_id" key in an
// incoming body is dropped.
//
// Ordering: seq is the insertion sequence. Every read ends its ORDER BY with
// seq ASC, so "first match" means first inserted unless a sort says otherwise.
//
// Atomicity: multi-document inserts and find-and-modify operations each run
// in a single transaction. The pool is capped at one connection.
//
// Normalization: strings in bodies and in query values are NFC normalized
// before they reach SQLite.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

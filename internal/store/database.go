package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/mangoose/internal/querysql"
)

// Database is a named logical database on a Store connection.
type Database struct {
	store *Store
	name  string
}

// Name returns the logical database name.
func (d *Database) Name() string {
	return d.name
}

// Collection returns a handle to a named collection. Collections need no
// explicit creation; they exist once they hold a document.
func (d *Database) Collection(name string, opts ...CollectionOption) *Collection {
	c := &Collection{
		db:   d,
		name: name,
		ids:  UUIDv7Generator{},
		compiler: querysql.NewCompiler(querysql.Namespace{
			Database:   d.name,
			Collection: name,
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collections returns the names of the non-empty collections, sorted.
// Returns an empty slice (not nil) for an empty database.
func (d *Database) Collections(ctx context.Context) ([]string, error) {
	db, err := d.store.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT collection FROM documents
		WHERE db = ?
		ORDER BY collection COLLATE BINARY ASC
	`, d.name)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}
	return names, nil
}

// Drop deletes every document in the logical database and returns how many
// were removed.
func (d *Database) Drop(ctx context.Context) (int64, error) {
	db, err := d.store.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM documents WHERE db = ?`, d.name)
	if err != nil {
		return 0, fmt.Errorf("drop database %s: %w", d.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("drop database %s: rows affected: %w", d.name, err)
	}
	return n, nil
}

// Validator checks a canonical document body before it is written.
type Validator interface {
	Validate(body []byte) error
}

// CollectionOption configures a Collection.
type CollectionOption func(*Collection)

// WithValidator rejects documents the validator refuses, on every write path.
func WithValidator(v Validator) CollectionOption {
	return func(c *Collection) {
		c.validator = v
	}
}

// WithIDGenerator replaces the default UUIDv7 id generator.
func WithIDGenerator(g IDGenerator) CollectionOption {
	return func(c *Collection) {
		c.ids = g
	}
}

// Collection is a named group of documents in one logical database.
type Collection struct {
	db        *Database
	name      string
	validator Validator
	ids       IDGenerator
	compiler  *querysql.Compiler
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Record is a stored document.
type Record struct {
	ID   string
	Seq  int64 // Insertion sequence
	Body json.RawMessage
}

// Decode unmarshals the record body into v.
func (r Record) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode %s: %w", r.ID, err)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the live handle or ErrClosed.
func (s *Store) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

func (c *Collection) notFound(id string) error {
	return &NotFoundError{Collection: c.name, ID: id}
}

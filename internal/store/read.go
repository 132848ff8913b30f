package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/mangoose/internal/queryir"
)

// Find returns every document matching the query.
// Returns an empty slice (not nil) when nothing matches.
func (c *Collection) Find(ctx context.Context, q queryir.Find) ([]Record, error) {
	db, err := c.db.store.conn()
	if err != nil {
		return nil, err
	}
	return c.find(ctx, db, q)
}

// FindOne returns the first document matching the query, or a NotFoundError.
func (c *Collection) FindOne(ctx context.Context, q queryir.Find) (Record, error) {
	db, err := c.db.store.conn()
	if err != nil {
		return Record{}, err
	}
	return c.findOne(ctx, db, q)
}

// FindByID returns the document with the given id, or a NotFoundError
// carrying the id.
func (c *Collection) FindByID(ctx context.Context, id string) (Record, error) {
	db, err := c.db.store.conn()
	if err != nil {
		return Record{}, err
	}
	return c.findByID(ctx, db, id)
}

// Count returns the number of documents matching filter (nil = all).
func (c *Collection) Count(ctx context.Context, filter queryir.Predicate) (int64, error) {
	db, err := c.db.store.conn()
	if err != nil {
		return 0, err
	}

	query, params, err := c.compiler.CompileCount(filter)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}

	var n int64
	if err := db.QueryRowContext(ctx, query, params...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (c *Collection) find(ctx context.Context, q querier, find queryir.Find) ([]Record, error) {
	query, params, err := c.compiler.CompileFind(find)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return records, nil
}

func (c *Collection) findOne(ctx context.Context, q querier, find queryir.Find) (Record, error) {
	find.Limit = 1
	records, err := c.find(ctx, q, find)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, c.notFound("")
	}
	return records[0], nil
}

func (c *Collection) findByID(ctx context.Context, q querier, id string) (Record, error) {
	rec, err := c.findOne(ctx, q, queryir.Where(queryir.Equals{Field: queryir.IDField, Value: id}))
	if errors.Is(err, ErrNotFound) {
		return Record{}, c.notFound(id)
	}
	return rec, err
}

// scanRecord reads (id, seq, body) from the current row.
func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec  Record
		body string
	)
	if err := rows.Scan(&rec.ID, &rec.Seq, &body); err != nil {
		return Record{}, fmt.Errorf("scan document: %w", err)
	}
	rec.Body = []byte(body)
	return rec, nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/mangoose/internal/queryir"
)

// InsertOne validates and inserts a single document, assigning it a new id.
func (c *Collection) InsertOne(ctx context.Context, body []byte) (Record, error) {
	db, err := c.db.store.conn()
	if err != nil {
		return Record{}, err
	}

	canon, err := c.prepare(body)
	if err != nil {
		return Record{}, fmt.Errorf("insert one: %w", err)
	}

	rec, err := c.insert(ctx, db, canon)
	if err != nil {
		return Record{}, fmt.Errorf("insert one: %w", err)
	}
	return rec, nil
}

// InsertMany inserts a batch in one transaction. Every body is validated
// before anything is written; a single invalid body rejects the whole batch.
// Records are returned in input order.
func (c *Collection) InsertMany(ctx context.Context, bodies [][]byte) ([]Record, error) {
	db, err := c.db.store.conn()
	if err != nil {
		return nil, err
	}

	canon := make([]string, len(bodies))
	for i, body := range bodies {
		canon[i], err = c.prepare(body)
		if err != nil {
			return nil, fmt.Errorf("insert many: document %d: %w", i, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("insert many: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	records := make([]Record, 0, len(canon))
	for i, body := range canon {
		rec, err := c.insert(ctx, tx, body)
		if err != nil {
			return nil, fmt.Errorf("insert many: document %d: %w", i, err)
		}
		records = append(records, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("insert many: commit: %w", err)
	}
	return records, nil
}

// Replace overwrites the full body of the document with the given id
// (the save half of load-modify-save). Returns a NotFoundError when the id no
// longer resolves.
func (c *Collection) Replace(ctx context.Context, id string, body []byte) (Record, error) {
	db, err := c.db.store.conn()
	if err != nil {
		return Record{}, err
	}

	canon, err := c.prepare(body)
	if err != nil {
		return Record{}, fmt.Errorf("replace %s: %w", id, err)
	}

	res, err := db.ExecContext(ctx, `
		UPDATE documents SET body = ?
		WHERE db = ? AND collection = ? AND id = ?
	`, canon, c.db.name, c.name, id)
	if err != nil {
		return Record{}, fmt.Errorf("replace %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Record{}, fmt.Errorf("replace %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return Record{}, c.notFound(id)
	}

	return c.findByID(ctx, db, id)
}

// FindOneAndUpdate atomically locates the first document matching filter (in
// insertion order), applies the update and returns the pre- or post-image.
// The post-image is validated; a rejected update leaves the document
// unchanged.
func (c *Collection) FindOneAndUpdate(
	ctx context.Context,
	filter queryir.Predicate,
	update queryir.Update,
	ret queryir.ReturnDocument,
) (Record, error) {
	db, err := c.db.store.conn()
	if err != nil {
		return Record{}, err
	}

	if err := queryir.ValidateUpdate(update); err != nil {
		return Record{}, fmt.Errorf("find one and update: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("find one and update: begin tx: %w", err)
	}
	defer tx.Rollback()

	before, err := c.findOne(ctx, tx, queryir.Find{Filter: filter})
	if err != nil {
		return Record{}, err
	}

	updateSQL, updateParams, err := c.compiler.CompileUpdate(before.ID, update)
	if err != nil {
		return Record{}, fmt.Errorf("find one and update: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateSQL, updateParams...); err != nil {
		return Record{}, fmt.Errorf("find one and update: %w", err)
	}

	after, err := c.findByID(ctx, tx, before.ID)
	if err != nil {
		return Record{}, err
	}
	if err := c.validate(after.Body); err != nil {
		return Record{}, fmt.Errorf("find one and update %s: %w", before.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("find one and update: commit: %w", err)
	}

	if ret == queryir.ReturnAfter {
		return after, nil
	}
	return before, nil
}

// FindByIDAndDelete deletes the document with the given id and returns it
// as it was immediately before deletion.
func (c *Collection) FindByIDAndDelete(ctx context.Context, id string) (Record, error) {
	db, err := c.db.store.conn()
	if err != nil {
		return Record{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("find by id and delete: begin tx: %w", err)
	}
	defer tx.Rollback()

	before, err := c.findByID(ctx, tx, id)
	if err != nil {
		return Record{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE seq = ?`, before.Seq); err != nil {
		return Record{}, fmt.Errorf("find by id and delete %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("find by id and delete: commit: %w", err)
	}
	return before, nil
}

// DeleteMany deletes every document matching filter and returns the count.
// A nil filter empties the collection.
func (c *Collection) DeleteMany(ctx context.Context, filter queryir.Predicate) (int64, error) {
	db, err := c.db.store.conn()
	if err != nil {
		return 0, err
	}

	query, params, err := c.compiler.CompileDelete(filter)
	if err != nil {
		return 0, fmt.Errorf("delete many: %w", err)
	}

	res, err := db.ExecContext(ctx, query, params...)
	if err != nil {
		return 0, fmt.Errorf("delete many: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete many: rows affected: %w", err)
	}
	return n, nil
}

// Drop removes every document in the collection.
func (c *Collection) Drop(ctx context.Context) (int64, error) {
	return c.DeleteMany(ctx, nil)
}

// insert writes one canonical body under a fresh id.
func (c *Collection) insert(ctx context.Context, q querier, body string) (Record, error) {
	id := c.ids.Generate()

	res, err := q.ExecContext(ctx, `
		INSERT INTO documents (id, db, collection, body)
		VALUES (?, ?, ?, ?)
	`, id, c.db.name, c.name, body)
	if err != nil {
		return Record{}, err
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("last insert id: %w", err)
	}
	return Record{ID: id, Seq: seq, Body: []byte(body)}, nil
}

// prepare canonicalizes and validates a body.
func (c *Collection) prepare(body []byte) (string, error) {
	canon, err := canonicalBody(body)
	if err != nil {
		return "", err
	}
	if err := c.validate([]byte(canon)); err != nil {
		return "", err
	}
	return canon, nil
}

func (c *Collection) validate(body []byte) error {
	if c.validator == nil {
		return nil
	}
	if err := c.validator.Validate(body); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return err
		}
		return &ValidationError{Collection: c.name, Err: err}
	}
	return nil
}

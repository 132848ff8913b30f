package person

import (
	"context"
	"fmt"

	"github.com/roach88/mangoose/internal/queryir"
	"github.com/roach88/mangoose/internal/schema"
	"github.com/roach88/mangoose/internal/store"
)

// Repository reads and writes Person documents. Every write is checked
// against the #Person schema.
type Repository struct {
	coll *store.Collection
}

// NewRepository opens the people collection of db with schema validation.
// Extra options (e.g. an id generator) are applied after the validator.
func NewRepository(db *store.Database, opts ...store.CollectionOption) (*Repository, error) {
	v, err := schema.NewPersonValidator()
	if err != nil {
		return nil, fmt.Errorf("person repository: %w", err)
	}
	opts = append([]store.CollectionOption{store.WithValidator(v)}, opts...)
	return &Repository{coll: db.Collection(Collection, opts...)}, nil
}

// Create persists a new person and returns it with its assigned id.
func (r *Repository) Create(ctx context.Context, p Person) (Person, error) {
	body, err := encode(p)
	if err != nil {
		return Person{}, err
	}
	rec, err := r.coll.InsertOne(ctx, body)
	if err != nil {
		return Person{}, err
	}
	return decode(rec)
}

// CreateMany persists a batch in one operation. Nothing is written if any
// person is invalid.
func (r *Repository) CreateMany(ctx context.Context, people []Person) ([]Person, error) {
	bodies := make([][]byte, len(people))
	for i, p := range people {
		body, err := encode(p)
		if err != nil {
			return nil, err
		}
		bodies[i] = body
	}

	recs, err := r.coll.InsertMany(ctx, bodies)
	if err != nil {
		return nil, err
	}
	return decodeAll(recs)
}

// Find returns every person matching q.
func (r *Repository) Find(ctx context.Context, q queryir.Find) ([]Person, error) {
	recs, err := r.coll.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeAll(recs)
}

// FindOne returns the first person matching filter in insertion order.
func (r *Repository) FindOne(ctx context.Context, filter queryir.Predicate) (Person, error) {
	rec, err := r.coll.FindOne(ctx, queryir.Where(filter))
	if err != nil {
		return Person{}, err
	}
	return decode(rec)
}

// FindByID returns the person with id, or an error matching store.ErrNotFound.
func (r *Repository) FindByID(ctx context.Context, id string) (Person, error) {
	rec, err := r.coll.FindByID(ctx, id)
	if err != nil {
		return Person{}, err
	}
	return decode(rec)
}

// Save writes p back over the stored document with p.ID.
func (r *Repository) Save(ctx context.Context, p Person) (Person, error) {
	if p.ID == "" {
		return Person{}, fmt.Errorf("save person: missing id")
	}
	body, err := encode(p)
	if err != nil {
		return Person{}, err
	}
	rec, err := r.coll.Replace(ctx, p.ID, body)
	if err != nil {
		return Person{}, err
	}
	return decode(rec)
}

// FindOneAndUpdate atomically updates the first match and returns the
// requested image.
func (r *Repository) FindOneAndUpdate(ctx context.Context, filter queryir.Predicate, update queryir.Update, ret queryir.ReturnDocument) (Person, error) {
	rec, err := r.coll.FindOneAndUpdate(ctx, filter, update, ret)
	if err != nil {
		return Person{}, err
	}
	return decode(rec)
}

// FindByIDAndDelete removes the person with id and returns it as it was.
func (r *Repository) FindByIDAndDelete(ctx context.Context, id string) (Person, error) {
	rec, err := r.coll.FindByIDAndDelete(ctx, id)
	if err != nil {
		return Person{}, err
	}
	return decode(rec)
}

// DeleteMany removes every match and returns the count.
func (r *Repository) DeleteMany(ctx context.Context, filter queryir.Predicate) (int64, error) {
	return r.coll.DeleteMany(ctx, filter)
}

// Count returns the number of matches (nil = all).
func (r *Repository) Count(ctx context.Context, filter queryir.Predicate) (int64, error) {
	return r.coll.Count(ctx, filter)
}

// Drop removes every person.
func (r *Repository) Drop(ctx context.Context) (int64, error) {
	return r.coll.Drop(ctx)
}

func decodeAll(recs []store.Record) ([]Person, error) {
	people := make([]Person, 0, len(recs))
	for _, rec := range recs {
		p, err := decode(rec)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, nil
}

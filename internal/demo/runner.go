package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/mangoose/internal/person"
	"github.com/roach88/mangoose/internal/queryir"
	"github.com/roach88/mangoose/internal/store"
)

// Step titles, as reported.
const (
	TitleSaved        = "Person saved"
	TitleCreatedMany  = "Multiple people added"
	TitleNamedMary    = "People named Mary"
	TitleLikesBurrito = "Person who likes burritos"
	TitleFoundByID    = "Found by ID"
	TitleUpdated      = "Updated person"
	TitleAgeUpdated   = "Age updated"
	TitleDeleted      = "Deleted person"
	TitleDeleteResult = "Delete result"
	TitleChained      = "Chained query result"
)

// Values the sequence queries and writes.
const (
	QueryName   = "Mary"
	QueryFood   = "burritos"
	AddedFood   = "hamburger"
	UpdatedName = "Ali"
	UpdatedAge  = 20
	ChainLimit  = 2
)

// Reporter receives each step's result as soon as the step completes.
type Reporter interface {
	Report(title string, result any) error
}

// DeleteResult is the result of the bulk delete step.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// Outcome holds every step's result. Fields of steps that did not run are
// zero. BurritoFan and AgeUpdated are nil when nothing matched.
type Outcome struct {
	Saved        person.Person
	Created      []person.Person
	NamedMary    []person.Person
	BurritoFan   *person.Person
	FoundByID    person.Person
	Updated      person.Person
	AgeUpdated   *person.Person
	Deleted      person.Person
	DeleteResult DeleteResult
	Chained      []person.Person
}

// Runner executes the sequence against one repository.
type Runner struct {
	people *person.Repository
	report Reporter
	log    *slog.Logger
}

// New creates a Runner. A nil logger falls back to slog.Default().
func New(people *person.Repository, report Reporter, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{people: people, report: report, log: log}
}

type step struct {
	title string
	run   func(ctx context.Context, out *Outcome) (any, error)
}

// Run executes all ten steps and returns their results. On failure the
// partial Outcome is returned with the error.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{}

	for i, s := range r.steps() {
		n := i + 1
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("step %d (%s): %w", n, s.title, err)
		}

		r.log.Debug("step starting", "step", n, "title", s.title)
		result, err := s.run(ctx, out)
		if err != nil {
			return out, fmt.Errorf("step %d (%s): %w", n, s.title, err)
		}
		r.log.Info("step completed", append([]any{"step", n, "title", s.title}, summarize(result)...)...)

		if err := r.report.Report(s.title, result); err != nil {
			return out, fmt.Errorf("report step %d: %w", n, err)
		}
	}

	return out, nil
}

func (r *Runner) steps() []step {
	return []step{
		{TitleSaved, r.insertOne},
		{TitleCreatedMany, r.insertMany},
		{TitleNamedMary, r.findByName},
		{TitleLikesBurrito, r.findOneByFood},
		{TitleFoundByID, r.findByID},
		{TitleUpdated, r.loadModifySave},
		{TitleAgeUpdated, r.updateAge},
		{TitleDeleted, r.deleteByID},
		{TitleDeleteResult, r.deleteByName},
		{TitleChained, r.chainedQuery},
	}
}

func (r *Runner) insertOne(ctx context.Context, out *Outcome) (any, error) {
	saved, err := r.people.Create(ctx, person.New("John Doe", 25, "pizza", "pasta"))
	if err != nil {
		return nil, err
	}
	out.Saved = saved
	return saved, nil
}

func (r *Runner) insertMany(ctx context.Context, out *Outcome) (any, error) {
	batch, err := person.SeedBatch()
	if err != nil {
		return nil, err
	}
	created, err := r.people.CreateMany(ctx, batch)
	if err != nil {
		return nil, err
	}
	out.Created = created
	return created, nil
}

func (r *Runner) findByName(ctx context.Context, out *Outcome) (any, error) {
	found, err := r.people.Find(ctx, queryir.Where(person.NameIs(QueryName)))
	if err != nil {
		return nil, err
	}
	out.NamedMary = found
	return found, nil
}

func (r *Runner) findOneByFood(ctx context.Context, out *Outcome) (any, error) {
	fan, err := r.people.FindOne(ctx, person.Likes(QueryFood))
	if errors.Is(err, store.ErrNotFound) {
		return (*person.Person)(nil), nil
	}
	if err != nil {
		return nil, err
	}
	out.BurritoFan = &fan
	return fan, nil
}

func (r *Runner) findByID(ctx context.Context, out *Outcome) (any, error) {
	r.log.Info("using person id", "id", out.Saved.ID)
	found, err := r.people.FindByID(ctx, out.Saved.ID)
	if err != nil {
		return nil, err
	}
	out.FoundByID = found
	return found, nil
}

func (r *Runner) loadModifySave(ctx context.Context, out *Outcome) (any, error) {
	p, err := r.people.FindByID(ctx, out.Saved.ID)
	if err != nil {
		return nil, fmt.Errorf("person not found for id %s: %w", out.Saved.ID, err)
	}
	p.AddFood(AddedFood)

	updated, err := r.people.Save(ctx, p)
	if err != nil {
		return nil, err
	}
	out.Updated = updated
	return updated, nil
}

func (r *Runner) updateAge(ctx context.Context, out *Outcome) (any, error) {
	updated, err := r.people.FindOneAndUpdate(ctx,
		person.NameIs(UpdatedName),
		queryir.Set(person.FieldAge, UpdatedAge),
		queryir.ReturnAfter)
	if errors.Is(err, store.ErrNotFound) {
		return (*person.Person)(nil), nil
	}
	if err != nil {
		return nil, err
	}
	out.AgeUpdated = &updated
	return updated, nil
}

func (r *Runner) deleteByID(ctx context.Context, out *Outcome) (any, error) {
	deleted, err := r.people.FindByIDAndDelete(ctx, out.Saved.ID)
	if err != nil {
		return nil, err
	}
	out.Deleted = deleted
	return deleted, nil
}

func (r *Runner) deleteByName(ctx context.Context, out *Outcome) (any, error) {
	n, err := r.people.DeleteMany(ctx, person.NameIs(QueryName))
	if err != nil {
		return nil, err
	}
	out.DeleteResult = DeleteResult{DeletedCount: n}
	return out.DeleteResult, nil
}

func (r *Runner) chainedQuery(ctx context.Context, out *Outcome) (any, error) {
	found, err := r.people.Find(ctx, ChainedQuery())
	if err != nil {
		return nil, err
	}
	out.Chained = found
	return found, nil
}

// ChainedQuery is step 10's query: burrito lovers by name, first two,
// without age.
func ChainedQuery() queryir.Find {
	return queryir.Find{
		Filter:  person.Likes(QueryFood),
		Sort:    []queryir.SortKey{{Field: person.FieldName}},
		Limit:   ChainLimit,
		Exclude: []string{person.FieldAge},
	}
}

// summarize returns log attributes for a step result.
func summarize(result any) []any {
	switch v := result.(type) {
	case person.Person:
		return []any{"id", v.ID}
	case []person.Person:
		return []any{"count", len(v)}
	case DeleteResult:
		return []any{"deleted", v.DeletedCount}
	case *person.Person:
		return []any{"matched", v != nil}
	default:
		return nil
	}
}

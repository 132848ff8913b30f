// Package schema validates documents against CUE definitions before they
// are written.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed person.cue
var personCUE string

// PersonDefinition is the CUE definition used for person documents.
const PersonDefinition = "#Person"

// ErrSchema wraps every document rejection.
var ErrSchema = errors.New("schema violation")

// Validator checks JSON documents against one CUE definition.
//
// Thread-safety: Validate serializes access to the CUE runtime.
type Validator struct {
	mu   sync.Mutex
	ctx  *cue.Context
	def  cue.Value
	name string
}

// NewPersonValidator returns a Validator for #Person.
func NewPersonValidator() (*Validator, error) {
	return New("person.cue", personCUE, PersonDefinition)
}

// New compiles src and selects the named definition.
func New(filename, src, definition string) (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(src, cue.Filename(filename))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile %s: %w", filename, err)
	}

	def := schema.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return nil, fmt.Errorf("compile %s: definition %s not found", filename, definition)
	}

	return &Validator{ctx: ctx, def: def, name: definition}, nil
}

// Validate unifies a JSON document with the definition and requires the
// result to be concrete. The returned error lists every violation.
func (v *Validator) Validate(body []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	expr, err := cuejson.Extract("document.json", body)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchema, v.name, err)
	}

	doc := v.ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchema, v.name, err)
	}

	unified := v.def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrSchema, describe(err))
	}
	return nil
}

// describe flattens a CUE error list into one line, one clause per error.
func describe(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path := strings.Join(e.Path(), "."); path != "" {
			msg = path + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

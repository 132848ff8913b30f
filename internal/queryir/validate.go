package queryir

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidQuery is the sentinel wrapped by every validation failure.
var ErrInvalidQuery = errors.New("invalid query")

var fieldPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidField reports whether name can be used as a document field in a query.
// "_id" is accepted; callers decide where it is allowed.
func ValidField(name string) bool {
	return name == IDField || fieldPattern.MatchString(name)
}

// ValidateFind checks a Find for unsupported fields, values and limits.
//
// ValidateFind is a pure function with no side effects.
func ValidateFind(q Find) error {
	if err := ValidatePredicate(q.Filter); err != nil {
		return err
	}
	for _, key := range q.Sort {
		if !ValidField(key.Field) {
			return invalid("sort field %q", key.Field)
		}
	}
	if q.Limit < 0 {
		return invalid("negative limit %d", q.Limit)
	}
	for _, field := range q.Exclude {
		if field == IDField {
			return invalid("%s cannot be excluded", IDField)
		}
		if !ValidField(field) {
			return invalid("exclude field %q", field)
		}
	}
	return nil
}

// ValidatePredicate recursively validates a predicate. A nil predicate is
// valid and matches everything.
func ValidatePredicate(p Predicate) error {
	if p == nil {
		return nil
	}

	switch pred := p.(type) {
	case Equals:
		return validateComparison(pred.Field, pred.Value)
	case *Equals:
		return validateComparison(pred.Field, pred.Value)
	case Contains:
		if pred.Field == IDField {
			return invalid("%s is not an array", IDField)
		}
		return validateComparison(pred.Field, pred.Value)
	case *Contains:
		return ValidatePredicate(*pred)
	case And:
		for _, sub := range pred.Predicates {
			if err := ValidatePredicate(sub); err != nil {
				return err
			}
		}
		return nil
	case *And:
		return ValidatePredicate(*pred)
	default:
		return invalid("unsupported predicate type %T", p)
	}
}

// ValidateUpdate checks that an update assigns at least one field and that
// every assignment is storable.
func ValidateUpdate(u Update) error {
	if len(u.Set) == 0 {
		return invalid("update has no assignments")
	}
	for _, a := range u.Set {
		if a.Field == IDField {
			return invalid("%s cannot be assigned", IDField)
		}
		if !ValidField(a.Field) {
			return invalid("update field %q", a.Field)
		}
		if _, ok := a.Value.([]string); ok {
			continue
		}
		if !IsScalar(a.Value) {
			return invalid("update value for %q has unsupported type %T", a.Field, a.Value)
		}
	}
	return nil
}

// IsScalar reports whether v is a supported scalar value.
func IsScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func validateComparison(field string, value any) error {
	if !ValidField(field) {
		return invalid("filter field %q", field)
	}
	if !IsScalar(value) {
		return invalid("filter value for %q has unsupported type %T", field, value)
	}
	if field == IDField {
		if _, ok := value.(string); !ok {
			return invalid("%s must be compared to a string, got %T", IDField, value)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

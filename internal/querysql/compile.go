package querysql

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/mangoose/internal/queryir"
)

// Table is the single table holding every document of every logical
// database.
const Table = "documents"

// Namespace identifies one collection inside one logical database.
type Namespace struct {
	Database   string
	Collection string
}

// Compiler compiles QueryIR to parameterized SQL for SQLite.
//
// CRITICAL: every SELECT ends with "seq ASC" so results are deterministic.
// CRITICAL: all values are parameterized, never interpolated. Field names are
// validated identifiers and are inlined as JSON paths.
type Compiler struct {
	ns Namespace
}

// NewCompiler creates a Compiler scoped to a namespace.
func NewCompiler(ns Namespace) *Compiler {
	return &Compiler{ns: ns}
}

// CompileFind converts a Find to a SELECT returning (id, seq, body).
// Excluded fields are removed from body with json_remove.
func (c *Compiler) CompileFind(q queryir.Find) (string, []any, error) {
	if err := queryir.ValidateFind(q); err != nil {
		return "", nil, err
	}

	where, params, err := c.compileWhere(q.Filter)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT id, seq, ")
	sb.WriteString(projection(q.Exclude))
	sb.WriteString(" FROM ")
	sb.WriteString(Table)
	sb.WriteString(" WHERE ")
	sb.WriteString(where)
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy(q.Sort))

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		params = append(params, int64(q.Limit))
	}

	return sb.String(), params, nil
}

// CompileCount converts a filter to a SELECT COUNT(*).
func (c *Compiler) CompileCount(filter queryir.Predicate) (string, []any, error) {
	if err := queryir.ValidatePredicate(filter); err != nil {
		return "", nil, err
	}
	where, params, err := c.compileWhere(filter)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM " + Table + " WHERE " + where, params, nil
}

// CompileDelete converts a filter to a DELETE over the namespace.
func (c *Compiler) CompileDelete(filter queryir.Predicate) (string, []any, error) {
	if err := queryir.ValidatePredicate(filter); err != nil {
		return "", nil, err
	}
	where, params, err := c.compileWhere(filter)
	if err != nil {
		return "", nil, err
	}
	return "DELETE FROM " + Table + " WHERE " + where, params, nil
}

// CompileUpdate converts an Update to a json_set UPDATE of the document with
// the given id.
func (c *Compiler) CompileUpdate(id string, u queryir.Update) (string, []any, error) {
	if err := queryir.ValidateUpdate(u); err != nil {
		return "", nil, err
	}

	var (
		args   []string
		params []any
	)
	for _, a := range u.Set {
		expr, param, err := setValue(a.Value)
		if err != nil {
			return "", nil, fmt.Errorf("compile update %q: %w", a.Field, err)
		}
		args = append(args, jsonPath(a.Field), expr)
		params = append(params, param)
	}

	sql := fmt.Sprintf("UPDATE %s SET body = json_set(body, %s) WHERE db = ? AND collection = ? AND id = ?",
		Table, strings.Join(args, ", "))
	params = append(params, c.ns.Database, c.ns.Collection, id)

	return sql, params, nil
}

// compileWhere scopes a predicate to the namespace.
func (c *Compiler) compileWhere(filter queryir.Predicate) (string, []any, error) {
	params := []any{c.ns.Database, c.ns.Collection}
	where := "db = ? AND collection = ?"

	if filter == nil {
		return where, params, nil
	}

	filterSQL, filterParams, err := compilePredicate(filter)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}
	return where + " AND " + filterSQL, append(params, filterParams...), nil
}

// compilePredicate compiles a queryir.Predicate to a WHERE fragment.
func compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.Equals:
		return compileEquals(pred)
	case *queryir.Equals:
		return compileEquals(*pred)
	case queryir.Contains:
		return compileContains(pred)
	case *queryir.Contains:
		return compileContains(*pred)
	case queryir.And:
		return compileAnd(pred)
	case *queryir.And:
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileEquals compiles an Equals predicate to "<field> = ?".
func compileEquals(eq queryir.Equals) (string, []any, error) {
	param, err := scalarParam(eq.Value)
	if err != nil {
		return "", nil, err
	}
	return fieldExpr(eq.Field) + " = ?", []any{param}, nil
}

// compileContains compiles array membership through json_each. A scalar
// field is treated as a one-element array, matching document-store semantics.
func compileContains(c queryir.Contains) (string, []any, error) {
	param, err := scalarParam(c.Value)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(body, %s) WHERE json_each.value = ?)", jsonPath(c.Field))
	return sql, []any{param}, nil
}

// compileAnd compiles a conjunction.
func compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // Vacuous truth
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, p, err := compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		params = append(params, p...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// orderBy builds the ORDER BY list. "seq ASC" is always last.
func orderBy(keys []queryir.SortKey) string {
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		dir := "ASC"
		if k.Descending {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s COLLATE BINARY %s", fieldExpr(k.Field), dir))
	}
	parts = append(parts, "seq ASC")
	return strings.Join(parts, ", ")
}

// projection returns the body column expression with excluded fields removed.
func projection(exclude []string) string {
	if len(exclude) == 0 {
		return "body"
	}
	paths := make([]string, len(exclude))
	for i, field := range exclude {
		paths[i] = jsonPath(field)
	}
	return "json_remove(body, " + strings.Join(paths, ", ") + ")"
}

// fieldExpr maps a document field to its SQL expression.
func fieldExpr(field string) string {
	if field == queryir.IDField {
		return "id"
	}
	return "json_extract(body, " + jsonPath(field) + ")"
}

// jsonPath returns the quoted JSON path literal for a validated field name.
func jsonPath(field string) string {
	return "'$." + field + "'"
}

// scalarParam converts a filter value to a SQL parameter. Strings are NFC
// normalized to match stored documents; booleans become 0/1 as json_extract
// reports them.
func scalarParam(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return norm.NFC.String(val), nil
	case bool:
		if val {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		if !queryir.IsScalar(v) {
			return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
		}
		return v, nil
	}
}

// setValue returns the json_set value expression and its parameter.
// Booleans and arrays go through json() so they are stored as JSON, not as
// SQL integers or text.
func setValue(v any) (string, any, error) {
	switch val := v.(type) {
	case string:
		return "?", norm.NFC.String(val), nil
	case bool:
		if val {
			return "json(?)", "true", nil
		}
		return "json(?)", "false", nil
	case []string:
		normalized := make([]string, len(val))
		for i, s := range val {
			normalized[i] = norm.NFC.String(s)
		}
		data, err := json.Marshal(normalized)
		if err != nil {
			return "", nil, err
		}
		return "json(?)", string(data), nil
	default:
		if !queryir.IsScalar(v) {
			return "", nil, fmt.Errorf("unsupported value type: %T", v)
		}
		return "?", v, nil
	}
}

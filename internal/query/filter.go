package query

import (
	"reflect"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// Operator names a filter comparison.
type Operator string

// Filter operators.
const (
	OpEq    Operator = "eq"
	OpNeq   Operator = "neq"
	OpGt    Operator = "gt"
	OpGte   Operator = "gte"
	OpLt    Operator = "lt"
	OpLte   Operator = "lte"
	OpIn    Operator = "in"
	OpIs    Operator = "is"
	OpLike  Operator = "like"
	OpILike Operator = "ilike"
	OpOr    Operator = "or"
)

// Predicate is one registered filter. A row survives a query only when every
// registered predicate matches it.
type Predicate interface {
	Match(row types.Row) bool
}

// condition is a single column/operator/value test.
type condition struct {
	column  string
	op      Operator
	value   any
	pattern *regexp.Regexp // like/ilike only
	set     []any          // in only
}

func newCondition(column string, op Operator, value any) *condition {
	c := &condition{column: column, op: op, value: value}
	switch op {
	case OpLike, OpILike:
		s, _ := canonicalString(value)
		c.pattern = likePattern(s, op == OpILike)
	case OpIn:
		c.set = toSet(value)
	}
	return c
}

// Match evaluates the condition against row. A missing column reads as nil.
func (c *condition) Match(row types.Row) bool {
	v := row[c.column]
	switch c.op {
	case OpEq:
		return equal(v, c.value)
	case OpNeq:
		return !equal(v, c.value)
	case OpGt:
		cmp, ok := compare(v, c.value)
		return ok && cmp > 0
	case OpGte:
		cmp, ok := compare(v, c.value)
		return ok && cmp >= 0
	case OpLt:
		cmp, ok := compare(v, c.value)
		return ok && cmp < 0
	case OpLte:
		cmp, ok := compare(v, c.value)
		return ok && cmp <= 0
	case OpIn:
		for _, candidate := range c.set {
			if equal(v, candidate) {
				return true
			}
		}
		return false
	case OpIs:
		return matchIs(v, c.value)
	case OpLike, OpILike:
		s, ok := canonicalString(v)
		return ok && c.pattern.MatchString(s)
	default:
		return false
	}
}

// matchIs implements identity tests: nil matches nil or a missing column,
// booleans match only the identical boolean.
func matchIs(v, want any) bool {
	nv, nw := normalize(v), normalize(want)
	switch w := nw.(type) {
	case nil:
		return nv == nil
	case bool:
		b, ok := nv.(bool)
		return ok && b == w
	default:
		return reflect.DeepEqual(nv, nw)
	}
}

// likePattern compiles a LIKE pattern where % matches any run of characters.
// Every other character is literal and the whole value must match.
func likePattern(pattern string, fold bool) *regexp.Regexp {
	parts := strings.Split(norm.NFC.String(pattern), "%")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	expr := "^" + strings.Join(parts, ".*") + "$"
	if fold {
		expr = "(?is)" + expr
	} else {
		expr = "(?s)" + expr
	}
	return regexp.MustCompile(expr)
}

// toSet flattens an In argument into candidates. A non-slice argument is a
// single candidate.
func toSet(value any) []any {
	if value == nil {
		return []any{nil}
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{value}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// orPredicate is a disjunction parsed from "col.op.value,col.op.value".
type orPredicate struct {
	terms []orTerm
}

// orTerm is one sub-condition of an Or filter. Only eq, like and ilike are
// supported; any other operator never matches.
type orTerm struct {
	column  string
	op      Operator
	literal string
	pattern *regexp.Regexp
}

// parseOr splits expr on commas, then each condition on its first two dots,
// so values may themselves contain dots. Values may not contain commas.
func parseOr(expr string) *orPredicate {
	p := &orPredicate{}
	for _, raw := range strings.Split(expr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		pieces := strings.SplitN(raw, ".", 3)
		if len(pieces) != 3 {
			p.terms = append(p.terms, orTerm{})
			continue
		}
		t := orTerm{column: pieces[0], op: Operator(pieces[1]), literal: pieces[2]}
		switch t.op {
		case OpLike, OpILike:
			t.pattern = likePattern(t.literal, t.op == OpILike)
		case OpEq:
		default:
			t.op = ""
		}
		p.terms = append(p.terms, t)
	}
	return p
}

// Match reports whether any term matches. An empty Or matches nothing.
func (p *orPredicate) Match(row types.Row) bool {
	for _, t := range p.terms {
		if t.match(row) {
			return true
		}
	}
	return false
}

func (t orTerm) match(row types.Row) bool {
	if t.op == "" {
		return false
	}
	s, ok := canonicalString(row[t.column])
	if !ok {
		return t.op == OpEq && t.literal == "null"
	}
	switch t.op {
	case OpEq:
		return s == t.literal
	case OpLike, OpILike:
		return t.pattern.MatchString(s)
	}
	return false
}

// matchAll reports whether row satisfies every predicate.
func matchAll(row types.Row, preds []Predicate) bool {
	for _, p := range preds {
		if !p.Match(row) {
			return false
		}
	}
	return true
}
